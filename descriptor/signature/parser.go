package signature

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
)

// Parse parses type signature text
func Parse(text string) (*Signature, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("signature was empty")
	}
	cursor := parsly.NewCursor("", []byte(text), 0)
	ret, err := parseType(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", text, err)
	}
	if err = expectEnd(cursor); err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", text, err)
	}
	return ret, nil
}

// ParseMethod parses method declaration text, i.e. com.example.UserService.find(List<Row> rows, int limit)
func ParseMethod(text string) (*Method, error) {
	text = strings.TrimSpace(text)
	cursor := parsly.NewCursor("", []byte(text), 0)
	matched := cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
	if matched.Code != identifierToken {
		return nil, fmt.Errorf("invalid method %q: %w", text, cursor.NewError(identifierMatcher))
	}
	qualified := matched.Text(cursor)
	if err := validateName(qualified); err != nil {
		return nil, fmt.Errorf("invalid method %q: %w", text, err)
	}
	block := cursor.MatchAfterOptional(whitespaceMatcher, parenthesesBlockMatcher)
	if block.Code != parenthesesBlockToken {
		return nil, fmt.Errorf("invalid method %q: %w", text, cursor.NewError(parenthesesBlockMatcher))
	}
	if err := expectEnd(cursor); err != nil {
		return nil, fmt.Errorf("invalid method %q: %w", text, err)
	}
	ret := &Method{Name: qualified}
	if idx := strings.LastIndex(qualified, "."); idx != -1 {
		ret.Owner = qualified[:idx]
		ret.Name = qualified[idx+1:]
	}
	argsText := block.Text(cursor)
	inner := strings.TrimSpace(argsText[1 : len(argsText)-1])
	if inner == "" {
		return ret, nil
	}
	for _, arg := range splitArgs(inner) {
		param, name, err := parseParameter(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid method %q: %w", text, err)
		}
		ret.Params = append(ret.Params, param)
		ret.ParamNames = append(ret.ParamNames, name)
	}
	return ret, nil
}

func parseParameter(text string) (*Signature, string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimPrefix(text, "final "))
	if text == "" {
		return nil, "", fmt.Errorf("parameter was empty")
	}
	cursor := parsly.NewCursor("", []byte(text), 0)
	param, err := parseType(cursor)
	if err != nil {
		return nil, "", err
	}
	name := ""
	pos := cursor.Pos
	matched := cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
	if matched.Code == identifierToken {
		name = matched.Text(cursor)
	} else {
		cursor.Pos = pos
	}
	if err = expectEnd(cursor); err != nil {
		return nil, "", err
	}
	return param, name, nil
}

func parseType(cursor *parsly.Cursor) (*Signature, error) {
	matched := cursor.MatchAfterOptional(whitespaceMatcher, wildcardMatcher, identifierMatcher)
	var ret *Signature
	switch matched.Code {
	case wildcardToken:
		ret = &Signature{Name: "?", Wildcard: true}
		pos := cursor.Pos
		bound := cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
		if bound.Code == identifierToken {
			switch bound.Text(cursor) {
			case "extends", "super":
				ret.Super = bound.Text(cursor) == "super"
				var err error
				if ret.Bound, err = parseType(cursor); err != nil {
					return nil, err
				}
				return ret, nil
			}
		}
		cursor.Pos = pos
		return ret, nil
	case identifierToken:
		name := matched.Text(cursor)
		if err := validateName(name); err != nil {
			return nil, err
		}
		ret = &Signature{Name: name}
	default:
		return nil, cursor.NewError(identifierMatcher, wildcardMatcher)
	}

	pos := cursor.Pos
	block := cursor.MatchAfterOptional(whitespaceMatcher, genericBlockMatcher)
	if block.Code == genericBlockToken {
		blockText := block.Text(cursor)
		inner := strings.TrimSpace(blockText[1 : len(blockText)-1])
		if inner == "" {
			return nil, fmt.Errorf("empty type arguments for %v", ret.Name)
		}
		for _, arg := range splitArgs(inner) {
			argSignature, err := Parse(arg)
			if err != nil {
				return nil, err
			}
			ret.Args = append(ret.Args, argSignature)
		}
	} else {
		cursor.Pos = pos
	}

	for {
		pos = cursor.Pos
		suffix := cursor.MatchAfterOptional(whitespaceMatcher, arraySuffixMatcher, varargsMatcher)
		switch suffix.Code {
		case arraySuffixToken:
			ret.Dims++
			continue
		case varargsToken:
			ret.Dims++
		default:
			cursor.Pos = pos
		}
		break
	}
	return ret, nil
}

func expectEnd(cursor *parsly.Cursor) error {
	if cursor.Pos >= cursor.InputSize {
		return nil
	}
	rest := strings.TrimSpace(string(cursor.Input[cursor.Pos:]))
	if rest == "" {
		return nil
	}
	return fmt.Errorf("unexpected %q at %d", rest, cursor.Pos)
}

func validateName(name string) error {
	for _, segment := range strings.Split(name, ".") {
		if segment == "" {
			return fmt.Errorf("invalid type name: %q", name)
		}
	}
	return nil
}

// splitArgs splits text by top level commas
func splitArgs(text string) []string {
	var result []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<', '(':
			depth++
		case '>', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				result = append(result, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	result = append(result, strings.TrimSpace(text[start:]))
	return result
}
