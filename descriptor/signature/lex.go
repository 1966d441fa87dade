package signature

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken = iota
	identifierToken
	genericBlockToken
	parenthesesBlockToken
	arraySuffixToken
	varargsToken
	wildcardToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var identifierMatcher = parsly.NewToken(identifierToken, "Identifier", &identifierMatch{})
var genericBlockMatcher = parsly.NewToken(genericBlockToken, "<...>", &nestedBlockMatch{begin: '<', end: '>'})
var parenthesesBlockMatcher = parsly.NewToken(parenthesesBlockToken, "(...)", &nestedBlockMatch{begin: '(', end: ')'})
var arraySuffixMatcher = parsly.NewToken(arraySuffixToken, "[]", matcher.NewFragment("[]"))
var varargsMatcher = parsly.NewToken(varargsToken, "...", matcher.NewFragment("..."))
var wildcardMatcher = parsly.NewToken(wildcardToken, "?", matcher.NewByte('?'))

type identifierMatch struct{}

func (i *identifierMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	if !isIdentifierStart(cursor.Input[cursor.Pos]) {
		return 0
	}
	pos := cursor.Pos + 1
	for pos < cursor.InputSize && isIdentifierPart(cursor.Input[pos]) {
		if cursor.Input[pos] == '.' && pos+1 < cursor.InputSize && cursor.Input[pos+1] == '.' {
			break //varargs
		}
		pos++
	}
	return pos - cursor.Pos
}

type nestedBlockMatch struct {
	begin byte
	end   byte
}

func (m *nestedBlockMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize || cursor.Input[cursor.Pos] != m.begin {
		return 0
	}
	depth := 0
	for pos := cursor.Pos; pos < cursor.InputSize; pos++ {
		switch cursor.Input[pos] {
		case m.begin:
			depth++
		case m.end:
			depth--
			if depth == 0 {
				return pos - cursor.Pos + 1
			}
		}
	}
	return 0
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '$'
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || (b >= '0' && b <= '9') || b == '.'
}
