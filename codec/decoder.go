package codec

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/francoispqt/gojay"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/value"
)

const (
	jsonObject  = "object"
	jsonArray   = "array"
	jsonString  = "string"
	jsonNumber  = "number"
	jsonBoolean = "boolean"
	jsonNull    = "null"

	classKey = "class"
	pairKey  = "key"
	pairVal  = "value"
)

var nullBytes = []byte("null")

type objectDecoder struct {
	keys   []string
	values []gojay.EmbeddedJSON
}

func (o *objectDecoder) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	var raw gojay.EmbeddedJSON
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return err
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, raw)
	return nil
}

func (o *objectDecoder) NKeys() int {
	return 0
}

type arrayDecoder struct {
	items []gojay.EmbeddedJSON
}

func (a *arrayDecoder) UnmarshalJSONArray(dec *gojay.Decoder) error {
	var raw gojay.EmbeddedJSON
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return err
	}
	a.items = append(a.items, raw)
	return nil
}

// Decode parses text against type descriptor
func Decode(data []byte, d *descriptor.Descriptor) (*value.Value, error) {
	if d == nil {
		return nil, fmt.Errorf("descriptor was nil")
	}
	data = bytes.TrimSpace(data)
	if err := ensureSingleValue(data); err != nil {
		return nil, err
	}
	return decode(data, d)
}

// DecodeAll parses JSON array of parameter values against descriptors
func DecodeAll(data []byte, descriptors []*descriptor.Descriptor) ([]*value.Value, error) {
	data = bytes.TrimSpace(data)
	if err := ensureSingleValue(data); err != nil {
		return nil, err
	}
	if jsonKind(data) != jsonArray {
		return nil, &MismatchError{Expected: jsonArray, Found: jsonKind(data)}
	}
	items, err := decodeArray(data)
	if err != nil {
		return nil, NewError("", err)
	}
	if len(items) != len(descriptors) {
		return nil, &MismatchError{Expected: fmt.Sprintf("%d parameter(s)", len(descriptors)), Found: fmt.Sprintf("%d", len(items))}
	}
	var result = make([]*value.Value, 0, len(items))
	for i, item := range items {
		decoded, err := decode(bytes.TrimSpace(item), descriptors[i])
		if err != nil {
			return nil, NewError("["+strconv.Itoa(i)+"]", err)
		}
		result = append(result, decoded)
	}
	return result, nil
}

func decode(data []byte, d *descriptor.Descriptor) (*value.Value, error) {
	found := jsonKind(data)
	if found == "" {
		return nil, &Error{Err: fmt.Errorf("invalid JSON: %q", string(data))}
	}
	if found == jsonNull {
		if !bytes.Equal(data, nullBytes) {
			return nil, &Error{Err: fmt.Errorf("invalid JSON: %q", string(data))}
		}
		if !d.Nullable() {
			return nil, &MismatchError{Expected: expected(d), Found: found}
		}
		return value.NewNull(d.Kind), nil
	}
	switch d.Kind {
	case descriptor.KindPrimitive:
		return decodePrimitive(data, found, d)
	case descriptor.KindString:
		if found != jsonString {
			return nil, &MismatchError{Expected: expected(d), Found: found}
		}
		text, err := decodeString(data)
		if err != nil {
			return nil, err
		}
		return value.NewLeaf(d.Kind, text), nil
	case descriptor.KindEnum:
		if found != jsonString {
			return nil, &MismatchError{Expected: expected(d), Found: found}
		}
		text, err := decodeString(data)
		if err != nil {
			return nil, err
		}
		if len(d.EnumValues) > 0 && !contains(d.EnumValues, text) {
			return nil, &MismatchError{Expected: expected(d), Found: found, Detail: fmt.Sprintf("unknown literal %q", text)}
		}
		return value.NewLeaf(d.Kind, text), nil
	case descriptor.KindCollection:
		if found != jsonArray {
			return nil, &MismatchError{Expected: expected(d), Found: found}
		}
		return decodeCollection(data, d)
	case descriptor.KindMap:
		switch found {
		case jsonObject:
			return decodeMapObject(data, d)
		case jsonArray:
			return decodeMapPairs(data, d)
		}
		return nil, &MismatchError{Expected: expected(d), Found: found}
	case descriptor.KindComposite:
		if found != jsonObject {
			return nil, &MismatchError{Expected: expected(d), Found: found}
		}
		return decodeComposite(data, d)
	}
	if err := validate(data, found); err != nil {
		return nil, err
	}
	return &value.Value{Kind: descriptor.KindUnknown, Raw: string(data)}, nil
}

func decodePrimitive(data []byte, found string, d *descriptor.Descriptor) (*value.Value, error) {
	base := d.Base
	switch {
	case base == descriptor.BaseBoolean:
		if found != jsonBoolean {
			return nil, &MismatchError{Expected: expected(d), Found: found}
		}
		switch string(data) {
		case "true":
			return value.NewLeaf(d.Kind, true), nil
		case "false":
			return value.NewLeaf(d.Kind, false), nil
		}
		return nil, &Error{Err: fmt.Errorf("invalid boolean: %q", string(data))}
	case base == descriptor.BaseChar:
		if found != jsonString {
			return nil, &MismatchError{Expected: expected(d), Found: found}
		}
		text, err := decodeString(data)
		if err != nil {
			return nil, err
		}
		if utf8.RuneCountInString(text) > 1 {
			return nil, &MismatchError{Expected: expected(d), Found: found, Detail: fmt.Sprintf("%q is longer than one character", text)}
		}
		return value.NewLeaf(d.Kind, text), nil
	}
	if found != jsonNumber {
		return nil, &MismatchError{Expected: expected(d), Found: found}
	}
	text := string(data)
	if err := validateNumber(text); err != nil {
		return nil, err
	}
	if descriptor.IsFloating(base) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &Error{Err: fmt.Errorf("invalid number: %q", text)}
		}
		return value.NewLeaf(d.Kind, f), nil
	}
	i, err := parseIntegral(text)
	if err != nil {
		return nil, &MismatchError{Expected: expected(d), Found: found, Detail: err.Error()}
	}
	if lower, upper, ok := integralRange(base); ok && (i < lower || i > upper) {
		return nil, &MismatchError{Expected: expected(d), Found: found, Detail: fmt.Sprintf("%v is out of %v range", i, base)}
	}
	return value.NewLeaf(d.Kind, i), nil
}

func parseIntegral(text string) (int64, error) {
	i, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return i, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%v is out of long range", text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not integral", text)
	}
	if f >= 1<<63 || f < -(1<<63) {
		return 0, fmt.Errorf("%v is out of long range", text)
	}
	return int64(f), nil
}

func integralRange(base string) (int64, int64, bool) {
	switch base {
	case descriptor.BaseInt:
		return math.MinInt32, math.MaxInt32, true
	case descriptor.BaseShort:
		return math.MinInt16, math.MaxInt16, true
	case descriptor.BaseByte:
		return math.MinInt8, math.MaxInt8, true
	}
	return 0, 0, false
}

func decodeCollection(data []byte, d *descriptor.Descriptor) (*value.Value, error) {
	items, err := decodeArray(data)
	if err != nil {
		return nil, err
	}
	ret := value.NewCollection(make([]*value.Value, 0, len(items))...)
	for i, item := range items {
		decoded, err := decode(bytes.TrimSpace(item), d.Elem)
		if err != nil {
			return nil, NewError("["+strconv.Itoa(i)+"]", err)
		}
		ret.Items = append(ret.Items, decoded)
	}
	return ret, nil
}

func decodeMapObject(data []byte, d *descriptor.Descriptor) (*value.Value, error) {
	object, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	ret := value.NewMap(make([]*value.Entry, 0, len(object.keys))...)
	for i, key := range object.keys {
		path := "[" + strconv.Quote(key) + "]"
		keyValue, err := decodeKey(key, d.Key)
		if err != nil {
			return nil, NewError(path, err)
		}
		decoded, err := decode(bytes.TrimSpace(object.values[i]), d.Value)
		if err != nil {
			return nil, NewError(path, err)
		}
		ret.Entries = append(ret.Entries, &value.Entry{Key: keyValue, Value: decoded})
	}
	return ret, nil
}

func decodeMapPairs(data []byte, d *descriptor.Descriptor) (*value.Value, error) {
	items, err := decodeArray(data)
	if err != nil {
		return nil, err
	}
	ret := value.NewMap(make([]*value.Entry, 0, len(items))...)
	for i, item := range items {
		path := "[" + strconv.Itoa(i) + "]"
		item = bytes.TrimSpace(item)
		if found := jsonKind(item); found != jsonObject {
			return nil, &MismatchError{Path: path, Expected: "map entry object", Found: found}
		}
		pair, err := decodeObject(item)
		if err != nil {
			return nil, NewError(path, err)
		}
		entry := &value.Entry{}
		for j, key := range pair.keys {
			var target **value.Value
			var targetType *descriptor.Descriptor
			switch key {
			case pairKey:
				target, targetType = &entry.Key, d.Key
			case pairVal:
				target, targetType = &entry.Value, d.Value
			default:
				return nil, &MismatchError{Path: path + "." + key, Expected: "absent", Found: jsonKind(bytes.TrimSpace(pair.values[j]))}
			}
			if *target, err = decode(bytes.TrimSpace(pair.values[j]), targetType); err != nil {
				return nil, NewError(path+"."+key, err)
			}
		}
		if entry.Key == nil {
			entry.Key = value.NewNull(d.Key.Kind)
		}
		if entry.Value == nil {
			entry.Value = value.NewNull(d.Value.Kind)
		}
		ret.Entries = append(ret.Entries, entry)
	}
	return ret, nil
}

func decodeKey(key string, d *descriptor.Descriptor) (*value.Value, error) {
	switch d.Kind {
	case descriptor.KindString:
		return value.NewLeaf(d.Kind, key), nil
	case descriptor.KindEnum:
		if len(d.EnumValues) > 0 && !contains(d.EnumValues, key) {
			return nil, &MismatchError{Expected: expected(d), Found: jsonString, Detail: fmt.Sprintf("unknown literal %q", key)}
		}
		return value.NewLeaf(d.Kind, key), nil
	case descriptor.KindPrimitive:
		if d.Base == descriptor.BaseChar {
			quoted, err := gojay.Marshal(key)
			if err != nil {
				return nil, err
			}
			return decodePrimitive(quoted, jsonString, d)
		}
		data := []byte(key)
		return decodePrimitive(data, jsonKind(data), d)
	case descriptor.KindUnknown:
		quoted, err := gojay.Marshal(key)
		if err != nil {
			return nil, err
		}
		return &value.Value{Kind: descriptor.KindUnknown, Raw: string(quoted)}, nil
	}
	return nil, &MismatchError{Expected: expected(d), Found: jsonString}
}

func decodeComposite(data []byte, d *descriptor.Descriptor) (*value.Value, error) {
	object, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]*value.Value, len(object.keys))
	ret := value.NewComposite(make([]*value.Field, 0, len(d.Fields))...)
	for i, key := range object.keys {
		raw := bytes.TrimSpace(object.values[i])
		field := d.Field(key)
		if field == nil {
			if key == classKey && jsonKind(raw) == jsonString {
				if ret.Class, err = decodeString(raw); err != nil {
					return nil, NewError(key, err)
				}
				continue
			}
			return nil, &MismatchError{Path: key, Expected: "absent", Found: jsonKind(raw), Detail: fmt.Sprintf("unknown field of %v", d.Name)}
		}
		decoded, err := decode(raw, field.Type)
		if err != nil {
			return nil, NewError(key, err)
		}
		fields[key] = decoded
	}
	for _, field := range d.Fields {
		fieldValue, ok := fields[field.Name]
		if !ok {
			if !field.Type.Nullable() {
				return nil, &MismatchError{Path: field.Name, Expected: expected(field.Type), Found: "absent"}
			}
			fieldValue = value.NewNull(field.Type.Kind)
		}
		ret.Fields = append(ret.Fields, &value.Field{Name: field.Name, Value: fieldValue})
	}
	return ret, nil
}

func decodeObject(data []byte) (*objectDecoder, error) {
	ret := &objectDecoder{}
	if err := gojay.NewDecoder(bytes.NewReader(data)).Object(ret); err != nil {
		return nil, &Error{Err: err}
	}
	return ret, nil
}

func decodeArray(data []byte) ([]gojay.EmbeddedJSON, error) {
	ret := &arrayDecoder{}
	if err := gojay.NewDecoder(bytes.NewReader(data)).Array(ret); err != nil {
		return nil, &Error{Err: err}
	}
	return ret.items, nil
}

func decodeString(data []byte) (string, error) {
	var ret string
	if err := gojay.NewDecoder(bytes.NewReader(data)).DecodeString(&ret); err != nil {
		return "", &Error{Err: err}
	}
	return ret, nil
}

func validate(data []byte, found string) error {
	switch found {
	case jsonObject:
		_, err := decodeObject(data)
		return err
	case jsonArray:
		_, err := decodeArray(data)
		return err
	case jsonString:
		_, err := decodeString(data)
		return err
	case jsonNumber:
		if err := validateNumber(string(data)); err != nil {
			return err
		}
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return &Error{Err: fmt.Errorf("invalid number: %q", string(data))}
		}
	case jsonBoolean:
		if text := string(data); text != "true" && text != "false" {
			return &Error{Err: fmt.Errorf("invalid boolean: %q", text)}
		}
	}
	return nil
}

// validateNumber checks JSON number syntax, a leading zero can only be followed by fraction or exponent
func validateNumber(text string) error {
	digits := strings.TrimPrefix(text, "-")
	if len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9' {
		return &Error{Err: fmt.Errorf("invalid number: %q has leading zero", text)}
	}
	if digits == "" || digits[0] < '0' || digits[0] > '9' {
		return &Error{Err: fmt.Errorf("invalid number: %q", text)}
	}
	return nil
}

// ensureSingleValue rejects anything but white space after first JSON value
func ensureSingleValue(data []byte) error {
	if end := valueEnd(data); end < len(data) {
		return &Error{Err: fmt.Errorf("unexpected trailing text: %q", string(data[end:]))}
	}
	return nil
}

func valueEnd(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	switch data[0] {
	case '{', '[':
		depth := 0
		inString := false
		for i := 0; i < len(data); i++ {
			c := data[i]
			if inString {
				switch c {
				case '\\':
					i++
				case '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				inString = true
			case '{', '[':
				depth++
			case '}', ']':
				if depth--; depth == 0 {
					return i + 1
				}
			}
		}
		return len(data)
	case '"':
		for i := 1; i < len(data); i++ {
			switch data[i] {
			case '\\':
				i++
			case '"':
				return i + 1
			}
		}
		return len(data)
	}
	for i, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n', ',', ':', '[', ']', '{', '}', '"':
			return i
		}
	}
	return len(data)
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	switch data[0] {
	case '{':
		return jsonObject
	case '[':
		return jsonArray
	case '"':
		return jsonString
	case 't', 'f':
		return jsonBoolean
	case 'n':
		return jsonNull
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return jsonNumber
	}
	return ""
}

func expected(d *descriptor.Descriptor) string {
	switch d.Kind {
	case descriptor.KindPrimitive:
		return string(d.Kind) + "(" + d.Base + ")"
	case descriptor.KindEnum, descriptor.KindComposite:
		if d.Name != "" {
			return string(d.Kind) + "(" + d.Name + ")"
		}
	}
	return string(d.Kind)
}

func contains(items []string, candidate string) bool {
	for _, item := range items {
		if item == candidate {
			return true
		}
	}
	return false
}
