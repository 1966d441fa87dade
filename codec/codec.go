package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/francoispqt/gojay"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/value"
)

// Encode renders value as JSON text, fields, items and entries are written in order
func Encode(v *value.Value) ([]byte, error) {
	buffer := &bytes.Buffer{}
	if err := encode(buffer, v); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// EncodeAll renders values as JSON array
func EncodeAll(values []*value.Value) ([]byte, error) {
	buffer := &bytes.Buffer{}
	buffer.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			buffer.WriteByte(',')
		}
		if err := encode(buffer, v); err != nil {
			return nil, NewError("["+strconv.Itoa(i)+"]", err)
		}
	}
	buffer.WriteByte(']')
	return buffer.Bytes(), nil
}

func encode(buffer *bytes.Buffer, v *value.Value) error {
	if v == nil || v.Null {
		buffer.Write(nullBytes)
		return nil
	}
	switch v.Kind {
	case descriptor.KindCollection:
		buffer.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := encode(buffer, item); err != nil {
				return NewError("["+strconv.Itoa(i)+"]", err)
			}
		}
		buffer.WriteByte(']')
		return nil
	case descriptor.KindMap:
		if hasLeafKeys(v.Entries) {
			return encodeMapObject(buffer, v.Entries)
		}
		return encodeMapPairs(buffer, v.Entries)
	case descriptor.KindComposite:
		buffer.WriteByte('{')
		count := 0
		if v.Class != "" && v.Field(classKey) == nil {
			if err := writeString(buffer, classKey); err != nil {
				return err
			}
			buffer.WriteByte(':')
			if err := writeString(buffer, v.Class); err != nil {
				return err
			}
			count++
		}
		for _, field := range v.Fields {
			if count > 0 {
				buffer.WriteByte(',')
			}
			count++
			if err := writeString(buffer, field.Name); err != nil {
				return err
			}
			buffer.WriteByte(':')
			if err := encode(buffer, field.Value); err != nil {
				return NewError(field.Name, err)
			}
		}
		buffer.WriteByte('}')
		return nil
	case descriptor.KindUnknown:
		if v.Raw == "" {
			buffer.Write(nullBytes)
			return nil
		}
		buffer.WriteString(v.Raw)
		return nil
	}
	return encodeLeaf(buffer, v.Leaf)
}

func encodeLeaf(buffer *bytes.Buffer, leaf interface{}) error {
	switch actual := leaf.(type) {
	case string:
		return writeString(buffer, actual)
	case bool:
		buffer.WriteString(strconv.FormatBool(actual))
	case int64:
		buffer.WriteString(strconv.FormatInt(actual, 10))
	case float64:
		if math.IsNaN(actual) || math.IsInf(actual, 0) {
			return &Error{Err: fmt.Errorf("unsupported number: %v", actual)}
		}
		buffer.WriteString(strconv.FormatFloat(actual, 'g', -1, 64))
	case nil:
		buffer.Write(nullBytes)
	default:
		return &Error{Err: fmt.Errorf("unsupported leaf type: %T", leaf)}
	}
	return nil
}

func encodeMapObject(buffer *bytes.Buffer, entries []*value.Entry) error {
	buffer.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			buffer.WriteByte(',')
		}
		key, err := keyText(entry.Key.Leaf)
		if err != nil {
			return err
		}
		if err = writeString(buffer, key); err != nil {
			return err
		}
		buffer.WriteByte(':')
		if err = encode(buffer, entry.Value); err != nil {
			return NewError("["+strconv.Quote(key)+"]", err)
		}
	}
	buffer.WriteByte('}')
	return nil
}

func encodeMapPairs(buffer *bytes.Buffer, entries []*value.Entry) error {
	buffer.WriteByte('[')
	for i, entry := range entries {
		if i > 0 {
			buffer.WriteByte(',')
		}
		path := "[" + strconv.Itoa(i) + "]"
		buffer.WriteString(`{"key":`)
		if err := encode(buffer, entry.Key); err != nil {
			return NewError(path+".key", err)
		}
		buffer.WriteString(`,"value":`)
		if err := encode(buffer, entry.Value); err != nil {
			return NewError(path+".value", err)
		}
		buffer.WriteByte('}')
	}
	buffer.WriteByte(']')
	return nil
}

func hasLeafKeys(entries []*value.Entry) bool {
	for _, entry := range entries {
		if entry.Key == nil || entry.Key.Null {
			return false
		}
		switch entry.Key.Kind {
		case descriptor.KindPrimitive, descriptor.KindString, descriptor.KindEnum:
		default:
			return false
		}
	}
	return true
}

func keyText(leaf interface{}) (string, error) {
	switch actual := leaf.(type) {
	case string:
		return actual, nil
	case bool:
		return strconv.FormatBool(actual), nil
	case int64:
		return strconv.FormatInt(actual, 10), nil
	case float64:
		if math.IsNaN(actual) || math.IsInf(actual, 0) {
			return "", &Error{Err: fmt.Errorf("unsupported number: %v", actual)}
		}
		return strconv.FormatFloat(actual, 'g', -1, 64), nil
	}
	return "", &Error{Err: fmt.Errorf("unsupported key type: %T", leaf)}
}

func writeString(buffer *bytes.Buffer, text string) error {
	data, err := gojay.Marshal(text)
	if err != nil {
		return err
	}
	buffer.Write(data)
	return nil
}
