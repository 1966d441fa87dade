package codec

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/value"
)

// Infer parses JSON text without a type descriptor, objects become composites in key order
func Infer(data []byte) (*value.Value, error) {
	data = bytes.TrimSpace(data)
	if err := ensureSingleValue(data); err != nil {
		return nil, err
	}
	return infer(data)
}

func infer(data []byte) (*value.Value, error) {
	switch found := jsonKind(data); found {
	case jsonNull:
		if !bytes.Equal(data, nullBytes) {
			return nil, &Error{Err: fmt.Errorf("invalid JSON: %q", string(data))}
		}
		return value.NewNull(descriptor.KindUnknown), nil
	case jsonBoolean:
		if err := validate(data, found); err != nil {
			return nil, err
		}
		return value.NewLeaf(descriptor.KindPrimitive, string(data) == "true"), nil
	case jsonNumber:
		text := string(data)
		if err := validateNumber(text); err != nil {
			return nil, err
		}
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return value.NewLeaf(descriptor.KindPrimitive, i), nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &Error{Err: fmt.Errorf("invalid number: %q", text)}
		}
		return value.NewLeaf(descriptor.KindPrimitive, f), nil
	case jsonString:
		text, err := decodeString(data)
		if err != nil {
			return nil, err
		}
		return value.NewLeaf(descriptor.KindString, text), nil
	case jsonArray:
		items, err := decodeArray(data)
		if err != nil {
			return nil, err
		}
		ret := value.NewCollection(make([]*value.Value, 0, len(items))...)
		for i, item := range items {
			inferred, err := infer(bytes.TrimSpace(item))
			if err != nil {
				return nil, NewError("["+strconv.Itoa(i)+"]", err)
			}
			ret.Items = append(ret.Items, inferred)
		}
		return ret, nil
	case jsonObject:
		object, err := decodeObject(data)
		if err != nil {
			return nil, err
		}
		ret := value.NewComposite(make([]*value.Field, 0, len(object.keys))...)
		for i, key := range object.keys {
			raw := bytes.TrimSpace(object.values[i])
			if key == classKey && jsonKind(raw) == jsonString {
				if ret.Class, err = decodeString(raw); err != nil {
					return nil, NewError(key, err)
				}
				continue
			}
			inferred, err := infer(raw)
			if err != nil {
				return nil, NewError(key, err)
			}
			ret.Fields = append(ret.Fields, &value.Field{Name: key, Value: inferred})
		}
		return ret, nil
	}
	return nil, &Error{Err: fmt.Errorf("invalid JSON: %q", string(data))}
}
