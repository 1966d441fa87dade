package hessian

import (
	"fmt"
	"reflect"

	hessian2 "github.com/apache/dubbo-go-hessian2"
)

// Encoder writes hessian2 values in sequence
type Encoder struct {
	encoder *hessian2.Encoder
}

// NewEncoder creates an encoder
func NewEncoder() *Encoder {
	return &Encoder{encoder: hessian2.NewEncoder()}
}

// Encode writes supplied values
func (e *Encoder) Encode(values ...interface{}) error {
	for _, v := range values {
		if err := e.encoder.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns encoded data
func (e *Encoder) Bytes() []byte {
	return e.encoder.Buffer()
}

// Decoder reads hessian2 values in sequence
type Decoder struct {
	decoder *hessian2.Decoder
}

// NewDecoder creates a decoder
func NewDecoder(data []byte) *Decoder {
	return &Decoder{decoder: hessian2.NewDecoder(data)}
}

// Decode reads next value
func (d *Decoder) Decode() (interface{}, error) {
	ret, err := d.decoder.Decode()
	if err != nil {
		return nil, err
	}
	return unwrap(ret), nil
}

// DecodeString reads next value as string
func (d *Decoder) DecodeString() (string, error) {
	raw, err := d.Decode()
	if err != nil {
		return "", err
	}
	text, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("expected string, but had %T", raw)
	}
	return text, nil
}

// DecodeInt reads next value as integer, hessian int and long are accepted
func (d *Decoder) DecodeInt() (int64, error) {
	raw, err := d.Decode()
	if err != nil {
		return 0, err
	}
	ret, ok := Integer(raw)
	if !ok {
		return 0, fmt.Errorf("expected integer, but had %T", raw)
	}
	return ret, nil
}

// Integer returns integral value of any Go integer type
func Integer(raw interface{}) (int64, bool) {
	rValue := reflect.ValueOf(unwrap(raw))
	switch rValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rValue.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rValue.Uint()), true
	}
	return 0, false
}

// Items returns elements of any decoded slice or array
func Items(raw interface{}) ([]interface{}, bool) {
	raw = unwrap(raw)
	if items, ok := raw.([]interface{}); ok {
		return items, true
	}
	rValue := reflect.ValueOf(raw)
	if rValue.Kind() != reflect.Slice && rValue.Kind() != reflect.Array {
		return nil, false
	}
	ret := make([]interface{}, 0, rValue.Len())
	for i := 0; i < rValue.Len(); i++ {
		ret = append(ret, unwrap(rValue.Index(i).Interface()))
	}
	return ret, true
}

// Attachments returns decoded map as string attachments
func Attachments(raw interface{}) map[string]string {
	keys, values, ok := entries(raw)
	if !ok {
		return nil
	}
	ret := make(map[string]string, len(keys))
	for i, key := range keys {
		if values[i] == nil {
			continue
		}
		ret[fmt.Sprint(key)] = fmt.Sprint(values[i])
	}
	return ret
}

func unwrap(raw interface{}) interface{} {
	if rValue, ok := raw.(reflect.Value); ok {
		if !rValue.IsValid() {
			return nil
		}
		return rValue.Interface()
	}
	return raw
}
