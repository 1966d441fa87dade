package hessian

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/viant/invoke/codec"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/value"
)

const (
	classKey      = "class"
	enumNameField = "name"
	maxValueDepth = 32
	bigValueField = "value"
	tagName       = "hessian"
)

type (
	// ErasedTypeError reports a composite that hessian2 map encoding cannot bind to its class
	ErasedTypeError struct {
		Name string
	}

	javaClass interface {
		JavaClassName() string
	}
)

func (e *ErasedTypeError) Error() string {
	return fmt.Sprintf("%v is nested in a generic container and cannot be bound without class name", e.Name)
}

// FromValue converts value to hessian2 encodable Go value. Composites are written as maps,
// providers bind them to declared parameter classes; asMap adds "class" key used by generic invocation.
func FromValue(v *value.Value, d *descriptor.Descriptor, asMap bool) (interface{}, error) {
	return fromValue(v, d, asMap, false)
}

func fromValue(v *value.Value, d *descriptor.Descriptor, asMap, erased bool) (interface{}, error) {
	if v == nil || v.Null {
		return nil, nil
	}
	if d == nil || d.Kind == descriptor.KindUnknown {
		if v.Kind == descriptor.KindUnknown {
			if v.Raw == "" {
				return nil, nil
			}
			inferred, err := codec.Infer([]byte(v.Raw))
			if err != nil {
				return nil, err
			}
			return fromValue(inferred, nil, asMap, erased)
		}
		d = nil
	}
	kind := v.Kind
	if d != nil {
		kind = d.Kind
	}
	switch kind {
	case descriptor.KindPrimitive:
		return fromPrimitive(v, d)
	case descriptor.KindString:
		return v.Leaf, nil
	case descriptor.KindEnum:
		name, ok := v.Leaf.(string)
		if !ok {
			return nil, fmt.Errorf("invalid enum value: %T", v.Leaf)
		}
		if asMap || d == nil {
			return name, nil
		}
		if erased {
			return nil, &ErasedTypeError{Name: d.Name}
		}
		return map[string]interface{}{enumNameField: name}, nil
	case descriptor.KindCollection:
		var elem *descriptor.Descriptor
		elemErased := erased
		if d != nil {
			elem = d.Elem
			elemErased = erased || !d.Array
		}
		items := make([]interface{}, 0, len(v.Items))
		for i, item := range v.Items {
			converted, err := fromValue(item, elem, asMap, elemErased)
			if err != nil {
				return nil, fmt.Errorf("[%v]: %w", i, err)
			}
			items = append(items, converted)
		}
		return items, nil
	case descriptor.KindMap:
		var keyType, valueType *descriptor.Descriptor
		if d != nil {
			keyType, valueType = d.Key, d.Value
		}
		ret := make(map[interface{}]interface{}, len(v.Entries))
		for _, entry := range v.Entries {
			key, err := fromValue(entry.Key, keyType, asMap, true)
			if err != nil {
				return nil, err
			}
			item, err := fromValue(entry.Value, valueType, asMap, true)
			if err != nil {
				return nil, fmt.Errorf("[%v]: %w", key, err)
			}
			ret[key] = item
		}
		return ret, nil
	case descriptor.KindComposite:
		return fromComposite(v, d, asMap, erased)
	}
	return nil, fmt.Errorf("unsupported value kind: %v", kind)
}

func fromComposite(v *value.Value, d *descriptor.Descriptor, asMap, erased bool) (interface{}, error) {
	class := v.Class
	if class == "" && d != nil {
		class = d.Name
	}
	if erased && !asMap && class != "" {
		return nil, &ErasedTypeError{Name: class}
	}
	ret := make(map[string]interface{}, len(v.Fields)+1)
	for _, field := range v.Fields {
		var fieldType *descriptor.Descriptor
		if d != nil {
			if declared := d.Field(field.Name); declared != nil {
				fieldType = declared.Type
			}
		}
		converted, err := fromValue(field.Value, fieldType, asMap, false)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", field.Name, err)
		}
		ret[field.Name] = converted
	}
	if _, ok := ret[classKey]; asMap && class != "" && !ok {
		ret[classKey] = class
	}
	return ret, nil
}

func fromPrimitive(v *value.Value, d *descriptor.Descriptor) (interface{}, error) {
	if d == nil {
		return v.Leaf, nil
	}
	switch d.Base {
	case descriptor.BaseInt, descriptor.BaseShort, descriptor.BaseByte:
		i, ok := v.Leaf.(int64)
		if !ok {
			return nil, fmt.Errorf("invalid %v value: %T", d.Base, v.Leaf)
		}
		return int32(i), nil
	case descriptor.BaseLong:
		i, ok := v.Leaf.(int64)
		if !ok {
			return nil, fmt.Errorf("invalid %v value: %T", d.Base, v.Leaf)
		}
		return i, nil
	case descriptor.BaseDouble, descriptor.BaseFloat:
		switch actual := v.Leaf.(type) {
		case float64:
			return actual, nil
		case int64:
			return float64(actual), nil
		}
		return nil, fmt.Errorf("invalid %v value: %T", d.Base, v.Leaf)
	}
	return v.Leaf, nil
}

// ToValue converts decoded hessian value into value tree shaped by descriptor, nil descriptor infers kinds
func ToValue(raw interface{}, d *descriptor.Descriptor) (*value.Value, error) {
	return toValue(raw, d, 0)
}

func toValue(raw interface{}, d *descriptor.Descriptor, depth int) (*value.Value, error) {
	kind := descriptor.KindUnknown
	if d != nil {
		kind = d.Kind
	}
	raw = unwrap(raw)
	if isNil(raw) {
		return value.NewNull(kind), nil
	}
	if depth > maxValueDepth {
		return value.NewPlaceholder(kind), nil
	}
	if d == nil || d.Kind == descriptor.KindUnknown {
		return inferValue(raw, depth)
	}
	switch d.Kind {
	case descriptor.KindPrimitive:
		return toPrimitive(raw, d)
	case descriptor.KindString:
		text, err := toText(raw)
		if err != nil {
			return nil, err
		}
		return value.NewLeaf(d.Kind, text), nil
	case descriptor.KindEnum:
		if lookup, _, ok := fields(raw); ok {
			raw, _ = lookup(enumNameField)
		} else if stringer, ok := raw.(fmt.Stringer); ok {
			raw = stringer.String()
		}
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected %v literal, but had %T", d.Name, raw)
		}
		return value.NewLeaf(d.Kind, name), nil
	case descriptor.KindCollection:
		items, ok := Items(raw)
		if !ok {
			return nil, fmt.Errorf("expected collection, but had %T", raw)
		}
		ret := value.NewCollection(make([]*value.Value, 0, len(items))...)
		for i, item := range items {
			converted, err := toValue(item, d.Elem, depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%v]: %w", i, err)
			}
			ret.Items = append(ret.Items, converted)
		}
		return ret, nil
	case descriptor.KindMap:
		keys, values, ok := entries(raw)
		if !ok {
			return nil, fmt.Errorf("expected map, but had %T", raw)
		}
		ret := value.NewMap()
		for i := range keys {
			key, err := toValue(keys[i], d.Key, depth+1)
			if err != nil {
				return nil, err
			}
			item, err := toValue(values[i], d.Value, depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%v]: %w", keys[i], err)
			}
			ret.Entries = append(ret.Entries, &value.Entry{Key: key, Value: item})
		}
		return ret, nil
	}
	lookup, class, ok := fields(raw)
	if !ok {
		return nil, fmt.Errorf("expected %v object, but had %T", d.Name, raw)
	}
	ret := value.NewComposite(make([]*value.Field, 0, len(d.Fields))...)
	ret.Class = class
	for _, field := range d.Fields {
		fieldRaw, _ := lookup(field.Name)
		converted, err := toValue(fieldRaw, field.Type, depth+1)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", field.Name, err)
		}
		ret.Fields = append(ret.Fields, &value.Field{Name: field.Name, Value: converted})
	}
	return ret, nil
}

func toPrimitive(raw interface{}, d *descriptor.Descriptor) (*value.Value, error) {
	switch d.Base {
	case descriptor.BaseBoolean:
		if b, ok := raw.(bool); ok {
			return value.NewLeaf(d.Kind, b), nil
		}
	case descriptor.BaseChar:
		if text, ok := raw.(string); ok {
			return value.NewLeaf(d.Kind, text), nil
		}
	case descriptor.BaseDouble, descriptor.BaseFloat:
		if f, ok := number(raw); ok {
			return value.NewLeaf(d.Kind, f), nil
		}
	default:
		if i, ok := Integer(raw); ok {
			return value.NewLeaf(d.Kind, i), nil
		}
		if f, ok := number(raw); ok && f == math.Trunc(f) {
			return value.NewLeaf(d.Kind, int64(f)), nil
		}
	}
	return nil, fmt.Errorf("expected %v, but had %T", d.Base, raw)
}

func number(raw interface{}) (float64, bool) {
	if i, ok := Integer(raw); ok {
		return float64(i), true
	}
	rValue := reflect.ValueOf(raw)
	switch rValue.Kind() {
	case reflect.Float32, reflect.Float64:
		return rValue.Float(), true
	}
	return 0, false
}

func toText(raw interface{}) (string, error) {
	switch actual := raw.(type) {
	case string:
		return actual, nil
	case bool:
		return strconv.FormatBool(actual), nil
	case time.Time:
		return actual.Format(time.RFC3339Nano), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(actual), nil
	case fmt.Stringer:
		// BigDecimal, BigInteger and similar value objects
		return actual.String(), nil
	}
	if i, ok := Integer(raw); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if f, ok := number(raw); ok {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	if lookup, _, ok := fields(raw); ok {
		if text, ok := lookup(bigValueField); ok && !isNil(text) {
			return toText(text)
		}
	}
	return "", fmt.Errorf("expected string, but had %T", raw)
}

// entries returns map keys and values, ordered by key text
func entries(raw interface{}) ([]interface{}, []interface{}, bool) {
	rValue := reflect.ValueOf(unwrap(raw))
	for rValue.Kind() == reflect.Ptr && !rValue.IsNil() {
		rValue = rValue.Elem()
	}
	if rValue.Kind() != reflect.Map {
		return nil, nil, false
	}
	mapKeys := rValue.MapKeys()
	sort.Slice(mapKeys, func(i, j int) bool {
		return fmt.Sprint(mapKeys[i].Interface()) < fmt.Sprint(mapKeys[j].Interface())
	})
	keys := make([]interface{}, 0, len(mapKeys))
	values := make([]interface{}, 0, len(mapKeys))
	for _, key := range mapKeys {
		keys = append(keys, unwrap(key.Interface()))
		values = append(values, unwrap(rValue.MapIndex(key).Interface()))
	}
	return keys, values, true
}

// fields returns field lookup and class name of decoded map or struct
func fields(raw interface{}) (func(name string) (interface{}, bool), string, bool) {
	class := ""
	if pojo, ok := raw.(javaClass); ok {
		class = pojo.JavaClassName()
	}
	rValue := reflect.ValueOf(raw)
	for rValue.Kind() == reflect.Ptr && !rValue.IsNil() {
		rValue = rValue.Elem()
	}
	switch rValue.Kind() {
	case reflect.Map:
		keys, values, _ := entries(raw)
		index := make(map[string]interface{}, len(keys))
		for i, key := range keys {
			if name, ok := key.(string); ok {
				index[name] = values[i]
			}
		}
		if name, ok := index[classKey].(string); ok && class == "" {
			class = name
		}
		return func(name string) (interface{}, bool) {
			ret, ok := index[name]
			return ret, ok
		}, class, true
	case reflect.Struct:
		if _, ok := raw.(time.Time); ok {
			return nil, "", false
		}
		names, values := structFields(rValue)
		return func(name string) (interface{}, bool) {
			for i, candidate := range names {
				if candidate == name {
					return values[i], true
				}
			}
			return nil, false
		}, class, true
	}
	return nil, "", false
}

func structFields(rValue reflect.Value) ([]string, []interface{}) {
	rType := rValue.Type()
	var names []string
	var values []interface{}
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get(tagName)
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name[:1]) + field.Name[1:]
		}
		names = append(names, name)
		values = append(values, rValue.Field(i).Interface())
	}
	return names, values
}

func isNil(raw interface{}) bool {
	if raw == nil {
		return true
	}
	rValue := reflect.ValueOf(raw)
	switch rValue.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface:
		return rValue.IsNil()
	}
	return false
}

func inferValue(raw interface{}, depth int) (*value.Value, error) {
	switch actual := raw.(type) {
	case bool:
		return value.NewLeaf(descriptor.KindPrimitive, actual), nil
	case string:
		return value.NewLeaf(descriptor.KindString, actual), nil
	case time.Time, []byte:
		text, err := toText(actual)
		if err != nil {
			return nil, err
		}
		return value.NewLeaf(descriptor.KindString, text), nil
	}
	if i, ok := Integer(raw); ok {
		return value.NewLeaf(descriptor.KindPrimitive, i), nil
	}
	if f, ok := number(raw); ok {
		return value.NewLeaf(descriptor.KindPrimitive, f), nil
	}
	if items, ok := Items(raw); ok {
		ret := value.NewCollection(make([]*value.Value, 0, len(items))...)
		for _, item := range items {
			converted, err := toValue(item, nil, depth+1)
			if err != nil {
				return nil, err
			}
			ret.Items = append(ret.Items, converted)
		}
		return ret, nil
	}
	if keys, values, ok := entries(raw); ok {
		if len(keys) > 0 && allStringKeys(keys) {
			if len(keys) == 1 && keys[0] == enumNameField {
				if name, ok := values[0].(string); ok {
					return value.NewLeaf(descriptor.KindEnum, name), nil
				}
			}
			ret := value.NewComposite()
			for i, key := range keys {
				name := key.(string)
				if name == classKey {
					ret.Class, _ = values[i].(string)
					continue
				}
				converted, err := toValue(values[i], nil, depth+1)
				if err != nil {
					return nil, err
				}
				ret.Fields = append(ret.Fields, &value.Field{Name: name, Value: converted})
			}
			return ret, nil
		}
		ret := value.NewMap()
		for i, key := range keys {
			keyValue, err := toValue(key, nil, depth+1)
			if err != nil {
				return nil, err
			}
			converted, err := toValue(values[i], nil, depth+1)
			if err != nil {
				return nil, err
			}
			ret.Entries = append(ret.Entries, &value.Entry{Key: keyValue, Value: converted})
		}
		return ret, nil
	}
	if stringer, ok := raw.(fmt.Stringer); ok {
		return value.NewLeaf(descriptor.KindString, stringer.String()), nil
	}
	if err, ok := raw.(error); ok {
		return value.NewLeaf(descriptor.KindString, err.Error()), nil
	}
	rValue := reflect.ValueOf(raw)
	for rValue.Kind() == reflect.Ptr {
		rValue = rValue.Elem()
	}
	if rValue.Kind() == reflect.Struct {
		ret := value.NewComposite()
		if pojo, ok := raw.(javaClass); ok {
			ret.Class = pojo.JavaClassName()
		}
		names, values := structFields(rValue)
		for i, name := range names {
			converted, err := toValue(values[i], nil, depth+1)
			if err != nil {
				return nil, err
			}
			ret.Fields = append(ret.Fields, &value.Field{Name: name, Value: converted})
		}
		return ret, nil
	}
	return nil, fmt.Errorf("unsupported hessian value: %T", raw)
}

func allStringKeys(keys []interface{}) bool {
	for _, key := range keys {
		if _, ok := key.(string); !ok {
			return false
		}
	}
	return true
}
