package lookup

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/resolver"
	"github.com/viant/tagly/format/text"
	"github.com/viant/xreflect"
)

const dateType = "java.util.Date"

var timeType = reflect.TypeOf(time.Time{})

// Reflect exposes Go struct types registered under Java class names
type Reflect struct {
	types *xreflect.Types
	names map[reflect.Type]string
	enums map[string][]string
	mux   sync.RWMutex
}

// NewReflect creates reflect lookup
func NewReflect() *Reflect {
	return &Reflect{types: xreflect.NewTypes(), names: map[reflect.Type]string{}, enums: map[string][]string{}}
}

// Register registers struct type under Java class name, i.e. com.example.Row
func (r *Reflect) Register(className string, rType reflect.Type) error {
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType.Kind() != reflect.Struct {
		return fmt.Errorf("unsupported %v type: %v, expected struct", className, rType.String())
	}
	pkg, name := split(className)
	if err := r.types.Register(name, xreflect.WithPackage(pkg), xreflect.WithReflectType(rType)); err != nil {
		return fmt.Errorf("failed to register %v: %w", className, err)
	}
	r.mux.Lock()
	r.names[rType] = className
	r.mux.Unlock()
	return nil
}

// RegisterEnum registers enum literals under Java enum name
func (r *Reflect) RegisterEnum(className string, literals ...string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.enums[className] = literals
}

func (r *Reflect) Lookup(ctx context.Context, name string) (*resolver.Shape, error) {
	if name == dateType {
		return &resolver.Shape{Name: name, Kind: descriptor.KindString, Base: descriptor.BaseString}, nil
	}
	r.mux.RLock()
	literals, ok := r.enums[name]
	r.mux.RUnlock()
	if ok {
		return &resolver.Shape{Name: name, Kind: descriptor.KindEnum, EnumValues: literals}, nil
	}
	pkg, simple := split(name)
	rType, err := r.types.Lookup(simple, xreflect.WithPackage(pkg))
	if err != nil || rType == nil {
		return nil, nil
	}
	r.mux.RLock()
	if registered, ok := r.names[rType]; ok {
		name = registered
	}
	r.mux.RUnlock()
	return r.shape(name, rType), nil
}

func (r *Reflect) shape(name string, rType reflect.Type) *resolver.Shape {
	pkg, _ := split(name)
	ret := &resolver.Shape{Name: name, Kind: descriptor.KindComposite, Package: pkg}
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		if field.PkgPath != "" {
			continue
		}
		fieldName, skip := fieldName(field)
		if skip {
			continue
		}
		ret.Fields = append(ret.Fields, &resolver.FieldShape{Name: fieldName, Type: r.typeName(field.Type)})
	}
	return ret
}

func fieldName(field reflect.StructField) (string, bool) {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return text.DetectCaseFormat(field.Name).Format(field.Name, text.CaseFormatLowerCamel), false
}

func (r *Reflect) typeName(rType reflect.Type) string {
	if rType == timeType {
		return dateType
	}
	switch rType.Kind() {
	case reflect.Ptr:
		elem := rType.Elem()
		if boxed := boxedName(elem.Kind()); boxed != "" {
			return boxed
		}
		return r.typeName(elem)
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return "long"
	case reflect.Int32:
		return "int"
	case reflect.Int16, reflect.Uint16:
		return "short"
	case reflect.Int8, reflect.Uint8:
		return "byte"
	case reflect.Float64:
		return "double"
	case reflect.Float32:
		return "float"
	case reflect.String:
		return "String"
	case reflect.Slice:
		if rType.Elem().Kind() == reflect.Uint8 {
			return "byte[]"
		}
		return "java.util.List<" + r.elemName(rType.Elem()) + ">"
	case reflect.Array:
		return r.typeName(rType.Elem()) + "[]"
	case reflect.Map:
		return "java.util.Map<" + r.elemName(rType.Key()) + ", " + r.elemName(rType.Elem()) + ">"
	case reflect.Struct:
		r.mux.RLock()
		name, ok := r.names[rType]
		r.mux.RUnlock()
		if ok {
			return name
		}
	}
	return "Object"
}

// elemName returns boxed name for type arguments
func (r *Reflect) elemName(rType reflect.Type) string {
	if boxed := boxedName(rType.Kind()); boxed != "" {
		return boxed
	}
	return r.typeName(rType)
}

func boxedName(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "Boolean"
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return "Long"
	case reflect.Int32:
		return "Integer"
	case reflect.Int16, reflect.Uint16:
		return "Short"
	case reflect.Int8, reflect.Uint8:
		return "Byte"
	case reflect.Float64:
		return "Double"
	case reflect.Float32:
		return "Float"
	}
	return ""
}

func split(className string) (string, string) {
	index := strings.LastIndex(className, ".")
	if index == -1 {
		return "", className
	}
	return className[:index], className[index+1:]
}
