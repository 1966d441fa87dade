package descriptor

import (
	"strings"
)

// SelfReferenceNote annotates placeholder descriptors breaking a type cycle
const SelfReferenceNote = "self-reference"

type (
	// Descriptor describes one type node
	Descriptor struct {
		Kind          Kind        `json:"kind" yaml:"kind"`
		Name          string      `json:"name,omitempty" yaml:"name,omitempty"`
		Signature     string      `json:"signature,omitempty" yaml:"signature,omitempty"`
		Base          string      `json:"base,omitempty" yaml:"base,omitempty"`
		Elem          *Descriptor `json:"elementType,omitempty" yaml:"elementType,omitempty"`
		Key           *Descriptor `json:"keyType,omitempty" yaml:"keyType,omitempty"`
		Value         *Descriptor `json:"valueType,omitempty" yaml:"valueType,omitempty"`
		Fields        []*Field    `json:"fields,omitempty" yaml:"fields,omitempty"`
		EnumValues    []string    `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
		Array         bool        `json:"array,omitempty" yaml:"array,omitempty"`
		SelfReference bool        `json:"selfReference,omitempty" yaml:"selfReference,omitempty"`
		Note          string      `json:"note,omitempty" yaml:"note,omitempty"`
	}

	// Field represents composite field
	Field struct {
		Name string      `json:"name" yaml:"name"`
		Type *Descriptor `json:"type" yaml:"type"`
	}
)

// NewSelfReference creates a terminal placeholder for a type already on the resolution path
func NewSelfReference(name string) *Descriptor {
	return &Descriptor{Kind: KindUnknown, Name: name, SelfReference: true, Note: SelfReferenceNote}
}

// NewUnknown creates an unknown descriptor
func NewUnknown(name string) *Descriptor {
	return &Descriptor{Kind: KindUnknown, Name: name}
}

// NewScalar creates leaf descriptor for a well known scalar name, nil if name is not a scalar
func NewScalar(name string) *Descriptor {
	scalar := LookupScalar(name)
	if scalar == nil {
		return nil
	}
	return &Descriptor{Kind: scalar.Kind, Name: name, Base: scalar.Base}
}

// NewCollection creates collection descriptor
func NewCollection(name string, elem *Descriptor) *Descriptor {
	if elem == nil {
		elem = NewUnknown("")
	}
	return &Descriptor{Kind: KindCollection, Name: name, Elem: elem}
}

// NewMap creates map descriptor
func NewMap(name string, key, value *Descriptor) *Descriptor {
	if key == nil {
		key = NewUnknown("")
	}
	if value == nil {
		value = NewUnknown("")
	}
	return &Descriptor{Kind: KindMap, Name: name, Key: key, Value: value}
}

// Nullable returns true if descriptor accepts null
func (d *Descriptor) Nullable() bool {
	if d.Kind != KindPrimitive {
		return true
	}
	scalar := LookupScalar(d.Name)
	return scalar == nil || scalar.Boxed
}

// Field returns field by name
func (d *Descriptor) Field(name string) *Field {
	for _, field := range d.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// FieldNames returns ordered field names
func (d *Descriptor) FieldNames() []string {
	var result = make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		result = append(result, field.Name)
	}
	return result
}

// TypeName returns erased type name used on the wire
func (d *Descriptor) TypeName() string {
	if d.Array && d.Elem != nil {
		return d.Elem.TypeName() + "[]"
	}
	if d.Name == "" {
		return "java.lang.Object"
	}
	return d.Name
}

// JVMType returns JVM field descriptor, i.e. I, J, Ljava/lang/String;
func (d *Descriptor) JVMType() string {
	if d.Array && d.Elem != nil {
		return "[" + d.Elem.JVMType()
	}
	if d.Kind == KindPrimitive {
		if scalar := LookupScalar(d.Name); scalar != nil && !scalar.Boxed {
			switch scalar.Base {
			case BaseInt:
				return "I"
			case BaseLong:
				return "J"
			case BaseShort:
				return "S"
			case BaseByte:
				return "B"
			case BaseDouble:
				return "D"
			case BaseFloat:
				return "F"
			case BaseBoolean:
				return "Z"
			case BaseChar:
				return "C"
			}
		}
	}
	return "L" + strings.ReplaceAll(QualifiedName(d.TypeName()), ".", "/") + ";"
}

// QualifiedName expands java.lang short names
func QualifiedName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	switch name {
	case "String", "Integer", "Long", "Short", "Byte", "Double", "Float", "Boolean", "Character", "Object", "CharSequence":
		return "java.lang." + name
	}
	return name
}

// Walk visits every descriptor node depth first, stops when fn returns false
func (d *Descriptor) Walk(fn func(path string, node *Descriptor) bool) {
	d.walk("", fn)
}

func (d *Descriptor) walk(path string, fn func(path string, node *Descriptor) bool) bool {
	if d == nil {
		return true
	}
	if !fn(path, d) {
		return false
	}
	switch d.Kind {
	case KindCollection:
		return d.Elem.walk(path+"[]", fn)
	case KindMap:
		if !d.Key.walk(path+"{key}", fn) {
			return false
		}
		return d.Value.walk(path+"{value}", fn)
	case KindComposite:
		for _, field := range d.Fields {
			fieldPath := field.Name
			if path != "" {
				fieldPath = path + "." + field.Name
			}
			if !field.Type.walk(fieldPath, fn) {
				return false
			}
		}
	}
	return true
}
