package value

import (
	"github.com/viant/invoke/descriptor"
)

type (
	// Value represents a tagged value tree mirroring a type descriptor
	Value struct {
		Kind        descriptor.Kind
		Leaf        interface{} //int64, float64, bool or string for leaf kinds
		Raw         string      //verbatim JSON for unknown kinds
		Items       []*Value
		Entries     []*Entry
		Fields      []*Field
		Null        bool
		Placeholder bool
		Class       string
	}

	// Entry represents map entry
	Entry struct {
		Key   *Value
		Value *Value
	}

	// Field represents composite field value
	Field struct {
		Name  string
		Value *Value
	}
)

// NewNull creates null value
func NewNull(kind descriptor.Kind) *Value {
	return &Value{Kind: kind, Null: true}
}

// NewPlaceholder creates terminal value substituted once depth limit is exceeded
func NewPlaceholder(kind descriptor.Kind) *Value {
	return &Value{Kind: kind, Null: true, Placeholder: true}
}

// NewLeaf creates leaf value
func NewLeaf(kind descriptor.Kind, leaf interface{}) *Value {
	return &Value{Kind: kind, Leaf: leaf}
}

// NewCollection creates collection value
func NewCollection(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{Kind: descriptor.KindCollection, Items: items}
}

// NewMap creates map value
func NewMap(entries ...*Entry) *Value {
	if entries == nil {
		entries = []*Entry{}
	}
	return &Value{Kind: descriptor.KindMap, Entries: entries}
}

// NewComposite creates composite value
func NewComposite(fields ...*Field) *Value {
	if fields == nil {
		fields = []*Field{}
	}
	return &Value{Kind: descriptor.KindComposite, Fields: fields}
}

// Field returns field value by name
func (v *Value) Field(name string) *Value {
	for _, field := range v.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return nil
}
