package resolver

import (
	"context"

	"github.com/viant/invoke/descriptor"
)

type (
	// Lookup returns raw type shape for a fully qualified or simple type name, nil shape when type is unknown
	Lookup interface {
		Lookup(ctx context.Context, name string) (*Shape, error)
	}

	// LookupFunc adapts function to Lookup
	LookupFunc func(ctx context.Context, name string) (*Shape, error)

	// Shape represents raw type information supplied by a type introspection collaborator
	Shape struct {
		Name       string          `json:"name" yaml:"name"`
		Kind       descriptor.Kind `json:"kind" yaml:"kind"`
		Package    string          `json:"package,omitempty" yaml:"package,omitempty"`
		Imports    []string        `json:"imports,omitempty" yaml:"imports,omitempty"`
		Params     []string        `json:"params,omitempty" yaml:"params,omitempty"`
		Fields     []*FieldShape   `json:"fields,omitempty" yaml:"fields,omitempty"`
		EnumValues []string        `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
		Elem       string          `json:"elem,omitempty" yaml:"elem,omitempty"`
		Key        string          `json:"key,omitempty" yaml:"key,omitempty"`
		Value      string          `json:"value,omitempty" yaml:"value,omitempty"`
		Base       string          `json:"base,omitempty" yaml:"base,omitempty"`
	}

	// FieldShape represents raw field declaration
	FieldShape struct {
		Name string `json:"name" yaml:"name"`
		Type string `json:"type" yaml:"type"`
	}
)

// Lookup calls underlying function
func (f LookupFunc) Lookup(ctx context.Context, name string) (*Shape, error) {
	return f(ctx, name)
}

// Scope returns name resolution context of types declared by this shape
func (s *Shape) Scope() *Context {
	pkg := s.Package
	if pkg == "" {
		pkg = packageOf(s.Name)
	}
	return &Context{Package: pkg, Imports: s.Imports, Class: s.Name}
}
