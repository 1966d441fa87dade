package command

import (
	"strings"

	"github.com/viant/invoke/codec"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/value"
)

type (
	// Parameter represents invocation parameter
	Parameter struct {
		TypeName   string
		Descriptor *descriptor.Descriptor
		Value      *value.Value
	}

	// Request represents an immutable invocation request
	Request struct {
		ID         string
		Service    string
		Method     string
		Version    string
		Group      string
		Parameters []*Parameter
		Return     *descriptor.Descriptor
	}

	// Option represents build option
	Option func(r *Request)
)

// WithDescriptors sets resolved parameter descriptors
func WithDescriptors(descriptors []*descriptor.Descriptor) Option {
	return func(r *Request) {
		for i, d := range descriptors {
			if i < len(r.Parameters) && d != nil {
				r.Parameters[i].Descriptor = d
				r.Parameters[i].TypeName = d.TypeName()
			}
		}
	}
}

// WithReturn sets return type descriptor
func WithReturn(d *descriptor.Descriptor) Option {
	return func(r *Request) {
		r.Return = d
	}
}

// WithVersion sets service version
func WithVersion(version string) Option {
	return func(r *Request) {
		r.Version = version
	}
}

// WithGroup sets service group
func WithGroup(group string) Option {
	return func(r *Request) {
		r.Group = group
	}
}

// WithID sets invocation id
func WithID(id string) Option {
	return func(r *Request) {
		r.ID = id
	}
}

// Build assembles invocation request, the only validation performed is arity
func Build(method *Method, values []*value.Value, opts ...Option) (*Request, error) {
	if len(values) != method.Arity() {
		return nil, &ArityMismatchError{Method: method.Key(), Expected: method.Arity(), Actual: len(values)}
	}
	ret := &Request{Service: method.Service, Method: method.Name, Parameters: make([]*Parameter, 0, len(values))}
	for i, v := range values {
		ret.Parameters = append(ret.Parameters, &Parameter{TypeName: Erasure(method.ParameterTypes[i]), Value: v})
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret, nil
}

// TypeNames returns erased parameter type names
func (r *Request) TypeNames() []string {
	var result = make([]string, 0, len(r.Parameters))
	for _, param := range r.Parameters {
		result = append(result, param.TypeName)
	}
	return result
}

// Values returns parameter values
func (r *Request) Values() []*value.Value {
	var result = make([]*value.Value, 0, len(r.Parameters))
	for _, param := range r.Parameters {
		result = append(result, param.Value)
	}
	return result
}

// Key returns Service.method
func (r *Request) Key() string {
	return r.Service + "." + r.Method
}

// Text returns telnet style invoke command
func (r *Request) Text(generic bool) (string, error) {
	args, err := codec.EncodeAll(r.Values())
	if err != nil {
		return "", err
	}
	params := string(args[1 : len(args)-1])
	builder := strings.Builder{}
	builder.WriteString("invoke ")
	builder.WriteString(r.Service)
	if !generic {
		builder.WriteByte('.')
		builder.WriteString(r.Method)
		builder.WriteByte('(')
		builder.WriteString(params)
		builder.WriteByte(')')
		return builder.String(), nil
	}
	builder.WriteString(".$invoke(\"")
	builder.WriteString(r.Method)
	builder.WriteString("\", new String[]{")
	for i, typeName := range r.TypeNames() {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteByte('"')
		builder.WriteString(typeName)
		builder.WriteByte('"')
	}
	builder.WriteString("}, new Object[]{")
	builder.WriteString(params)
	builder.WriteString("})")
	return builder.String(), nil
}

// Erasure strips type arguments, array suffixes are kept
func Erasure(typeName string) string {
	typeName = strings.TrimSpace(typeName)
	index := strings.IndexByte(typeName, '<')
	if index == -1 {
		return typeName
	}
	end := strings.LastIndexByte(typeName, '>')
	if end < index {
		return typeName[:index]
	}
	return strings.TrimSpace(typeName[:index]) + strings.TrimSpace(typeName[end+1:])
}
