package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/descriptor/signature"
)

type (
	// Resolver resolves type signatures into descriptor trees
	Resolver struct {
		lookup  Lookup
		context *Context
		lenient bool
	}

	// Option represents resolver option
	Option func(r *Resolver)

	//session holds state of one resolution call
	session struct {
		*Resolver
		cache    map[string]*descriptor.Descriptor
		shapes   map[string]*Shape
		visiting map[string]int
	}
)

// WithContext sets name resolution context
func WithContext(aContext *Context) Option {
	return func(r *Resolver) {
		r.context = Normalize(aContext)
	}
}

// WithLenient substitutes unknown descriptors for unresolvable names instead of failing
func WithLenient(lenient bool) Option {
	return func(r *Resolver) {
		r.lenient = lenient
	}
}

// New creates a resolver
func New(lookup Lookup, opts ...Option) *Resolver {
	ret := &Resolver{lookup: lookup, context: &Context{}}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Resolve resolves type signature, i.e. java.util.List<com.example.Row>
func (r *Resolver) Resolve(ctx context.Context, typeSignature string) (*descriptor.Descriptor, error) {
	result, err := r.ResolveAll(ctx, typeSignature)
	if err != nil {
		return nil, err
	}
	return result[0], nil
}

// ResolveAll resolves type signatures within one resolution call sharing cache
func (r *Resolver) ResolveAll(ctx context.Context, typeSignatures ...string) ([]*descriptor.Descriptor, error) {
	s := r.newSession()
	var result = make([]*descriptor.Descriptor, 0, len(typeSignatures))
	for _, text := range typeSignatures {
		sig, err := signature.Parse(text)
		if err != nil {
			return nil, err
		}
		resolved, err := s.resolve(ctx, sig, r.context, nil)
		if err != nil {
			return nil, err
		}
		result = append(result, resolved)
	}
	return result, nil
}

// ResolveSignature resolves parsed signature
func (r *Resolver) ResolveSignature(ctx context.Context, sig *signature.Signature) (*descriptor.Descriptor, error) {
	return r.newSession().resolve(ctx, sig, r.context, nil)
}

func (r *Resolver) newSession() *session {
	return &session{
		Resolver: r,
		cache:    map[string]*descriptor.Descriptor{},
		shapes:   map[string]*Shape{},
		visiting: map[string]int{},
	}
}

func (s *session) resolve(ctx context.Context, sig *signature.Signature, scope *Context, bindings map[string]*descriptor.Descriptor) (*descriptor.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sig.Dims > 0 {
		elem, err := s.resolve(ctx, sig.Elem(), scope, bindings)
		if err != nil {
			return nil, err
		}
		ret := &descriptor.Descriptor{Kind: descriptor.KindCollection, Array: true, Elem: elem}
		ret.Name = ret.TypeName()
		ret.Signature = signatureOf(elem) + "[]"
		return ret, nil
	}
	if sig.Wildcard {
		if sig.Bound != nil && !sig.Super {
			return s.resolve(ctx, sig.Bound, scope, bindings)
		}
		return descriptor.NewUnknown("?"), nil
	}
	if bound, ok := bindings[sig.Name]; ok && len(sig.Args) == 0 {
		return bound, nil
	}
	if scalar := descriptor.NewScalar(sig.Name); scalar != nil {
		if len(sig.Args) > 0 {
			return nil, &UnsupportedGenericShapeError{Name: sig.Name, Expected: 0, Actual: len(sig.Args)}
		}
		scalar.Signature = sig.Name
		return scalar, nil
	}
	if descriptor.IsObject(sig.Name) {
		return descriptor.NewUnknown("java.lang.Object"), nil
	}
	if aBuiltin := lookupBuiltin(sig.Name); aBuiltin != nil {
		return s.resolveBuiltin(ctx, aBuiltin, sig, scope, bindings)
	}
	shape, name, candidates, err := s.lookupShape(ctx, sig.Name, scope)
	if err != nil {
		return nil, err
	}
	if shape == nil {
		if s.lenient {
			return descriptor.NewUnknown(sig.Name), nil
		}
		return nil, &TypeNotFoundError{Name: sig.Name, Candidate: candidates}
	}
	return s.resolveShape(ctx, shape, name, sig, scope, bindings)
}

func (s *session) resolveBuiltin(ctx context.Context, aBuiltin *builtin, sig *signature.Signature, scope *Context, bindings map[string]*descriptor.Descriptor) (*descriptor.Descriptor, error) {
	if len(sig.Args) > 0 && len(sig.Args) != aBuiltin.arity {
		return nil, &UnsupportedGenericShapeError{Name: aBuiltin.name, Expected: aBuiltin.arity, Actual: len(sig.Args)}
	}
	args, err := s.resolveArgs(ctx, sig.Args, scope, bindings)
	if err != nil {
		return nil, err
	}
	var ret *descriptor.Descriptor
	switch aBuiltin.kind {
	case descriptor.KindCollection:
		ret = descriptor.NewCollection(aBuiltin.name, argAt(args, 0))
	case descriptor.KindMap:
		ret = descriptor.NewMap(aBuiltin.name, argAt(args, 0), argAt(args, 1))
	default:
		if elem := argAt(args, 0); elem != nil {
			return elem, nil
		}
		return descriptor.NewUnknown(aBuiltin.name), nil
	}
	ret.Signature = signatureText(aBuiltin.name, args)
	return ret, nil
}

func (s *session) resolveShape(ctx context.Context, shape *Shape, name string, sig *signature.Signature, scope *Context, bindings map[string]*descriptor.Descriptor) (*descriptor.Descriptor, error) {
	kind := shape.Kind
	if kind == "" {
		kind = descriptor.KindComposite
		if len(shape.EnumValues) > 0 {
			kind = descriptor.KindEnum
		}
	}
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape %v: %w", name, err)
	}
	if len(sig.Args) > 0 && len(sig.Args) != len(shape.Params) {
		return nil, &UnsupportedGenericShapeError{Name: name, Expected: len(shape.Params), Actual: len(sig.Args)}
	}
	switch kind {
	case descriptor.KindEnum:
		return &descriptor.Descriptor{Kind: kind, Name: name, Signature: name, EnumValues: append([]string{}, shape.EnumValues...)}, nil
	case descriptor.KindPrimitive, descriptor.KindString:
		base := shape.Base
		if scalar := descriptor.LookupScalar(base); scalar != nil {
			base = scalar.Base
		}
		return &descriptor.Descriptor{Kind: kind, Name: name, Signature: name, Base: base}, nil
	case descriptor.KindUnknown:
		return descriptor.NewUnknown(name), nil
	}

	args, err := s.resolveArgs(ctx, sig.Args, scope, bindings)
	if err != nil {
		return nil, err
	}
	key := signatureText(name, args)
	if cached, ok := s.cache[key]; ok {
		return cached, nil
	}
	if _, ok := s.visiting[name]; ok {
		return descriptor.NewSelfReference(name), nil
	}
	s.visiting[name] = len(s.visiting)
	defer delete(s.visiting, name)

	shapeScope := shape.Scope()
	if shapeScope.Class == "" {
		shapeScope.Class = name
	}
	if shapeScope.Package == "" {
		shapeScope.Package = packageOf(name)
	}
	shapeBindings := make(map[string]*descriptor.Descriptor, len(shape.Params))
	for i, param := range shape.Params {
		if arg := argAt(args, i); arg != nil {
			shapeBindings[param] = arg
			continue
		}
		shapeBindings[param] = descriptor.NewUnknown(param)
	}

	var ret *descriptor.Descriptor
	switch kind {
	case descriptor.KindCollection:
		elem, err := s.resolveText(ctx, shape.Elem, shapeScope, shapeBindings)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %v element: %w", name, err)
		}
		ret = descriptor.NewCollection(name, elem)
	case descriptor.KindMap:
		keyType, err := s.resolveText(ctx, shape.Key, shapeScope, shapeBindings)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %v key: %w", name, err)
		}
		valueType, err := s.resolveText(ctx, shape.Value, shapeScope, shapeBindings)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %v value: %w", name, err)
		}
		ret = descriptor.NewMap(name, keyType, valueType)
	default:
		ret = &descriptor.Descriptor{Kind: descriptor.KindComposite, Name: name, Fields: make([]*descriptor.Field, 0, len(shape.Fields))}
		for _, field := range shape.Fields {
			fieldType, err := s.resolveText(ctx, field.Type, shapeScope, shapeBindings)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %v.%v: %w", name, field.Name, err)
			}
			ret.Fields = append(ret.Fields, &descriptor.Field{Name: field.Name, Type: fieldType})
		}
	}
	ret.Signature = key
	if isCacheable(ret) {
		s.cache[key] = ret
	}
	return ret, nil
}

func (s *session) resolveText(ctx context.Context, text string, scope *Context, bindings map[string]*descriptor.Descriptor) (*descriptor.Descriptor, error) {
	if strings.TrimSpace(text) == "" {
		return descriptor.NewUnknown(""), nil
	}
	sig, err := signature.Parse(text)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, sig, scope, bindings)
}

func (s *session) resolveArgs(ctx context.Context, args []*signature.Signature, scope *Context, bindings map[string]*descriptor.Descriptor) ([]*descriptor.Descriptor, error) {
	if len(args) == 0 {
		return nil, nil
	}
	var result = make([]*descriptor.Descriptor, 0, len(args))
	for _, arg := range args {
		resolved, err := s.resolve(ctx, arg, scope, bindings)
		if err != nil {
			return nil, err
		}
		result = append(result, resolved)
	}
	return result, nil
}

func (s *session) lookupShape(ctx context.Context, name string, scope *Context) (*Shape, string, []string, error) {
	candidates := scope.Candidates(name)
	for _, candidate := range candidates {
		shape, ok := s.shapes[candidate]
		if !ok {
			var err error
			if shape, err = s.lookup.Lookup(ctx, candidate); err != nil {
				return nil, "", candidates, err
			}
			s.shapes[candidate] = shape
		}
		if shape == nil {
			continue
		}
		resolvedName := shape.Name
		if resolvedName == "" {
			resolvedName = candidate
		}
		if err := s.ensureUnambiguous(ctx, name, candidate, scope); err != nil {
			return nil, "", candidates, err
		}
		return shape, resolvedName, candidates, nil
	}
	return nil, "", candidates, nil
}

// ensureUnambiguous fails when a name matched through a wildcard import also matches another wildcard import
func (s *session) ensureUnambiguous(ctx context.Context, name, matched string, scope *Context) error {
	onDemand := scope.OnDemand(name)
	if !contains(onDemand, matched) {
		return nil
	}
	matches := []string{matched}
	for _, candidate := range onDemand {
		if candidate == matched {
			continue
		}
		shape, ok := s.shapes[candidate]
		if !ok {
			var err error
			if shape, err = s.lookup.Lookup(ctx, candidate); err != nil {
				return err
			}
			s.shapes[candidate] = shape
		}
		if shape != nil {
			matches = append(matches, candidate)
		}
	}
	if len(matches) > 1 {
		return &AmbiguityError{Name: name, Candidates: matches}
	}
	return nil
}

func contains(items []string, candidate string) bool {
	for _, item := range items {
		if item == candidate {
			return true
		}
	}
	return false
}

//isCacheable returns false when descriptor holds placeholders of types enclosing it on the current path
func isCacheable(d *descriptor.Descriptor) bool {
	cacheable := true
	d.Walk(func(path string, node *descriptor.Descriptor) bool {
		if node.SelfReference && node.Name != d.Name {
			cacheable = false
		}
		return cacheable
	})
	return cacheable
}

func argAt(args []*descriptor.Descriptor, index int) *descriptor.Descriptor {
	if index < len(args) {
		return args[index]
	}
	return nil
}

func signatureOf(d *descriptor.Descriptor) string {
	if d.Signature != "" {
		return d.Signature
	}
	return d.TypeName()
}

func signatureText(name string, args []*descriptor.Descriptor) string {
	if len(args) == 0 {
		return name
	}
	var items = make([]string, 0, len(args))
	for _, arg := range args {
		items = append(items, signatureOf(arg))
	}
	return name + "<" + strings.Join(items, ", ") + ">"
}
