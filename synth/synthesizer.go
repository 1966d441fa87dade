package synth

import (
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/value"
)

// DefaultMaxDepth represents default container nesting limit
const DefaultMaxDepth = 8

type (
	// Synthesizer produces canonical sample values for type descriptors
	Synthesizer struct {
		maxDepth  int
		classHint bool
	}

	// Option represents synthesizer option
	Option func(s *Synthesizer)
)

// WithMaxDepth sets container nesting limit
func WithMaxDepth(depth int) Option {
	return func(s *Synthesizer) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// WithClassHint sets composite class names on synthesized values
func WithClassHint(classHint bool) Option {
	return func(s *Synthesizer) {
		s.classHint = classHint
	}
}

// New creates a synthesizer
func New(opts ...Option) *Synthesizer {
	ret := &Synthesizer{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// MaxDepth returns container nesting limit
func (s *Synthesizer) MaxDepth() int {
	return s.maxDepth
}

// Synthesize returns sample value for supplied descriptor, partial values are returned once depth limit is exceeded
func (s *Synthesizer) Synthesize(d *descriptor.Descriptor) *value.Value {
	return s.synthesize(d, 0)
}

// SynthesizeAll returns sample values for supplied descriptors
func (s *Synthesizer) SynthesizeAll(descriptors []*descriptor.Descriptor) []*value.Value {
	var result = make([]*value.Value, 0, len(descriptors))
	for _, d := range descriptors {
		result = append(result, s.Synthesize(d))
	}
	return result
}

func (s *Synthesizer) synthesize(d *descriptor.Descriptor, depth int) *value.Value {
	if d == nil {
		return value.NewNull(descriptor.KindUnknown)
	}
	switch d.Kind {
	case descriptor.KindPrimitive:
		return value.NewLeaf(d.Kind, Default(d.Base))
	case descriptor.KindString:
		return value.NewLeaf(d.Kind, "")
	case descriptor.KindEnum:
		if len(d.EnumValues) == 0 {
			return value.NewNull(d.Kind)
		}
		return value.NewLeaf(d.Kind, d.EnumValues[0])
	case descriptor.KindCollection, descriptor.KindMap, descriptor.KindComposite:
		if depth >= s.maxDepth {
			return value.NewPlaceholder(d.Kind)
		}
	default:
		return value.NewNull(descriptor.KindUnknown)
	}

	switch d.Kind {
	case descriptor.KindCollection:
		return value.NewCollection(s.synthesize(d.Elem, depth+1))
	case descriptor.KindMap:
		return value.NewMap(&value.Entry{
			Key:   s.synthesize(d.Key, depth+1),
			Value: s.synthesize(d.Value, depth+1),
		})
	}
	ret := value.NewComposite(make([]*value.Field, 0, len(d.Fields))...)
	if s.classHint {
		ret.Class = d.Name
	}
	for _, field := range d.Fields {
		ret.Fields = append(ret.Fields, &value.Field{Name: field.Name, Value: s.synthesize(field.Type, depth+1)})
	}
	return ret
}

// Default returns canonical default leaf for a primitive base
func Default(base string) interface{} {
	switch {
	case descriptor.IsFloating(base):
		return float64(0)
	case base == descriptor.BaseBoolean:
		return false
	case base == descriptor.BaseChar:
		return ""
	}
	return int64(0)
}
