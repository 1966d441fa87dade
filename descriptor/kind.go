package descriptor

import "fmt"

// Kind represents a type descriptor kind
type Kind string

const (
	KindPrimitive  Kind = "primitive"
	KindString     Kind = "string"
	KindEnum       Kind = "enum"
	KindCollection Kind = "collection"
	KindMap        Kind = "map"
	KindComposite  Kind = "composite"
	KindUnknown    Kind = "unknown"
)

// Validate checks if kind is supported
func (k Kind) Validate() error {
	switch k {
	case KindPrimitive, KindString, KindEnum, KindCollection, KindMap, KindComposite, KindUnknown:
		return nil
	}
	return fmt.Errorf("unsupported kind: %v", string(k))
}

// IsLeaf returns true for kinds represented by a single scalar value
func (k Kind) IsLeaf() bool {
	switch k {
	case KindPrimitive, KindString, KindEnum:
		return true
	}
	return false
}
