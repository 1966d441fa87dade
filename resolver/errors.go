package resolver

import (
	"fmt"
	"strings"
)

// TypeNotFoundError represents type name that could not be resolved in the surrounding context
type TypeNotFoundError struct {
	Name      string
	Candidate []string
}

func (e *TypeNotFoundError) Error() string {
	if len(e.Candidate) == 0 {
		return fmt.Sprintf("type not found: %v", e.Name)
	}
	return fmt.Sprintf("type not found: %v, tried: %v", e.Name, strings.Join(e.Candidate, ", "))
}

// UnsupportedGenericShapeError represents type argument count mismatch
type UnsupportedGenericShapeError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *UnsupportedGenericShapeError) Error() string {
	return fmt.Sprintf("unsupported generic shape: %v expects %d type argument(s), but had %d", e.Name, e.Expected, e.Actual)
}

// AmbiguityError represents simple name matching more than one type
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous type %v: %v", e.Name, strings.Join(e.Candidates, ", "))
}
