package command

import "fmt"

// ArityMismatchError represents parameter count incompatible with method signature
type ArityMismatchError struct {
	Method   string
	Expected int
	Actual   int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("invalid %v parameters count: expected %v, but had %v", e.Method, e.Expected, e.Actual)
}
