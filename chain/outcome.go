package chain

import (
	"fmt"
	"strings"

	"github.com/viant/invoke/metric"
	"github.com/viant/invoke/value"
)

type (
	// Outcome represents Success or Failure of an invocation
	Outcome struct {
		Success *Success
		Failure *Failure
		Metrics *metric.Metrics `json:",omitempty"`
	}

	// Success represents successful invocation
	Success struct {
		Strategy string
		Result   *value.Value
		// Attempts lists failures of strategies tried before the successful one
		Attempts []*Failure `json:",omitempty"`
	}

	// Failure represents failed attempt, aggregate failure carries all attempts in order
	Failure struct {
		Strategy  string
		Kind      ErrorKind
		Message   string
		Retryable bool
		Attempts  []*Failure `json:",omitempty"`
		err       error
	}
)

// Succeeded creates success outcome
func Succeeded(strategy string, result *value.Value) *Outcome {
	return &Outcome{Success: &Success{Strategy: strategy, Result: result}}
}

// Failed creates failure outcome classifying supplied error
func Failed(strategy string, err error) *Outcome {
	kind, retryable := Classify(err)
	return &Outcome{Failure: &Failure{Strategy: strategy, Kind: kind, Message: err.Error(), Retryable: retryable, err: err}}
}

// OK returns true for success
func (o *Outcome) OK() bool {
	return o != nil && o.Success != nil
}

// Strategy returns strategy used for success or last attempted strategy
func (o *Outcome) Strategy() string {
	if o.Success != nil {
		return o.Success.Strategy
	}
	if o.Failure != nil {
		return o.Failure.Strategy
	}
	return ""
}

func (f *Failure) Error() string {
	if len(f.Attempts) < 2 {
		return fmt.Sprintf("%v failed (%v): %v", f.Strategy, f.Kind, f.Message)
	}
	builder := strings.Builder{}
	builder.WriteString(f.Message)
	builder.WriteString(" [")
	for i, attempt := range f.Attempts {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(attempt.Strategy)
		builder.WriteString(": ")
		builder.WriteString(string(attempt.Kind))
	}
	builder.WriteString("]")
	return builder.String()
}

func (f *Failure) Unwrap() error {
	return f.err
}

func aggregate(failures []*Failure) *Failure {
	last := failures[len(failures)-1]
	return &Failure{
		Strategy:  last.Strategy,
		Kind:      last.Kind,
		Message:   last.Message,
		Retryable: last.Retryable,
		Attempts:  failures,
		err:       last.err,
	}
}
