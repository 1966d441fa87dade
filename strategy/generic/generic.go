package generic

import (
	"context"

	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/command"
	"github.com/viant/invoke/registry"
	"github.com/viant/invoke/strategy"
	"github.com/viant/invoke/transport/dubbo"
	"github.com/viant/invoke/transport/hessian"
)

const (
	// Method represents GenericService method name
	Method = "$invoke"
	// ParameterTypes represents $invoke(String, String[], Object[]) descriptor
	ParameterTypes = "Ljava/lang/String;[Ljava/lang/String;[Ljava/lang/Object;"
	genericKey     = "generic"
)

// Strategy invokes method through GenericService, composite arguments are sent as maps with class key
type Strategy struct {
	opener  registry.Opener
	options *strategy.Options
}

// New creates generic strategy
func New(opener registry.Opener, opts ...strategy.Option) *Strategy {
	return &Strategy{opener: opener, options: strategy.NewOptions(opts...)}
}

func (s *Strategy) Name() string {
	return strategy.Generic
}

func (s *Strategy) Attempt(ctx context.Context, request *command.Request) *chain.Outcome {
	invocation, err := NewInvocation(request)
	if err != nil {
		return chain.Failed(s.Name(), chain.NewRetryableError(chain.SerializationError, err))
	}
	response, err := strategy.Call(ctx, s.opener, s.options, request, invocation)
	if err != nil {
		return chain.Failed(s.Name(), err)
	}
	result, err := hessian.ToValue(response.Value, request.Return)
	if err != nil {
		return chain.Failed(s.Name(), chain.NewRetryableError(chain.SerializationError, err))
	}
	return chain.Succeeded(s.Name(), result)
}

// NewInvocation creates $invoke invocation for supplied request
func NewInvocation(request *command.Request) (*dubbo.Invocation, error) {
	values := make([]interface{}, 0, len(request.Parameters))
	for _, parameter := range request.Parameters {
		arg, err := hessian.FromValue(parameter.Value, parameter.Descriptor, true)
		if err != nil {
			return nil, err
		}
		values = append(values, arg)
	}
	return &dubbo.Invocation{
		Service:        request.Service,
		Version:        request.Version,
		Method:         Method,
		ParameterTypes: ParameterTypes,
		Args:           []interface{}{request.Method, request.TypeNames(), values},
		Attachments:    map[string]string{genericKey: "true"},
	}, nil
}
