package native

import (
	"context"

	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/command"
	"github.com/viant/invoke/registry"
	"github.com/viant/invoke/strategy"
	"github.com/viant/invoke/transport/dubbo"
	"github.com/viant/invoke/transport/hessian"
)

// Strategy invokes method with typed dubbo hessian2 RPC
type Strategy struct {
	opener  registry.Opener
	options *strategy.Options
}

// New creates native strategy
func New(opener registry.Opener, opts ...strategy.Option) *Strategy {
	return &Strategy{opener: opener, options: strategy.NewOptions(opts...)}
}

func (s *Strategy) Name() string {
	return strategy.Native
}

func (s *Strategy) Attempt(ctx context.Context, request *command.Request) *chain.Outcome {
	args := make([]interface{}, 0, len(request.Parameters))
	for _, parameter := range request.Parameters {
		arg, err := hessian.FromValue(parameter.Value, parameter.Descriptor, false)
		if err != nil {
			return chain.Failed(s.Name(), chain.NewRetryableError(chain.SerializationError, err))
		}
		args = append(args, arg)
	}
	invocation := &dubbo.Invocation{
		Service:        request.Service,
		Version:        request.Version,
		Method:         request.Method,
		ParameterTypes: strategy.ParameterTypes(request),
		Args:           args,
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
