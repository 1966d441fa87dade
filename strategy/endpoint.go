package strategy

import (
	"context"
	"errors"

	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/command"
	"github.com/viant/invoke/registry"
	"github.com/viant/invoke/transport/dubbo"
)

// Call resolves service endpoint with a per call registry handle and invokes it
func Call(ctx context.Context, opener registry.Opener, options *Options, request *command.Request, invocation *dubbo.Invocation) (*dubbo.Response, error) {
	endpoint, err := resolveEndpoint(ctx, opener, request.Service)
	if err != nil {
		return nil, err
	}
	if request.Group != "" {
		invocation.Attachments = withAttachment(invocation.Attachments, "group", request.Group)
	}
	if options.Application != "" {
		invocation.Attachments = withAttachment(invocation.Attachments, "application", options.Application)
	}
	options.Logger.Debugc(ctx, "calling provider", "service", request.Service, "method", invocation.Method, "address", endpoint.Address)
	client := dubbo.NewClient(endpoint.Address, dubbo.WithConnectTimeout(options.ConnectTimeout))
	response, err := client.Invoke(ctx, invocation)
	if err != nil {
		return nil, TransportError(err)
	}
	if err = response.Err(); err != nil {
		return nil, chain.NewError(chain.RemoteError, err)
	}
	return response, nil
}

func resolveEndpoint(ctx context.Context, opener registry.Opener, service string) (*registry.Endpoint, error) {
	resolver, err := opener(ctx)
	if err != nil {
		return nil, RegistryError(err)
	}
	defer resolver.Close()
	endpoint, err := resolver.ResolveEndpoint(ctx, service)
	if err != nil {
		return nil, RegistryError(err)
	}
	return endpoint, nil
}

func withAttachment(attachments map[string]string, key, value string) map[string]string {
	if attachments == nil {
		attachments = map[string]string{}
	}
	attachments[key] = value
	return attachments
}

// RegistryError classifies endpoint resolution error
func RegistryError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	unavailable := &registry.UnavailableError{}
	if errors.As(err, &unavailable) {
		return chain.NewError(chain.ServiceNotFound, err)
	}
	return chain.NewRetryableError(chain.ConnectionRefused, err)
}

// TransportError classifies dubbo client error
func TransportError(err error) error {
	statusErr := &dubbo.StatusError{}
	if !errors.As(err, &statusErr) {
		return err
	}
	switch statusErr.Status {
	case dubbo.StatusClientTimeout, dubbo.StatusServerTimeout:
		return chain.NewError(chain.Timeout, err)
	case dubbo.StatusBadResponse:
		return chain.NewRetryableError(chain.SerializationError, err)
	case dubbo.StatusBadRequest, dubbo.StatusClientError:
		return chain.NewError(chain.SerializationError, err)
	case dubbo.StatusServiceNotFound:
		return chain.NewError(chain.ServiceNotFound, err)
	case dubbo.StatusServiceError, dubbo.StatusServerError:
		return chain.NewError(chain.RemoteError, err)
	case dubbo.StatusThreadPoolExhausted:
		return chain.NewRetryableError(chain.ConnectionRefused, err)
	}
	return chain.NewRetryableError(chain.SerializationError, err)
}
