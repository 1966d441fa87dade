package registry

import (
	"context"
	"time"
)

type (
	// Resolver resolves service endpoint, it is opened per invocation and closed on every exit path
	Resolver interface {
		ResolveEndpoint(ctx context.Context, service string) (*Endpoint, error)
		Close() error
	}

	// Opener opens a resolver
	Opener func(ctx context.Context) (Resolver, error)

	// Options represents resolver options
	Options struct {
		Address       string
		DefaultPort   int
		Protocol      string
		Version       string
		Group         string
		Retries       int
		RetryDelay    time.Duration
		DialTimeout   time.Duration
		RedisPassword string
		RedisDB       int
	}
)

// Direct resolves every service to a fixed address
type Direct struct {
	address string
}

// NewDirect creates direct resolver
func NewDirect(address string) *Direct {
	return &Direct{address: address}
}

func (d *Direct) ResolveEndpoint(ctx context.Context, service string) (*Endpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Endpoint{Protocol: Dubbo, Address: d.address, Service: service}, nil
}

func (d *Direct) Close() error {
	return nil
}

// Static resolves services from provider URLs known upfront
type Static struct {
	providers map[string][]string
	selector  *Selector
}

// NewStatic creates static resolver
func NewStatic(providers map[string][]string, selector *Selector) *Static {
	if selector == nil {
		selector = &Selector{}
	}
	return &Static{providers: providers, selector: selector}
}

func (s *Static) ResolveEndpoint(ctx context.Context, service string) (*Endpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	providers, ok := s.providers[service]
	if !ok {
		return nil, &UnavailableError{Service: service, Registry: "static", Reason: "no providers registered"}
	}
	return s.selector.Select(service, providers)
}

func (s *Static) Close() error {
	return nil
}

// Open opens resolver for configured address, registry lookups are retried when Retries is set
func Open(ctx context.Context, options *Options) (Resolver, error) {
	address, err := ParseAddress(options.Address, options.DefaultPort)
	if err != nil {
		return nil, err
	}
	selector := &Selector{Version: options.Version, Group: options.Group, Protocol: options.Protocol}
	var ret Resolver
	switch address.Protocol {
	case Dubbo:
		return NewDirect(address.Host()), nil
	case SchemeEtcd:
		if ret, err = NewEtcd(ctx, address, selector, options.DialTimeout); err != nil {
			return nil, err
		}
	case SchemeRedis:
		password := options.RedisPassword
		if password == "" {
			password = address.Password
		}
		ret = NewRedis(address, password, options.RedisDB, selector)
	default:
		return nil, &UnsupportedError{Protocol: address.Protocol}
	}
	if options.Retries > 0 {
		ret = NewRetrying(ret, options.Retries, options.RetryDelay)
	}
	return ret, nil
}

// NewOpener returns opener for options
func NewOpener(options *Options) Opener {
	return func(ctx context.Context) (Resolver, error) {
		return Open(ctx, options)
	}
}
