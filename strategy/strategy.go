package strategy

import (
	"time"

	"github.com/viant/invoke/shared/logging"
)

// Strategy names in default priority order
const (
	Native  = "native"
	Generic = "generic"
	HTTP    = "http"
)

// DefaultConnectTimeout represents default dubbo dial timeout
const DefaultConnectTimeout = 3 * time.Second

type (
	// Options represents dubbo strategy options
	Options struct {
		ConnectTimeout time.Duration
		Application    string
		Logger         logging.Logger
	}

	// Option represents strategy option
	Option func(o *Options)
)

// WithConnectTimeout sets dial timeout
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.ConnectTimeout = timeout
		}
	}
}

// WithApplication sets application name attachment
func WithApplication(name string) Option {
	return func(o *Options) {
		o.Application = name
	}
}

// WithLogger sets logger
func WithLogger(logger logging.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// NewOptions creates options
func NewOptions(opts ...Option) *Options {
	ret := &Options{ConnectTimeout: DefaultConnectTimeout, Logger: logging.Nop()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
