package invoke

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/gmetric"
	"github.com/viant/invoke/catalog"
	"github.com/viant/invoke/chain"
	"github.com/viant/invoke/codec"
	"github.com/viant/invoke/command"
	"github.com/viant/invoke/config"
	"github.com/viant/invoke/descriptor"
	"github.com/viant/invoke/lookup"
	"github.com/viant/invoke/metric"
	"github.com/viant/invoke/registry"
	"github.com/viant/invoke/resolver"
	"github.com/viant/invoke/shared/logging"
	"github.com/viant/invoke/strategy"
	"github.com/viant/invoke/strategy/bridge"
	"github.com/viant/invoke/strategy/generic"
	"github.com/viant/invoke/strategy/native"
	"github.com/viant/invoke/synth"
	"github.com/viant/invoke/value"
)

const pingName = "ping"

type (
	// Service wires type resolution, value synthesis, command building and the fallback chain
	Service struct {
		config      *config.Config
		lookups     lookup.Chain
		catalog     *catalog.Catalog
		synthesizer *synth.Synthesizer
		chain       *chain.Chain
		strategies  []chain.Strategy
		opener      registry.Opener
		logger      logging.Logger
		metrics     *metric.Service
	}

	// Option represents service option
	Option func(s *Service)

	// Signature represents method with resolved parameter and return descriptors
	Signature struct {
		Method     *command.Method
		Context    *resolver.Context
		Parameters []*descriptor.Descriptor
		Return     *descriptor.Descriptor
	}
)

// WithLookup adds type introspection lookup, lookups are asked before TypesURL definitions
func WithLookup(aLookup resolver.Lookup) Option {
	return func(s *Service) {
		s.lookups = append(s.lookups, aLookup)
	}
}

// WithCatalog sets method catalog
func WithCatalog(aCatalog *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = aCatalog
	}
}

// WithStrategies replaces configured strategies
func WithStrategies(strategies ...chain.Strategy) Option {
	return func(s *Service) {
		s.strategies = strategies
	}
}

// WithOpener sets registry opener
func WithOpener(opener registry.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// WithLogger sets logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets metrics
func WithMetrics(metrics *gmetric.Service) Option {
	return func(s *Service) {
		s.metrics = metric.New(metrics)
	}
}

// New creates a service
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.New()
	}
	ret := &Service{config: cfg}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = logging.Nop()
	}
	if ret.metrics == nil {
		ret.metrics = metric.New(gmetric.New())
	}
	if cfg.TypesURL != "" {
		definitions, err := lookup.NewDefinitionsFromURL(ctx, nil, cfg.TypesURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load types: %w", err)
		}
		ret.lookups = append(ret.lookups, definitions)
	}
	if ret.catalog == nil {
		var err error
		if cfg.CatalogURL != "" {
			ret.catalog, err = catalog.NewFromURL(ctx, nil, cfg.CatalogURL)
		} else {
			ret.catalog, err = catalog.New()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
	}
	if ret.opener == nil {
		ret.opener = registry.NewOpener(cfg.RegistryOptions())
	}
	if ret.strategies == nil {
		strategies, err := ret.newStrategies()
		if err != nil {
			return nil, err
		}
		ret.strategies = strategies
	}
	ret.synthesizer = synth.New(synth.WithMaxDepth(cfg.MaxDepth), synth.WithClassHint(cfg.UseGeneric))
	ret.chain = chain.New(ret.strategies,
		chain.WithTimeout(cfg.Timeout()),
		chain.WithLogger(ret.logger),
		chain.WithMetrics(ret.metrics))
	return ret, nil
}

func (s *Service) newStrategies() ([]chain.Strategy, error) {
	options := []strategy.Option{
		strategy.WithConnectTimeout(s.config.Timeout()),
		strategy.WithApplication(s.config.ApplicationName),
		strategy.WithLogger(s.logger),
	}
	var result []chain.Strategy
	for _, name := range s.config.Strategies {
		switch name {
		case strategy.Native:
			result = append(result, native.New(s.opener, options...))
		case strategy.Generic:
			result = append(result, generic.New(s.opener, options...))
		case strategy.HTTP:
			result = append(result, bridge.New(s.config.HTTP.Options(s.logger), s.opener))
		default:
			return nil, fmt.Errorf("unsupported strategy: %v", name)
		}
	}
	return result, nil
}

// Config returns service config
func (s *Service) Config() *config.Config {
	return s.config
}

// Catalog returns method catalog
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Metrics returns invocation metrics
func (s *Service) Metrics() *gmetric.Service {
	return s.metrics.Metrics()
}

// Strategies returns strategy names in priority order
func (s *Service) Strategies() []string {
	return s.chain.Strategies()
}

// Resolve resolves type signature within supplied name resolution context
func (s *Service) Resolve(ctx context.Context, typeSignature string, aContext *resolver.Context) (*descriptor.Descriptor, error) {
	return s.resolver(aContext).Resolve(ctx, typeSignature)
}

func (s *Service) resolver(aContext *resolver.Context) *resolver.Resolver {
	if aContext == nil {
		aContext = &s.config.Context
	}
	return resolver.New(s.lookups, resolver.WithContext(aContext))
}

// Method returns catalog method for Service.method key or parses method declaration
func (s *Service) Method(declaration string) (*command.Method, *resolver.Context, error) {
	declaration = strings.TrimSpace(declaration)
	if entry, ok := s.catalog.Lookup(declaration); ok {
		method := entry.Method
		return &method, entry.Context, nil
	}
	method, err := command.ParseMethod(declaration)
	if err != nil {
		return nil, nil, err
	}
	if entry, ok := s.catalog.Lookup(method.Key()); ok && method.ReturnType == "" {
		method.ReturnType = entry.ReturnType
	}
	return method, nil, nil
}

// Describe resolves method parameter and return types
func (s *Service) Describe(ctx context.Context, method *command.Method, aContext *resolver.Context) (*Signature, error) {
	aResolver := s.resolver(aContext)
	parameters, err := aResolver.ResolveAll(ctx, method.ParameterTypes...)
	if err != nil {
		return nil, err
	}
	ret := &Signature{Method: method, Context: aContext, Parameters: parameters}
	if method.ReturnType != "" && method.ReturnType != "void" {
		if ret.Return, err = aResolver.Resolve(ctx, method.ReturnType); err != nil {
			return nil, fmt.Errorf("failed to resolve %v return type: %w", method.Key(), err)
		}
	}
	return ret, nil
}

// Sample returns sample parameter values, nulls are returned when example values are disabled
func (s *Service) Sample(signature *Signature) []*value.Value {
	if !s.config.ExampleValues() {
		var result = make([]*value.Value, 0, len(signature.Parameters))
		for _, d := range signature.Parameters {
			result = append(result, value.NewNull(d.Kind))
		}
		return result
	}
	return s.synthesizer.SynthesizeAll(signature.Parameters)
}

// Request builds invocation request, empty args are substituted with sample values
func (s *Service) Request(signature *Signature, args []byte) (*command.Request, error) {
	var values []*value.Value
	if len(strings.TrimSpace(string(args))) == 0 {
		values = s.Sample(signature)
	} else {
		if inferred, err := codec.Infer(args); err == nil && inferred.Kind == descriptor.KindCollection && len(inferred.Items) != signature.Method.Arity() {
			return nil, &command.ArityMismatchError{Method: signature.Method.Key(), Expected: signature.Method.Arity(), Actual: len(inferred.Items)}
		}
		var err error
		if values, err = codec.DecodeAll(args, signature.Parameters); err != nil {
			return nil, err
		}
	}
	return s.Build(signature, values)
}

// Build builds invocation request from values
func (s *Service) Build(signature *Signature, values []*value.Value) (*command.Request, error) {
	return command.Build(signature.Method, values,
		command.WithDescriptors(signature.Parameters),
		command.WithReturn(signature.Return),
		command.WithVersion(s.config.Version),
		command.WithGroup(s.config.Group))
}

// Command returns telnet style invoke command text
func (s *Service) Command(request *command.Request) (string, error) {
	return request.Text(s.config.UseGeneric)
}

// Ping resolves service endpoint and checks it accepts connections within configured timeout
func (s *Service) Ping(ctx context.Context, service string) (*registry.Endpoint, *chain.Failure) {
	options := strategy.NewOptions(strategy.WithConnectTimeout(s.config.Timeout()), strategy.WithLogger(s.logger))
	endpoint, err := strategy.Ping(ctx, s.opener, options, service)
	if err != nil {
		return endpoint, chain.Failed(pingName, err).Failure
	}
	return endpoint, nil
}

// Invoke runs request through the fallback chain
func (s *Service) Invoke(ctx context.Context, request *command.Request) *chain.Outcome {
	return s.chain.Invoke(ctx, request)
}

// Call resolves method, builds request from JSON args and invokes it, build errors are returned before any strategy runs
func (s *Service) Call(ctx context.Context, declaration string, args []byte) (*command.Request, *chain.Outcome, error) {
	method, aContext, err := s.Method(declaration)
	if err != nil {
		return nil, nil, err
	}
	signature, err := s.Describe(ctx, method, aContext)
	if err != nil {
		return nil, nil, err
	}
	request, err := s.Request(signature, args)
	if err != nil {
		return nil, nil, err
	}
	return request, s.Invoke(ctx, request), nil
}
