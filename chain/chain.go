package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viant/invoke/command"
	"github.com/viant/invoke/metric"
	"github.com/viant/invoke/shared/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTimeout represents default per attempt timeout
	DefaultTimeout = 3 * time.Second
	tracerName     = "github.com/viant/invoke/chain"
)

type (
	// Strategy represents one invocation transport
	Strategy interface {
		Name() string
		Attempt(ctx context.Context, request *command.Request) *Outcome
	}

	// Chain executes request against strategies in priority order
	Chain struct {
		strategies []Strategy
		timeout    time.Duration
		logger     logging.Logger
		metrics    *metric.Service
		tracer     trace.Tracer
	}

	// Option represents chain option
	Option func(c *Chain)
)

// WithTimeout sets per attempt timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Chain) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithMetrics sets metric service
func WithMetrics(metrics *metric.Service) Option {
	return func(c *Chain) {
		c.metrics = metrics
	}
}

// WithTracer sets tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Chain) {
		c.tracer = tracer
	}
}

// New creates a chain
func New(strategies []Strategy, opts ...Option) *Chain {
	ret := &Chain{strategies: strategies, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = logging.Nop()
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer(tracerName)
	}
	return ret
}

// Strategies returns strategy names in priority order
func (c *Chain) Strategies() []string {
	var result = make([]string, 0, len(c.strategies))
	for _, strategy := range c.strategies {
		result = append(result, strategy.Name())
	}
	return result
}

// Invoke runs strategies one at a time until one succeeds or a failure is not retryable
func (c *Chain) Invoke(ctx context.Context, request *command.Request) *Outcome {
	id := request.ID
	if id == "" {
		id = uuid.New().String()
	}
	ctx = logging.WithInvocationID(ctx, id)
	ctx, span := c.tracer.Start(ctx, "invoke "+request.Key(), trace.WithAttributes(
		attribute.String("invoke.id", id),
		attribute.String("invoke.service", request.Service),
		attribute.String("invoke.method", request.Method),
	))
	defer span.End()

	metrics := metric.NewMetrics()
	if len(c.strategies) == 0 {
		failure := &Failure{Kind: ServiceNotFound, Message: "no invocation strategy configured"}
		span.SetStatus(codes.Error, failure.Message)
		return &Outcome{Failure: aggregate([]*Failure{failure}), Metrics: metrics}
	}
	var failures []*Failure
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			failures = append(failures, cancelled(strategy.Name(), err))
			break
		}
		outcome := c.attempt(ctx, strategy, request, metrics)
		if outcome.OK() {
			outcome.Success.Attempts = failures
			outcome.Metrics = metrics
			span.SetAttributes(attribute.String("invoke.strategy", outcome.Success.Strategy))
			c.logger.Infoc(ctx, "invocation succeeded", "service", request.Service, "method", request.Method, "strategy", outcome.Success.Strategy)
			return outcome
		}
		failures = append(failures, outcome.Failure)
		if !outcome.Failure.Retryable {
			break
		}
	}
	failure := aggregate(failures)
	span.SetAttributes(attribute.String("invoke.kind", string(failure.Kind)))
	span.SetStatus(codes.Error, failure.Message)
	c.logger.Errorc(ctx, "invocation failed", "service", request.Service, "method", request.Method, "kind", string(failure.Kind), "error", failure.Message)
	return &Outcome{Failure: failure, Metrics: metrics}
}

func (c *Chain) attempt(ctx context.Context, strategy Strategy, request *command.Request, metrics *metric.Metrics) *Outcome {
	name := strategy.Name()
	record := metric.NewAttempt(name)
	done := c.metrics.Recorder(name).Start(record.Started())
	event := metric.Success
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	attemptCtx, span := c.tracer.Start(attemptCtx, "attempt "+name, trace.WithAttributes(attribute.String("invoke.strategy", name)))
	defer span.End()
	c.logger.Debugc(ctx, "attempting strategy", "strategy", name, "timeout", c.timeout.String())

	outcome := c.run(attemptCtx, strategy, request)
	if !outcome.OK() {
		failure := outcome.Failure
		if err := ctx.Err(); err != nil {
			failure.Kind, failure.Retryable = Cancelled, false
		} else if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && failure.Kind != Timeout {
			failure.Kind, failure.Retryable = Timeout, true
			failure.Message = fmt.Sprintf("%v timed out after %v: %v", name, c.timeout, failure.Message)
		}
		record.Kind, record.Retryable = string(failure.Kind), failure.Retryable
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Message)
		switch {
		case failure.Kind == Cancelled:
			event = metric.Cancelled
		case failure.Retryable:
			event = metric.Retryable
		default:
			event = metric.Failure
		}
		c.logger.Warnc(ctx, "strategy failed", "strategy", name, "kind", string(failure.Kind), "retryable", failure.Retryable, "error", failure.Message)
	}
	end := time.Now()
	record.Done(end)
	done(end, event)
	metrics.AddAttempt(record)
	return outcome
}

func (c *Chain) run(ctx context.Context, strategy Strategy, request *command.Request) (outcome *Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Failed(strategy.Name(), NewError(SerializationError, fmt.Errorf("strategy %v panic: %v", strategy.Name(), r)))
		}
	}()
	outcome = strategy.Attempt(ctx, request)
	if outcome == nil {
		return Failed(strategy.Name(), NewError(SerializationError, fmt.Errorf("strategy %v returned no outcome", strategy.Name())))
	}
	if outcome.Success != nil && outcome.Success.Strategy == "" {
		outcome.Success.Strategy = strategy.Name()
	}
	if outcome.Failure != nil && outcome.Failure.Strategy == "" {
		outcome.Failure.Strategy = strategy.Name()
	}
	if outcome.Success == nil && outcome.Failure == nil {
		return Failed(strategy.Name(), NewError(SerializationError, fmt.Errorf("strategy %v returned empty outcome", strategy.Name())))
	}
	return outcome
}

func cancelled(strategy string, err error) *Failure {
	return &Failure{Strategy: strategy, Kind: Cancelled, Message: "invocation cancelled: " + err.Error(), err: err}
}
