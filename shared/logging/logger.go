package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const (
	InvocationId         = "InvocationId"
	OpenTelemetryTraceId = "OpenTelemetryTraceId"
	DEBUG                = "DEBUG"
	INFO                 = "INFO"
	WARN                 = "WARN"
	ERROR                = "ERROR"
)

type contextKey string

const invocationIDKey = contextKey(InvocationId)

// Logger represents structured logger
type Logger interface {
	IsDebugEnabled() bool
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Infoc(ctx context.Context, msg string, args ...any)
	Debugc(ctx context.Context, msg string, args ...any)
	Warnc(ctx context.Context, msg string, args ...any)
	Errorc(ctx context.Context, msg string, args ...any)
}

type slogger struct {
	logger *slog.Logger
	level  slog.Level
}

// WithInvocationID returns context carrying invocation id
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationID returns invocation id or empty string
func InvocationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(invocationIDKey).(string)
	return id
}

// New creates a structured logger using the JSON Handler.
// Creating this logger sets this as the default logger, so any logging after this
// which goes through the standard logging package will also produce JSON structured
// logs.
func New(level string, dest io.Writer) Logger {
	if dest == nil {
		dest = os.Stderr
	}
	logLevel := ParseLevel(level)
	handler := slog.NewJSONHandler(dest, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			return a
		},
	})
	sl := slog.New(handler)
	slog.SetDefault(sl)
	return &slogger{sl, logLevel}
}

// Nop returns a logger that drops everything
func Nop() Logger {
	return &slogger{logger: slog.New(slog.NewJSONHandler(io.Discard, nil)), level: slog.LevelError + 1}
}

// ParseLevel maps level name, info is used for unknown names
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (s *slogger) IsDebugEnabled() bool {
	return s.level.Level() <= slog.LevelDebug
}

func (s *slogger) enabled(level slog.Level) bool {
	return s.level.Level() <= level
}

// getCallerInfo uses runtime to get the caller's program counter
// and extract info from the stack frame to get the function name, etc.
func (s *slogger) getCallerInfo() []any {
	callers := make([]uintptr, 1)
	count := runtime.Callers(4, callers[:])
	if count == 0 {
		return nil
	}
	frame, _ := runtime.CallersFrames(callers).Next()
	return []any{"function", frame.Function, "file", frame.File, "line", frame.Line}
}

// getContextValues retrieves invocation id and active span trace id
func (s *slogger) getContextValues(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var values []any
	if id := InvocationID(ctx); id != "" {
		values = append(values, InvocationId, id)
	}
	if spanContext := trace.SpanContextFromContext(ctx); spanContext.HasTraceID() {
		values = append(values, OpenTelemetryTraceId, spanContext.TraceID().String())
	}
	return values
}

func (s *slogger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if !s.enabled(level) {
		return
	}
	attrs := s.getCallerInfo()
	attrs = append(attrs, s.getContextValues(ctx)...)
	attrs = append(attrs, redactArgs(args)...)
	s.logger.Log(context.Background(), level, msg, attrs...)
}

// Info wraps a call to slog.Info, inserting details for the calling function.
func (s *slogger) Info(msg string, args ...any) {
	s.log(context.Background(), slog.LevelInfo, msg, args)
}

// Debug wraps a call to slog.Debug, inserting details for the calling function.
func (s *slogger) Debug(msg string, args ...any) {
	s.log(context.Background(), slog.LevelDebug, msg, args)
}

func (s *slogger) Warn(msg string, args ...any) {
	s.log(context.Background(), slog.LevelWarn, msg, args)
}

func (s *slogger) Error(msg string, args ...any) {
	s.log(context.Background(), slog.LevelError, msg, args)
}

// Infoc wraps a call to slog.Info, inserting details for the calling function,
// and retrieving known values from the context object.
func (s *slogger) Infoc(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelInfo, msg, args)
}

func (s *slogger) Debugc(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelDebug, msg, args)
}

func (s *slogger) Warnc(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelWarn, msg, args)
}

func (s *slogger) Errorc(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelError, msg, args)
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|token|apiKey)=([^&\s]+)`),
	// user:pass@host in registry or bridge URLs
	regexp.MustCompile(`(?i)(://[^/:@\s]*):[^@/\s]+@`),
}

// redactArgs masks sensitive key/value pairs and credentials embedded in URLs
func redactArgs(args []any) []any {
	var result = make([]any, len(args))
	copy(result, args)
	for i := 0; i < len(result); i++ {
		if key, ok := result[i].(string); ok && i%2 == 0 && isSensitiveKey(key) && i+1 < len(result) {
			result[i+1] = "[REDACTED]"
			i++
			continue
		}
		if text, ok := result[i].(string); ok {
			result[i] = redactSensitiveInfo(text)
		}
	}
	return result
}

func redactSensitiveInfo(value string) string {
	value = sensitivePatterns[0].ReplaceAllString(value, "$1=[REDACTED]")
	return sensitivePatterns[1].ReplaceAllString(value, "$1:[REDACTED]@")
}

// isSensitiveKey returns true if the key is known to contain sensitive data.
func isSensitiveKey(key string) bool {
	switch strings.ToLower(key) {
	case "authorization", "token", "apikey", "password", "secret":
		return true
	}
	return false
}
