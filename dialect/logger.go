package dialect

import (
	"context"
	"log/slog"
)

// Logger is the diagnostics sink consumed by the statement layer. The
// library calls it at defined points (before prepare, before direct
// execute, before parameterized execute, on recoverable anomalies, on
// failures) but does not implement the sink beyond the helpers below.
type Logger interface {
	// OnPrepare is called before a statement is prepared.
	OnPrepare(text string)
	// OnExecuteDirect is called before unprepared SQL text is executed.
	OnExecuteDirect(text string)
	// OnExecute is called before a prepared statement is executed.
	OnExecute(text string)
	// OnWarning is called on any recoverable anomaly.
	OnWarning(text string)
	// OnError is called on any failure, with the source operation name.
	OnError(err error, op string)
}

// NopLogger is a Logger that discards everything.
type NopLogger struct{}

func (NopLogger) OnPrepare(string)       {}
func (NopLogger) OnExecuteDirect(string) {}
func (NopLogger) OnExecute(string)       {}
func (NopLogger) OnWarning(string)       {}
func (NopLogger) OnError(error, string)  {}

// SlogLogger adapts a *slog.Logger to the Logger contract.
type SlogLogger struct {
	L *slog.Logger
}

// NewSlogLogger returns a SlogLogger backed by l, or by slog.Default()
// when l is nil.
func NewSlogLogger(l *slog.Logger) SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return SlogLogger{L: l}
}

func (s SlogLogger) OnPrepare(text string) {
	s.L.LogAttrs(context.Background(), slog.LevelDebug, "prepare", slog.String("sql", text))
}

func (s SlogLogger) OnExecuteDirect(text string) {
	s.L.LogAttrs(context.Background(), slog.LevelDebug, "exec direct", slog.String("sql", text))
}

func (s SlogLogger) OnExecute(text string) {
	s.L.LogAttrs(context.Background(), slog.LevelDebug, "exec", slog.String("sql", text))
}

func (s SlogLogger) OnWarning(text string) {
	s.L.LogAttrs(context.Background(), slog.LevelWarn, "warning", slog.String("detail", text))
}

func (s SlogLogger) OnError(err error, op string) {
	s.L.LogAttrs(context.Background(), slog.LevelError, "error",
		slog.String("op", op), slog.String("err", err.Error()))
}

// Ensure interfaces are implemented.
var (
	_ Logger = NopLogger{}
	_ Logger = SlogLogger{}
)
