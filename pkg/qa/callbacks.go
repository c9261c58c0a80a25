package qa

import (
	"context"
	"log/slog"
)

// CallbackHandler receives informational emissions at two fixed points
// during an invocation: after statement generation and after query
// execution. Emissions are synchronous and best-effort; a panicking handler
// never aborts the chain.
type CallbackHandler interface {
	// OnStatement is called with the generated query statement before it is
	// executed.
	OnStatement(ctx context.Context, statement string)

	// OnResult is called with the formatted query context before answer
	// synthesis.
	OnResult(ctx context.Context, formatted string)
}

// NoopCallbacks is the default CallbackHandler. It discards all emissions.
type NoopCallbacks struct{}

func (NoopCallbacks) OnStatement(context.Context, string) {}
func (NoopCallbacks) OnResult(context.Context, string)    {}

// LogCallbacks emits to a slog logger.
type LogCallbacks struct {
	Log *slog.Logger
}

func (c LogCallbacks) OnStatement(ctx context.Context, statement string) {
	c.Log.InfoContext(ctx, "generated statement", "statement", statement)
}

func (c LogCallbacks) OnResult(ctx context.Context, formatted string) {
	c.Log.InfoContext(ctx, "query context", "context", formatted)
}
