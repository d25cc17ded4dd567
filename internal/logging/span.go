package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span times one network transaction and logs its outcome.
type Span struct {
	name   string
	logger *slog.Logger
	start  time.Time
	err    error
}

// StartSpan derives a child span from ctx. The returned context carries a
// logger enriched with trace and span identifiers.
func StartSpan(ctx context.Context, name string, attrs ...slog.Attr) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := FromContext(ctx)

	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
		ctx = withTraceID(ctx, traceID)
		logger = logger.With(slog.String("trace_id", traceID))
	}

	parentSpanID := SpanIDFromContext(ctx)
	spanID := uuid.NewString()

	logger = logger.With(
		slog.String("span_id", spanID),
		slog.String("span_name", name),
	)
	if parentSpanID != "" {
		logger = logger.With(slog.String("parent_span_id", parentSpanID))
	}
	for _, attr := range attrs {
		logger = logger.With(attr)
	}

	ctx = WithLogger(ctx, logger)
	ctx = withSpanID(ctx, spanID)

	return ctx, &Span{name: name, logger: logger, start: time.Now()}
}

// Fail records err as the span outcome. The last call wins.
func (s *Span) Fail(err error) {
	if s == nil {
		return
	}
	s.err = err
}

// End finalizes the span and emits a completion log entry.
func (s *Span) End() {
	if s == nil {
		return
	}
	duration := slog.Duration("duration", time.Since(s.start))
	if s.err != nil {
		s.logger.Info("span failed", duration, slog.String("error", s.err.Error()))
		return
	}
	s.logger.Info("span completed", duration)
}
