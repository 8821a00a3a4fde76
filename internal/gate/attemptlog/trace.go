package attemptlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and
// returns its identifiers as hex strings. Both come back empty when the
// context carries no valid span (unit tests, for example); callers store
// them as-is.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Attempt with trace info extracted from ctx and the
// timestamp set to now.
func NewEntry(ctx context.Context, cartID, customerID string, status Status, prompt, detail string, grandTotal float64) *Attempt {
	ti := ExtractTraceInfo(ctx)
	return &Attempt{
		CartID:     cartID,
		CustomerID: customerID,
		Status:     status,
		Prompt:     prompt,
		Detail:     detail,
		GrandTotal: grandTotal,
		TraceID:    ti.TraceID,
		SpanID:     ti.SpanID,
		CreatedAt:  time.Now().UTC(),
	}
}
