// Package attemptlog defines the audit trail of checkout attempts.
//
// Every gate run and every submission appends an immutable row, so
// support tooling can answer "why didn't this customer's order go
// through" and correlate the answer with a distributed trace via the
// trace_id column.
package attemptlog

import "time"

// Status is the lifecycle state a checkout attempt reached.
type Status string

const (
	// StatusStarted is written when a gate run begins.
	StatusStarted Status = "STARTED"
	// StatusBlocked means a gate check failed; Prompt and Detail say which.
	StatusBlocked Status = "BLOCKED"
	// StatusPassed means all gate checks cleared.
	StatusPassed Status = "PASSED"
	// StatusSubmitted means the order-creation call was issued.
	StatusSubmitted Status = "SUBMITTED"
	// StatusCompleted means the backend accepted the order.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed means the order-creation call failed; the cart survives.
	StatusFailed Status = "FAILED"
)

// Attempt is a single row in the checkout_attempts table: a point-in-time
// snapshot of one checkout pass.
type Attempt struct {
	// CartID identifies the cart this attempt belongs to, joining the log
	// with business data.
	CartID string

	// CustomerID is the cart owner.
	CustomerID string

	// Status is the lifecycle state at the time this row was written.
	Status Status

	// Prompt is the gate prompt kind for BLOCKED rows (verify, address,
	// payment, ...). Empty otherwise.
	Prompt string

	// Detail carries the human-readable block message or submission error.
	Detail string

	// GrandTotal is the order total plus tip at the time of the attempt.
	GrandTotal float64

	// TraceID is the W3C trace ID from the OpenTelemetry span active when
	// the row was written; SpanID pinpoints the span within it.
	TraceID string
	SpanID  string

	// CreatedAt is the wall-clock time of this row.
	CreatedAt time.Time
}
