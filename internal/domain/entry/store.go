package entry

import (
	"context"
	"time"
)

// TxRunner executes fn atomically. Mutations performed through the ctx it
// passes either all commit or all roll back, and the daily-limit check
// inside it observes a serializable view of the (member, date) totals.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DailyTotalProvider sums non-deleted work and absence hours for one
// member and date across both aggregates. The optional exclusions keep an
// entry being updated out of its own total. Implementations must serialize
// callers per (member, date) when invoked inside a TxRunner transaction;
// the 24-hour invariant is a check-then-act sequence.
type DailyTotalProvider interface {
	TotalActiveHours(ctx context.Context, memberID string, date time.Time, excludeWorkEntryID, excludeAbsenceEntryID *string) (float64, error)
}
