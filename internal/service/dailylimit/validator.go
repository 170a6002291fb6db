// Package dailylimit enforces the 24-hour ceiling on combined work and
// absence hours for one member on one calendar date. Neither aggregate
// queries the other directly; both write paths funnel through this
// validator inside their surrounding transaction.
package dailylimit

import (
	"context"
	"fmt"
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/entry"
)

const MaxDailyHours = 24.0

// hoursEpsilon absorbs float noise at the boundary; hours are quarter-hour
// multiples so sums are exact, but the guard is kept symmetric with the
// strict "exactly 24.0 is allowed" contract.
const hoursEpsilon = 1e-9

type Validator struct {
	totals entry.DailyTotalProvider
}

func NewValidator(totals entry.DailyTotalProvider) *Validator {
	return &Validator{totals: totals}
}

// CheckLimit verifies that adding proposedHours for the member and date
// keeps the active daily total at or under 24 hours. The entry being
// updated, if any, is excluded from the current total so its old hours are
// not double counted. Must run inside the same transaction as the write it
// guards; the total provider serializes per (member, date) there.
func (v *Validator) CheckLimit(ctx context.Context, memberID string, date time.Time, proposedHours float64, excludeWorkEntryID, excludeAbsenceEntryID *string) error {
	total, err := v.totals.TotalActiveHours(ctx, memberID, date, excludeWorkEntryID, excludeAbsenceEntryID)
	if err != nil {
		return fmt.Errorf("failed to compute daily total: %w", err)
	}

	if total+proposedHours > MaxDailyHours+hoursEpsilon {
		return entry.ErrDailyLimitExceeded
	}

	return nil
}
