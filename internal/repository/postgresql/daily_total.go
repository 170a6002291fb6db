package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/pkg/database"
)

type dailyTotalProviderImpl struct {
	db *database.DB
}

func NewDailyTotalProvider(db *database.DB) entry.DailyTotalProvider {
	return &dailyTotalProviderImpl{db: db}
}

// TotalActiveHours sums non-deleted work and absence hours for one member
// and date. When called inside WithTransaction it first takes a
// transaction-scoped advisory lock on the (member, date) pair, so two
// concurrent writers cannot both read a stale total and jointly break the
// 24-hour invariant.
func (p *dailyTotalProviderImpl) TotalActiveHours(ctx context.Context, memberID string, date time.Time, excludeWorkEntryID, excludeAbsenceEntryID *string) (float64, error) {
	q := GetQuerier(ctx, p.db)

	lockKey := memberID + "/" + date.Format("2006-01-02")
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return 0, fmt.Errorf("failed to lock daily total for %s: %w", lockKey, err)
	}

	query := `
		SELECT
			COALESCE((
				SELECT SUM(hours) FROM work_log_entries
				WHERE member_id = $1 AND date = $2 AND deleted_at IS NULL
				  AND ($3::uuid IS NULL OR id <> $3)
			), 0)
			+
			COALESCE((
				SELECT SUM(hours) FROM absence_entries
				WHERE member_id = $1 AND date = $2 AND deleted_at IS NULL
				  AND ($4::uuid IS NULL OR id <> $4)
			), 0)
	`

	var total float64
	err := q.QueryRow(ctx, query, memberID, date, excludeWorkEntryID, excludeAbsenceEntryID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum daily hours for %s: %w", lockKey, err)
	}

	return total, nil
}
