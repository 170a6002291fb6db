package worklog

import (
	"context"
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/entry"
)

// EntryRepository is the persistence contract for work log entries.
// Update and UpdateStatus carry the version compare-and-swap: they must
// only apply when the stored version equals expectedVersion, increment it
// by exactly 1, and report entry.ErrVersionConflict otherwise.
type EntryRepository interface {
	Create(ctx context.Context, e WorkLogEntry) (WorkLogEntry, error)
	GetByID(ctx context.Context, id string) (WorkLogEntry, error)
	List(ctx context.Context, filter ListEntriesFilter) ([]WorkLogEntry, int64, error)
	Update(ctx context.Context, e WorkLogEntry, expectedVersion int64) (WorkLogEntry, error)
	UpdateStatus(ctx context.Context, id string, status entry.Status, expectedVersion int64) error
	SoftDelete(ctx context.Context, id string, expectedVersion int64) error

	// ListActiveByMemberPeriod returns non-deleted entries for a member
	// whose date falls inside [from, to], for approval transitions.
	ListActiveByMemberPeriod(ctx context.Context, memberID string, from, to time.Time) ([]WorkLogEntry, error)
}
