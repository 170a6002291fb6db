package absence

import (
	"context"
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/entry"
)

// EntryRepository is the persistence contract for absence entries. It
// carries the same version compare-and-swap semantics as the work log
// entry repository.
type EntryRepository interface {
	Create(ctx context.Context, e AbsenceEntry) (AbsenceEntry, error)
	GetByID(ctx context.Context, id string) (AbsenceEntry, error)
	List(ctx context.Context, filter ListEntriesFilter) ([]AbsenceEntry, int64, error)
	Update(ctx context.Context, e AbsenceEntry, expectedVersion int64) (AbsenceEntry, error)
	UpdateStatus(ctx context.Context, id string, status entry.Status, expectedVersion int64) error
	SoftDelete(ctx context.Context, id string, expectedVersion int64) error

	// ListActiveByMemberPeriod returns non-deleted entries for a member
	// whose date falls inside [from, to], for approval transitions.
	ListActiveByMemberPeriod(ctx context.Context, memberID string, from, to time.Time) ([]AbsenceEntry, error)
}
