// Package memory provides a mutex-guarded, transactional in-memory
// implementation of every storage contract the services depend on. It backs
// the test suite and doubles as a reference implementation of the
// repository semantics the PostgreSQL layer expresses in SQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/approval"
	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
)

type txMarker struct{}

// Store holds all aggregates behind one mutex. WithinTx holds the mutex
// for the whole transaction, which gives the serializable isolation the
// daily-limit check needs, and restores a snapshot on error so a failed
// operation leaves no partial state.
type Store struct {
	mu sync.Mutex

	workEntries    map[string]worklog.WorkLogEntry
	absenceEntries map[string]absence.AbsenceEntry
	submissions    map[string]approval.MonthlySubmission
	approvals      map[string]approval.DailyEntryApproval

	// approvalSeq orders approvals for supersession checks without relying
	// on clock resolution.
	approvalSeq map[string]int64
	nextSeq     int64
}

func NewStore() *Store {
	return &Store{
		workEntries:    make(map[string]worklog.WorkLogEntry),
		absenceEntries: make(map[string]absence.AbsenceEntry),
		submissions:    make(map[string]approval.MonthlySubmission),
		approvals:      make(map[string]approval.DailyEntryApproval),
		approvalSeq:    make(map[string]int64),
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// enter takes the store lock unless the context already runs inside a
// transaction that holds it.
func (s *Store) enter(ctx context.Context) func() {
	if ctx.Value(txMarker{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	workEntries    map[string]worklog.WorkLogEntry
	absenceEntries map[string]absence.AbsenceEntry
	submissions    map[string]approval.MonthlySubmission
	approvals      map[string]approval.DailyEntryApproval
	approvalSeq    map[string]int64
	nextSeq        int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		workEntries:    copyMap(s.workEntries),
		absenceEntries: copyMap(s.absenceEntries),
		submissions:    copyMap(s.submissions),
		approvals:      copyMap(s.approvals),
		approvalSeq:    copyMap(s.approvalSeq),
		nextSeq:        s.nextSeq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.workEntries = snap.workEntries
	s.absenceEntries = snap.absenceEntries
	s.submissions = snap.submissions
	s.approvals = snap.approvals
	s.approvalSeq = snap.approvalSeq
	s.nextSeq = snap.nextSeq
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TotalActiveHours implements entry.DailyTotalProvider. Isolation comes
// from the store lock held by the surrounding transaction.
func (s *Store) TotalActiveHours(ctx context.Context, memberID string, date time.Time, excludeWorkEntryID, excludeAbsenceEntryID *string) (float64, error) {
	defer s.enter(ctx)()

	var total float64
	for _, e := range s.workEntries {
		if e.MemberID != memberID || !sameDate(e.Date, date) || e.Deleted() {
			continue
		}
		if excludeWorkEntryID != nil && e.ID == *excludeWorkEntryID {
			continue
		}
		total += e.Hours
	}
	for _, e := range s.absenceEntries {
		if e.MemberID != memberID || !sameDate(e.Date, date) || e.Deleted() {
			continue
		}
		if excludeAbsenceEntryID != nil && e.ID == *excludeAbsenceEntryID {
			continue
		}
		total += e.Hours
	}
	return total, nil
}

func sameDate(a, b time.Time) bool {
	return a.UTC().Truncate(24*time.Hour).Equal(b.UTC().Truncate(24 * time.Hour))
}
