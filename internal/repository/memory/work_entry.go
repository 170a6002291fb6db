package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
)

// WorkEntries returns the store's worklog.EntryRepository view.
func (s *Store) WorkEntries() worklog.EntryRepository {
	return (*workEntryStore)(s)
}

type workEntryStore Store

func (s *workEntryStore) Create(ctx context.Context, e worklog.WorkLogEntry) (worklog.WorkLogEntry, error) {
	defer (*Store)(s).enter(ctx)()

	now := time.Now().UTC()
	e.ID = uuid.New().String()
	e.Version = 0
	e.CreatedAt = now
	e.UpdatedAt = now
	s.workEntries[e.ID] = e
	return e, nil
}

func (s *workEntryStore) GetByID(ctx context.Context, id string) (worklog.WorkLogEntry, error) {
	defer (*Store)(s).enter(ctx)()

	e, ok := s.workEntries[id]
	if !ok || e.Deleted() {
		return worklog.WorkLogEntry{}, worklog.ErrEntryNotFound
	}
	return e, nil
}

func (s *workEntryStore) List(ctx context.Context, filter worklog.ListEntriesFilter) ([]worklog.WorkLogEntry, int64, error) {
	defer (*Store)(s).enter(ctx)()

	var entries []worklog.WorkLogEntry
	for _, e := range s.workEntries {
		if e.Deleted() {
			continue
		}
		if filter.MemberID != nil && e.MemberID != *filter.MemberID {
			continue
		}
		if filter.ProjectID != nil && e.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		if filter.DateFrom != nil && e.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.Date.After(*filter.DateTo) {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	total := int64(len(entries))
	return paginate(entries, filter.Page, filter.Limit), total, nil
}

func (s *workEntryStore) Update(ctx context.Context, e worklog.WorkLogEntry, expectedVersion int64) (worklog.WorkLogEntry, error) {
	defer (*Store)(s).enter(ctx)()

	stored, ok := s.workEntries[e.ID]
	if !ok || stored.Deleted() {
		return worklog.WorkLogEntry{}, worklog.ErrEntryNotFound
	}
	if stored.Version != expectedVersion {
		return worklog.WorkLogEntry{}, entry.ErrVersionConflict
	}

	stored.ProjectID = e.ProjectID
	stored.Date = e.Date
	stored.Hours = e.Hours
	stored.Comment = e.Comment
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	s.workEntries[e.ID] = stored
	return stored, nil
}

func (s *workEntryStore) UpdateStatus(ctx context.Context, id string, status entry.Status, expectedVersion int64) error {
	defer (*Store)(s).enter(ctx)()

	stored, ok := s.workEntries[id]
	if !ok || stored.Deleted() {
		return worklog.ErrEntryNotFound
	}
	if stored.Version != expectedVersion {
		return entry.ErrVersionConflict
	}

	stored.Status = status
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	s.workEntries[id] = stored
	return nil
}

func (s *workEntryStore) SoftDelete(ctx context.Context, id string, expectedVersion int64) error {
	defer (*Store)(s).enter(ctx)()

	stored, ok := s.workEntries[id]
	if !ok || stored.Deleted() {
		return worklog.ErrEntryNotFound
	}
	if stored.Version != expectedVersion {
		return entry.ErrVersionConflict
	}

	now := time.Now().UTC()
	stored.DeletedAt = &now
	stored.Version++
	stored.UpdatedAt = now
	s.workEntries[id] = stored
	return nil
}

func (s *workEntryStore) ListActiveByMemberPeriod(ctx context.Context, memberID string, from, to time.Time) ([]worklog.WorkLogEntry, error) {
	defer (*Store)(s).enter(ctx)()

	var entries []worklog.WorkLogEntry
	for _, e := range s.workEntries {
		if e.Deleted() || e.MemberID != memberID {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	return entries, nil
}

func paginate[T any](items []T, page, limit int) []T {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
