package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
)

// AbsenceEntries returns the store's absence.EntryRepository view.
func (s *Store) AbsenceEntries() absence.EntryRepository {
	return (*absenceEntryStore)(s)
}

type absenceEntryStore Store

func (s *absenceEntryStore) Create(ctx context.Context, e absence.AbsenceEntry) (absence.AbsenceEntry, error) {
	defer (*Store)(s).enter(ctx)()

	now := time.Now().UTC()
	e.ID = uuid.New().String()
	e.Version = 0
	e.CreatedAt = now
	e.UpdatedAt = now
	s.absenceEntries[e.ID] = e
	return e, nil
}

func (s *absenceEntryStore) GetByID(ctx context.Context, id string) (absence.AbsenceEntry, error) {
	defer (*Store)(s).enter(ctx)()

	e, ok := s.absenceEntries[id]
	if !ok || e.Deleted() {
		return absence.AbsenceEntry{}, absence.ErrEntryNotFound
	}
	return e, nil
}

func (s *absenceEntryStore) List(ctx context.Context, filter absence.ListEntriesFilter) ([]absence.AbsenceEntry, int64, error) {
	defer (*Store)(s).enter(ctx)()

	var entries []absence.AbsenceEntry
	for _, e := range s.absenceEntries {
		if e.Deleted() {
			continue
		}
		if filter.MemberID != nil && e.MemberID != *filter.MemberID {
			continue
		}
		if filter.AbsenceType != nil && string(e.AbsenceType) != *filter.AbsenceType {
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

func (s *absenceEntryStore) Update(ctx context.Context, e absence.AbsenceEntry, expectedVersion int64) (absence.AbsenceEntry, error) {
	defer (*Store)(s).enter(ctx)()

	stored, ok := s.absenceEntries[e.ID]
	if !ok || stored.Deleted() {
		return absence.AbsenceEntry{}, absence.ErrEntryNotFound
	}
	if stored.Version != expectedVersion {
		return absence.AbsenceEntry{}, entry.ErrVersionConflict
	}

	stored.Date = e.Date
	stored.Hours = e.Hours
	stored.AbsenceType = e.AbsenceType
	stored.Reason = e.Reason
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	s.absenceEntries[e.ID] = stored
	return stored, nil
}

func (s *absenceEntryStore) UpdateStatus(ctx context.Context, id string, status entry.Status, expectedVersion int64) error {
	defer (*Store)(s).enter(ctx)()

	stored, ok := s.absenceEntries[id]
	if !ok || stored.Deleted() {
		return absence.ErrEntryNotFound
	}
	if stored.Version != expectedVersion {
		return entry.ErrVersionConflict
	}

	stored.Status = status
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	s.absenceEntries[id] = stored
	return nil
}

func (s *absenceEntryStore) SoftDelete(ctx context.Context, id string, expectedVersion int64) error {
	defer (*Store)(s).enter(ctx)()

	stored, ok := s.absenceEntries[id]
	if !ok || stored.Deleted() {
		return absence.ErrEntryNotFound
	}
	if stored.Version != expectedVersion {
		return entry.ErrVersionConflict
	}

	now := time.Now().UTC()
	stored.DeletedAt = &now
	stored.Version++
	stored.UpdatedAt = now
	s.absenceEntries[id] = stored
	return nil
}

func (s *absenceEntryStore) ListActiveByMemberPeriod(ctx context.Context, memberID string, from, to time.Time) ([]absence.AbsenceEntry, error) {
	defer (*Store)(s).enter(ctx)()

	var entries []absence.AbsenceEntry
	for _, e := range s.absenceEntries {
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
