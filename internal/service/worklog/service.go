package worklog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
	"github.com/totodo713/miometory-sub002/internal/pkg/validator"
	"github.com/totodo713/miometory-sub002/internal/service/dailylimit"
)

// Service owns the work log entry lifecycle: creation, mutation and
// deletion under the status-editability rules and the daily-hour limit.
// The absence repository is read-only here, for the daily summary.
type Service struct {
	tx       entry.TxRunner
	entries  worklog.EntryRepository
	absences absence.EntryRepository
	limit    *dailylimit.Validator
}

func NewService(tx entry.TxRunner, entries worklog.EntryRepository, absences absence.EntryRepository, limit *dailylimit.Validator) *Service {
	return &Service{
		tx:       tx,
		entries:  entries,
		absences: absences,
		limit:    limit,
	}
}

func (s *Service) Create(ctx context.Context, req worklog.CreateEntryRequest) (worklog.WorkLogEntry, error) {
	if err := req.Validate(); err != nil {
		return worklog.WorkLogEntry{}, err
	}

	status := entry.StatusDraft
	if req.PreSubmitted {
		status = entry.StatusSubmitted
	}

	e := worklog.WorkLogEntry{
		MemberID:  req.MemberID,
		ProjectID: req.ProjectID,
		Date:      req.ParsedDate(),
		Hours:     req.Hours,
		Comment:   req.Comment,
		Status:    status,
		EnteredBy: req.EnteredBy,
	}

	var created worklog.WorkLogEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.limit.CheckLimit(ctx, e.MemberID, e.Date, e.Hours, nil, nil); err != nil {
			return err
		}

		var err error
		created, err = s.entries.Create(ctx, e)
		if err != nil {
			return fmt.Errorf("failed to create work log entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return worklog.WorkLogEntry{}, err
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (worklog.WorkLogEntry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter worklog.ListEntriesFilter) ([]worklog.WorkLogEntry, int64, error) {
	return s.entries.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, req worklog.UpdateEntryRequest) (worklog.WorkLogEntry, error) {
	if err := req.Validate(); err != nil {
		return worklog.WorkLogEntry{}, err
	}

	var updated worklog.WorkLogEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.entries.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if err := entry.CheckVersion(req.ExpectedVersion, current.Version); err != nil {
			return err
		}

		if current.Status == entry.StatusApproved {
			return entry.ErrCannotModify
		}
		if !current.Status.Editable() {
			return worklog.ErrEntryNotEditable
		}

		next := current
		if req.ProjectID != nil {
			next.ProjectID = *req.ProjectID
		}
		if req.Date != nil {
			if d, ok := validator.IsValidDate(*req.Date); ok {
				next.Date = d
			}
		}
		if req.Hours != nil {
			next.Hours = *req.Hours
		}
		if req.Comment != nil {
			next.Comment = req.Comment
		}

		// Re-check the limit against the proposed hours; the current entry
		// is excluded so its old hours do not double count.
		if err := s.limit.CheckLimit(ctx, next.MemberID, next.Date, next.Hours, &next.ID, nil); err != nil {
			return err
		}

		updated, err = s.entries.Update(ctx, next, current.Version)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return worklog.WorkLogEntry{}, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.entries.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if current.Status == entry.StatusApproved {
			return entry.ErrCannotModify
		}
		if current.Status != entry.StatusDraft {
			return worklog.ErrEntryNotDraft
		}

		return s.entries.SoftDelete(ctx, id, current.Version)
	})
}

// DailyTotal is one calendar date's active hours for a member, split by
// aggregate.
type DailyTotal struct {
	Date         time.Time `json:"date"`
	WorkHours    float64   `json:"work_hours"`
	AbsenceHours float64   `json:"absence_hours"`
	TotalHours   float64   `json:"total_hours"`
}

// Summary aggregates active hours per date for a member over a period,
// across both aggregates.
func (s *Service) Summary(ctx context.Context, memberID string, from, to time.Time) ([]DailyTotal, error) {
	workEntries, err := s.entries.ListActiveByMemberPeriod(ctx, memberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load work log entries: %w", err)
	}
	absenceEntries, err := s.absences.ListActiveByMemberPeriod(ctx, memberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load absence entries: %w", err)
	}

	byDate := make(map[string]*DailyTotal)
	totalFor := func(date time.Time) *DailyTotal {
		key := date.Format("2006-01-02")
		t, ok := byDate[key]
		if !ok {
			t = &DailyTotal{Date: date}
			byDate[key] = t
		}
		return t
	}

	for _, e := range workEntries {
		t := totalFor(e.Date)
		t.WorkHours += e.Hours
		t.TotalHours += e.Hours
	}
	for _, e := range absenceEntries {
		t := totalFor(e.Date)
		t.AbsenceHours += e.Hours
		t.TotalHours += e.Hours
	}

	totals := make([]DailyTotal, 0, len(byDate))
	for _, t := range byDate {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})

	return totals, nil
}
