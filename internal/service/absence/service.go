package absence

import (
	"context"
	"fmt"

	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/pkg/validator"
	"github.com/totodo713/miometory-sub002/internal/service/dailylimit"
)

// Service owns the absence entry lifecycle under the same editability and
// daily-limit rules as work log entries.
type Service struct {
	tx      entry.TxRunner
	entries absence.EntryRepository
	limit   *dailylimit.Validator
}

func NewService(tx entry.TxRunner, entries absence.EntryRepository, limit *dailylimit.Validator) *Service {
	return &Service{
		tx:      tx,
		entries: entries,
		limit:   limit,
	}
}

func (s *Service) Create(ctx context.Context, req absence.CreateEntryRequest) (absence.AbsenceEntry, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceEntry{}, err
	}

	status := entry.StatusDraft
	if req.PreSubmitted {
		status = entry.StatusSubmitted
	}

	e := absence.AbsenceEntry{
		MemberID:    req.MemberID,
		Date:        req.ParsedDate(),
		Hours:       req.Hours,
		AbsenceType: absence.AbsenceType(req.AbsenceType),
		Reason:      req.Reason,
		Status:      status,
		RecordedBy:  req.RecordedBy,
	}

	var created absence.AbsenceEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.limit.CheckLimit(ctx, e.MemberID, e.Date, e.Hours, nil, nil); err != nil {
			return err
		}

		var err error
		created, err = s.entries.Create(ctx, e)
		if err != nil {
			return fmt.Errorf("failed to create absence entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return absence.AbsenceEntry{}, err
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (absence.AbsenceEntry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter absence.ListEntriesFilter) ([]absence.AbsenceEntry, int64, error) {
	return s.entries.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, req absence.UpdateEntryRequest) (absence.AbsenceEntry, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceEntry{}, err
	}

	var updated absence.AbsenceEntry
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
			return absence.ErrEntryNotEditable
		}

		next := current
		if req.Date != nil {
			if d, ok := validator.IsValidDate(*req.Date); ok {
				next.Date = d
			}
		}
		if req.Hours != nil {
			next.Hours = *req.Hours
		}
		if req.AbsenceType != nil {
			next.AbsenceType = absence.AbsenceType(*req.AbsenceType)
		}
		if req.Reason != nil {
			next.Reason = req.Reason
		}

		if err := s.limit.CheckLimit(ctx, next.MemberID, next.Date, next.Hours, nil, &next.ID); err != nil {
			return err
		}

		updated, err = s.entries.Update(ctx, next, current.Version)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return absence.AbsenceEntry{}, err
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
			return absence.ErrEntryNotDraft
		}

		return s.entries.SoftDelete(ctx, id, current.Version)
	})
}
