// Package approval implements the review engine at both granularities:
// monthly submissions covering every entry of a member's fiscal month, and
// daily approvals of individual work log entries. Both run the same
// reviewable-item state machine; only the set of governed entries differs.
package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/approval"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
)

type Service struct {
	tx          entry.TxRunner
	submissions approval.SubmissionRepository
	approvals   approval.ApprovalRepository
	workEntries worklog.EntryRepository
	absences    absence.EntryRepository
}

func NewService(
	tx entry.TxRunner,
	submissions approval.SubmissionRepository,
	approvals approval.ApprovalRepository,
	workEntries worklog.EntryRepository,
	absences absence.EntryRepository,
) *Service {
	return &Service{
		tx:          tx,
		submissions: submissions,
		approvals:   approvals,
		workEntries: workEntries,
		absences:    absences,
	}
}

// SubmitMonth creates a pending monthly submission and places every
// non-deleted entry of the member inside the period under review. The
// whole transition is atomic: no reader observes a partially submitted
// month.
func (s *Service) SubmitMonth(ctx context.Context, req approval.SubmitMonthRequest) (approval.MonthlySubmission, error) {
	if err := req.Validate(); err != nil {
		return approval.MonthlySubmission{}, err
	}
	start, end := req.Period()

	var created approval.MonthlySubmission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, exists, err := s.submissions.FindActive(ctx, req.MemberID, start, end); err != nil {
			return fmt.Errorf("failed to look up active submission: %w", err)
		} else if exists {
			return approval.ErrSubmissionAlreadyExists
		}

		sub := approval.MonthlySubmission{
			MemberID:         req.MemberID,
			FiscalMonthStart: start,
			FiscalMonthEnd:   end,
			SubmittedBy:      req.SubmittedBy,
			Status:           approval.SubmissionStatusPending,
		}

		var err error
		created, err = s.submissions.Create(ctx, sub)
		if err != nil {
			return fmt.Errorf("failed to create monthly submission: %w", err)
		}

		return s.transitionPeriod(ctx, req.MemberID, start, end, entry.StatusDraft, entry.StatusSubmitted)
	})
	if err != nil {
		return approval.MonthlySubmission{}, err
	}

	return created, nil
}

// ApproveSubmission marks a pending submission approved and freezes every
// covered entry.
func (s *Service) ApproveSubmission(ctx context.Context, req approval.ReviewSubmissionRequest) (approval.MonthlySubmission, error) {
	if err := req.Validate(false); err != nil {
		return approval.MonthlySubmission{}, err
	}

	var reviewed approval.MonthlySubmission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sub, err := s.submissions.GetByID(ctx, req.SubmissionID)
		if err != nil {
			return err
		}
		if sub.Status != approval.SubmissionStatusPending {
			return approval.ErrSubmissionNotPending
		}

		now := time.Now().UTC()
		sub.Status = approval.SubmissionStatusApproved
		sub.ReviewedBy = &req.ReviewedBy
		sub.ReviewedAt = &now
		if err := s.submissions.UpdateStatus(ctx, sub, sub.Version); err != nil {
			return err
		}
		sub.Version++
		reviewed = sub

		return s.transitionPeriod(ctx, sub.MemberID, sub.FiscalMonthStart, sub.FiscalMonthEnd, entry.StatusSubmitted, entry.StatusApproved)
	})
	if err != nil {
		return approval.MonthlySubmission{}, err
	}

	return reviewed, nil
}

// RejectSubmission marks a pending submission rejected and returns every
// covered entry to draft, editable again. The member may resubmit the same
// period afterwards; that creates a new submission row.
func (s *Service) RejectSubmission(ctx context.Context, req approval.ReviewSubmissionRequest) (approval.MonthlySubmission, error) {
	if err := req.Validate(true); err != nil {
		return approval.MonthlySubmission{}, err
	}

	var reviewed approval.MonthlySubmission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sub, err := s.submissions.GetByID(ctx, req.SubmissionID)
		if err != nil {
			return err
		}
		if sub.Status != approval.SubmissionStatusPending {
			return approval.ErrSubmissionNotPending
		}

		now := time.Now().UTC()
		sub.Status = approval.SubmissionStatusRejected
		sub.ReviewedBy = &req.ReviewedBy
		sub.ReviewedAt = &now
		sub.RejectionReason = req.RejectionReason
		if err := s.submissions.UpdateStatus(ctx, sub, sub.Version); err != nil {
			return err
		}
		sub.Version++
		reviewed = sub

		return s.transitionPeriod(ctx, sub.MemberID, sub.FiscalMonthStart, sub.FiscalMonthEnd, entry.StatusSubmitted, entry.StatusDraft)
	})
	if err != nil {
		return approval.MonthlySubmission{}, err
	}

	return reviewed, nil
}

func (s *Service) GetSubmission(ctx context.Context, id string) (approval.MonthlySubmission, error) {
	return s.submissions.GetByID(ctx, id)
}

func (s *Service) ListSubmissions(ctx context.Context, filter approval.ListSubmissionsFilter) ([]approval.MonthlySubmission, int64, error) {
	return s.submissions.List(ctx, filter)
}

// transitionPeriod moves every non-deleted entry of both aggregates whose
// status equals from into to. Entries in other states are left alone: an
// entry already approved through the daily flow stays approved.
func (s *Service) transitionPeriod(ctx context.Context, memberID string, start, end time.Time, from, to entry.Status) error {
	workEntries, err := s.workEntries.ListActiveByMemberPeriod(ctx, memberID, start, end)
	if err != nil {
		return fmt.Errorf("failed to load work log entries for period: %w", err)
	}
	for _, e := range workEntries {
		if e.Status != from {
			continue
		}
		if err := s.workEntries.UpdateStatus(ctx, e.ID, to, e.Version); err != nil {
			return fmt.Errorf("failed to transition work log entry %s: %w", e.ID, err)
		}
	}

	absenceEntries, err := s.absences.ListActiveByMemberPeriod(ctx, memberID, start, end)
	if err != nil {
		return fmt.Errorf("failed to load absence entries for period: %w", err)
	}
	for _, e := range absenceEntries {
		if e.Status != from {
			continue
		}
		if err := s.absences.UpdateStatus(ctx, e.ID, to, e.Version); err != nil {
			return fmt.Errorf("failed to transition absence entry %s: %w", e.ID, err)
		}
	}

	return nil
}

// SubmitEntries places individual draft work log entries under review,
// creating one pending approval per entry.
func (s *Service) SubmitEntries(ctx context.Context, req approval.SubmitEntriesRequest) ([]approval.DailyEntryApproval, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created []approval.DailyEntryApproval
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, entryID := range req.EntryIDs {
			e, err := s.workEntries.GetByID(ctx, entryID)
			if err != nil {
				return err
			}
			if !e.Status.Submittable() {
				return entry.ErrCannotModify
			}
			// A rejected approval does not block: the entry went back to
			// draft and may be submitted again.
			if prev, exists, err := s.approvals.GetActiveByEntryID(ctx, entryID); err != nil {
				return err
			} else if exists && prev.Status != approval.ApprovalStatusRejected {
				return approval.ErrEntryAlreadySubmitted
			}

			a, err := s.approvals.Create(ctx, approval.DailyEntryApproval{
				WorkLogEntryID: entryID,
				Status:         approval.ApprovalStatusPending,
			})
			if err != nil {
				return fmt.Errorf("failed to create daily entry approval: %w", err)
			}
			created = append(created, a)

			if e.Status == entry.StatusDraft {
				if err := s.workEntries.UpdateStatus(ctx, e.ID, entry.StatusSubmitted, e.Version); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ApproveEntries approves submitted work log entries. Each entry's active
// approval moves to approved, or one is created when the entry was
// submitted through the monthly flow; the entries become read-only.
func (s *Service) ApproveEntries(ctx context.Context, req approval.ApproveEntriesRequest) ([]approval.DailyEntryApproval, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var approved []approval.DailyEntryApproval
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, entryID := range req.EntryIDs {
			e, err := s.workEntries.GetByID(ctx, entryID)
			if err != nil {
				return err
			}
			if e.Status != entry.StatusSubmitted {
				return approval.ErrEntryNotSubmitted
			}

			a, exists, err := s.approvals.GetActiveByEntryID(ctx, entryID)
			if err != nil {
				return err
			}
			if exists && a.Status == approval.ApprovalStatusPending {
				a.Status = approval.ApprovalStatusApproved
				a.ApprovedBy = &req.ApprovedBy
				a.Comment = req.Comment
				if err := s.approvals.UpdateStatus(ctx, a, a.Version); err != nil {
					return err
				}
				a.Version++
			} else {
				a, err = s.approvals.Create(ctx, approval.DailyEntryApproval{
					WorkLogEntryID: entryID,
					Status:         approval.ApprovalStatusApproved,
					ApprovedBy:     &req.ApprovedBy,
					Comment:        req.Comment,
				})
				if err != nil {
					return fmt.Errorf("failed to create daily entry approval: %w", err)
				}
			}
			approved = append(approved, a)

			if err := s.workEntries.UpdateStatus(ctx, e.ID, entry.StatusApproved, e.Version); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return approved, nil
}

// RejectEntry rejects one submitted work log entry and returns it to
// draft. Rejection is blocked once an approval has been granted; that
// path must go through a recall.
func (s *Service) RejectEntry(ctx context.Context, req approval.RejectEntryRequest) (approval.DailyEntryApproval, error) {
	if err := req.Validate(); err != nil {
		return approval.DailyEntryApproval{}, err
	}

	var rejected approval.DailyEntryApproval
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := s.workEntries.GetByID(ctx, req.EntryID)
		if err != nil {
			return err
		}

		// A granted approval blocks rejection outright; the reviewer must
		// recall it first.
		a, exists, err := s.approvals.GetActiveByEntryID(ctx, req.EntryID)
		if err != nil {
			return err
		}
		if exists && a.Status == approval.ApprovalStatusApproved {
			return approval.ErrRejectBlocked
		}
		if e.Status != entry.StatusSubmitted {
			return approval.ErrEntryNotSubmitted
		}
		if exists && a.Status == approval.ApprovalStatusPending {
			a.Status = approval.ApprovalStatusRejected
			a.RejectedBy = &req.RejectedBy
			a.RejectionReason = &req.Comment
			if err := s.approvals.UpdateStatus(ctx, a, a.Version); err != nil {
				return err
			}
			a.Version++
		} else {
			a, err = s.approvals.Create(ctx, approval.DailyEntryApproval{
				WorkLogEntryID:  req.EntryID,
				Status:          approval.ApprovalStatusRejected,
				RejectedBy:      &req.RejectedBy,
				RejectionReason: &req.Comment,
			})
			if err != nil {
				return fmt.Errorf("failed to create daily entry approval: %w", err)
			}
		}
		rejected = a

		return s.workEntries.UpdateStatus(ctx, e.ID, entry.StatusDraft, e.Version)
	})
	if err != nil {
		return approval.DailyEntryApproval{}, err
	}

	return rejected, nil
}

// RecallApproval reverses an approved daily approval, returning the entry
// to draft. A recall is blocked when a newer approval already supersedes
// the target.
func (s *Service) RecallApproval(ctx context.Context, approvalID string) (approval.DailyEntryApproval, error) {
	var recalled approval.DailyEntryApproval
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.approvals.GetByID(ctx, approvalID)
		if err != nil {
			return err
		}
		if a.Status != approval.ApprovalStatusApproved {
			return approval.ErrApprovalNotApproved
		}

		if newer, err := s.approvals.HasNewerActive(ctx, a); err != nil {
			return err
		} else if newer {
			return approval.ErrRecallBlocked
		}

		a.Status = approval.ApprovalStatusRecalled
		if err := s.approvals.UpdateStatus(ctx, a, a.Version); err != nil {
			return err
		}
		a.Version++
		recalled = a

		e, err := s.workEntries.GetByID(ctx, a.WorkLogEntryID)
		if err != nil {
			return err
		}
		return s.workEntries.UpdateStatus(ctx, e.ID, entry.StatusDraft, e.Version)
	})
	if err != nil {
		return approval.DailyEntryApproval{}, err
	}

	return recalled, nil
}
