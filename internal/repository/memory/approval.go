package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/totodo713/miometory-sub002/internal/domain/approval"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
)

// Submissions returns the store's approval.SubmissionRepository view.
func (s *Store) Submissions() approval.SubmissionRepository {
	return (*submissionStore)(s)
}

type submissionStore Store

func (s *submissionStore) Create(ctx context.Context, sub approval.MonthlySubmission) (approval.MonthlySubmission, error) {
	defer (*Store)(s).enter(ctx)()

	now := time.Now().UTC()
	sub.ID = uuid.New().String()
	sub.Version = 0
	sub.CreatedAt = now
	sub.UpdatedAt = now
	s.submissions[sub.ID] = sub
	return sub, nil
}

func (s *submissionStore) GetByID(ctx context.Context, id string) (approval.MonthlySubmission, error) {
	defer (*Store)(s).enter(ctx)()

	sub, ok := s.submissions[id]
	if !ok {
		return approval.MonthlySubmission{}, approval.ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *submissionStore) List(ctx context.Context, filter approval.ListSubmissionsFilter) ([]approval.MonthlySubmission, int64, error) {
	defer (*Store)(s).enter(ctx)()

	var subs []approval.MonthlySubmission
	for _, sub := range s.submissions {
		if filter.MemberID != nil && sub.MemberID != *filter.MemberID {
			continue
		}
		if filter.Status != nil && string(sub.Status) != *filter.Status {
			continue
		}
		subs = append(subs, sub)
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})

	total := int64(len(subs))
	return paginate(subs, filter.Page, filter.Limit), total, nil
}

func (s *submissionStore) FindActive(ctx context.Context, memberID string, start, end time.Time) (approval.MonthlySubmission, bool, error) {
	defer (*Store)(s).enter(ctx)()

	for _, sub := range s.submissions {
		if sub.MemberID != memberID || sub.Status == approval.SubmissionStatusRejected {
			continue
		}
		if sameDate(sub.FiscalMonthStart, start) && sameDate(sub.FiscalMonthEnd, end) {
			return sub, true, nil
		}
	}
	return approval.MonthlySubmission{}, false, nil
}

func (s *submissionStore) UpdateStatus(ctx context.Context, sub approval.MonthlySubmission, expectedVersion int64) error {
	defer (*Store)(s).enter(ctx)()

	stored, ok := s.submissions[sub.ID]
	if !ok {
		return approval.ErrSubmissionNotFound
	}
	if stored.Version != expectedVersion {
		return entry.ErrVersionConflict
	}

	stored.Status = sub.Status
	stored.ReviewedBy = sub.ReviewedBy
	stored.ReviewedAt = sub.ReviewedAt
	stored.RejectionReason = sub.RejectionReason
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	s.submissions[sub.ID] = stored
	return nil
}

// Approvals returns the store's approval.ApprovalRepository view.
func (s *Store) Approvals() approval.ApprovalRepository {
	return (*approvalStore)(s)
}

type approvalStore Store

func (s *approvalStore) Create(ctx context.Context, a approval.DailyEntryApproval) (approval.DailyEntryApproval, error) {
	defer (*Store)(s).enter(ctx)()

	now := time.Now().UTC()
	a.ID = uuid.New().String()
	a.Version = 0
	a.CreatedAt = now
	a.UpdatedAt = now
	s.approvals[a.ID] = a
	s.nextSeq++
	s.approvalSeq[a.ID] = s.nextSeq
	return a, nil
}

func (s *approvalStore) GetByID(ctx context.Context, id string) (approval.DailyEntryApproval, error) {
	defer (*Store)(s).enter(ctx)()

	a, ok := s.approvals[id]
	if !ok {
		return approval.DailyEntryApproval{}, approval.ErrApprovalNotFound
	}
	return a, nil
}

func (s *approvalStore) GetActiveByEntryID(ctx context.Context, workLogEntryID string) (approval.DailyEntryApproval, bool, error) {
	defer (*Store)(s).enter(ctx)()

	var newest approval.DailyEntryApproval
	var found bool
	for _, a := range s.approvals {
		if a.WorkLogEntryID != workLogEntryID || !a.Active() {
			continue
		}
		if !found || s.approvalSeq[a.ID] > s.approvalSeq[newest.ID] {
			newest = a
			found = true
		}
	}
	return newest, found, nil
}

func (s *approvalStore) HasNewerActive(ctx context.Context, a approval.DailyEntryApproval) (bool, error) {
	defer (*Store)(s).enter(ctx)()

	for _, other := range s.approvals {
		if other.WorkLogEntryID != a.WorkLogEntryID || !other.Active() {
			continue
		}
		if s.approvalSeq[other.ID] > s.approvalSeq[a.ID] {
			return true, nil
		}
	}
	return false, nil
}

func (s *approvalStore) UpdateStatus(ctx context.Context, a approval.DailyEntryApproval, expectedVersion int64) error {
	defer (*Store)(s).enter(ctx)()

	stored, ok := s.approvals[a.ID]
	if !ok {
		return approval.ErrApprovalNotFound
	}
	if stored.Version != expectedVersion {
		return entry.ErrVersionConflict
	}

	stored.Status = a.Status
	stored.ApprovedBy = a.ApprovedBy
	stored.RejectedBy = a.RejectedBy
	stored.Comment = a.Comment
	stored.RejectionReason = a.RejectionReason
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	s.approvals[a.ID] = stored
	return nil
}
