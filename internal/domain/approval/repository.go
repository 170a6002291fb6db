package approval

import (
	"context"
	"time"
)

// SubmissionRepository persists monthly submissions. UpdateStatus carries
// the version compare-and-swap used by every review transition.
type SubmissionRepository interface {
	Create(ctx context.Context, s MonthlySubmission) (MonthlySubmission, error)
	GetByID(ctx context.Context, id string) (MonthlySubmission, error)
	List(ctx context.Context, filter ListSubmissionsFilter) ([]MonthlySubmission, int64, error)

	// FindActive returns whether a non-rejected submission exists for the
	// exact member and period.
	FindActive(ctx context.Context, memberID string, start, end time.Time) (MonthlySubmission, bool, error)

	UpdateStatus(ctx context.Context, s MonthlySubmission, expectedVersion int64) error
}

// ApprovalRepository persists daily entry approvals.
type ApprovalRepository interface {
	Create(ctx context.Context, a DailyEntryApproval) (DailyEntryApproval, error)
	GetByID(ctx context.Context, id string) (DailyEntryApproval, error)

	// GetActiveByEntryID returns the newest non-recalled approval for the
	// entry, reporting whether one exists.
	GetActiveByEntryID(ctx context.Context, workLogEntryID string) (DailyEntryApproval, bool, error)

	// HasNewerActive reports whether a non-recalled approval for the same
	// entry was created after the given approval.
	HasNewerActive(ctx context.Context, a DailyEntryApproval) (bool, error)

	UpdateStatus(ctx context.Context, a DailyEntryApproval, expectedVersion int64) error
}
