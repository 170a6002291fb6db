package approval

import "time"

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// MonthlySubmission places every entry of one member inside a fiscal month
// period under review as a single unit. Resubmission after a rejection
// creates a new row; a rejected submission is terminal.
type MonthlySubmission struct {
	ID               string
	MemberID         string
	FiscalMonthStart time.Time
	FiscalMonthEnd   time.Time
	SubmittedBy      string

	Status          SubmissionStatus
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	Version         int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s MonthlySubmission) CurrentVersion() int64 {
	return s.Version
}

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
	ApprovalStatusRecalled ApprovalStatus = "recalled"
)

// DailyEntryApproval tracks review of a single work log entry outside the
// monthly batch flow. At most one non-recalled approval exists per entry;
// a newer one supersedes and freezes its predecessors.
type DailyEntryApproval struct {
	ID             string
	WorkLogEntryID string

	Status          ApprovalStatus
	ApprovedBy      *string
	RejectedBy      *string
	Comment         *string
	RejectionReason *string
	Version         int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a DailyEntryApproval) CurrentVersion() int64 {
	return a.Version
}

// Active reports whether this approval still governs its entry.
func (a DailyEntryApproval) Active() bool {
	return a.Status != ApprovalStatusRecalled
}
