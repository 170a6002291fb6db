package approval

import "errors"

var (
	ErrSubmissionNotFound      = errors.New("Monthly submission not found")
	ErrSubmissionAlreadyExists = errors.New("An active submission already exists for this member and period")
	ErrSubmissionNotPending    = errors.New("Monthly submission has already been reviewed")

	ErrApprovalNotFound      = errors.New("Daily entry approval not found")
	ErrEntryNotSubmitted     = errors.New("Entry is not under review")
	ErrApprovalNotApproved   = errors.New("Only approved approvals can be recalled")
	ErrRecallBlocked         = errors.New("A newer approval supersedes this one; recall is blocked")
	ErrRejectBlocked         = errors.New("Entry approval already granted; rejection is blocked")
	ErrEntryAlreadySubmitted = errors.New("Entry already has an active approval")
)
