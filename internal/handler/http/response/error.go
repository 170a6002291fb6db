package response

import (
	"errors"
	"net/http"

	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/approval"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
	"github.com/totodo713/miometory-sub002/internal/pkg/validator"
)

// Missing-input codes answer with 400; codes about unacceptable values
// answer with 422.
var badRequestCodes = map[string]bool{
	"MEMBER_ID_REQUIRED":        true,
	"FISCAL_MONTH_REQUIRED":     true,
	"REVIEWED_BY_REQUIRED":      true,
	"REJECTION_REASON_REQUIRED": true,
}

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		code := validationErrs.FirstCode()
		if code == "" {
			code = "VALIDATION_ERROR"
		}
		if badRequestCodes[code] {
			BadRequest(w, code, "Validation failed", validationErrs.ToMap())
			return
		}
		UnprocessableEntity(w, code, "Validation failed", validationErrs.ToMap())
		return
	}

	switch {
	// Concurrency control
	case errors.Is(err, entry.ErrVersionRequired):
		BadRequest(w, "VERSION_REQUIRED", "A version token is required for this operation", nil)
	case errors.Is(err, entry.ErrVersionConflict):
		Conflict(w, "OPTIMISTIC_LOCK_CONFLICT", "The resource was modified by another request")

	// Entry lifecycle
	case errors.Is(err, entry.ErrCannotModify):
		UnprocessableEntity(w, "CANNOT_MODIFY", "Approved entries cannot be modified", nil)
	case errors.Is(err, entry.ErrDailyLimitExceeded):
		UnprocessableEntity(w, "DAILY_LIMIT_EXCEEDED", "Total hours for the day would exceed 24", nil)
	case errors.Is(err, worklog.ErrEntryNotFound):
		NotFound(w, "Work log entry not found")
	case errors.Is(err, worklog.ErrEntryNotDraft):
		UnprocessableEntity(w, "CANNOT_MODIFY", "Only draft entries can be deleted", nil)
	case errors.Is(err, worklog.ErrEntryNotEditable):
		UnprocessableEntity(w, "CANNOT_MODIFY", "The entry is not editable in its current state", nil)
	case errors.Is(err, absence.ErrEntryNotFound):
		NotFound(w, "Absence entry not found")
	case errors.Is(err, absence.ErrEntryNotDraft):
		UnprocessableEntity(w, "CANNOT_MODIFY", "Only draft entries can be deleted", nil)
	case errors.Is(err, absence.ErrEntryNotEditable):
		UnprocessableEntity(w, "CANNOT_MODIFY", "The entry is not editable in its current state", nil)

	// Approval flows
	case errors.Is(err, approval.ErrSubmissionNotFound):
		NotFound(w, "Monthly submission not found")
	case errors.Is(err, approval.ErrSubmissionAlreadyExists):
		UnprocessableEntity(w, "SUBMISSION_ALREADY_EXISTS", "An active submission already exists for this period", nil)
	case errors.Is(err, approval.ErrSubmissionNotPending):
		UnprocessableEntity(w, "ALREADY_PROCESSED", "The submission has already been reviewed", nil)
	case errors.Is(err, approval.ErrApprovalNotFound):
		NotFound(w, "Daily entry approval not found")
	case errors.Is(err, approval.ErrEntryAlreadySubmitted):
		UnprocessableEntity(w, "ALREADY_PROCESSED", "The entry is already under review", nil)
	case errors.Is(err, approval.ErrEntryNotSubmitted):
		UnprocessableEntity(w, "CANNOT_MODIFY", "The entry is not awaiting review", nil)
	case errors.Is(err, approval.ErrApprovalNotApproved):
		UnprocessableEntity(w, "CANNOT_MODIFY", "Only approved approvals can be recalled", nil)
	case errors.Is(err, approval.ErrRecallBlocked):
		UnprocessableEntity(w, "RECALL_BLOCKED_BY_APPROVAL", "A newer approval supersedes this one", nil)
	case errors.Is(err, approval.ErrRejectBlocked):
		UnprocessableEntity(w, "REJECT_BLOCKED_BY_APPROVAL", "The entry has an approved review; recall it first", nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
