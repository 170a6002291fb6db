package approval

import (
	"time"

	"github.com/totodo713/miometory-sub002/internal/pkg/validator"
)

const maxRejectionReasonLength = 1000

type SubmitMonthRequest struct {
	MemberID         string `json:"member_id"`
	FiscalMonthStart string `json:"fiscal_month_start"`
	FiscalMonthEnd   string `json:"fiscal_month_end"`

	// SubmittedBy is resolved from the caller identity by the handler.
	SubmittedBy string `json:"-"`
}

func (r *SubmitMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.MemberID) {
		errs = append(errs, validator.ValidationError{
			Field:   "member_id",
			Message: "member_id is required",
			Code:    "MEMBER_ID_REQUIRED",
		})
	}

	start, startOK := validator.IsValidDate(r.FiscalMonthStart)
	end, endOK := validator.IsValidDate(r.FiscalMonthEnd)
	if validator.IsEmpty(r.FiscalMonthStart) || validator.IsEmpty(r.FiscalMonthEnd) || !startOK || !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "fiscal_month",
			Message: "fiscal_month_start and fiscal_month_end are required in YYYY-MM-DD format",
			Code:    "FISCAL_MONTH_REQUIRED",
		})
	} else if end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "fiscal_month",
			Message: "fiscal_month_end must not precede fiscal_month_start",
			Code:    "FISCAL_MONTH_REQUIRED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Period returns the submission period bounds. Validate must have passed.
func (r *SubmitMonthRequest) Period() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.FiscalMonthStart)
	end, _ := validator.IsValidDate(r.FiscalMonthEnd)
	return start, end
}

type ReviewSubmissionRequest struct {
	SubmissionID    string  `json:"-"`
	ReviewedBy      string  `json:"-"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func (r *ReviewSubmissionRequest) Validate(rejecting bool) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SubmissionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "submission_id",
			Message: "submission_id is required",
		})
	}

	if validator.IsEmpty(r.ReviewedBy) {
		errs = append(errs, validator.ValidationError{
			Field:   "reviewed_by",
			Message: "reviewed_by is required",
			Code:    "REVIEWED_BY_REQUIRED",
		})
	}

	if rejecting {
		if r.RejectionReason == nil || validator.IsEmpty(*r.RejectionReason) {
			errs = append(errs, validator.ValidationError{
				Field:   "rejection_reason",
				Message: "rejection_reason is required",
				Code:    "REJECTION_REASON_REQUIRED",
			})
		} else if len(*r.RejectionReason) > maxRejectionReasonLength {
			errs = append(errs, validator.ValidationError{
				Field:   "rejection_reason",
				Message: "rejection_reason must not exceed 1000 characters",
				Code:    "REJECTION_REASON_REQUIRED",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitEntriesRequest struct {
	EntryIDs []string `json:"entry_ids"`
}

func (r *SubmitEntriesRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EntryIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_ids",
			Message: "entry_ids must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveEntriesRequest struct {
	EntryIDs []string `json:"entry_ids"`
	Comment  *string  `json:"comment,omitempty"`

	// ApprovedBy is resolved from the caller identity by the handler.
	ApprovedBy string `json:"-"`
}

func (r *ApproveEntriesRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EntryIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_ids",
			Message: "entry_ids must not be empty",
		})
	}

	if validator.IsEmpty(r.ApprovedBy) {
		errs = append(errs, validator.ValidationError{
			Field:   "reviewed_by",
			Message: "reviewer identity is required",
			Code:    "REVIEWED_BY_REQUIRED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectEntryRequest struct {
	EntryID string `json:"entry_id"`
	Comment string `json:"comment"`

	// RejectedBy is resolved from the caller identity by the handler.
	RejectedBy string `json:"-"`
}

func (r *RejectEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_id",
			Message: "entry_id is required",
		})
	}

	if validator.IsEmpty(r.Comment) {
		errs = append(errs, validator.ValidationError{
			Field:   "comment",
			Message: "a rejection comment is required",
			Code:    "REJECTION_REASON_REQUIRED",
		})
	} else if len(r.Comment) > maxRejectionReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "comment",
			Message: "comment must not exceed 1000 characters",
			Code:    "REJECTION_REASON_REQUIRED",
		})
	}

	if validator.IsEmpty(r.RejectedBy) {
		errs = append(errs, validator.ValidationError{
			Field:   "reviewed_by",
			Message: "reviewer identity is required",
			Code:    "REVIEWED_BY_REQUIRED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListSubmissionsFilter struct {
	MemberID *string
	Status   *string
	Page     int
	Limit    int
}

type SubmissionResponse struct {
	ID               string  `json:"id"`
	MemberID         string  `json:"member_id"`
	FiscalMonthStart string  `json:"fiscal_month_start"`
	FiscalMonthEnd   string  `json:"fiscal_month_end"`
	SubmittedBy      string  `json:"submitted_by"`
	Status           string  `json:"status"`
	ReviewedBy       *string `json:"reviewed_by,omitempty"`
	ReviewedAt       *string `json:"reviewed_at,omitempty"`
	RejectionReason  *string `json:"rejection_reason,omitempty"`
	Version          int64   `json:"version"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func NewSubmissionResponse(s MonthlySubmission) SubmissionResponse {
	resp := SubmissionResponse{
		ID:               s.ID,
		MemberID:         s.MemberID,
		FiscalMonthStart: s.FiscalMonthStart.Format("2006-01-02"),
		FiscalMonthEnd:   s.FiscalMonthEnd.Format("2006-01-02"),
		SubmittedBy:      s.SubmittedBy,
		Status:           string(s.Status),
		ReviewedBy:       s.ReviewedBy,
		RejectionReason:  s.RejectionReason,
		Version:          s.Version,
		CreatedAt:        s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        s.UpdatedAt.Format(time.RFC3339),
	}
	if s.ReviewedAt != nil {
		reviewedAt := s.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

func NewSubmissionResponses(subs []MonthlySubmission) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, NewSubmissionResponse(s))
	}
	return out
}

type ApprovalResponse struct {
	ID              string  `json:"id"`
	WorkLogEntryID  string  `json:"work_log_entry_id"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	Comment         *string `json:"comment,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	Version         int64   `json:"version"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func NewApprovalResponse(a DailyEntryApproval) ApprovalResponse {
	return ApprovalResponse{
		ID:              a.ID,
		WorkLogEntryID:  a.WorkLogEntryID,
		Status:          string(a.Status),
		ApprovedBy:      a.ApprovedBy,
		RejectedBy:      a.RejectedBy,
		Comment:         a.Comment,
		RejectionReason: a.RejectionReason,
		Version:         a.Version,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
}

func NewApprovalResponses(approvals []DailyEntryApproval) []ApprovalResponse {
	out := make([]ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		out = append(out, NewApprovalResponse(a))
	}
	return out
}
