package worklog

import (
	"time"

	"github.com/totodo713/miometory-sub002/internal/pkg/validator"
)

const maxCommentLength = 500

type CreateEntryRequest struct {
	MemberID  string  `json:"member_id"`
	ProjectID string  `json:"project_id"`
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
	Comment   *string `json:"comment,omitempty"`

	// PreSubmitted is the seam for proxy/import flows that create entries
	// already under review instead of as drafts.
	PreSubmitted bool `json:"pre_submitted,omitempty"`

	// EnteredBy is resolved from the caller identity by the handler.
	EnteredBy string `json:"-"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.MemberID) {
		errs = append(errs, validator.ValidationError{
			Field:   "member_id",
			Message: "member_id is required",
		})
	}

	if validator.IsEmpty(r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id is required",
		})
	}

	date, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else if validator.IsFutureDate(date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must not be in the future",
			Code:    "DATE_IN_FUTURE",
		})
	}

	errs = append(errs, validateHours(r.Hours)...)
	errs = append(errs, validateComment("comment", r.Comment)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParsedDate returns the entry date. Validate must have passed.
func (r *CreateEntryRequest) ParsedDate() time.Time {
	date, _ := validator.IsValidDate(r.Date)
	return date
}

type UpdateEntryRequest struct {
	ID        string   `json:"-"`
	ProjectID *string  `json:"project_id,omitempty"`
	Date      *string  `json:"date,omitempty"`
	Hours     *float64 `json:"hours,omitempty"`
	Comment   *string  `json:"comment,omitempty"`

	// ExpectedVersion carries the If-Match token. Its absence is a distinct
	// client error from a stale value, so it stays a pointer.
	ExpectedVersion *int64 `json:"-"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.ProjectID != nil && validator.IsEmpty(*r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id must not be empty",
		})
	}

	if r.Date != nil {
		date, ok := validator.IsValidDate(*r.Date)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		} else if validator.IsFutureDate(date) {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must not be in the future",
				Code:    "DATE_IN_FUTURE",
			})
		}
	}

	if r.Hours != nil {
		errs = append(errs, validateHours(*r.Hours)...)
	}
	errs = append(errs, validateComment("comment", r.Comment)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListEntriesFilter struct {
	MemberID  *string
	ProjectID *string
	Status    *string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	Limit     int
}

func validateHours(hours float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsValidEntryHours(hours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be greater than 0 and at most 24",
			Code:    "HOURS_OUT_OF_RANGE",
		})
	} else if !validator.IsQuarterHours(hours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be a multiple of 0.25",
			Code:    "HOURS_NOT_QUARTER_INCREMENT",
		})
	}

	return errs
}

func validateComment(field string, comment *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if comment != nil && len(*comment) > maxCommentLength {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: "must not exceed 500 characters",
		})
	}

	return errs
}

type EntryResponse struct {
	ID        string  `json:"id"`
	MemberID  string  `json:"member_id"`
	ProjectID string  `json:"project_id"`
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
	Comment   *string `json:"comment,omitempty"`
	Status    string  `json:"status"`
	EnteredBy string  `json:"entered_by"`
	Version   int64   `json:"version"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func NewEntryResponse(e WorkLogEntry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		MemberID:  e.MemberID,
		ProjectID: e.ProjectID,
		Date:      e.Date.Format("2006-01-02"),
		Hours:     e.Hours,
		Comment:   e.Comment,
		Status:    string(e.Status),
		EnteredBy: e.EnteredBy,
		Version:   e.Version,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}

func NewEntryResponses(entries []WorkLogEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewEntryResponse(e))
	}
	return out
}
