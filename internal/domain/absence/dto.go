package absence

import (
	"time"

	"github.com/totodo713/miometory-sub002/internal/pkg/validator"
)

const maxReasonLength = 500

var absenceTypes = []string{
	string(AbsenceTypePaidLeave),
	string(AbsenceTypeSickLeave),
	string(AbsenceTypeSpecialLeave),
	string(AbsenceTypeOther),
}

type CreateEntryRequest struct {
	MemberID    string  `json:"member_id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	AbsenceType string  `json:"absence_type"`
	Reason      *string `json:"reason,omitempty"`

	// PreSubmitted is the seam for proxy/import flows that create entries
	// already under review instead of as drafts.
	PreSubmitted bool `json:"pre_submitted,omitempty"`

	// RecordedBy is resolved from the caller identity by the handler.
	RecordedBy string `json:"-"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.MemberID) {
		errs = append(errs, validator.ValidationError{
			Field:   "member_id",
			Message: "member_id is required",
		})
	}

	if !validator.IsInSlice(r.AbsenceType, absenceTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "absence_type",
			Message: "absence_type must be one of paid_leave, sick_leave, special_leave, other",
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
	errs = append(errs, validateReason(r.Reason)...)

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
	ID          string   `json:"-"`
	Date        *string  `json:"date,omitempty"`
	Hours       *float64 `json:"hours,omitempty"`
	AbsenceType *string  `json:"absence_type,omitempty"`
	Reason      *string  `json:"reason,omitempty"`

	// ExpectedVersion carries the If-Match token.
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

	if r.AbsenceType != nil && !validator.IsInSlice(*r.AbsenceType, absenceTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "absence_type",
			Message: "absence_type must be one of paid_leave, sick_leave, special_leave, other",
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
	errs = append(errs, validateReason(r.Reason)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListEntriesFilter struct {
	MemberID    *string
	AbsenceType *string
	Status      *string
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	Limit       int
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

func validateReason(reason *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if reason != nil && len(*reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "must not exceed 500 characters",
		})
	}

	return errs
}

type EntryResponse struct {
	ID          string  `json:"id"`
	MemberID    string  `json:"member_id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	AbsenceType string  `json:"absence_type"`
	Reason      *string `json:"reason,omitempty"`
	Status      string  `json:"status"`
	RecordedBy  string  `json:"recorded_by"`
	Version     int64   `json:"version"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func NewEntryResponse(e AbsenceEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		MemberID:    e.MemberID,
		Date:        e.Date.Format("2006-01-02"),
		Hours:       e.Hours,
		AbsenceType: string(e.AbsenceType),
		Reason:      e.Reason,
		Status:      string(e.Status),
		RecordedBy:  e.RecordedBy,
		Version:     e.Version,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

func NewEntryResponses(entries []AbsenceEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewEntryResponse(e))
	}
	return out
}
