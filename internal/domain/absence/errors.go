package absence

import "errors"

var (
	ErrEntryNotFound    = errors.New("Absence entry not found")
	ErrEntryNotDraft    = errors.New("Only draft absence entries can be deleted")
	ErrEntryNotEditable = errors.New("Submitted absence entries can only change through review")
	ErrInvalidType      = errors.New("Unknown absence type")
)
