package worklog

import "errors"

var (
	ErrEntryNotFound    = errors.New("Work log entry not found")
	ErrEntryNotDraft    = errors.New("Only draft entries can be deleted")
	ErrEntryNotEditable = errors.New("Submitted entries can only change through review")
)
