package entry

import "errors"

var (
	ErrVersionRequired    = errors.New("Expected version is required")
	ErrVersionConflict    = errors.New("Entry was modified by another request")
	ErrCannotModify       = errors.New("Approved entries cannot be modified")
	ErrDailyLimitExceeded = errors.New("Daily total of work and absence hours exceeds 24")
)
