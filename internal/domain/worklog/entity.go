package worklog

import (
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/entry"
)

// WorkLogEntry records hours worked by a member on one project and date.
// Deletion is a soft delete; deleted entries are excluded from every
// aggregation but kept for historical approval records.
type WorkLogEntry struct {
	ID        string
	MemberID  string
	ProjectID string
	Date      time.Time
	Hours     float64
	Comment   *string

	Status    entry.Status
	EnteredBy string
	Version   int64

	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e WorkLogEntry) CurrentVersion() int64 {
	return e.Version
}

func (e WorkLogEntry) Deleted() bool {
	return e.DeletedAt != nil
}
