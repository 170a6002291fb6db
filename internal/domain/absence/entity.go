package absence

import (
	"time"

	"github.com/totodo713/miometory-sub002/internal/domain/entry"
)

type AbsenceType string

const (
	AbsenceTypePaidLeave    AbsenceType = "paid_leave"
	AbsenceTypeSickLeave    AbsenceType = "sick_leave"
	AbsenceTypeSpecialLeave AbsenceType = "special_leave"
	AbsenceTypeOther        AbsenceType = "other"
)

// AbsenceEntry records absence hours for a member on one date. It shares
// the work log entry's lifecycle, soft-delete and versioning rules.
type AbsenceEntry struct {
	ID          string
	MemberID    string
	Date        time.Time
	Hours       float64
	AbsenceType AbsenceType
	Reason      *string

	Status     entry.Status
	RecordedBy string
	Version    int64

	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e AbsenceEntry) CurrentVersion() int64 {
	return e.Version
}

func (e AbsenceEntry) Deleted() bool {
	return e.DeletedAt != nil
}
