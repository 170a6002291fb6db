package entry

// Status is the lifecycle state shared by work log and absence entries.
//
// draft --submit--> submitted --approve--> approved --recall--> draft
//                   submitted --reject---> draft
//
// Approved entries are read-only; the only way out is a recall.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
)

// Editable reports whether entry fields may be modified by its owner.
// Submitted entries only move through the approval engine's transitions.
func (s Status) Editable() bool {
	return s == StatusDraft
}

// Submittable reports whether an entry in this state may be placed under
// review.
func (s Status) Submittable() bool {
	return s == StatusDraft || s == StatusSubmitted
}

// Versioned is the optimistic-concurrency capability implemented by both
// entry aggregates. Storage increments the version by exactly 1 per
// successful mutation.
type Versioned interface {
	CurrentVersion() int64
}

// CheckVersion applies the shared compare-and-swap contract: callers of a
// mutating operation must supply the version they read. A missing version
// and a stale version are distinct client errors.
func CheckVersion(expected *int64, current int64) error {
	if expected == nil {
		return ErrVersionRequired
	}
	if *expected != current {
		return ErrVersionConflict
	}
	return nil
}
