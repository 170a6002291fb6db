package absence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
	"github.com/totodo713/miometory-sub002/internal/pkg/validator"
	"github.com/totodo713/miometory-sub002/internal/repository/memory"
	"github.com/totodo713/miometory-sub002/internal/service/dailylimit"
)

const (
	testMemberID = "member-1"
	testDate     = "2026-01-15"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.NewStore()
	limit := dailylimit.NewValidator(store)
	svc := NewService(store, store.AbsenceEntries(), limit)
	return svc, store
}

func createTestAbsence(t *testing.T, svc *Service, hours float64) absence.AbsenceEntry {
	t.Helper()
	created, err := svc.Create(context.Background(), absence.CreateEntryRequest{
		MemberID:    testMemberID,
		Date:        testDate,
		Hours:       hours,
		AbsenceType: string(absence.AbsenceTypePaidLeave),
		RecordedBy:  testMemberID,
	})
	require.NoError(t, err)
	return created
}

func TestCreateAbsence(t *testing.T) {
	svc, _ := newTestService()

	created := createTestAbsence(t, svc, 8)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, entry.StatusDraft, created.Status)
	assert.Equal(t, int64(0), created.Version)
	assert.Equal(t, absence.AbsenceTypePaidLeave, created.AbsenceType)
}

func TestCreateAbsenceInvalidType(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), absence.CreateEntryRequest{
		MemberID:    testMemberID,
		Date:        testDate,
		Hours:       8,
		AbsenceType: "vacation",
		RecordedBy:  testMemberID,
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "absence_type")
}

func TestAbsenceCountsWorkHours(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	// 20 work hours already booked on the day.
	_, err := store.WorkEntries().Create(ctx, worklog.WorkLogEntry{
		MemberID:  testMemberID,
		ProjectID: "project-1",
		Date:      mustDate(t, testDate),
		Hours:     20,
		Status:    entry.StatusDraft,
		EnteredBy: testMemberID,
	})
	require.NoError(t, err)

	// 4 more absence hours hit the boundary exactly.
	createTestAbsence(t, svc, 4)

	_, err = svc.Create(ctx, absence.CreateEntryRequest{
		MemberID:    testMemberID,
		Date:        testDate,
		Hours:       0.25,
		AbsenceType: string(absence.AbsenceTypeSickLeave),
		RecordedBy:  testMemberID,
	})
	assert.ErrorIs(t, err, entry.ErrDailyLimitExceeded)
}

func TestUpdateAbsenceVersionFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created := createTestAbsence(t, svc, 8)

	hours := 4.0
	_, err := svc.Update(ctx, absence.UpdateEntryRequest{
		ID:    created.ID,
		Hours: &hours,
	})
	assert.ErrorIs(t, err, entry.ErrVersionRequired)

	version := created.Version
	updated, err := svc.Update(ctx, absence.UpdateEntryRequest{
		ID:              created.ID,
		Hours:           &hours,
		ExpectedVersion: &version,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Version)

	_, err = svc.Update(ctx, absence.UpdateEntryRequest{
		ID:              created.ID,
		Hours:           &hours,
		ExpectedVersion: &version,
	})
	assert.ErrorIs(t, err, entry.ErrVersionConflict)
}

func TestDeleteAbsenceDraftOnly(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	created := createTestAbsence(t, svc, 8)
	require.NoError(t, store.AbsenceEntries().UpdateStatus(ctx, created.ID, entry.StatusSubmitted, created.Version))

	err := svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, absence.ErrEntryNotDraft)

	other := createTestAbsence(t, svc, 2)
	require.NoError(t, svc.Delete(ctx, other.ID))

	_, err = svc.Get(ctx, other.ID)
	assert.ErrorIs(t, err, absence.ErrEntryNotFound)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
