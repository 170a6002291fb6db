package worklog

import (
	"context"
	"sync"
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
	testMemberID  = "member-1"
	testProjectID = "project-1"
	testDate      = "2026-01-15"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.NewStore()
	limit := dailylimit.NewValidator(store)
	svc := NewService(store, store.WorkEntries(), store.AbsenceEntries(), limit)
	return svc, store
}

func createTestEntry(t *testing.T, svc *Service, hours float64) worklog.WorkLogEntry {
	t.Helper()
	created, err := svc.Create(context.Background(), worklog.CreateEntryRequest{
		MemberID:  testMemberID,
		ProjectID: testProjectID,
		Date:      testDate,
		Hours:     hours,
		EnteredBy: testMemberID,
	})
	require.NoError(t, err)
	return created
}

func TestCreateEntry(t *testing.T) {
	svc, _ := newTestService()

	created := createTestEntry(t, svc, 7.5)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, entry.StatusDraft, created.Status)
	assert.Equal(t, int64(0), created.Version)
	assert.Equal(t, 7.5, created.Hours)
}

func TestCreateEntryPreSubmitted(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), worklog.CreateEntryRequest{
		MemberID:     testMemberID,
		ProjectID:    testProjectID,
		Date:         testDate,
		Hours:        8,
		PreSubmitted: true,
		EnteredBy:    "proxy-user",
	})
	require.NoError(t, err)

	assert.Equal(t, entry.StatusSubmitted, created.Status)
	assert.Equal(t, "proxy-user", created.EnteredBy)
}

func TestCreateEntryValidation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name     string
		req      worklog.CreateEntryRequest
		wantCode string
	}{
		{
			name:     "missing member",
			req:      worklog.CreateEntryRequest{ProjectID: testProjectID, Date: testDate, Hours: 8},
			wantCode: "",
		},
		{
			name:     "future date",
			req:      worklog.CreateEntryRequest{MemberID: testMemberID, ProjectID: testProjectID, Date: "2099-01-01", Hours: 8},
			wantCode: "DATE_IN_FUTURE",
		},
		{
			name:     "zero hours",
			req:      worklog.CreateEntryRequest{MemberID: testMemberID, ProjectID: testProjectID, Date: testDate, Hours: 0},
			wantCode: "HOURS_OUT_OF_RANGE",
		},
		{
			name:     "over single entry limit",
			req:      worklog.CreateEntryRequest{MemberID: testMemberID, ProjectID: testProjectID, Date: testDate, Hours: 24.25},
			wantCode: "HOURS_OUT_OF_RANGE",
		},
		{
			name:     "not a quarter increment",
			req:      worklog.CreateEntryRequest{MemberID: testMemberID, ProjectID: testProjectID, Date: testDate, Hours: 7.33},
			wantCode: "HOURS_NOT_QUARTER_INCREMENT",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), c.req)
			require.Error(t, err)

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, c.wantCode, errs.FirstCode())
		})
	}
}

func TestDailyLimitAcrossAggregates(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	// 8 hours of absence on the same day counts against the limit.
	_, err := store.AbsenceEntries().Create(ctx, absence.AbsenceEntry{
		MemberID:    testMemberID,
		Date:        mustDate(t, testDate),
		Hours:       8,
		AbsenceType: absence.AbsenceTypePaidLeave,
		Status:      entry.StatusDraft,
		RecordedBy:  testMemberID,
	})
	require.NoError(t, err)

	// 8 + 16 = 24 is allowed; the boundary itself is valid.
	createTestEntry(t, svc, 16)

	_, err = svc.Create(ctx, worklog.CreateEntryRequest{
		MemberID:  testMemberID,
		ProjectID: testProjectID,
		Date:      testDate,
		Hours:     0.25,
		EnteredBy: testMemberID,
	})
	assert.ErrorIs(t, err, entry.ErrDailyLimitExceeded)

	// A different member is unaffected.
	_, err = svc.Create(ctx, worklog.CreateEntryRequest{
		MemberID:  "member-2",
		ProjectID: testProjectID,
		Date:      testDate,
		Hours:     8,
		EnteredBy: "member-2",
	})
	assert.NoError(t, err)
}

func TestDailyLimitRejectsOverBoundary(t *testing.T) {
	svc, _ := newTestService()

	createTestEntry(t, svc, 20)

	_, err := svc.Create(context.Background(), worklog.CreateEntryRequest{
		MemberID:  testMemberID,
		ProjectID: testProjectID,
		Date:      testDate,
		Hours:     8,
		EnteredBy: testMemberID,
	})
	assert.ErrorIs(t, err, entry.ErrDailyLimitExceeded)
}

func TestUpdateEntryRequiresVersion(t *testing.T) {
	svc, _ := newTestService()
	created := createTestEntry(t, svc, 8)

	hours := 7.5
	_, err := svc.Update(context.Background(), worklog.UpdateEntryRequest{
		ID:    created.ID,
		Hours: &hours,
	})
	assert.ErrorIs(t, err, entry.ErrVersionRequired)
}

func TestUpdateEntryVersionFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created := createTestEntry(t, svc, 8)

	hours := 7.5
	version := created.Version
	updated, err := svc.Update(ctx, worklog.UpdateEntryRequest{
		ID:              created.ID,
		Hours:           &hours,
		ExpectedVersion: &version,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Version)
	assert.Equal(t, 7.5, updated.Hours)

	// A second writer holding the original token loses.
	stale := created.Version
	hours = 6
	_, err = svc.Update(ctx, worklog.UpdateEntryRequest{
		ID:              created.ID,
		Hours:           &hours,
		ExpectedVersion: &stale,
	})
	assert.ErrorIs(t, err, entry.ErrVersionConflict)
}

func TestUpdateEntryExcludesOwnHours(t *testing.T) {
	svc, _ := newTestService()
	created := createTestEntry(t, svc, 20)

	// Raising 20 to 24 is fine because the old 20 no longer counts.
	hours := 24.0
	version := created.Version
	updated, err := svc.Update(context.Background(), worklog.UpdateEntryRequest{
		ID:              created.ID,
		Hours:           &hours,
		ExpectedVersion: &version,
	})
	require.NoError(t, err)
	assert.Equal(t, 24.0, updated.Hours)
}

func TestUpdateApprovedEntry(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	created := createTestEntry(t, svc, 8)

	require.NoError(t, store.WorkEntries().UpdateStatus(ctx, created.ID, entry.StatusApproved, created.Version))

	hours := 7.5
	version := created.Version + 1
	_, err := svc.Update(ctx, worklog.UpdateEntryRequest{
		ID:              created.ID,
		Hours:           &hours,
		ExpectedVersion: &version,
	})
	assert.ErrorIs(t, err, entry.ErrCannotModify)
}

func TestDeleteEntry(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	t.Run("draft is deleted", func(t *testing.T) {
		created := createTestEntry(t, svc, 8)
		require.NoError(t, svc.Delete(ctx, created.ID))

		_, err := svc.Get(ctx, created.ID)
		assert.ErrorIs(t, err, worklog.ErrEntryNotFound)
	})

	t.Run("submitted is rejected", func(t *testing.T) {
		created := createTestEntry(t, svc, 8)
		require.NoError(t, store.WorkEntries().UpdateStatus(ctx, created.ID, entry.StatusSubmitted, created.Version))

		err := svc.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, worklog.ErrEntryNotDraft)
	})

	t.Run("approved is immutable", func(t *testing.T) {
		created := createTestEntry(t, svc, 8)
		require.NoError(t, store.WorkEntries().UpdateStatus(ctx, created.ID, entry.StatusApproved, created.Version))

		err := svc.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, entry.ErrCannotModify)
	})
}

func TestDeletedEntryFreesUpHours(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created := createTestEntry(t, svc, 20)
	require.NoError(t, svc.Delete(ctx, created.ID))

	// The soft-deleted 20 hours no longer count toward the limit.
	_, err := svc.Create(ctx, worklog.CreateEntryRequest{
		MemberID:  testMemberID,
		ProjectID: testProjectID,
		Date:      testDate,
		Hours:     8,
		EnteredBy: testMemberID,
	})
	assert.NoError(t, err)
}

func TestConcurrentCreatesRespectLimit(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	results := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Create(ctx, worklog.CreateEntryRequest{
				MemberID:  testMemberID,
				ProjectID: testProjectID,
				Date:      testDate,
				Hours:     6,
				EnteredBy: testMemberID,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, entry.ErrDailyLimitExceeded)
		}
	}
	assert.Equal(t, 4, succeeded, "exactly 24 hours worth of 6-hour entries fit")
}

func TestSummary(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	createTestEntry(t, svc, 8)
	_, err := store.AbsenceEntries().Create(ctx, absence.AbsenceEntry{
		MemberID:    testMemberID,
		Date:        mustDate(t, testDate),
		Hours:       2,
		AbsenceType: absence.AbsenceTypeSickLeave,
		Status:      entry.StatusDraft,
		RecordedBy:  testMemberID,
	})
	require.NoError(t, err)

	from := mustDate(t, "2026-01-01")
	to := mustDate(t, "2026-01-31")
	totals, err := svc.Summary(ctx, testMemberID, from, to)
	require.NoError(t, err)

	require.Len(t, totals, 1)
	assert.Equal(t, 8.0, totals[0].WorkHours)
	assert.Equal(t, 2.0, totals[0].AbsenceHours)
	assert.Equal(t, 10.0, totals[0].TotalHours)
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	createTestEntry(t, svc, 8)
	_, err := svc.Create(ctx, worklog.CreateEntryRequest{
		MemberID:  "member-2",
		ProjectID: testProjectID,
		Date:      testDate,
		Hours:     4,
		EnteredBy: "member-2",
	})
	require.NoError(t, err)

	member := testMemberID
	entries, total, err := svc.List(ctx, worklog.ListEntriesFilter{
		MemberID: &member,
		Page:     1,
		Limit:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, testMemberID, entries[0].MemberID)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
