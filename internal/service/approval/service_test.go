package approval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/approval"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
	"github.com/totodo713/miometory-sub002/internal/pkg/validator"
	"github.com/totodo713/miometory-sub002/internal/repository/memory"
)

const (
	testMemberID   = "member-1"
	testReviewerID = "manager-1"
	monthStart     = "2026-01-01"
	monthEnd       = "2026-01-31"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.NewStore()
	svc := NewService(store, store.Submissions(), store.Approvals(), store.WorkEntries(), store.AbsenceEntries())
	return svc, store
}

func seedWorkEntry(t *testing.T, store *memory.Store, date string, status entry.Status) worklog.WorkLogEntry {
	t.Helper()
	e, err := store.WorkEntries().Create(context.Background(), worklog.WorkLogEntry{
		MemberID:  testMemberID,
		ProjectID: "project-1",
		Date:      mustDate(t, date),
		Hours:     8,
		Status:    status,
		EnteredBy: testMemberID,
	})
	require.NoError(t, err)
	return e
}

func seedAbsenceEntry(t *testing.T, store *memory.Store, date string, status entry.Status) absence.AbsenceEntry {
	t.Helper()
	e, err := store.AbsenceEntries().Create(context.Background(), absence.AbsenceEntry{
		MemberID:    testMemberID,
		Date:        mustDate(t, date),
		Hours:       8,
		AbsenceType: absence.AbsenceTypePaidLeave,
		Status:      status,
		RecordedBy:  testMemberID,
	})
	require.NoError(t, err)
	return e
}

func submitTestMonth(t *testing.T, svc *Service) approval.MonthlySubmission {
	t.Helper()
	sub, err := svc.SubmitMonth(context.Background(), approval.SubmitMonthRequest{
		MemberID:         testMemberID,
		FiscalMonthStart: monthStart,
		FiscalMonthEnd:   monthEnd,
		SubmittedBy:      testMemberID,
	})
	require.NoError(t, err)
	return sub
}

func TestSubmitMonth(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	abs := seedAbsenceEntry(t, store, "2026-01-12", entry.StatusDraft)
	outside := seedWorkEntry(t, store, "2026-02-03", entry.StatusDraft)

	sub := submitTestMonth(t, svc)
	assert.Equal(t, approval.SubmissionStatusPending, sub.Status)
	assert.Equal(t, int64(0), sub.Version)

	got, err := store.WorkEntries().GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusSubmitted, got.Status)

	gotAbs, err := store.AbsenceEntries().GetByID(ctx, abs.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusSubmitted, gotAbs.Status)

	// February is not part of the period.
	gotOutside, err := store.WorkEntries().GetByID(ctx, outside.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusDraft, gotOutside.Status)
}

func TestSubmitMonthValidation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name     string
		req      approval.SubmitMonthRequest
		wantCode string
	}{
		{
			name:     "missing member",
			req:      approval.SubmitMonthRequest{FiscalMonthStart: monthStart, FiscalMonthEnd: monthEnd},
			wantCode: "MEMBER_ID_REQUIRED",
		},
		{
			name:     "missing period",
			req:      approval.SubmitMonthRequest{MemberID: testMemberID},
			wantCode: "FISCAL_MONTH_REQUIRED",
		},
		{
			name:     "inverted period",
			req:      approval.SubmitMonthRequest{MemberID: testMemberID, FiscalMonthStart: monthEnd, FiscalMonthEnd: monthStart},
			wantCode: "FISCAL_MONTH_REQUIRED",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.SubmitMonth(context.Background(), c.req)
			require.Error(t, err)

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, c.wantCode, errs.FirstCode())
		})
	}
}

func TestSubmitMonthDuplicate(t *testing.T) {
	svc, store := newTestService()

	seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	submitTestMonth(t, svc)

	_, err := svc.SubmitMonth(context.Background(), approval.SubmitMonthRequest{
		MemberID:         testMemberID,
		FiscalMonthStart: monthStart,
		FiscalMonthEnd:   monthEnd,
		SubmittedBy:      testMemberID,
	})
	assert.ErrorIs(t, err, approval.ErrSubmissionAlreadyExists)
}

func TestApproveSubmission(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	sub := submitTestMonth(t, svc)

	reviewed, err := svc.ApproveSubmission(ctx, approval.ReviewSubmissionRequest{
		SubmissionID: sub.ID,
		ReviewedBy:   testReviewerID,
	})
	require.NoError(t, err)
	assert.Equal(t, approval.SubmissionStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, testReviewerID, *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.ReviewedAt)

	got, err := store.WorkEntries().GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusApproved, got.Status)

	// Review is terminal; a second decision fails.
	_, err = svc.ApproveSubmission(ctx, approval.ReviewSubmissionRequest{
		SubmissionID: sub.ID,
		ReviewedBy:   testReviewerID,
	})
	assert.ErrorIs(t, err, approval.ErrSubmissionNotPending)
}

func TestRejectSubmissionRequiresReason(t *testing.T) {
	svc, store := newTestService()

	seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	sub := submitTestMonth(t, svc)

	_, err := svc.RejectSubmission(context.Background(), approval.ReviewSubmissionRequest{
		SubmissionID: sub.ID,
		ReviewedBy:   testReviewerID,
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "REJECTION_REASON_REQUIRED", errs.FirstCode())
}

func TestRejectThenResubmitRoundTrip(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	sub := submitTestMonth(t, svc)

	reason := "hours on the 10th look wrong"
	rejected, err := svc.RejectSubmission(ctx, approval.ReviewSubmissionRequest{
		SubmissionID:    sub.ID,
		ReviewedBy:      testReviewerID,
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, approval.SubmissionStatusRejected, rejected.Status)

	// The entry is editable again.
	got, err := store.WorkEntries().GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusDraft, got.Status)

	corrected := got
	corrected.Hours = 7.5
	_, err = store.WorkEntries().Update(ctx, corrected, got.Version)
	require.NoError(t, err)

	// Resubmission is a new row; the rejected one stays for the record.
	resub := submitTestMonth(t, svc)
	assert.NotEqual(t, sub.ID, resub.ID)

	approved, err := svc.ApproveSubmission(ctx, approval.ReviewSubmissionRequest{
		SubmissionID: resub.ID,
		ReviewedBy:   testReviewerID,
	})
	require.NoError(t, err)
	assert.Equal(t, approval.SubmissionStatusApproved, approved.Status)

	final, err := store.WorkEntries().GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusApproved, final.Status)
	assert.Equal(t, 7.5, final.Hours)

	_, total, err := svc.ListSubmissions(ctx, approval.ListSubmissionsFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSubmitEntries(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)

	created, err := svc.SubmitEntries(ctx, approval.SubmitEntriesRequest{EntryIDs: []string{work.ID}})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, approval.ApprovalStatusPending, created[0].Status)
	assert.Equal(t, work.ID, created[0].WorkLogEntryID)

	got, err := store.WorkEntries().GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusSubmitted, got.Status)

	// Submitting again while a review is open fails.
	_, err = svc.SubmitEntries(ctx, approval.SubmitEntriesRequest{EntryIDs: []string{work.ID}})
	assert.ErrorIs(t, err, approval.ErrEntryAlreadySubmitted)
}

func TestApproveEntries(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	submitted, err := svc.SubmitEntries(ctx, approval.SubmitEntriesRequest{EntryIDs: []string{work.ID}})
	require.NoError(t, err)

	approved, err := svc.ApproveEntries(ctx, approval.ApproveEntriesRequest{
		EntryIDs:   []string{work.ID},
		ApprovedBy: testReviewerID,
	})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, submitted[0].ID, approved[0].ID)
	assert.Equal(t, approval.ApprovalStatusApproved, approved[0].Status)

	got, err := store.WorkEntries().GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusApproved, got.Status)
}

func TestApproveEntryNotSubmitted(t *testing.T) {
	svc, store := newTestService()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)

	_, err := svc.ApproveEntries(context.Background(), approval.ApproveEntriesRequest{
		EntryIDs:   []string{work.ID},
		ApprovedBy: testReviewerID,
	})
	assert.ErrorIs(t, err, approval.ErrEntryNotSubmitted)
}

func TestApproveEntrySubmittedViaMonth(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	// Submitted through the monthly flow, so no approval row exists yet.
	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusSubmitted)

	approved, err := svc.ApproveEntries(ctx, approval.ApproveEntriesRequest{
		EntryIDs:   []string{work.ID},
		ApprovedBy: testReviewerID,
	})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, approval.ApprovalStatusApproved, approved[0].Status)
}

func TestRejectEntry(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	_, err := svc.SubmitEntries(ctx, approval.SubmitEntriesRequest{EntryIDs: []string{work.ID}})
	require.NoError(t, err)

	rejected, err := svc.RejectEntry(ctx, approval.RejectEntryRequest{
		EntryID:    work.ID,
		Comment:    "wrong project",
		RejectedBy: testReviewerID,
	})
	require.NoError(t, err)
	assert.Equal(t, approval.ApprovalStatusRejected, rejected.Status)

	got, err := store.WorkEntries().GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusDraft, got.Status)

	// A rejected review does not block resubmission.
	_, err = svc.SubmitEntries(ctx, approval.SubmitEntriesRequest{EntryIDs: []string{work.ID}})
	assert.NoError(t, err)
}

func TestRejectBlockedByApproval(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	_, err := svc.SubmitEntries(ctx, approval.SubmitEntriesRequest{EntryIDs: []string{work.ID}})
	require.NoError(t, err)
	_, err = svc.ApproveEntries(ctx, approval.ApproveEntriesRequest{EntryIDs: []string{work.ID}, ApprovedBy: testReviewerID})
	require.NoError(t, err)

	// The granted approval must be recalled before a rejection.
	_, err = svc.RejectEntry(ctx, approval.RejectEntryRequest{
		EntryID:    work.ID,
		Comment:    "too late",
		RejectedBy: testReviewerID,
	})
	assert.ErrorIs(t, err, approval.ErrRejectBlocked)
}

func TestRecallApproval(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusDraft)
	_, err := svc.SubmitEntries(ctx, approval.SubmitEntriesRequest{EntryIDs: []string{work.ID}})
	require.NoError(t, err)
	approved, err := svc.ApproveEntries(ctx, approval.ApproveEntriesRequest{EntryIDs: []string{work.ID}, ApprovedBy: testReviewerID})
	require.NoError(t, err)

	recalled, err := svc.RecallApproval(ctx, approved[0].ID)
	require.NoError(t, err)
	assert.Equal(t, approval.ApprovalStatusRecalled, recalled.Status)

	got, err := store.WorkEntries().GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusDraft, got.Status)

	// Only approved approvals can be recalled.
	_, err = svc.RecallApproval(ctx, approved[0].ID)
	assert.ErrorIs(t, err, approval.ErrApprovalNotApproved)
}

func TestRecallBlockedBySupersedingApproval(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	work := seedWorkEntry(t, store, "2026-01-10", entry.StatusApproved)

	approver := testReviewerID
	older, err := store.Approvals().Create(ctx, approval.DailyEntryApproval{
		WorkLogEntryID: work.ID,
		Status:         approval.ApprovalStatusApproved,
		ApprovedBy:     &approver,
	})
	require.NoError(t, err)
	_, err = store.Approvals().Create(ctx, approval.DailyEntryApproval{
		WorkLogEntryID: work.ID,
		Status:         approval.ApprovalStatusApproved,
		ApprovedBy:     &approver,
	})
	require.NoError(t, err)

	_, err = svc.RecallApproval(ctx, older.ID)
	assert.ErrorIs(t, err, approval.ErrRecallBlocked)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
