package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/totodo713/miometory-sub002/internal/domain/approval"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/pkg/database"
)

type approvalRepositoryImpl struct {
	db *database.DB
}

func NewApprovalRepository(db *database.DB) approval.ApprovalRepository {
	return &approvalRepositoryImpl{db: db}
}

const approvalColumns = `
	id, work_log_entry_id, status, approved_by, rejected_by,
	comment, rejection_reason, version, created_at, updated_at
`

func scanApproval(row pgx.Row) (approval.DailyEntryApproval, error) {
	var a approval.DailyEntryApproval
	err := row.Scan(
		&a.ID, &a.WorkLogEntryID, &a.Status, &a.ApprovedBy, &a.RejectedBy,
		&a.Comment, &a.RejectionReason, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *approvalRepositoryImpl) Create(ctx context.Context, a approval.DailyEntryApproval) (approval.DailyEntryApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_entry_approvals (
			id, work_log_entry_id, status, approved_by, rejected_by,
			comment, rejection_reason, version, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, 0, NOW(), NOW()
		) RETURNING id, version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.WorkLogEntryID, a.Status, a.ApprovedBy, a.RejectedBy,
		a.Comment, a.RejectionReason,
	).Scan(&a.ID, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return approval.DailyEntryApproval{}, fmt.Errorf("failed to create daily entry approval: %w", err)
	}

	return a, nil
}

func (r *approvalRepositoryImpl) GetByID(ctx context.Context, id string) (approval.DailyEntryApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + approvalColumns + ` FROM daily_entry_approvals WHERE id = $1`

	a, err := scanApproval(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return approval.DailyEntryApproval{}, approval.ErrApprovalNotFound
		}
		return approval.DailyEntryApproval{}, err
	}

	return a, nil
}

func (r *approvalRepositoryImpl) GetActiveByEntryID(ctx context.Context, workLogEntryID string) (approval.DailyEntryApproval, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + approvalColumns + `
		FROM daily_entry_approvals
		WHERE work_log_entry_id = $1 AND status <> $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	a, err := scanApproval(q.QueryRow(ctx, query, workLogEntryID, approval.ApprovalStatusRecalled))
	if err != nil {
		if err == pgx.ErrNoRows {
			return approval.DailyEntryApproval{}, false, nil
		}
		return approval.DailyEntryApproval{}, false, err
	}

	return a, true, nil
}

func (r *approvalRepositoryImpl) HasNewerActive(ctx context.Context, a approval.DailyEntryApproval) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM daily_entry_approvals
			WHERE work_log_entry_id = $1 AND status <> $2 AND created_at > $3
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, a.WorkLogEntryID, approval.ApprovalStatusRecalled, a.CreatedAt).Scan(&exists)
	return exists, err
}

func (r *approvalRepositoryImpl) UpdateStatus(ctx context.Context, a approval.DailyEntryApproval, expectedVersion int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE daily_entry_approvals
		SET status = $1, approved_by = $2, rejected_by = $3,
		    comment = $4, rejection_reason = $5,
		    version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7
	`

	tag, err := q.Exec(ctx, query,
		a.Status, a.ApprovedBy, a.RejectedBy, a.Comment, a.RejectionReason,
		a.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update daily entry approval %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM daily_entry_approvals WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return entry.ErrVersionConflict
		}
		return approval.ErrApprovalNotFound
	}
	return nil
}
