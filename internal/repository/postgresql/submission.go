package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/totodo713/miometory-sub002/internal/domain/approval"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/pkg/database"
)

type submissionRepositoryImpl struct {
	db *database.DB
}

func NewSubmissionRepository(db *database.DB) approval.SubmissionRepository {
	return &submissionRepositoryImpl{db: db}
}

const submissionColumns = `
	id, member_id, fiscal_month_start, fiscal_month_end, submitted_by,
	status, reviewed_by, reviewed_at, rejection_reason, version,
	created_at, updated_at
`

func scanSubmission(row pgx.Row) (approval.MonthlySubmission, error) {
	var s approval.MonthlySubmission
	err := row.Scan(
		&s.ID, &s.MemberID, &s.FiscalMonthStart, &s.FiscalMonthEnd, &s.SubmittedBy,
		&s.Status, &s.ReviewedBy, &s.ReviewedAt, &s.RejectionReason, &s.Version,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *submissionRepositoryImpl) Create(ctx context.Context, s approval.MonthlySubmission) (approval.MonthlySubmission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_submissions (
			id, member_id, fiscal_month_start, fiscal_month_end, submitted_by,
			status, version, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, 0, NOW(), NOW()
		) RETURNING id, version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.MemberID, s.FiscalMonthStart, s.FiscalMonthEnd, s.SubmittedBy, s.Status,
	).Scan(&s.ID, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return approval.MonthlySubmission{}, fmt.Errorf("failed to create monthly submission: %w", err)
	}

	return s, nil
}

func (r *submissionRepositoryImpl) GetByID(ctx context.Context, id string) (approval.MonthlySubmission, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + submissionColumns + ` FROM monthly_submissions WHERE id = $1`

	s, err := scanSubmission(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return approval.MonthlySubmission{}, approval.ErrSubmissionNotFound
		}
		return approval.MonthlySubmission{}, err
	}

	return s, nil
}

func (r *submissionRepositoryImpl) List(ctx context.Context, filter approval.ListSubmissionsFilter) ([]approval.MonthlySubmission, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.MemberID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("member_id = $%d", argIdx))
		args = append(args, *filter.MemberID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := "SELECT COUNT(*) FROM monthly_submissions " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count monthly submissions: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s FROM monthly_submissions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, submissionColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query monthly submissions: %w", err)
	}
	defer rows.Close()

	var submissions []approval.MonthlySubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan monthly submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return submissions, total, nil
}

func (r *submissionRepositoryImpl) FindActive(ctx context.Context, memberID string, start, end time.Time) (approval.MonthlySubmission, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + submissionColumns + `
		FROM monthly_submissions
		WHERE member_id = $1 AND fiscal_month_start = $2 AND fiscal_month_end = $3
		  AND status <> $4
		ORDER BY created_at DESC
		LIMIT 1
	`

	s, err := scanSubmission(q.QueryRow(ctx, query, memberID, start, end, approval.SubmissionStatusRejected))
	if err != nil {
		if err == pgx.ErrNoRows {
			return approval.MonthlySubmission{}, false, nil
		}
		return approval.MonthlySubmission{}, false, err
	}

	return s, true, nil
}

func (r *submissionRepositoryImpl) UpdateStatus(ctx context.Context, s approval.MonthlySubmission, expectedVersion int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_submissions
		SET status = $1, reviewed_by = $2, reviewed_at = $3, rejection_reason = $4,
		    version = version + 1, updated_at = NOW()
		WHERE id = $5 AND version = $6
	`

	tag, err := q.Exec(ctx, query,
		s.Status, s.ReviewedBy, s.ReviewedAt, s.RejectionReason,
		s.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update monthly submission %s: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM monthly_submissions WHERE id = $1)`, s.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return entry.ErrVersionConflict
		}
		return approval.ErrSubmissionNotFound
	}
	return nil
}
