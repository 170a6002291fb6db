package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
	"github.com/totodo713/miometory-sub002/internal/pkg/database"
)

type workEntryRepositoryImpl struct {
	db *database.DB
}

func NewWorkEntryRepository(db *database.DB) worklog.EntryRepository {
	return &workEntryRepositoryImpl{db: db}
}

const workEntryColumns = `
	id, member_id, project_id, date, hours, comment,
	status, entered_by, version, deleted_at, created_at, updated_at
`

func scanWorkEntry(row pgx.Row) (worklog.WorkLogEntry, error) {
	var e worklog.WorkLogEntry
	err := row.Scan(
		&e.ID, &e.MemberID, &e.ProjectID, &e.Date, &e.Hours, &e.Comment,
		&e.Status, &e.EnteredBy, &e.Version, &e.DeletedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *workEntryRepositoryImpl) Create(ctx context.Context, e worklog.WorkLogEntry) (worklog.WorkLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_log_entries (
			id, member_id, project_id, date, hours, comment,
			status, entered_by, version,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			$6, $7, 0,
			NOW(), NOW()
		) RETURNING id, version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.MemberID, e.ProjectID, e.Date, e.Hours, e.Comment,
		e.Status, e.EnteredBy,
	).Scan(&e.ID, &e.Version, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return worklog.WorkLogEntry{}, fmt.Errorf("failed to create work log entry: %w", err)
	}

	return e, nil
}

func (r *workEntryRepositoryImpl) GetByID(ctx context.Context, id string) (worklog.WorkLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workEntryColumns + ` FROM work_log_entries WHERE id = $1 AND deleted_at IS NULL`

	e, err := scanWorkEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return worklog.WorkLogEntry{}, worklog.ErrEntryNotFound
		}
		return worklog.WorkLogEntry{}, err
	}

	return e, nil
}

func (r *workEntryRepositoryImpl) List(ctx context.Context, filter worklog.ListEntriesFilter) ([]worklog.WorkLogEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if filter.MemberID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("member_id = $%d", argIdx))
		args = append(args, *filter.MemberID)
		argIdx++
	}
	if filter.ProjectID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("project_id = $%d", argIdx))
		args = append(args, *filter.ProjectID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DateFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, *filter.DateTo)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := "SELECT COUNT(*) FROM work_log_entries " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work log entries: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s FROM work_log_entries
		%s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, workEntryColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query work log entries: %w", err)
	}
	defer rows.Close()

	var entries []worklog.WorkLogEntry
	for rows.Next() {
		e, err := scanWorkEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan work log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, total, nil
}

func (r *workEntryRepositoryImpl) Update(ctx context.Context, e worklog.WorkLogEntry, expectedVersion int64) (worklog.WorkLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_log_entries
		SET project_id = $1, date = $2, hours = $3, comment = $4,
		    version = version + 1, updated_at = NOW()
		WHERE id = $5 AND version = $6 AND deleted_at IS NULL
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.ProjectID, e.Date, e.Hours, e.Comment,
		e.ID, expectedVersion,
	).Scan(&e.Version, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return worklog.WorkLogEntry{}, r.versionConflictOrMissing(ctx, e.ID)
		}
		return worklog.WorkLogEntry{}, fmt.Errorf("failed to update work log entry %s: %w", e.ID, err)
	}

	return e, nil
}

func (r *workEntryRepositoryImpl) UpdateStatus(ctx context.Context, id string, status entry.Status, expectedVersion int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_log_entries
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, status, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update status of work log entry %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionConflictOrMissing(ctx, id)
	}
	return nil
}

func (r *workEntryRepositoryImpl) SoftDelete(ctx context.Context, id string, expectedVersion int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_log_entries
		SET deleted_at = NOW(), version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to delete work log entry %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionConflictOrMissing(ctx, id)
	}
	return nil
}

func (r *workEntryRepositoryImpl) ListActiveByMemberPeriod(ctx context.Context, memberID string, from, to time.Time) ([]worklog.WorkLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workEntryColumns + `
		FROM work_log_entries
		WHERE member_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL
		ORDER BY date, created_at
	`

	rows, err := q.Query(ctx, query, memberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query work log entries for period: %w", err)
	}
	defer rows.Close()

	var entries []worklog.WorkLogEntry
	for rows.Next() {
		e, err := scanWorkEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// versionConflictOrMissing distinguishes a stale version from a vanished
// row after a guarded UPDATE touched nothing.
func (r *workEntryRepositoryImpl) versionConflictOrMissing(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM work_log_entries WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return entry.ErrVersionConflict
	}
	return worklog.ErrEntryNotFound
}
