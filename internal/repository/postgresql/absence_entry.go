package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/domain/entry"
	"github.com/totodo713/miometory-sub002/internal/pkg/database"
)

type absenceEntryRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceEntryRepository(db *database.DB) absence.EntryRepository {
	return &absenceEntryRepositoryImpl{db: db}
}

const absenceEntryColumns = `
	id, member_id, date, hours, absence_type, reason,
	status, recorded_by, version, deleted_at, created_at, updated_at
`

func scanAbsenceEntry(row pgx.Row) (absence.AbsenceEntry, error) {
	var e absence.AbsenceEntry
	err := row.Scan(
		&e.ID, &e.MemberID, &e.Date, &e.Hours, &e.AbsenceType, &e.Reason,
		&e.Status, &e.RecordedBy, &e.Version, &e.DeletedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *absenceEntryRepositoryImpl) Create(ctx context.Context, e absence.AbsenceEntry) (absence.AbsenceEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absence_entries (
			id, member_id, date, hours, absence_type, reason,
			status, recorded_by, version,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			$6, $7, 0,
			NOW(), NOW()
		) RETURNING id, version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.MemberID, e.Date, e.Hours, e.AbsenceType, e.Reason,
		e.Status, e.RecordedBy,
	).Scan(&e.ID, &e.Version, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return absence.AbsenceEntry{}, fmt.Errorf("failed to create absence entry: %w", err)
	}

	return e, nil
}

func (r *absenceEntryRepositoryImpl) GetByID(ctx context.Context, id string) (absence.AbsenceEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceEntryColumns + ` FROM absence_entries WHERE id = $1 AND deleted_at IS NULL`

	e, err := scanAbsenceEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return absence.AbsenceEntry{}, absence.ErrEntryNotFound
		}
		return absence.AbsenceEntry{}, err
	}

	return e, nil
}

func (r *absenceEntryRepositoryImpl) List(ctx context.Context, filter absence.ListEntriesFilter) ([]absence.AbsenceEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if filter.MemberID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("member_id = $%d", argIdx))
		args = append(args, *filter.MemberID)
		argIdx++
	}
	if filter.AbsenceType != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("absence_type = $%d", argIdx))
		args = append(args, *filter.AbsenceType)
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

	countQuery := "SELECT COUNT(*) FROM absence_entries " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count absence entries: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s FROM absence_entries
		%s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, absenceEntryColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query absence entries: %w", err)
	}
	defer rows.Close()

	var entries []absence.AbsenceEntry
	for rows.Next() {
		e, err := scanAbsenceEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan absence entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, total, nil
}

func (r *absenceEntryRepositoryImpl) Update(ctx context.Context, e absence.AbsenceEntry, expectedVersion int64) (absence.AbsenceEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absence_entries
		SET date = $1, hours = $2, absence_type = $3, reason = $4,
		    version = version + 1, updated_at = NOW()
		WHERE id = $5 AND version = $6 AND deleted_at IS NULL
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.Date, e.Hours, e.AbsenceType, e.Reason,
		e.ID, expectedVersion,
	).Scan(&e.Version, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return absence.AbsenceEntry{}, r.versionConflictOrMissing(ctx, e.ID)
		}
		return absence.AbsenceEntry{}, fmt.Errorf("failed to update absence entry %s: %w", e.ID, err)
	}

	return e, nil
}

func (r *absenceEntryRepositoryImpl) UpdateStatus(ctx context.Context, id string, status entry.Status, expectedVersion int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absence_entries
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, status, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update status of absence entry %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionConflictOrMissing(ctx, id)
	}
	return nil
}

func (r *absenceEntryRepositoryImpl) SoftDelete(ctx context.Context, id string, expectedVersion int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absence_entries
		SET deleted_at = NOW(), version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to delete absence entry %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionConflictOrMissing(ctx, id)
	}
	return nil
}

func (r *absenceEntryRepositoryImpl) ListActiveByMemberPeriod(ctx context.Context, memberID string, from, to time.Time) ([]absence.AbsenceEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceEntryColumns + `
		FROM absence_entries
		WHERE member_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL
		ORDER BY date, created_at
	`

	rows, err := q.Query(ctx, query, memberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query absence entries for period: %w", err)
	}
	defer rows.Close()

	var entries []absence.AbsenceEntry
	for rows.Next() {
		e, err := scanAbsenceEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

func (r *absenceEntryRepositoryImpl) versionConflictOrMissing(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM absence_entries WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return entry.ErrVersionConflict
	}
	return absence.ErrEntryNotFound
}
