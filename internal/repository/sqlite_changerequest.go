package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
)

// SQLiteChangeRequestRepo implements ChangeRequestRepo using a SQLite database.
type SQLiteChangeRequestRepo struct {
	db db.DBTX
}

// NewSQLiteChangeRequestRepo creates a new SQLiteChangeRequestRepo.
func NewSQLiteChangeRequestRepo(db db.DBTX) *SQLiteChangeRequestRepo {
	return &SQLiteChangeRequestRepo{db: db}
}

const changeRequestColumns = `id, allocation_id, change_type, status, original_hours, requested_hours,
		shift_hours, from_consultant_id, to_consultant_id, reason, requested_by,
		resolved_by, resolved_at, resolution_note, created_at, updated_at`

func (r *SQLiteChangeRequestRepo) Create(ctx context.Context, cr *domain.HourChangeRequest) error {
	query := `INSERT INTO hour_change_requests (` + changeRequestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		cr.ID,
		cr.AllocationID,
		string(cr.Type),
		string(cr.Status),
		cr.OriginalHours,
		cr.RequestedHours,
		cr.ShiftHours,
		cr.FromConsultantID,
		cr.ToConsultantID,
		cr.Reason,
		cr.RequestedBy,
		cr.ResolvedBy,
		nullableTimeToString(cr.ResolvedAt, time.RFC3339),
		cr.ResolutionNote,
		cr.CreatedAt.Format(time.RFC3339),
		cr.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting change request: %w", err)
	}
	return nil
}

func (r *SQLiteChangeRequestRepo) GetByID(ctx context.Context, id string) (*domain.HourChangeRequest, error) {
	query := `SELECT ` + changeRequestColumns + ` FROM hour_change_requests WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanChangeRequest(row.Scan)
}

func (r *SQLiteChangeRequestRepo) ListByAllocation(ctx context.Context, allocationID string) ([]*domain.HourChangeRequest, error) {
	query := `SELECT ` + changeRequestColumns + ` FROM hour_change_requests WHERE allocation_id = ? ORDER BY created_at`
	return r.list(ctx, query, allocationID)
}

func (r *SQLiteChangeRequestRepo) ListPending(ctx context.Context) ([]*domain.HourChangeRequest, error) {
	query := `SELECT ` + changeRequestColumns + ` FROM hour_change_requests WHERE status = 'PENDING' ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *SQLiteChangeRequestRepo) Update(ctx context.Context, cr *domain.HourChangeRequest) error {
	query := `UPDATE hour_change_requests SET status = ?, resolved_by = ?, resolved_at = ?, resolution_note = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(cr.Status),
		cr.ResolvedBy,
		nullableTimeToString(cr.ResolvedAt, time.RFC3339),
		cr.ResolutionNote,
		cr.UpdatedAt.Format(time.RFC3339),
		cr.ID,
	)
	if err != nil {
		return fmt.Errorf("updating change request: %w", err)
	}
	return nil
}

func (r *SQLiteChangeRequestRepo) list(ctx context.Context, query string, args ...any) ([]*domain.HourChangeRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing change requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.HourChangeRequest
	for rows.Next() {
		cr, err := scanChangeRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating change requests: %w", err)
	}
	return requests, nil
}

func scanChangeRequest(scan func(dest ...any) error) (*domain.HourChangeRequest, error) {
	var cr domain.HourChangeRequest
	var typeStr, statusStr, createdAtStr, updatedAtStr string
	var resolvedAtStr sql.NullString

	err := scan(&cr.ID, &cr.AllocationID, &typeStr, &statusStr,
		&cr.OriginalHours, &cr.RequestedHours, &cr.ShiftHours,
		&cr.FromConsultantID, &cr.ToConsultantID, &cr.Reason, &cr.RequestedBy,
		&cr.ResolvedBy, &resolvedAtStr, &cr.ResolutionNote,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("change request not found")
		}
		return nil, fmt.Errorf("scanning change request: %w", err)
	}

	cr.Type = domain.ChangeType(typeStr)
	cr.Status = domain.ChangeRequestStatus(statusStr)
	cr.ResolvedAt = parseNullableTime(resolvedAtStr, time.RFC3339)

	var parseErr error
	cr.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	cr.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &cr, nil
}
