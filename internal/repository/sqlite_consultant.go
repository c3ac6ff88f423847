package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
)

// SQLiteConsultantRepo implements ConsultantRepo using a SQLite database.
type SQLiteConsultantRepo struct {
	db db.DBTX
}

// NewSQLiteConsultantRepo creates a new SQLiteConsultantRepo.
func NewSQLiteConsultantRepo(db db.DBTX) *SQLiteConsultantRepo {
	return &SQLiteConsultantRepo{db: db}
}

func (r *SQLiteConsultantRepo) Create(ctx context.Context, c *domain.Consultant) error {
	query := `INSERT INTO consultants (id, name, email, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting consultant: %w", err)
	}
	return nil
}

func (r *SQLiteConsultantRepo) GetByID(ctx context.Context, id string) (*domain.Consultant, error) {
	query := `SELECT id, name, email, created_at FROM consultants WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var c domain.Consultant
	var createdAtStr string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &createdAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("consultant not found")
		}
		return nil, fmt.Errorf("scanning consultant: %w", err)
	}
	var parseErr error
	c.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &c, nil
}

func (r *SQLiteConsultantRepo) List(ctx context.Context) ([]*domain.Consultant, error) {
	query := `SELECT id, name, email, created_at FROM consultants ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing consultants: %w", err)
	}
	defer rows.Close()

	var consultants []*domain.Consultant
	for rows.Next() {
		var c domain.Consultant
		var createdAtStr string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning consultant row: %w", err)
		}
		c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		consultants = append(consultants, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating consultants: %w", err)
	}
	return consultants, nil
}
