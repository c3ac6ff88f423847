package domain

import (
	"fmt"
	"time"
)

type Project struct {
	ID            string
	Name          string
	BudgetedHours float64
	StartDate     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the fields required before a project can be persisted.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.BudgetedHours < 0 {
		return fmt.Errorf("budgeted hours must not be negative (got %.1f)", p.BudgetedHours)
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("project start date is required")
	}
	return nil
}
