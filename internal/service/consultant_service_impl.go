package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/repository"
)

type consultantService struct {
	consultants repository.ConsultantRepo
}

func NewConsultantService(consultants repository.ConsultantRepo) ConsultantService {
	return &consultantService{consultants: consultants}
}

func (s *consultantService) Create(ctx context.Context, c *domain.Consultant) error {
	if c.Name == "" {
		return fmt.Errorf("consultant name is required")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()
	return s.consultants.Create(ctx, c)
}

func (s *consultantService) GetByID(ctx context.Context, id string) (*domain.Consultant, error) {
	return s.consultants.GetByID(ctx, id)
}

func (s *consultantService) List(ctx context.Context) ([]*domain.Consultant, error) {
	return s.consultants.List(ctx)
}
