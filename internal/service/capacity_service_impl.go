package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ahenriksen/staffplan/internal/capacity"
	"github.com/ahenriksen/staffplan/internal/repository"
)

type capacityService struct {
	consultants repository.ConsultantRepo
	phases      repository.PhaseRepo
	allocations repository.AllocationRepo
}

func NewCapacityService(consultants repository.ConsultantRepo, phases repository.PhaseRepo, allocations repository.AllocationRepo) CapacityService {
	return &capacityService{consultants: consultants, phases: phases, allocations: allocations}
}

// ReportForRange is read-only and tolerates stale reads; it never feeds a
// blocking bounds check.
func (s *capacityService) ReportForRange(ctx context.Context, consultantIDs []string, start, end time.Time) (*capacity.Report, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s precedes start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	ids := consultantIDs
	if len(ids) == 0 {
		all, err := s.consultants.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range all {
			ids = append(ids, c.ID)
		}
	}

	loads, err := s.allocations.ListOverlapping(ctx, ids, start, end)
	if err != nil {
		return nil, err
	}
	report := capacity.Compute(capacity.Input{
		Start:         start,
		End:           end,
		ConsultantIDs: ids,
		Allocations:   loads,
	})
	return &report, nil
}

func (s *capacityService) ReportForPhase(ctx context.Context, phaseID string, consultantIDs []string) (*capacity.Report, error) {
	ph, err := s.phases.GetByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	return s.ReportForRange(ctx, consultantIDs, ph.StartDate, ph.EndDate)
}
