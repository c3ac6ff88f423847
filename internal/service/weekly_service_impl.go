package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahenriksen/staffplan/internal/approval"
	"github.com/ahenriksen/staffplan/internal/calweek"
	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
	"github.com/ahenriksen/staffplan/internal/repository"
)

type weeklyPlanService struct {
	weeklies repository.WeeklyRepo
	uow      db.UnitOfWork
	obs      UseCaseObserver
}

func NewWeeklyPlanService(weeklies repository.WeeklyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) WeeklyPlanService {
	return &weeklyPlanService{
		weeklies: weeklies,
		uow:      uow,
		obs:      useCaseObserverOrNoop(observers),
	}
}

func (s *weeklyPlanService) ListByAllocation(ctx context.Context, allocationID string) ([]*domain.WeeklyAllocation, error) {
	return s.weeklies.ListByAllocation(ctx, allocationID)
}

// Submit replaces the consultant's proposed distribution for the given
// weeks. The combined effective hours of the allocation's weeks, replaced
// and untouched alike, must stay within its total; the sums are read in
// the same transaction that writes, so a concurrent allocation resize
// cannot slip an overcommit through.
func (s *weeklyPlanService) Submit(ctx context.Context, allocationID string, weeks []WeekHours) ([]*domain.WeeklyAllocation, error) {
	if len(weeks) == 0 {
		return nil, fmt.Errorf("a weekly plan needs at least one week")
	}

	var out []*domain.WeeklyAllocation
	fields := map[string]any{"allocation_id": allocationID, "weeks": len(weeks)}

	err := observe(ctx, s.obs, "weekly.submit", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txAllocations := repository.NewSQLiteAllocationRepo(tx)
			txWeeklies := repository.NewSQLiteWeeklyRepo(tx)
			txPhases := repository.NewSQLitePhaseRepo(tx)

			a, err := txAllocations.GetByID(ctx, allocationID)
			if err != nil {
				return err
			}
			if a.Status != domain.AllocationApproved {
				return fmt.Errorf("weekly hours can only be planned against an APPROVED allocation (status is %s)", a.Status)
			}
			ph, err := txPhases.GetByID(ctx, a.PhaseID)
			if err != nil {
				return err
			}

			// Normalize to Mondays and reject duplicate weeks up front.
			seen := make(map[string]bool, len(weeks))
			normalized := make([]WeekHours, 0, len(weeks))
			for _, wh := range weeks {
				if wh.Hours < 0 {
					return fmt.Errorf("weekly hours must not be negative")
				}
				week := calweek.FromDate(wh.WeekStart)
				if week.Start.Before(calweek.FromDate(ph.StartDate).Start) || week.Start.After(ph.EndDate) {
					return fmt.Errorf("week %s falls outside the phase period", week.Key())
				}
				if seen[week.Key()] {
					return fmt.Errorf("week %s appears twice in the submission", week.Key())
				}
				seen[week.Key()] = true
				normalized = append(normalized, WeekHours{WeekStart: week.Start, Hours: wh.Hours})
			}

			existing, err := txWeeklies.ListByAllocation(ctx, allocationID)
			if err != nil {
				return err
			}
			byWeek := make(map[string]*domain.WeeklyAllocation, len(existing))
			var untouched float64
			for _, w := range existing {
				key := calweek.FromDate(w.WeekStart).Key()
				byWeek[key] = w
				if !seen[key] {
					untouched += w.EffectiveHours()
				}
			}

			var submitted float64
			for _, wh := range normalized {
				submitted += wh.Hours
			}
			if total := untouched + submitted; total > a.TotalHours {
				return fmt.Errorf(
					"planned hours of %.1fh would exceed the allocation total of %.1fh by %.1fh",
					total, a.TotalHours, total-a.TotalHours)
			}

			now := time.Now().UTC()
			for _, wh := range normalized {
				key := calweek.FromDate(wh.WeekStart).Key()
				w, ok := byWeek[key]
				if ok && wh.Hours == 0 {
					if err := txWeeklies.Delete(ctx, w.ID); err != nil {
						return err
					}
					continue
				}
				if wh.Hours == 0 {
					continue
				}
				if ok {
					w.ProposedHours = wh.Hours
					w.ApprovedHours = nil
					w.Status = domain.WeeklyPending
					w.Rationale = ""
					w.UpdatedAt = now
					if err := txWeeklies.Update(ctx, w); err != nil {
						return err
					}
				} else {
					w = &domain.WeeklyAllocation{
						ID:            uuid.New().String(),
						AllocationID:  allocationID,
						WeekStart:     wh.WeekStart,
						ProposedHours: wh.Hours,
						Status:        domain.WeeklyPending,
						CreatedAt:     now,
						UpdatedAt:     now,
					}
					if err := txWeeklies.Create(ctx, w); err != nil {
						return err
					}
				}
				out = append(out, w)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *weeklyPlanService) Decide(ctx context.Context, d WeeklyDecision) error {
	fields := map[string]any{"weekly_id": d.WeeklyID}
	return observe(ctx, s.obs, "weekly.decide", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txWeeklies := repository.NewSQLiteWeeklyRepo(tx)

			w, err := txWeeklies.GetByID(ctx, d.WeeklyID)
			if err != nil {
				return err
			}

			switch {
			case d.Modify:
				// Modification is the one decision that can raise the
				// week's effective hours, so the allocation total is
				// re-checked against the other weeks here.
				txAllocations := repository.NewSQLiteAllocationRepo(tx)
				a, err := txAllocations.GetByID(ctx, w.AllocationID)
				if err != nil {
					return err
				}
				siblings, err := txWeeklies.ListByAllocation(ctx, w.AllocationID)
				if err != nil {
					return err
				}
				var others float64
				for _, sw := range siblings {
					if sw.ID != w.ID {
						others += sw.EffectiveHours()
					}
				}
				if total := others + d.ModifiedHours; total > a.TotalHours {
					return fmt.Errorf(
						"modified hours of %.1fh would raise planned hours to %.1fh, exceeding the allocation total of %.1fh",
						d.ModifiedHours, total, a.TotalHours)
				}
				if err := approval.ModifyWeekly(w, d.ModifiedHours, d.Rationale); err != nil {
					return err
				}
			case d.Approve:
				if err := approval.WeeklyTransition(w.Status, domain.WeeklyApproved); err != nil {
					return err
				}
				w.Status = domain.WeeklyApproved
			default:
				if err := approval.WeeklyTransition(w.Status, domain.WeeklyRejected); err != nil {
					return err
				}
				w.Status = domain.WeeklyRejected
				w.Rationale = d.Rationale
			}
			w.UpdatedAt = time.Now().UTC()
			return txWeeklies.Update(ctx, w)
		})
	})
}

// BatchDecide applies each decision in its own transaction. Items are
// independent; a conflict on one never blocks its siblings.
func (s *weeklyPlanService) BatchDecide(ctx context.Context, decisions []WeeklyDecision) []BatchItemResult {
	results := make([]BatchItemResult, 0, len(decisions))
	for _, d := range decisions {
		results = append(results, BatchItemResult{
			WeeklyID: d.WeeklyID,
			Err:      s.Decide(ctx, d),
		})
	}
	return results
}
