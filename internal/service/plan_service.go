package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/database"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// PlanService manages pricing plans.
type PlanService struct {
	pool     *pgxpool.Pool
	planRepo *repository.PlanRepository
}

// NewPlanService creates a new PlanService.
func NewPlanService(pool *pgxpool.Pool, planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{pool: pool, planRepo: planRepo}
}

// PlanPatch holds a partial plan update. ClearDailyLimit removes the daily
// limit; it takes precedence over DailyLimit.
type PlanPatch struct {
	Name            *string
	Description     *string
	Price           *float64
	RateLimit       *int
	DailyLimit      *int
	ClearDailyLimit bool
	Features        *[]string
	IsPopular       *bool
	CTA             *string
}

func (p PlanPatch) isEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.RateLimit == nil &&
		p.DailyLimit == nil && !p.ClearDailyLimit && p.Features == nil && p.IsPopular == nil && p.CTA == nil
}

func (p PlanPatch) apply(plan *domain.Plan) {
	if p.Name != nil {
		plan.Name = *p.Name
	}
	if p.Description != nil {
		plan.Description = *p.Description
	}
	if p.Price != nil {
		plan.Price = *p.Price
	}
	if p.RateLimit != nil {
		plan.RateLimit = *p.RateLimit
	}
	if p.DailyLimit != nil {
		limit := *p.DailyLimit
		plan.DailyLimit = &limit
	}
	if p.ClearDailyLimit {
		plan.DailyLimit = nil
	}
	if p.Features != nil {
		plan.Features = *p.Features
	}
	if p.IsPopular != nil {
		plan.IsPopular = *p.IsPopular
	}
	if p.CTA != nil {
		plan.CTA = *p.CTA
	}
}

// CreatePlan validates and stores a new plan.
func (s *PlanService) CreatePlan(ctx context.Context, plan *domain.Plan) (*domain.Plan, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	created, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}

	slog.Info("plan created", "plan_id", created.ID, "name", created.Name)

	return created, nil
}

// UpdatePlan applies a partial update to one plan.
func (s *PlanService) UpdatePlan(ctx context.Context, planID string, patch PlanPatch) (*domain.Plan, error) {
	if patch.isEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	patch.apply(plan)
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	slog.Info("plan updated", "plan_id", plan.ID)

	return plan, nil
}

// PlanUpdate is one entry of a bulk update.
type PlanUpdate struct {
	ID    string
	Patch PlanPatch
}

// BulkUpdatePlans applies updates in order inside one transaction. The first
// malformed id, missing plan or invalid result aborts the whole batch.
func (s *PlanService) BulkUpdatePlans(ctx context.Context, updates []PlanUpdate) ([]*domain.Plan, error) {
	if len(updates) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	updated := make([]*domain.Plan, 0, len(updates))
	err := database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		repo := s.planRepo.WithTx(tx)
		for i, u := range updates {
			if _, err := uuid.Parse(u.ID); err != nil {
				return fmt.Errorf("%w: plans[%d].id %q", domain.ErrInvalidID, i, u.ID)
			}

			plan, err := repo.GetByIDForUpdate(ctx, tx, u.ID)
			if err != nil {
				return fmt.Errorf("plans[%d] %s: %w", i, u.ID, err)
			}

			u.Patch.apply(plan)
			if err := plan.Validate(); err != nil {
				return fmt.Errorf("plans[%d]: %w", i, err)
			}
			if err := repo.Update(ctx, plan); err != nil {
				return fmt.Errorf("plans[%d]: %w", i, err)
			}
			updated = append(updated, plan)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("plans bulk updated", "count", len(updated))

	return updated, nil
}
