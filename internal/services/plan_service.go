package services

import (
	"context"
	"fmt"

	"gatekeeper/internal/models/db_models"
	"gatekeeper/internal/models/response_models"
	"gatekeeper/internal/repositories"
	"gatekeeper/pkg/utils"
)

type PlanServiceInterface interface {
	GetPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error)
	GetPlanInfoById(ctx context.Context, planId uint) (response_models.SubscriptionPlan, error)
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

func (p *PlanService) GetPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error) {

	plans, err := p.planRepo.GetAllPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	result := make([]response_models.SubscriptionPlan, 0, len(plans))
	for i := range plans {
		result = append(result, toSubscriptionPlan(&plans[i]))
	}

	return result, nil
}

func (p *PlanService) GetPlanInfoById(ctx context.Context, planId uint) (response_models.SubscriptionPlan, error) {

	plan, err := p.planRepo.GetPlanInfoById(ctx, planId)
	if err != nil {
		return response_models.SubscriptionPlan{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if plan == nil {
		return response_models.SubscriptionPlan{}, utils.ErrRecordNotFound
	}

	return toSubscriptionPlan(plan), nil
}

func toSubscriptionPlan(plan *db_models.Plan) response_models.SubscriptionPlan {
	return response_models.SubscriptionPlan{
		ID:                    plan.ID,
		Code:                  plan.Code,
		Name:                  plan.Name,
		Description:           plan.Description,
		IncludedRequests:      plan.IncludedRequests,
		Price:                 plan.Price,
		ExtraPricePerThousand: plan.ExtraPricePerThousand,
		Features:              plan.Features,
	}
}
