package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gatekeeper/internal/models/db_models"
	"gatekeeper/internal/models/response_models"
	"gatekeeper/internal/repositories"
	"gatekeeper/pkg/blocklist"
	"gatekeeper/pkg/metrics"
	"gatekeeper/pkg/utils"
)

// SubscriptionTerm is the lifetime given to lazily provisioned subscriptions
// and to subscriptions found without an expiry.
const SubscriptionTerm = 28 * 24 * time.Hour

type ResolutionKind int

const (
	ResolutionResolved ResolutionKind = iota
	ResolutionProvisioningAbsent
	ResolutionStoreError
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionResolved:
		return "resolved"
	case ResolutionProvisioningAbsent:
		return "provisioning_absent"
	case ResolutionStoreError:
		return "store_error"
	default:
		return "unknown"
	}
}

// Resolution is the tagged outcome of a quota lookup. Every kind other than
// ResolutionResolved carries the fail-closed status.
type Resolution struct {
	Kind           ResolutionKind
	Status         response_models.QuotaStatus
	SubscriptionID uint
	Err            error
}

func failClosedStatus() response_models.QuotaStatus {
	return response_models.QuotaStatus{IsBlocked: true}
}

type QuotaServiceInterface interface {
	// ResolveStatus never fails; store problems surface as a blocked status.
	ResolveStatus(ctx context.Context, userID uint) response_models.QuotaStatus
	Resolve(ctx context.Context, userID uint) Resolution
}

type QuotaService struct {
	subscriptionRepo repositories.SubscriptionRepository
	planRepo         repositories.IPlanRepository
	usageRepo        repositories.UsageRepository
	legacyBlocks     blocklist.Store
	logger           *zap.Logger
	now              func() time.Time
}

func NewQuotaService(
	subscriptionRepo repositories.SubscriptionRepository,
	planRepo repositories.IPlanRepository,
	usageRepo repositories.UsageRepository,
	legacyBlocks blocklist.Store,
	logger *zap.Logger,
) *QuotaService {
	return &QuotaService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		usageRepo:        usageRepo,
		legacyBlocks:     legacyBlocks,
		logger:           logger,
		now:              time.Now,
	}
}

func (q *QuotaService) ResolveStatus(ctx context.Context, userID uint) response_models.QuotaStatus {
	res := q.Resolve(ctx, userID)
	if res.Kind != ResolutionResolved {
		q.logger.Warn("quota resolution failed closed",
			zap.Uint("user_id", userID),
			zap.Stringer("kind", res.Kind),
			zap.Error(res.Err))
	}
	return res.Status
}

func (q *QuotaService) Resolve(ctx context.Context, userID uint) Resolution {
	res := q.resolve(ctx, userID)
	metrics.QuotaResolutions.WithLabelValues(res.Kind.String()).Inc()
	return res
}

func (q *QuotaService) resolve(ctx context.Context, userID uint) Resolution {
	now := q.now()

	sub, err := q.subscriptionRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return storeFailure(fmt.Errorf("find latest subscription: %w", err))
	}

	if sub == nil {
		sub, err = q.provision(ctx, userID, now)
		if errors.Is(err, utils.ErrNoDefaultPlan) {
			return Resolution{Kind: ResolutionProvisioningAbsent, Status: failClosedStatus(), Err: err}
		}
		if err != nil {
			return storeFailure(err)
		}
	}

	dbBlocked := subscriptionBlocked(sub)

	var used int64
	if sub.IsActive {
		used, err = q.usageRepo.CountByUser(ctx, userID)
		if err != nil {
			q.logger.Warn("usage count failed, treating as zero",
				zap.Uint("user_id", userID), zap.Error(err))
			used = 0
		}
	}

	if sub.ExpiresAt == nil {
		q.backfillExpiry(ctx, sub, now)
	}

	legacy := q.legacyBlocked(ctx, userID)

	return Resolution{
		Kind:           ResolutionResolved,
		SubscriptionID: sub.ID,
		Status: response_models.QuotaStatus{
			IsBlocked:         dbBlocked || legacy,
			RequestsRemaining: true,
			AvailableRequests: max(0, sub.IncludedRequests-used),
			TotalRequests:     sub.IncludedRequests,
			UsedRequests:      used,
		},
	}
}

// provision creates the default-plan subscription for a user that has none.
// The insert is keyed on a per-user provision key, so racing first-time
// resolutions end up sharing one row; the row is read back afterwards.
func (q *QuotaService) provision(ctx context.Context, userID uint, now time.Time) (*db_models.Subscription, error) {
	plan, err := q.planRepo.FindDefaultPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("find default plan: %w", err)
	}
	if plan == nil {
		return nil, utils.ErrNoDefaultPlan
	}

	expiresAt := now.Add(SubscriptionTerm)
	key := provisionKey(userID)
	sub := &db_models.Subscription{
		UserID:           userID,
		PlanID:           plan.ID,
		IsActive:         true,
		IncludedRequests: plan.IncludedRequests,
		TokensBlocked:    false,
		StartedAt:        now,
		ExpiresAt:        &expiresAt,
		ProvisionKey:     &key,
	}
	if err := q.subscriptionRepo.CreateIfAbsent(ctx, sub); err != nil {
		return nil, fmt.Errorf("create default subscription: %w", err)
	}

	q.logger.Info("provisioned default subscription",
		zap.Uint("user_id", userID), zap.Uint("plan_id", plan.ID))

	latest, err := q.subscriptionRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload provisioned subscription: %w", err)
	}
	if latest == nil {
		return nil, errors.New("provisioned subscription not found")
	}
	return latest, nil
}

// backfillExpiry is best effort; a failed write does not affect the status.
func (q *QuotaService) backfillExpiry(ctx context.Context, sub *db_models.Subscription, now time.Time) {
	expiresAt := now.Add(SubscriptionTerm)
	if err := q.subscriptionRepo.UpdateExpiresAt(ctx, sub.ID, expiresAt); err != nil {
		q.logger.Warn("expiry backfill failed",
			zap.Uint("subscription_id", sub.ID), zap.Error(err))
		return
	}
	sub.ExpiresAt = &expiresAt
}

func (q *QuotaService) legacyBlocked(ctx context.Context, userID uint) bool {
	return q.legacyBlocks.IsBlocked(ctx, strconv.FormatUint(uint64(userID), 10))
}

func subscriptionBlocked(sub *db_models.Subscription) bool {
	return !sub.IsActive || sub.TokensBlocked
}

func provisionKey(userID uint) string {
	return "default:" + strconv.FormatUint(uint64(userID), 10)
}

func storeFailure(err error) Resolution {
	return Resolution{Kind: ResolutionStoreError, Status: failClosedStatus(), Err: err}
}
