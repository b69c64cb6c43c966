package services

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"gatekeeper/internal/models/db_models"
	"gatekeeper/internal/models/response_models"
	"gatekeeper/internal/repositories"
	"gatekeeper/pkg/metrics"
	"gatekeeper/pkg/utils"
)

type CompletionServiceInterface interface {
	Complete(ctx context.Context, userID uint, prompt string) (response_models.CompletionResponse, error)
}

// CompletionService spends one metered AI request per successful call.
// Per user, quota resolution and reservation are serialised and requests
// still in flight count against the remaining quota, so parallel calls on
// one instance cannot overspend. Across instances the cap stays best effort,
// like the rate limiter.
type CompletionService struct {
	quota     QuotaServiceInterface
	client    utils.CompletionClientInterface
	usageRepo repositories.UsageRepository
	logger    *zap.Logger

	mu    sync.Mutex
	gates map[uint]*userGate
}

type userGate struct {
	admit    sync.Mutex
	inFlight int64 // guarded by CompletionService.mu
	refs     int   // guarded by CompletionService.mu
}

func NewCompletionService(
	quota QuotaServiceInterface,
	client utils.CompletionClientInterface,
	usageRepo repositories.UsageRepository,
	logger *zap.Logger,
) *CompletionService {
	return &CompletionService{
		quota:     quota,
		client:    client,
		usageRepo: usageRepo,
		logger:    logger,
		gates:     make(map[uint]*userGate),
	}
}

func (s *CompletionService) Complete(ctx context.Context, userID uint, prompt string) (response_models.CompletionResponse, error) {
	gate := s.acquire(userID)
	reserved := false
	defer func() { s.finish(userID, gate, reserved) }()

	status, reserved, err := s.admit(ctx, userID, gate)
	if err != nil {
		return response_models.CompletionResponse{}, err
	}

	text, err := s.client.Complete(ctx, prompt)
	if err != nil {
		metrics.CompletionRequests.WithLabelValues(s.client.Provider(), "failed").Inc()
		return response_models.CompletionResponse{}, fmt.Errorf("%w: %v", utils.ErrCompletionFailed, err)
	}

	record := &db_models.AiRequest{
		UserID:      userID,
		Provider:    s.client.Provider(),
		Model:       s.client.Model(),
		PromptChars: utf8.RuneCountInString(prompt),
	}
	if err := s.usageRepo.Insert(ctx, record); err != nil {
		s.logger.Error("recording ai request failed",
			zap.Uint("user_id", userID), zap.Error(err))
	}
	metrics.CompletionRequests.WithLabelValues(s.client.Provider(), "ok").Inc()

	resp := response_models.CompletionResponse{
		Text:     text,
		Provider: s.client.Provider(),
		Model:    s.client.Model(),
	}
	if reserved {
		remaining := max(0, status.AvailableRequests-1)
		resp.RemainingRequests = &remaining
	}
	return resp, nil
}

// admit resolves the quota and, for capped plans, reserves one request.
// The reservation is held until finish, after the usage row is written.
func (s *CompletionService) admit(ctx context.Context, userID uint, gate *userGate) (response_models.QuotaStatus, bool, error) {
	gate.admit.Lock()
	defer gate.admit.Unlock()

	status := s.quota.ResolveStatus(ctx, userID)
	if status.IsBlocked {
		metrics.CompletionRequests.WithLabelValues(s.client.Provider(), "blocked").Inc()
		return status, false, utils.ErrQuotaBlocked
	}

	// TotalRequests == 0 is a custom plan metered out of band.
	if status.TotalRequests <= 0 {
		return status, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if status.AvailableRequests-gate.inFlight <= 0 {
		metrics.CompletionRequests.WithLabelValues(s.client.Provider(), "exhausted").Inc()
		return status, false, utils.ErrQuotaExhausted
	}
	gate.inFlight++
	return status, true, nil
}

func (s *CompletionService) acquire(userID uint) *userGate {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate, ok := s.gates[userID]
	if !ok {
		gate = &userGate{}
		s.gates[userID] = gate
	}
	gate.refs++
	return gate
}

func (s *CompletionService) finish(userID uint, gate *userGate, reserved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reserved {
		gate.inFlight--
	}
	gate.refs--
	if gate.refs == 0 {
		delete(s.gates, userID)
	}
}
