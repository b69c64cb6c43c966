package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"gatekeeper/internal/models/db_models"
	"gatekeeper/internal/models/response_models"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindById(ctx context.Context, id uint) (*db_models.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*db_models.Account)
	return account, args.Error(1)
}

type mockPlanRepository struct {
	mock.Mock
}

func (m *mockPlanRepository) GetPlanInfoById(ctx context.Context, planID uint) (*db_models.Plan, error) {
	args := m.Called(ctx, planID)
	plan, _ := args.Get(0).(*db_models.Plan)
	return plan, args.Error(1)
}

func (m *mockPlanRepository) GetAllPlans(ctx context.Context) ([]db_models.Plan, error) {
	args := m.Called(ctx)
	plans, _ := args.Get(0).([]db_models.Plan)
	return plans, args.Error(1)
}

func (m *mockPlanRepository) FindDefaultPlan(ctx context.Context) (*db_models.Plan, error) {
	args := m.Called(ctx)
	plan, _ := args.Get(0).(*db_models.Plan)
	return plan, args.Error(1)
}

type mockUsageRepository struct {
	mock.Mock
}

func (m *mockUsageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageRepository) Insert(ctx context.Context, record *db_models.AiRequest) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type mockQuotaService struct {
	mock.Mock
}

func (m *mockQuotaService) ResolveStatus(ctx context.Context, userID uint) response_models.QuotaStatus {
	args := m.Called(ctx, userID)
	return args.Get(0).(response_models.QuotaStatus)
}

func (m *mockQuotaService) Resolve(ctx context.Context, userID uint) Resolution {
	args := m.Called(ctx, userID)
	return args.Get(0).(Resolution)
}

type mockCompletionClient struct {
	mock.Mock
}

func (m *mockCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockCompletionClient) Provider() string { return "openai" }
func (m *mockCompletionClient) Model() string    { return "gpt-4o-mini" }

// memoryStore is an in-memory subscription, plan and usage store that
// honours the provision key uniqueness the database enforces.
type memoryStore struct {
	mu            sync.Mutex
	nextID        uint
	subscriptions []db_models.Subscription
	plans         []db_models.Plan
	usage         map[uint]int64

	findErr   error
	countErr  error
	updateErr error
	planErr   error
	createErr error
	// reloadErr fails every FindLatestByUser call after the first.
	reloadErr error
	// dropInserts makes CreateIfAbsent report success without writing.
	dropInserts bool
	findCalls   int
	inserts     int
}

func newMemoryStore(plans ...db_models.Plan) *memoryStore {
	return &memoryStore{plans: plans, usage: map[uint]int64{}}
}

func (s *memoryStore) add(sub db_models.Subscription) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sub.ID = s.nextID
	s.subscriptions = append(s.subscriptions, sub)
	return sub.ID
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscriptions)
}

func (s *memoryStore) byID(id uint) db_models.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscriptions {
		if sub.ID == id {
			return sub
		}
	}
	return db_models.Subscription{}
}

func (s *memoryStore) FindLatestByUser(ctx context.Context, userID uint) (*db_models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.reloadErr != nil && s.findCalls > 1 {
		return nil, s.reloadErr
	}
	var latest *db_models.Subscription
	for i := range s.subscriptions {
		sub := s.subscriptions[i]
		if sub.UserID != userID {
			continue
		}
		if latest == nil ||
			sub.StartedAt.After(latest.StartedAt) ||
			(sub.StartedAt.Equal(latest.StartedAt) && sub.ID > latest.ID) {
			cp := sub
			latest = &cp
		}
	}
	return latest, nil
}

func (s *memoryStore) CreateIfAbsent(ctx context.Context, sub *db_models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.createErr != nil {
		return s.createErr
	}
	if s.dropInserts {
		return nil
	}
	if sub.ProvisionKey != nil {
		for _, existing := range s.subscriptions {
			if existing.ProvisionKey != nil && *existing.ProvisionKey == *sub.ProvisionKey {
				return nil
			}
		}
	}
	s.nextID++
	sub.ID = s.nextID
	s.subscriptions = append(s.subscriptions, *sub)
	return nil
}

func (s *memoryStore) UpdateExpiresAt(ctx context.Context, id uint, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			s.subscriptions[i].ExpiresAt = &expiresAt
		}
	}
	return nil
}

func (s *memoryStore) GetPlanInfoById(ctx context.Context, planID uint) (*db_models.Plan, error) {
	for _, p := range s.plans {
		if p.ID == planID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) GetAllPlans(ctx context.Context) ([]db_models.Plan, error) {
	return s.plans, nil
}

func (s *memoryStore) FindDefaultPlan(ctx context.Context) (*db_models.Plan, error) {
	if s.planErr != nil {
		return nil, s.planErr
	}
	if len(s.plans) == 0 {
		return nil, nil
	}
	cp := s.plans[0]
	return &cp, nil
}

func (s *memoryStore) CountByUser(ctx context.Context, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.usage[userID], nil
}

func (s *memoryStore) Insert(ctx context.Context, record *db_models.AiRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[record.UserID]++
	return nil
}

type staticBlocklist map[string]bool

func (b staticBlocklist) Ensure(ctx context.Context) error { return nil }

func (b staticBlocklist) Read(ctx context.Context) (map[string]bool, error) {
	return b, nil
}

func (b staticBlocklist) IsBlocked(ctx context.Context, userID string) bool {
	return b[userID]
}
