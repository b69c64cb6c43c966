package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gatekeeper/internal/models/db_models"
)

type SubscriptionRepository interface {
	// FindLatestByUser returns the authoritative subscription (most recent
	// started_at, ties broken by id), or nil if the user has none.
	FindLatestByUser(ctx context.Context, userID uint) (*db_models.Subscription, error)
	// CreateIfAbsent inserts sub unless a live (not soft-deleted) row with
	// the same provision key already exists, in which case it is a no-op.
	CreateIfAbsent(ctx context.Context, sub *db_models.Subscription) error
	UpdateExpiresAt(ctx context.Context, id uint, expiresAt time.Time) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (s *subscriptionRepository) FindLatestByUser(ctx context.Context, userID uint) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Order("id DESC").
		Take(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (s *subscriptionRepository) CreateIfAbsent(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provision_key"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{
				clause.Eq{Column: clause.Column{Name: "deleted_at"}, Value: nil},
			}},
			DoNothing: true,
		}).
		Create(sub).Error
}

func (s *subscriptionRepository) UpdateExpiresAt(ctx context.Context, id uint, expiresAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt).Error
}
