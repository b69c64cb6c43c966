package repositories

import (
	"context"

	"gorm.io/gorm"

	"gatekeeper/internal/models/db_models"
)

type UsageRepository interface {
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Insert(ctx context.Context, record *db_models.AiRequest) error
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (u *usageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&db_models.AiRequest{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (u *usageRepository) Insert(ctx context.Context, record *db_models.AiRequest) error {
	return u.db.WithContext(ctx).Create(record).Error
}
