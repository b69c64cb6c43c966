package infra

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gatekeeper/internal/models/db_models"
)

func InitPostgresql(dsn string) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("error closing database connection", zap.Error(err))
	} else {
		logger.Info("PostgreSQL database connection closed successfully")
	}
}

// legacyProvisionKeyIndex covered soft-deleted rows too and has been
// replaced by a partial index over live rows.
const legacyProvisionKeyIndex = "idx_subscriptions_provision_key"

func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(
		&db_models.Plan{},
		&db_models.Subscription{},
		&db_models.AiRequest{},
		&db_models.Account{},
	); err != nil {
		return err
	}

	m := db.Migrator()
	if m.HasIndex(&db_models.Subscription{}, legacyProvisionKeyIndex) {
		if err := m.DropIndex(&db_models.Subscription{}, legacyProvisionKeyIndex); err != nil {
			return fmt.Errorf("drop %s: %w", legacyProvisionKeyIndex, err)
		}
	}
	return nil
}

func StartTransaction(db *gorm.DB, logger *zap.Logger) *gorm.DB {
	tx := db.Begin()
	if tx.Error != nil {
		logger.Error("error starting transaction", zap.Error(tx.Error))
	}
	return tx
}

func ReleaseTransaction(tx *gorm.DB, err error, logger *zap.Logger) {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			logger.Error("error rolling back transaction", zap.Error(rollbackErr), zap.NamedError("cause", err))
		}
		return
	}
	if commitErr := tx.Commit().Error; commitErr != nil {
		logger.Error("error committing transaction", zap.Error(commitErr))
	}
}

// DefaultPlans is the seeded catalogue. Insertion order matters: the first
// plan gets the lowest id and becomes the default for new users.
func DefaultPlans() []db_models.Plan {
	proExtra := int64(150)
	freeDesc := "Zum Ausprobieren"
	proDesc := "Für regelmäßige Nutzung"
	customDesc := "Individuelles Kontingent, Abrechnung nach Vereinbarung"

	return []db_models.Plan{
		{
			Code:             "free",
			Name:             "Free",
			Description:      &freeDesc,
			IncludedRequests: 50,
			Price:            0,
			Features:         []string{"basic_models"},
		},
		{
			Code:                  "pro",
			Name:                  "Pro",
			Description:           &proDesc,
			IncludedRequests:      1000,
			Price:                 999,
			ExtraPricePerThousand: &proExtra,
			Features:              []string{"basic_models", "advanced_models", "priority"},
		},
		{
			Code:             "custom",
			Name:             "Custom",
			Description:      &customDesc,
			IncludedRequests: 0,
			Features:         []string{"basic_models", "advanced_models", "priority", "support"},
		},
	}
}

// SeedDefaultPlans inserts any missing plans by code and leaves existing
// rows untouched.
func SeedDefaultPlans(ctx context.Context, db *gorm.DB, logger *zap.Logger) (err error) {
	tx := StartTransaction(db.WithContext(ctx), logger)
	if tx.Error != nil {
		return tx.Error
	}
	defer func() { ReleaseTransaction(tx, err, logger) }()

	for _, plan := range DefaultPlans() {
		plan := plan
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&plan).Error
		if err != nil {
			return fmt.Errorf("seed plan %s: %w", plan.Code, err)
		}
	}
	return nil
}
