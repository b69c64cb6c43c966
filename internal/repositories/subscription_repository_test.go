package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gatekeeper/internal/models/db_models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gatekeeper.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&db_models.Plan{}, &db_models.Subscription{}, &db_models.AiRequest{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func provisioned(userID uint, key string, startedAt time.Time) *db_models.Subscription {
	return &db_models.Subscription{
		UserID:           userID,
		PlanID:           1,
		IsActive:         true,
		IncludedRequests: 50,
		StartedAt:        startedAt,
		ProvisionKey:     &key,
	}
}

func TestCreateIfAbsentKeepsOneLiveRowPerKey(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewSubscriptionRepository(db)
	now := time.Now().UTC()

	require.NoError(t, repo.CreateIfAbsent(ctx, provisioned(7, "default:7", now)))
	require.NoError(t, repo.CreateIfAbsent(ctx, provisioned(7, "default:7", now.Add(time.Second))))

	var count int64
	require.NoError(t, db.Model(&db_models.Subscription{}).Where("user_id = ?", 7).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateIfAbsentAfterSoftDeleteInsertsNewRow(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewSubscriptionRepository(db)
	now := time.Now().UTC()

	first := provisioned(7, "default:7", now)
	require.NoError(t, repo.CreateIfAbsent(ctx, first))
	require.NoError(t, db.Delete(&db_models.Subscription{}, first.ID).Error)

	latest, err := repo.FindLatestByUser(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, repo.CreateIfAbsent(ctx, provisioned(7, "default:7", now.Add(time.Second))))

	latest, err = repo.FindLatestByUser(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.NotEqual(t, first.ID, latest.ID)
}

func TestFindLatestByUserOrdersByStartThenID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewSubscriptionRepository(db)
	now := time.Now().UTC()

	older := &db_models.Subscription{UserID: 3, PlanID: 1, IsActive: true, StartedAt: now.Add(-time.Hour)}
	tieA := &db_models.Subscription{UserID: 3, PlanID: 1, IsActive: true, StartedAt: now}
	tieB := &db_models.Subscription{UserID: 3, PlanID: 1, IsActive: true, StartedAt: now}
	for _, sub := range []*db_models.Subscription{older, tieA, tieB} {
		require.NoError(t, db.Create(sub).Error)
	}

	latest, err := repo.FindLatestByUser(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, tieB.ID, latest.ID)
}
