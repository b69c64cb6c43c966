package db_models

import (
	"time"
)

type Subscription struct {
	BaseModel
	UserID uint `gorm:"index;not null"`
	PlanID uint `gorm:"index"`

	IsActive bool `gorm:"not null"`
	// Snapshot of Plan.IncludedRequests at creation time, may diverge from the plan later.
	IncludedRequests int64     `gorm:"not null"`
	TokensBlocked    bool      `gorm:"not null"`
	StartedAt        time.Time `gorm:"index;not null"`
	ExpiresAt        *time.Time

	// Set only on lazily provisioned rows so concurrent provisioning collapses to one row.
	// Unique among live rows only, so a soft-deleted row does not block re-provisioning.
	ProvisionKey *string `gorm:"uniqueIndex:idx_subscriptions_live_provision_key,where:deleted_at IS NULL"`

	Plan Plan `gorm:"foreignKey:PlanID"`
}
