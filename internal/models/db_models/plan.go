package db_models

import (
	"github.com/lib/pq"
)

// Plan is immutable reference data. The plan with the lowest ID is the
// default tier handed to users that have never subscribed.
type Plan struct {
	BaseModel
	Code        string `gorm:"uniqueIndex"` // e.g., "free", "pro", "custom"
	Name        string
	Description *string

	// 0 means custom/unlimited, handled out of band
	IncludedRequests      int64 `gorm:"not null"`
	Price                 int64 // minor units, 999 = 9.99
	ExtraPricePerThousand *int64
	Features              pq.StringArray `gorm:"type:text[]"`
}
