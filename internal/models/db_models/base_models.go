package db_models

import (
	"gorm.io/gorm"
)

// BaseModel stores timestamps as unix seconds; gorm fills them on
// create/update through the autoCreateTime/autoUpdateTime tags.
type BaseModel struct {
	ID        uint           `gorm:"primaryKey"`
	CreatedAt int64          `gorm:"autoCreateTime"`
	UpdatedAt int64          `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
