package models

import "time"

// BaseModel is gorm.Model without soft-delete. Rows using it are removed
// for real, which keeps unique indexes usable across delete/re-insert
// cycles (a replaced vote must not collide with its soft-deleted ghost).
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
