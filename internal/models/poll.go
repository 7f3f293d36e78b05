package models

import (
	"time"
)

type Poll struct {
	BaseModel

	Title                string `gorm:"not null"`
	Description          string
	CreatorID            uint `gorm:"not null;index"`
	IsActive             bool `gorm:"not null;default:true"`
	AllowMultipleChoices bool `gorm:"not null;default:false"`
	ExpiresAt            *time.Time
	CategoryID           *uint `gorm:"index"`

	// Relationships
	Creator  User         `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Category *Category    `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Options  []PollOption `gorm:"foreignKey:PollID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Votes    []Vote       `gorm:"foreignKey:PollID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
