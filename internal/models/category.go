package models

type Category struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null"`
	Description string

	// Relationships
	Polls []Poll `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
