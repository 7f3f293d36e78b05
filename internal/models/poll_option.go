package models

type PollOption struct {
	BaseModel

	PollID   uint   `gorm:"not null;uniqueIndex:idx_option_poll_position"`
	Text     string `gorm:"not null"`
	Position int    `gorm:"not null;uniqueIndex:idx_option_poll_position"` // stable display order within the poll

	// Relationships
	Poll  Poll   `gorm:"foreignKey:PollID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Votes []Vote `gorm:"foreignKey:OptionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
