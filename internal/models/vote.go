package models

type Vote struct {
	BaseModel

	UserID   uint `gorm:"not null;uniqueIndex:idx_vote_user_option"`
	PollID   uint `gorm:"not null;index"`
	OptionID uint `gorm:"not null;uniqueIndex:idx_vote_user_option"`

	// Relationships
	User   User       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Poll   Poll       `gorm:"foreignKey:PollID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Option PollOption `gorm:"foreignKey:OptionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
