package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DecisionModel struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	SessionID   string    `gorm:"type:uuid;not null;index" json:"session_id"`
	ModeratorID string    `gorm:"type:varchar(100);not null;index" json:"moderator_id"`
	AdID        int64     `gorm:"not null;index" json:"ad_id"`
	AdTitle     string    `gorm:"type:varchar(255)" json:"ad_title"`
	Kind        string    `gorm:"type:varchar(20);not null" json:"kind"`
	Reason      string    `gorm:"type:varchar(100)" json:"reason"`
	Comment     string    `gorm:"type:text" json:"comment"`
	DecidedAt   time.Time `gorm:"not null;index" json:"decided_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (DecisionModel) TableName() string {
	return "moderation_decisions"
}

func (d *DecisionModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
