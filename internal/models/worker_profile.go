// internal/models/worker_profile.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WorkerProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Skills     datatypes.JSONSlice[string] `gorm:"not null" json:"skills"`
	Experience float64                     `gorm:"not null" json:"experience"` // years
	Location   string                      `gorm:"type:text;not null" json:"location"`
	HourlyRate float64                     `gorm:"not null" json:"hourly_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p *WorkerProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
