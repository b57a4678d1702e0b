// internal/models/user.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleWorker Role = "worker"
	RoleClient Role = "client"
)

// ParseRole accepts only the roles a user can register with.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleWorker, RoleClient:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Phone string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"phone"`
	Role  Role      `gorm:"type:varchar(20);not null;index" json:"role"`

	// last known coordinates, optional
	LocationLat *float64 `json:"location_lat,omitempty"`
	LocationLng *float64 `json:"location_lng,omitempty"`

	// rating = total_rating / rating_count, 0 while unrated
	Rating      float64 `gorm:"type:double precision;not null;default:0" json:"rating"`
	TotalRating float64 `gorm:"type:double precision;not null;default:0" json:"total_rating"`
	RatingCount int     `gorm:"not null;default:0" json:"rating_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WorkerProfile *WorkerProfile `gorm:"foreignKey:UserID;references:ID" json:"worker_profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// UserMini is the public slice of a user embedded in other payloads.
type UserMini struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

func (u *User) Mini() *UserMini {
	if u == nil {
		return nil
	}
	return &UserMini{ID: u.ID, Name: u.Name, Phone: u.Phone}
}
