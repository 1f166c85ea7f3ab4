package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Organization struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `json:"-"`
	FirstName      string
	LastName       string
	OrganizationID string `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Invitation statuses
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

type Invitation struct {
	ID             uint   `gorm:"primaryKey"`
	OrganizationID string `gorm:"type:uuid;index"`
	Email          string `gorm:"not null"`
	Token          string `gorm:"uniqueIndex;not null"`
	Status         string `gorm:"default:pending"`
	ExpiresAt      time.Time
	CreatedAt      time.Time
}
