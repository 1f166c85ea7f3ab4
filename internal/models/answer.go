package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer is a single response to a single question. Which of the optional
// fields is set depends on the question type.
type Answer struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID string    `gorm:"type:uuid;index" json:"questionId"`
	IsPositive *bool     `json:"isPositive,omitempty"`
	Rating     *int      `json:"rating,omitempty"`
	Input      *string   `json:"input,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
