package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is a pool question. Only published questions are drawn into games.
type Question struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	Body           string         `json:"body" gorm:"not null"`
	CorrectAnswers []string       `json:"correct_answers" gorm:"serializer:json;not null"`
	Published      bool           `json:"published" gorm:"not null;default:false;index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
