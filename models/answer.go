package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer is one player's response to one game question. The
// (player_id, game_question_id) unique index rejects a second submission
// for the same slot, which is what keeps scoring append-only.
type Answer struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	PlayerID       string    `json:"player_id" gorm:"not null;index;uniqueIndex:idx_answers_player_slot"`
	GameQuestionID string    `json:"game_question_id" gorm:"not null;uniqueIndex:idx_answers_player_slot"`
	Body           string    `json:"body" gorm:"not null"`
	IsCorrect      bool      `json:"is_correct" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	GameQuestion GameQuestion `json:"game_question,omitempty"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
