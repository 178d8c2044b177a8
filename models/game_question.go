package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameQuestion binds one pool question to a fixed position in one game's
// sequence. The sequence is assigned once, when the game becomes active,
// and is immutable afterwards. Both players answer the same rows.
type GameQuestion struct {
	ID         string `json:"id" gorm:"type:uuid;primaryKey"`
	GameID     string `json:"game_id" gorm:"not null;index;uniqueIndex:idx_game_questions_slot"`
	QuestionID string `json:"question_id" gorm:"not null"`
	Order      int    `json:"order" gorm:"not null;uniqueIndex:idx_game_questions_slot"`

	// Relationships
	Question Question `json:"question,omitempty"`
}

func (gq *GameQuestion) BeforeCreate(tx *gorm.DB) error {
	if gq.ID == "" {
		gq.ID = uuid.NewString()
	}
	return nil
}
