package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GameStatusPendingSecondPlayer = "PendingSecondPlayer"
	GameStatusActive              = "Active"
	GameStatusFinished            = "Finished"
)

// Game is one duel between two players over a fixed question sequence.
// Games are never deleted; finished games stay around for history queries.
type Game struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey"`
	Status     string     `json:"status" gorm:"not null;default:'PendingSecondPlayer';index"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relationships
	Players   []Player       `json:"players,omitempty" gorm:"foreignKey:GameID"`
	Questions []GameQuestion `json:"questions,omitempty" gorm:"foreignKey:GameID"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
