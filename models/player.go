package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Player is one user's seat in one game. Active is true while the game is
// open and set to NULL when the game finishes; the (user_id, active) unique
// index is what limits a user to a single open game (NULL rows never
// collide, so finished seats don't block new ones).
type Player struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	GameID        string    `json:"game_id" gorm:"not null;index;uniqueIndex:idx_players_game_user"`
	UserID        string    `json:"user_id" gorm:"not null;uniqueIndex:idx_players_game_user;uniqueIndex:idx_players_user_open"`
	Active        *bool     `json:"-" gorm:"uniqueIndex:idx_players_user_open"`
	Score         int       `json:"score" gorm:"not null;default:0"`
	FinishedFirst bool      `json:"finished_first" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Game    Game     `json:"-"`
	User    User     `json:"user,omitempty"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:PlayerID"`
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
