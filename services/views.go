package services

import (
	"sort"
	"time"

	"pairquiz/models"

	"gorm.io/gorm"
)

// View projections returned by the game services. The shapes mirror what
// the persisted aggregate exposes: each player's answers are present only
// for questions that player has already answered, and the question list is
// hidden until the game is active.

type PlayerView struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

type AnswerView struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Body       string    `json:"body"`
	IsCorrect  bool      `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

type PlayerProgressView struct {
	Player        PlayerView   `json:"player"`
	Score         int          `json:"score"`
	FinishedFirst bool         `json:"finished_first"`
	Answers       []AnswerView `json:"answers"`
}

type GameQuestionView struct {
	ID    string `json:"id"`
	Body  string `json:"body"`
	Order int    `json:"order"`
}

type GameView struct {
	ID                   string              `json:"id"`
	Status               string              `json:"status"`
	FirstPlayerProgress  *PlayerProgressView `json:"first_player_progress"`
	SecondPlayerProgress *PlayerProgressView `json:"second_player_progress"`
	Questions            []GameQuestionView  `json:"questions"`
	CreatedAt            time.Time           `json:"created_at"`
	StartedAt            *time.Time          `json:"started_at"`
	FinishedAt           *time.Time          `json:"finished_at"`
}

type PaginatedGamesView struct {
	PagesCount int         `json:"pages_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalCount int64       `json:"total_count"`
	Items      []*GameView `json:"items"`
}

// HasParticipant reports whether the given user holds one of the game's
// two seats.
func (v *GameView) HasParticipant(userID string) bool {
	for _, progress := range []*PlayerProgressView{v.FirstPlayerProgress, v.SecondPlayerProgress} {
		if progress != nil && progress.Player.ID == userID {
			return true
		}
	}
	return false
}

// NewGameView projects a fully loaded game. The first seat is the player
// who created the game (earliest created_at).
func NewGameView(game *models.Game) *GameView {
	view := &GameView{
		ID:         game.ID,
		Status:     game.Status,
		CreatedAt:  game.CreatedAt,
		StartedAt:  game.StartedAt,
		FinishedAt: game.FinishedAt,
	}

	players := make([]models.Player, len(game.Players))
	copy(players, game.Players)
	sort.Slice(players, func(i, j int) bool {
		if players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].CreatedAt.Before(players[j].CreatedAt)
	})

	for i, player := range players {
		progress := newPlayerProgressView(player)
		switch i {
		case 0:
			view.FirstPlayerProgress = progress
		case 1:
			view.SecondPlayerProgress = progress
		}
	}

	// The question sequence is only revealed once the game is active.
	if game.Status != models.GameStatusPendingSecondPlayer {
		view.Questions = make([]GameQuestionView, 0, len(game.Questions))
		for _, gq := range game.Questions {
			view.Questions = append(view.Questions, GameQuestionView{
				ID:    gq.QuestionID,
				Body:  gq.Question.Body,
				Order: gq.Order,
			})
		}
	}

	return view
}

func newPlayerProgressView(player models.Player) *PlayerProgressView {
	progress := &PlayerProgressView{
		Player:        PlayerView{ID: player.UserID, Login: player.User.Login},
		Score:         player.Score,
		FinishedFirst: player.FinishedFirst,
		Answers:       make([]AnswerView, 0, len(player.Answers)),
	}
	for _, answer := range player.Answers {
		progress.Answers = append(progress.Answers, NewAnswerView(&answer))
	}
	return progress
}

func NewAnswerView(answer *models.Answer) AnswerView {
	return AnswerView{
		ID:         answer.ID,
		QuestionID: answer.GameQuestion.QuestionID,
		Body:       answer.Body,
		IsCorrect:  answer.IsCorrect,
		CreatedAt:  answer.CreatedAt,
	}
}

// loadGameWithRelations fetches a game with everything a view needs:
// seats with users and ordered answers, and the ordered question sequence.
func loadGameWithRelations(db *gorm.DB, gameID string) (*models.Game, error) {
	var game models.Game
	err := db.
		Preload("Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("players.created_at ASC")
		}).
		Preload("Players.User").
		Preload("Players.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at ASC")
		}).
		Preload("Players.Answers.GameQuestion").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_questions.\"order\" ASC")
		}).
		Preload("Questions.Question").
		First(&game, "id = ?", gameID).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}
