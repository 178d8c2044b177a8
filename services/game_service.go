package services

import (
	"errors"
	"math/rand"
	"time"

	"pairquiz/apperrors"
	"pairquiz/models"

	"gorm.io/gorm"
)

// GameService owns the two mutating operations of a duel: pairing a user
// into a game (Connect) and processing an answer submission (Submit). Each
// operation is a single transaction over the relational store; the races
// listed below are settled by conditional updates and unique indexes, not
// by in-memory state:
//
//   - one open game per user: (user_id, active) unique index on players
//   - pairing race: conditional status flip PendingSecondPlayer -> Active
//   - duplicate answer: (player_id, game_question_id) unique index
//   - finish detection: both cursors read inside the appending transaction
type GameService struct {
	db               *gorm.DB
	cache            GameViews
	questionsPerGame int
}

func NewGameService(db *gorm.DB, cache GameViews, questionsPerGame int) *GameService {
	return &GameService{
		db:               db,
		cache:            cache,
		questionsPerGame: questionsPerGame,
	}
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// Connect joins the user into the single pending game, or creates a new
// pending game when none is joinable. Fails with Conflict if the user
// already holds a seat in an open game.
func (s *GameService) Connect(userID string) (*GameView, error) {
	var gameID string
	err := runTx(s.db, func(tx *gorm.DB) error {
		id, err := s.connect(tx, userID)
		gameID = id
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(gameID)
	return s.freshGameView(gameID)
}

func (s *GameService) connect(tx *gorm.DB, userID string) (string, error) {
	var openSeats int64
	if err := tx.Model(&models.Player{}).
		Where("user_id = ? AND active IS NOT NULL", userID).
		Count(&openSeats).Error; err != nil {
		return "", err
	}
	if openSeats > 0 {
		return "", apperrors.Conflict("Game", "user already participates in an open game")
	}

	var pending models.Game
	err := tx.
		Where("status = ?", models.GameStatusPendingSecondPlayer).
		Where("NOT EXISTS (SELECT 1 FROM players WHERE players.game_id = games.id AND players.user_id = ?)", userID).
		Order("created_at ASC").
		First(&pending).Error
	switch {
	case err == nil:
		joined, err := s.joinPendingGame(tx, pending.ID, userID)
		if err != nil {
			return "", err
		}
		if joined {
			return pending.ID, nil
		}
		// Lost the pairing race; behave as if no pending game existed.
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return "", err
	}

	return s.createPendingGame(tx, userID)
}

// joinPendingGame attempts the second-player transition. The conditional
// update on status guarantees exactly one winner when two connects race
// for the same pending game; the loser returns false.
func (s *GameService) joinPendingGame(tx *gorm.DB, gameID, userID string) (bool, error) {
	now := time.Now().UTC()
	res := tx.Model(&models.Game{}).
		Where("id = ? AND status = ?", gameID, models.GameStatusPendingSecondPlayer).
		Updates(map[string]interface{}{
			"status":     models.GameStatusActive,
			"started_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	// The sequence is fixed here, at the Active transition, so both players
	// see the identical order from the first read on.
	if err := s.assignQuestions(tx, gameID); err != nil {
		return false, err
	}

	seat := models.Player{GameID: gameID, UserID: userID, Active: boolRef(true)}
	if err := tx.Create(&seat).Error; err != nil {
		if isUniqueViolation(err) {
			return false, apperrors.Conflict("Game", "user already participates in an open game")
		}
		return false, err
	}
	return true, nil
}

func (s *GameService) createPendingGame(tx *gorm.DB, userID string) (string, error) {
	game := models.Game{Status: models.GameStatusPendingSecondPlayer}
	if err := tx.Create(&game).Error; err != nil {
		return "", err
	}

	seat := models.Player{GameID: game.ID, UserID: userID, Active: boolRef(true)}
	if err := tx.Create(&seat).Error; err != nil {
		if isUniqueViolation(err) {
			return "", apperrors.Conflict("Game", "user already participates in an open game")
		}
		return "", err
	}
	return game.ID, nil
}

func (s *GameService) assignQuestions(tx *gorm.DB, gameID string) error {
	var assigned int64
	if err := tx.Model(&models.GameQuestion{}).
		Where("game_id = ?", gameID).
		Count(&assigned).Error; err != nil {
		return err
	}
	if assigned > 0 {
		return nil
	}

	var pool []models.Question
	if err := tx.Where("published = ?", true).Find(&pool).Error; err != nil {
		return err
	}
	if len(pool) < s.questionsPerGame {
		return apperrors.BadRequest("Question", "not enough published questions to start a game")
	}

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	for order, question := range pool[:s.questionsPerGame] {
		gq := models.GameQuestion{GameID: gameID, QuestionID: question.ID, Order: order}
		if err := tx.Create(&gq).Error; err != nil {
			return err
		}
	}
	return nil
}

// Submit records the user's answer to their current question, advances
// their cursor and, when this was the last outstanding answer of the game,
// finalizes it.
func (s *GameService) Submit(userID, answerText string) (*AnswerView, error) {
	var (
		view   AnswerView
		gameID string
	)
	err := runTx(s.db, func(tx *gorm.DB) error {
		answer, gid, err := s.submit(tx, userID, answerText)
		gameID = gid
		if err != nil {
			return err
		}
		view = NewAnswerView(answer)
		return nil
	})
	s.cache.Invalidate(gameID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *GameService) submit(tx *gorm.DB, userID, answerText string) (*models.Answer, string, error) {
	var seat models.Player
	err := tx.
		Select("players.*").
		Joins("JOIN games ON games.id = players.game_id").
		Where("players.user_id = ? AND games.status = ?", userID, models.GameStatusActive).
		First(&seat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.NotFound("Game", "no active game for user")
	}
	if err != nil {
		return nil, "", err
	}

	var answered int64
	if err := tx.Model(&models.Answer{}).
		Where("player_id = ?", seat.ID).
		Count(&answered).Error; err != nil {
		return nil, seat.GameID, err
	}
	// The sequence length belongs to the game, not to the current config:
	// games assigned under an older QUESTIONS_PER_GAME keep their own count.
	var totalQuestions int64
	if err := tx.Model(&models.GameQuestion{}).
		Where("game_id = ?", seat.GameID).
		Count(&totalQuestions).Error; err != nil {
		return nil, seat.GameID, err
	}
	if answered >= totalQuestions {
		return nil, seat.GameID, apperrors.Forbidden("Answer", "all questions already answered")
	}

	// Cursor: the n-th answer always targets the slot at order n-1.
	var gq models.GameQuestion
	if err := tx.Preload("Question").
		Where("game_id = ? AND \"order\" = ?", seat.GameID, answered).
		First(&gq).Error; err != nil {
		return nil, seat.GameID, err
	}

	correct := IsCorrectAnswer(answerText, gq.Question.CorrectAnswers)
	answer := models.Answer{
		PlayerID:       seat.ID,
		GameQuestionID: gq.ID,
		Body:           answerText,
		IsCorrect:      correct,
	}
	if err := tx.Create(&answer).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, seat.GameID, apperrors.Conflict("Answer", "this question was already answered")
		}
		return nil, seat.GameID, err
	}
	answer.GameQuestion = gq

	if correct {
		if err := tx.Model(&models.Player{}).
			Where("id = ?", seat.ID).
			Update("score", gorm.Expr("score + ?", PointsForAnswer(correct))).Error; err != nil {
			return nil, seat.GameID, err
		}
	}

	if answered+1 == totalQuestions {
		if err := s.finishIfComplete(tx, &seat, totalQuestions); err != nil {
			return nil, seat.GameID, err
		}
	}

	return &answer, seat.GameID, nil
}

// finishIfComplete runs after the calling player's cursor reached the end.
// If the opponent is still playing, the caller is only flagged as the
// potential bonus holder; the bonus itself is applied when the game is
// confirmed finished.
func (s *GameService) finishIfComplete(tx *gorm.DB, seat *models.Player, totalQuestions int64) error {
	// Serialize completion checks per game. The conditional touch takes the
	// game row's write lock, so when both final submissions overlap the
	// second one blocks here until the first commits and then reads the
	// committed answer counts and flags. SELECT ... FOR UPDATE would do the
	// same on postgres but the clause is not portable SQL.
	lock := tx.Model(&models.Game{}).
		Where("id = ? AND status = ?", seat.GameID, models.GameStatusActive).
		Update("updated_at", time.Now().UTC())
	if lock.Error != nil {
		return lock.Error
	}
	if lock.RowsAffected == 0 {
		return apperrors.Conflict("Game", "game is already finished")
	}

	// The opponent row is loaded only after the lock is held, so
	// finished_first is the committed value rather than a pre-lock snapshot.
	var opponent models.Player
	if err := tx.
		Where("game_id = ? AND id <> ?", seat.GameID, seat.ID).
		First(&opponent).Error; err != nil {
		return err
	}

	var opponentAnswered int64
	if err := tx.Model(&models.Answer{}).
		Where("player_id = ?", opponent.ID).
		Count(&opponentAnswered).Error; err != nil {
		return err
	}

	if opponentAnswered < totalQuestions {
		return tx.Model(&models.Player{}).
			Where("id = ?", seat.ID).
			Update("finished_first", true).Error
	}

	// Both cursors exhausted: award the deferred bonus and close the game.
	// If neither seat carries the flag, no bonus is awarded.
	if opponent.FinishedFirst {
		if err := tx.Model(&models.Player{}).
			Where("id = ?", opponent.ID).
			Update("score", gorm.Expr("score + ?", FinishBonus())).Error; err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	res := tx.Model(&models.Game{}).
		Where("id = ? AND status = ?", seat.GameID, models.GameStatusActive).
		Updates(map[string]interface{}{
			"status":      models.GameStatusFinished,
			"finished_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.Conflict("Game", "game is already finished")
	}

	// Release both seats so either user can enter a new game.
	return tx.Model(&models.Player{}).
		Where("game_id = ?", seat.GameID).
		Update("active", nil).Error
}

// freshGameView loads the game aggregate, projects it and primes the cache.
func (s *GameService) freshGameView(gameID string) (*GameView, error) {
	game, err := loadGameWithRelations(s.db, gameID)
	if err != nil {
		return nil, err
	}
	view := NewGameView(game)
	s.cache.Store(view)
	return view, nil
}

func boolRef(b bool) *bool {
	return &b
}
