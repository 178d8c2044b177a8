package services

import (
	"fmt"
	"testing"

	"pairquiz/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
// The pool is pinned to a single connection so every query sees the same
// in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Game{},
		&models.Player{},
		&models.GameQuestion{},
		&models.Answer{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestGameService(db *gorm.DB) *GameService {
	return NewGameService(db, NewGameViewCache(nil), 5)
}

// recordingCache is an in-process GameViews that counts writes, so tests
// can pin down which paths are allowed to populate the cache.
type recordingCache struct {
	views       map[string]*GameView
	stores      int
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{views: map[string]*GameView{}}
}

func (c *recordingCache) Get(gameID string) *GameView {
	return c.views[gameID]
}

func (c *recordingCache) Store(view *GameView) {
	c.stores++
	c.views[view.ID] = view
}

func (c *recordingCache) Invalidate(gameID string) {
	c.invalidated = append(c.invalidated, gameID)
	delete(c.views, gameID)
}

func createTestUser(t *testing.T, db *gorm.DB, login string) *models.User {
	t.Helper()

	user := models.User{
		Login:        login,
		Email:        login + "@test.local",
		PasswordHash: "irrelevant",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", login, err)
	}
	return &user
}

func seedPublishedQuestions(t *testing.T, db *gorm.DB, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		question := models.Question{
			Body:           fmt.Sprintf("What is %d+%d?", i, i),
			CorrectAnswers: []string{fmt.Sprintf("%d", i+i)},
			Published:      true,
		}
		if err := db.Create(&question).Error; err != nil {
			t.Fatalf("seed question %d: %v", i, err)
		}
	}
}

// orderedGameQuestions returns the game's fixed sequence with pool
// questions loaded, in slot order.
func orderedGameQuestions(t *testing.T, db *gorm.DB, gameID string) []models.GameQuestion {
	t.Helper()

	var gqs []models.GameQuestion
	err := db.Preload("Question").
		Where("game_id = ?", gameID).
		Order("\"order\" ASC").
		Find(&gqs).Error
	if err != nil {
		t.Fatalf("load game questions: %v", err)
	}
	return gqs
}

func playerSeat(t *testing.T, db *gorm.DB, gameID, userID string) *models.Player {
	t.Helper()

	var seat models.Player
	err := db.Where("game_id = ? AND user_id = ?", gameID, userID).First(&seat).Error
	if err != nil {
		t.Fatalf("load seat for user %s: %v", userID, err)
	}
	return &seat
}

// playFinishedGame pairs the two users, has the first answer everything
// correctly, then the second, and returns the finished game's id.
func playFinishedGame(t *testing.T, svc *GameService, db *gorm.DB, firstUserID, secondUserID string) string {
	t.Helper()

	if _, err := svc.Connect(firstUserID); err != nil {
		t.Fatalf("connect first user: %v", err)
	}
	game, err := svc.Connect(secondUserID)
	if err != nil {
		t.Fatalf("connect second user: %v", err)
	}

	gqs := orderedGameQuestions(t, db, game.ID)
	for _, userID := range []string{firstUserID, secondUserID} {
		for _, gq := range gqs {
			if _, err := svc.Submit(userID, gq.Question.CorrectAnswers[0]); err != nil {
				t.Fatalf("submit for user %s: %v", userID, err)
			}
		}
	}
	return game.ID
}
