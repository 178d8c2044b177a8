package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const gameViewTTL = 2 * time.Hour

// GameViews is the cache surface the game services talk to. Only mutation
// paths may Store: a read that stored its own snapshot could race a
// concurrent mutation's Invalidate and pin a stale view until the TTL.
type GameViews interface {
	Get(gameID string) *GameView
	Store(view *GameView)
	Invalidate(gameID string)
}

// GameViewCache is a best-effort Redis cache of game views keyed by game
// id. The relational store stays authoritative: every game mutation
// invalidates the entry, and any cache failure just falls through to the
// database.
type GameViewCache struct {
	redis *redis.Client
}

func NewGameViewCache(redisClient *redis.Client) *GameViewCache {
	return &GameViewCache{redis: redisClient}
}

func (c *GameViewCache) key(gameID string) string {
	return "pairquiz:game:" + gameID
}

func (c *GameViewCache) Get(gameID string) *GameView {
	if c == nil || c.redis == nil {
		return nil
	}

	data, err := c.redis.Get(context.Background(), c.key(gameID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting game view %s: %v", gameID, err)
		}
		return nil
	}

	var view GameView
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		log.Printf("Failed to unmarshal cached game view %s: %v", gameID, err)
		return nil
	}
	return &view
}

func (c *GameViewCache) Store(view *GameView) {
	if c == nil || c.redis == nil || view == nil {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		log.Printf("Failed to marshal game view %s: %v", view.ID, err)
		return
	}
	if err := c.redis.Set(context.Background(), c.key(view.ID), data, gameViewTTL).Err(); err != nil {
		log.Printf("Failed to store game view %s in Redis: %v", view.ID, err)
	}
}

func (c *GameViewCache) Invalidate(gameID string) {
	if c == nil || c.redis == nil || gameID == "" {
		return
	}

	if err := c.redis.Del(context.Background(), c.key(gameID)).Err(); err != nil {
		log.Printf("Failed to invalidate game view %s in Redis: %v", gameID, err)
	}
}
