package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Multi-step chat dialogs (setting a wallet, entering a withdrawal amount)
// are modeled as a per-chat state machine. The state lives in redis with a
// TTL, so an abandoned dialog falls back to idle on its own.
const (
	StateIdle           = "idle"
	StateAwaitingWallet = "awaiting_wallet"
	StateAwaitingAmount = "awaiting_amount"
)

const sessionTTL = 10 * time.Minute

type Store interface {
	Get(chatID int64) (string, error)
	Set(chatID int64, state string) error
	Clear(chatID int64) error
}

type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func New(redisAddr string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   db,
	})

	return &RedisStore{
		client: client,
		ctx:    context.Background(),
	}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}

// Get returns the dialog state for a chat, treating a missing or expired key
// as idle.
func (s *RedisStore) Get(chatID int64) (string, error) {
	state, err := s.client.Get(s.ctx, sessionKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return StateIdle, nil
	}
	if err != nil {
		return "", err
	}

	return state, nil
}

func (s *RedisStore) Set(chatID int64, state string) error {
	return s.client.Set(s.ctx, sessionKey(chatID), state, sessionTTL).Err()
}

func (s *RedisStore) Clear(chatID int64) error {
	return s.client.Del(s.ctx, sessionKey(chatID)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
