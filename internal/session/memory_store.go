package session

import (
	"context"
	"sync"
	"time"

	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/utils"
)

// MemoryStore 进程内令牌存储，重启后丢失
type MemoryStore struct {
	mu       sync.RWMutex
	token    string
	expireAt time.Time
	expiry   time.Duration
	now      func() time.Time
}

// NewMemoryStore 创建内存令牌存储
func NewMemoryStore(expiry time.Duration) *MemoryStore {
	return &MemoryStore{
		expiry: expiry,
		now:    time.Now,
	}
}

// Get 读取令牌
func (s *MemoryStore) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return "", errors.New(errors.ErrNoToken)
	}

	now := s.now()
	if !now.Before(s.expireAt) {
		s.token = ""
		return "", errors.New(errors.ErrTokenExpired, "凭证已超过保存期限")
	}
	if err := utils.CheckTokenExpiry(s.token, now); err != nil {
		s.token = ""
		return "", errors.Wrap(err, errors.ErrTokenExpired)
	}

	return s.token, nil
}

// Set 保存令牌
func (s *MemoryStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.expireAt = s.now().Add(s.expiry)
	return nil
}

// Clear 清除令牌
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.expireAt = time.Time{}
	return nil
}
