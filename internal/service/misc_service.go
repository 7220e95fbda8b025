package service

import (
	"context"

	"github.com/wfunc/game-community/internal/store"
)

type miscService struct {
	*base
}

// GetMessage 后端问候消息
func (s *miscService) GetMessage(ctx context.Context) (string, bool) {
	message, err := s.backend.Hello(ctx)
	if err != nil {
		s.fail("getMessage", err)
		return "", false
	}
	s.store.Set(store.MessageLoaded(message))
	s.done("getMessage")
	return message, true
}
