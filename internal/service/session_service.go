package service

import (
	"context"

	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/models"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

type sessionService struct {
	*base
}

// Login 登录，成功后保存令牌并加载当前用户
func (s *sessionService) Login(ctx context.Context, email, password string) bool {
	token, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.fail("login", err, zap.String("email", email))
		return false
	}
	if token == "" {
		s.fail("login", errors.New(errors.ErrNoToken, "登录响应缺少access_token"), zap.String("email", email))
		return false
	}

	if err := s.tokens.Set(ctx, token); err != nil {
		s.fail("login", err, zap.String("email", email))
		return false
	}

	// 加载当前用户失败不回滚已保存的令牌
	s.actions.Session.GetCurrentUser(ctx)
	s.log.Info("登录成功", zap.String("email", email))
	return true
}

// Logout 清除令牌与用户状态
func (s *sessionService) Logout(ctx context.Context) {
	token := s.optionalToken(ctx)

	if err := s.tokens.Clear(ctx); err != nil {
		s.fail("logout", err)
	}
	s.store.Set(store.LoggedOut())

	// 通知后端，失败只记录
	if err := s.backend.Logout(ctx, token); err != nil {
		s.fail("logout", err)
		return
	}
	s.done("logout")
}

// CreateUser 注册
func (s *sessionService) CreateUser(ctx context.Context, username, email, password string) bool {
	created, err := s.backend.Signup(ctx, &models.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		s.fail("createUser", err, zap.String("email", email))
		return false
	}
	s.log.Info("用户已创建", zap.ByteString("user", created))
	return true
}

// GetCurrentUser 加载当前用户
func (s *sessionService) GetCurrentUser(ctx context.Context) {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		s.fail("getCurrentUser", err)
		s.store.Set(store.UserCleared())
		return
	}

	user, err := s.backend.CurrentUser(ctx, token)
	if err != nil {
		s.fail("getCurrentUser", err)
		if clearErr := s.tokens.Clear(ctx); clearErr != nil {
			s.fail("getCurrentUser", clearErr)
		}
		s.store.Set(store.UserCleared())
		return
	}

	s.store.Set(store.UserLoaded(user))
	s.done("getCurrentUser", zap.Int("user_id", user.ID))
}

// UpdateProfileImage 更新头像
func (s *sessionService) UpdateProfileImage(ctx context.Context, imageURL string) {
	token, ok := s.requireToken(ctx, "updateProfileImage")
	if !ok {
		return
	}

	user, err := s.backend.UpdateAvatar(ctx, token, imageURL)
	if err != nil {
		s.fail("updateProfileImage", err)
		return
	}
	s.store.Set(store.ProfileUpdated(user))
	s.done("updateProfileImage")
}

// GetUsers 用户列表
func (s *sessionService) GetUsers(ctx context.Context) {
	users, err := s.backend.Users(ctx)
	if err != nil {
		s.fail("getUsers", err)
		return
	}
	s.store.Set(store.UsersLoaded(users))
	s.done("getUsers", zap.Int("count", len(users)))
}
