package session

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/logger"
	"github.com/wfunc/game-community/internal/repository"
	"github.com/wfunc/game-community/internal/utils"
	"go.uber.org/zap"
)

// DatabaseStore 基于凭证表的令牌存储
type DatabaseStore struct {
	repo   repository.CredentialRepository
	expiry time.Duration
	sealer *utils.Sealer
	now    func() time.Time
	log    *zap.Logger
}

// NewDatabaseStore 创建数据库令牌存储，sealer为nil时明文保存
func NewDatabaseStore(repo repository.CredentialRepository, expiry time.Duration, sealer *utils.Sealer) *DatabaseStore {
	return &DatabaseStore{
		repo:   repo,
		expiry: expiry,
		sealer: sealer,
		now:    time.Now,
		log:    logger.GetModuleLogger("session"),
	}
}

// Get 读取令牌
func (s *DatabaseStore) Get(ctx context.Context) (string, error) {
	cred, err := s.repo.Find(ctx, CredentialName)
	if err != nil {
		if stderrors.Is(err, repository.ErrCredentialNotFound) {
			return "", errors.New(errors.ErrNoToken)
		}
		return "", errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	now := s.now()
	if cred.IsExpired(now) {
		s.discard(ctx)
		return "", errors.New(errors.ErrTokenExpired, "凭证已超过保存期限")
	}

	token := cred.Token
	if utils.IsSealed(token) {
		if s.sealer == nil {
			s.discard(ctx)
			return "", errors.New(errors.ErrTokenInvalid, "凭证已加密但未配置密钥")
		}
		if token, err = s.sealer.Open(token); err != nil {
			s.discard(ctx)
			return "", errors.Wrap(err, errors.ErrTokenInvalid)
		}
	}

	if err := utils.CheckTokenExpiry(token, now); err != nil {
		s.discard(ctx)
		return "", errors.Wrap(err, errors.ErrTokenExpired)
	}

	return token, nil
}

// Set 保存令牌
func (s *DatabaseStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}

	stored := token
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(token)
		if err != nil {
			return errors.Wrap(err, errors.ErrDatabaseWrite, "加密凭证失败")
		}
		stored = sealed
	}

	if err := s.repo.Save(ctx, CredentialName, stored, s.now().Add(s.expiry)); err != nil {
		return errors.Wrap(err, errors.ErrDatabaseWrite)
	}
	return nil
}

// Clear 清除令牌
func (s *DatabaseStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, CredentialName); err != nil {
		return errors.Wrap(err, errors.ErrDatabaseWrite)
	}
	return nil
}

// Purge 清理所有过期凭证
func (s *DatabaseStore) Purge(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

func (s *DatabaseStore) discard(ctx context.Context) {
	if err := s.repo.Delete(ctx, CredentialName); err != nil {
		s.log.Warn("删除失效凭证失败", zap.Error(err))
	}
}
