package session

import (
	"context"
	"fmt"
	"time"

	"github.com/wfunc/game-community/internal/config"
	"github.com/wfunc/game-community/internal/logger"
	"github.com/wfunc/game-community/internal/repository"
	"github.com/wfunc/game-community/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CredentialName 访问令牌在凭证表中的名称
const CredentialName = "access_token"

// DefaultExpiry 令牌默认有效期（7天）
const DefaultExpiry = 7 * 24 * time.Hour

// TokenStore 访问令牌存储
// 所有需要认证的请求都从这里读取令牌
type TokenStore interface {
	// Get 读取令牌，不存在或已过期时返回ErrNoToken/ErrTokenExpired
	Get(ctx context.Context) (string, error)
	// Set 保存令牌
	Set(ctx context.Context, token string) error
	// Clear 清除令牌
	Clear(ctx context.Context) error
}

// New 根据配置创建令牌存储
func New(ctx context.Context, cfg *config.SessionConfig, db *gorm.DB) (TokenStore, error) {
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	switch cfg.Store {
	case "memory":
		return NewMemoryStore(expiry), nil
	case "database", "":
		if db == nil {
			return nil, fmt.Errorf("数据库未初始化，无法使用数据库会话存储")
		}
		store := NewDatabaseStore(repository.NewCredentialRepository(db), expiry, utils.NewSealer(cfg.Secret))
		if n, err := store.Purge(ctx); err != nil {
			logger.GetModuleLogger("session").Warn("清理过期凭证失败", zap.Error(err))
		} else if n > 0 {
			logger.GetModuleLogger("session").Info("已清理过期凭证", zap.Int64("count", n))
		}
		return store, nil
	default:
		return nil, fmt.Errorf("不支持的会话存储: %s", cfg.Store)
	}
}
