package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wfunc/game-community/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCredentialNotFound 凭证不存在
var ErrCredentialNotFound = errors.New("凭证不存在")

// CredentialRepository 会话凭证仓储接口
type CredentialRepository interface {
	BaseRepository
	Save(ctx context.Context, name, token string, expireAt time.Time) error
	Find(ctx context.Context, name string) (*models.SessionCredential, error)
	Delete(ctx context.Context, name string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// credentialRepo 会话凭证仓储实现
type credentialRepo struct {
	*BaseRepo
}

// NewCredentialRepository 创建会话凭证仓储
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Save 保存凭证，同名凭证直接覆盖
func (r *credentialRepo) Save(ctx context.Context, name, token string, expireAt time.Time) error {
	cred := &models.SessionCredential{
		Name:     name,
		Token:    token,
		ExpireAt: expireAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expire_at", "updated_at"}),
	}).Create(cred).Error
}

// Find 根据名称查找凭证
func (r *credentialRepo) Find(ctx context.Context, name string) (*models.SessionCredential, error) {
	var cred models.SessionCredential
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// Delete 删除凭证（物理删除，保证唯一索引可复用）
func (r *credentialRepo) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Unscoped().Where("name = ?", name).Delete(&models.SessionCredential{}).Error
}

// DeleteExpired 清理过期凭证
func (r *credentialRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("expire_at > ? AND expire_at <= ?", time.Time{}, now).
		Delete(&models.SessionCredential{})
	return result.RowsAffected, result.Error
}
