package models

import (
	"encoding/json"
	"time"
)

// User 后端返回的用户
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image,omitempty"`

	raw json.RawMessage
}

type userAlias User

// EntityID 实现Identifiable
func (u User) EntityID() int { return u.ID }

// UnmarshalJSON 保留原始JSON
func (u *User) UnmarshalJSON(data []byte) (err error) {
	u.raw, err = unmarshalVerbatim(data, (*userAlias)(u))
	return err
}

// MarshalJSON 原样输出上游JSON
func (u User) MarshalJSON() ([]byte, error) {
	return marshalVerbatim(u.raw, userAlias(u))
}

// SessionCredential 持久化的会话凭证
// 替代浏览器中的cookie/localStorage，全局只有这一个凭证来源
type SessionCredential struct {
	BaseModel
	Name     string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Token    string    `gorm:"type:text;not null" json:"-"`
	ExpireAt time.Time `gorm:"index" json:"expire_at"`
}

// TableName 指定表名
func (SessionCredential) TableName() string {
	return "session_credentials"
}

// IsExpired 检查凭证是否过期
func (c *SessionCredential) IsExpired(now time.Time) bool {
	return !c.ExpireAt.IsZero() && !now.Before(c.ExpireAt)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// SignupRequest 注册请求
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CurrentUserResponse 当前用户响应
type CurrentUserResponse struct {
	CurrentUser *User `json:"current_user"`
}

// MessageResponse 后端的通用消息响应
type MessageResponse struct {
	Message string `json:"message"`
}
