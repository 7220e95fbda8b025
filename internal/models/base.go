package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// BaseModel 通用持久化字段
type BaseModel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Identifiable 可按ID合并的实体
type Identifiable interface {
	EntityID() int
}

// unmarshalVerbatim 解析已知字段并保留原始JSON
// 上游实体由外部定义，这里只读取关心的字段，其余字段原样转发
func unmarshalVerbatim(data []byte, v interface{}) (json.RawMessage, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return raw, nil
}

// marshalVerbatim 有原始JSON时原样输出，否则序列化已知字段
func marshalVerbatim(raw json.RawMessage, v interface{}) ([]byte, error) {
	if len(raw) > 0 {
		return raw, nil
	}
	return json.Marshal(v)
}
