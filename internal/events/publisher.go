package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/wfunc/game-community/internal/config"
	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/logger"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

// StateChange 状态变更事件
type StateChange struct {
	ID        string      `json:"id"`
	Fields    []string    `json:"fields"`
	State     store.State `json:"state"`
	Timestamp int64       `json:"timestamp"`
}

// NewStateChange 创建状态变更事件
func NewStateChange(state store.State, fields []string) *StateChange {
	return &StateChange{
		ID:        uuid.New().String(),
		Fields:    fields,
		State:     state,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Publisher 状态变更广播
type Publisher interface {
	Publish(ctx context.Context, change *StateChange) error
	Close() error
}

// NoopPublisher 未启用广播时使用
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(ctx context.Context, change *StateChange) error { return nil }

// Close 无操作
func (NoopPublisher) Close() error { return nil }

// NATSPublisher 通过NATS广播状态变更
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	log     *zap.Logger
}

// NewNATSPublisher 连接NATS
func NewNATSPublisher(cfg *config.NATSConfig) (*NATSPublisher, error) {
	log := logger.GetModuleLogger("events")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := []nats.Option{
		nats.Name("game-community"),
		nats.Timeout(timeout),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS连接断开", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS已重连", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPublish, "连接NATS失败")
	}

	log.Info("NATS已连接", zap.String("url", cfg.URL), zap.String("subject", cfg.Subject))
	return &NATSPublisher{conn: nc, subject: cfg.Subject, log: log}, nil
}

// Publish 发布状态变更
func (p *NATSPublisher) Publish(ctx context.Context, change *StateChange) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCanceled)
	}
	data, err := json.Marshal(change)
	if err != nil {
		return errors.Wrap(err, errors.ErrMessageFormat)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.Wrap(err, errors.ErrPublish)
	}
	return nil
}

// Close 刷新并关闭连接
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// New 根据配置创建广播器，未启用时返回NoopPublisher
func New(cfg *config.NATSConfig) (Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(cfg)
}

// Attach 将状态容器的每次变更转发给广播器，返回取消订阅函数
func Attach(st *store.Store, pub Publisher) func() {
	log := logger.GetModuleLogger("events")
	return st.Subscribe(func(state store.State, fields []string) {
		if err := pub.Publish(context.Background(), NewStateChange(state, fields)); err != nil {
			log.Warn("状态广播失败", zap.Strings("fields", fields), zap.Error(err))
		}
	})
}
