package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wfunc/game-community/internal/config"
	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心，向所有界面推送状态快照
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 消息广播通道
	broadcast chan *Message

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client

	done chan struct{}

	opts   options
	store  *store.Store
	logger *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`             // 消息类型
	Fields    []string        `json:"fields,omitempty"` // 本次变化的状态字段
	Data      json.RawMessage `json:"data,omitempty"`   // 消息数据
	Timestamp int64           `json:"timestamp"`        // 时间戳
}

// MessageType 消息类型
const (
	// 系统消息
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"

	// 状态消息
	MessageTypeState    = "state"
	MessageTypeGetState = "get_state"
	MessageTypeRedirect = "redirect"
)

// options 连接参数
type options struct {
	pingPeriod     time.Duration
	pongWait       time.Duration
	writeWait      time.Duration
	maxMessageSize int64
}

func newOptions(cfg *config.WebSocketConfig) options {
	o := options{
		pingPeriod:     pingPeriod,
		pongWait:       pongWait,
		writeWait:      writeWait,
		maxMessageSize: maxMessageSize,
	}
	if cfg == nil {
		return o
	}
	if cfg.PongTimeout > 0 {
		o.pongWait = cfg.PongTimeout
		o.pingPeriod = (o.pongWait * 9) / 10
	}
	// ping周期必须小于pong超时
	if cfg.PingInterval > 0 && cfg.PingInterval < o.pongWait {
		o.pingPeriod = cfg.PingInterval
	}
	if cfg.WriteTimeout > 0 {
		o.writeWait = cfg.WriteTimeout
	}
	if cfg.MaxMessageSize > 0 {
		o.maxMessageSize = cfg.MaxMessageSize
	}
	return o
}

// NewHub 创建Hub，cfg为nil时使用默认参数
func NewHub(st *store.Store, cfg *config.WebSocketConfig, logger *zap.Logger) *Hub {
	return &Hub{
		opts:       newOptions(cfg),
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		store:      st,
		logger:     logger,
	}
}

// Run 运行Hub，ctx取消后关闭所有连接
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.opts.pingPeriod)
	defer ticker.Stop()
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ticker.C:
			h.broadcastMessage(&Message{Type: MessageTypePing, Timestamp: time.Now().Unix()})
		}
	}
}

// Attach 订阅状态变化并推送给所有客户端
func (h *Hub) Attach() func() {
	return h.store.Subscribe(func(s store.State, fields []string) {
		msg, err := stateMessage(s, fields)
		if err != nil {
			h.logger.Error("序列化状态失败", zap.Error(err))
			return
		}
		h.Broadcast(msg)
	})
}

// Redirect 通知界面跳转
func (h *Hub) Redirect(ctx context.Context, path string) {
	data, _ := json.Marshal(map[string]string{"path": path})
	h.logger.Info("推送界面跳转", zap.String("path", path))
	h.Broadcast(&Message{
		Type:      MessageTypeRedirect,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func stateMessage(s store.State, fields []string) (*Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      MessageTypeState,
		Fields:    fields,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}, nil
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端连接", zap.String("client_id", client.ID))

	// 发送连接成功消息与当前快照
	h.SendToClient(client.ID, &Message{
		Type:      MessageTypeConnected,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"message":"连接成功"}`),
	})
	h.sendSnapshot(client)
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端断开", zap.String("client_id", client.ID))
}

func (h *Hub) shutdown() {
	close(h.done)

	h.clientsMu.Lock()
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
	}
	h.clientsMu.Unlock()
	h.logger.Info("WebSocket Hub已停止")
}

// broadcastMessage 广播消息
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("客户端发送缓冲区满", zap.String("client_id", client.ID))
		}
	}
	h.clientsMu.RUnlock()
}

func (h *Hub) sendSnapshot(client *Client) {
	msg, err := stateMessage(h.store.Get(), nil)
	if err != nil {
		h.logger.Error("序列化状态失败", zap.Error(err))
		return
	}
	if err := h.SendToClient(client.ID, msg); err != nil {
		h.logger.Warn("发送状态快照失败", zap.String("client_id", client.ID), zap.Error(err))
	}
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return errors.New(errors.ErrMessageFormat).WithCause(err)
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		return errors.Newf(errors.ErrWebSocketClosed, "客户端 %s 已断开", clientID)
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return errors.Newf(errors.ErrWebSocketSend, "客户端 %s 发送缓冲区已满", clientID)
	}
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Broadcast 广播消息，Hub停止后丢弃
func (h *Hub) Broadcast(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Register 注册客户端
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister 注销客户端
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
