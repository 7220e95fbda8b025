package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/game-community/internal/config"
	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/models"
	"github.com/wfunc/game-community/internal/store"
)

// MockPublisher 广播器mock
type MockPublisher struct {
	mock.Mock
	mu      sync.Mutex
	changes []*StateChange
}

func (m *MockPublisher) Publish(ctx context.Context, change *StateChange) error {
	m.mu.Lock()
	m.changes = append(m.changes, change)
	m.mu.Unlock()
	args := m.Called(change.Fields)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func TestAttachForwardsChanges(t *testing.T) {
	st := store.New()
	pub := new(MockPublisher)
	pub.On("Publish", []string{"events"}).Return(nil).Once()
	pub.On("Publish", []string{"message"}).Return(errors.New(errors.ErrPublish)).Once()

	cancel := Attach(st, pub)
	st.Set(store.EventsLoaded([]models.Event{{ID: 1, Name: "LAN"}}))
	// 广播失败只记录日志
	st.Set(store.MessageLoaded("hi"))
	cancel()
	st.Set(store.MessageLoaded("ignored"))

	pub.AssertExpectations(t)
	require.Len(t, pub.changes, 2)
	assert.Equal(t, "LAN", pub.changes[0].State.Events[0].Name)
	assert.NotEmpty(t, pub.changes[0].ID)
	assert.NotEqual(t, pub.changes[0].ID, pub.changes[1].ID)
}

func TestStateChangeJSON(t *testing.T) {
	st := store.Initial()
	st.Message = "hello"
	change := NewStateChange(st, []string{"message"})

	data, err := json.Marshal(change)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []interface{}{"message"}, decoded["fields"])
	assert.Equal(t, "hello", decoded["state"].(map[string]interface{})["message"])
	assert.InDelta(t, float64(time.Now().UnixMilli()), decoded["timestamp"], float64(time.Minute.Milliseconds()))
}

func TestNewDisabledReturnsNoop(t *testing.T) {
	pub, err := New(&config.NATSConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), &StateChange{}))
	assert.NoError(t, pub.Close())
}

func TestNewNATSPublisherUnreachable(t *testing.T) {
	_, err := New(&config.NATSConfig{
		Enabled: true,
		URL:     "nats://127.0.0.1:1",
		Subject: "game-community.state",
		Timeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPublish))
}
