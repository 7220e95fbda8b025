package service

import (
	"context"

	"github.com/wfunc/game-community/internal/models"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

type eventService struct {
	*base
}

// GetEvents 活动列表
func (s *eventService) GetEvents(ctx context.Context) {
	events, err := s.backend.Events(ctx)
	if err != nil {
		s.fail("getEvents", err)
		return
	}
	s.store.Set(store.EventsLoaded(events))
	s.done("getEvents", zap.Int("count", len(events)))
}

// CreateEvent 创建活动并追加到列表
func (s *eventService) CreateEvent(ctx context.Context, event *models.EventInput) {
	created, err := s.backend.CreateEvent(ctx, s.optionalToken(ctx), event)
	if err != nil {
		s.fail("createEvent", err, zap.String("name", event.Name))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.EventCreated(current, *created)
	})
	s.done("createEvent", zap.Int("event_id", created.ID))
}

// UpdateEvent 更新活动，失败时状态不变
func (s *eventService) UpdateEvent(ctx context.Context, eventID int, event *models.EventInput) {
	updated, err := s.backend.UpdateEvent(ctx, s.optionalToken(ctx), eventID, event)
	if err != nil {
		s.fail("updateEvent", err, zap.Int("event_id", eventID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.EventUpdated(current, *updated)
	})
	s.done("updateEvent", zap.Int("event_id", eventID))
}

// DeleteEvent 删除活动，失败时状态不变
func (s *eventService) DeleteEvent(ctx context.Context, eventID int) {
	if err := s.backend.DeleteEvent(ctx, s.optionalToken(ctx), eventID); err != nil {
		s.fail("deleteEvent", err, zap.Int("event_id", eventID))
		return
	}
	s.store.Update(func(current store.State) store.Patch {
		return store.EventDeleted(current, eventID)
	})
	s.done("deleteEvent", zap.Int("event_id", eventID))
}

// AttendEvent 报名活动，未登录时跳转到登录页且不发送请求
func (s *eventService) AttendEvent(ctx context.Context, eventID int) {
	token, ok := s.requireToken(ctx, "attendEvent")
	if !ok {
		s.log.Warn("必须登录才能参加活动", zap.Int("event_id", eventID))
		s.navigator.Redirect(ctx, s.loginPath)
		return
	}

	if err := s.backend.AttendEvent(ctx, token, eventID); err != nil {
		s.fail("attendEvent", err, zap.Int("event_id", eventID))
		return
	}
	s.log.Info("活动报名成功", zap.Int("event_id", eventID))
}
