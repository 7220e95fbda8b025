package service

import (
	"context"

	"github.com/wfunc/game-community/internal/adapter"
	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/logger"
	"github.com/wfunc/game-community/internal/session"
	"github.com/wfunc/game-community/internal/store"
	"go.uber.org/zap"
)

// DefaultLoginPath 未登录时跳转的页面
const DefaultLoginPath = "/login"

// Dependencies 动作依赖
type Dependencies struct {
	Store     *store.Store
	Backend   *adapter.BackendClient
	Catalog   *adapter.CatalogClient
	Tokens    session.TokenStore
	Navigator Navigator
	LoginPath string
}

// Services 动作集合，动作之间通过它互相调用
type Services struct {
	Session SessionService
	Catalog CatalogService
	Reviews ReviewService
	Events  EventService
	Forum   ForumService
	Misc    MiscService

	Store *store.Store
}

// NewServices 创建动作集合
func NewServices(deps *Dependencies) *Services {
	b := &base{
		store:     deps.Store,
		backend:   deps.Backend,
		catalog:   deps.Catalog,
		tokens:    deps.Tokens,
		navigator: deps.Navigator,
		loginPath: deps.LoginPath,
		log:       logger.GetModuleLogger("service"),
	}
	if b.navigator == nil {
		b.navigator = LogNavigator{}
	}
	if b.loginPath == "" {
		b.loginPath = DefaultLoginPath
	}

	s := &Services{
		Session: &sessionService{base: b},
		Catalog: &catalogService{base: b},
		Reviews: &reviewService{base: b},
		Events:  &eventService{base: b},
		Forum:   &forumService{base: b},
		Misc:    &miscService{base: b},
		Store:   deps.Store,
	}
	b.actions = s
	return s
}

// base 所有动作共享的依赖
type base struct {
	store     *store.Store
	backend   *adapter.BackendClient
	catalog   *adapter.CatalogClient
	tokens    session.TokenStore
	navigator Navigator
	loginPath string
	actions   *Services
	log       *zap.Logger
}

// requireToken 读取令牌，没有时记录日志
func (b *base) requireToken(ctx context.Context, action string) (string, bool) {
	token, err := b.tokens.Get(ctx)
	if err != nil {
		logger.LogAction(action, err, zap.String("reason", errors.Reason(err)))
		return "", false
	}
	return token, true
}

// optionalToken 有令牌时附带，没有时以匿名身份请求
func (b *base) optionalToken(ctx context.Context) string {
	token, err := b.tokens.Get(ctx)
	if err != nil {
		return ""
	}
	return token
}

// fail 记录失败，优先输出服务端返回的消息
func (b *base) fail(action string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("reason", errors.Reason(err)),
		zap.Int("code", int(errors.GetCode(err))),
	)
	logger.LogAction(action, err, fields...)
}

// done 记录成功
func (b *base) done(action string, fields ...zap.Field) {
	logger.LogAction(action, nil, fields...)
}

// LogNavigator 没有界面连接时只记录跳转
type LogNavigator struct{}

// Redirect 记录跳转
func (LogNavigator) Redirect(ctx context.Context, path string) {
	logger.GetModuleLogger("service").Info("请求界面跳转", zap.String("path", path))
}
