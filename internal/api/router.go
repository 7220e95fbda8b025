package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-community/internal/config"
	"github.com/wfunc/game-community/internal/middleware"
	"github.com/wfunc/game-community/internal/service"
	ws "github.com/wfunc/game-community/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine        *gin.Engine
	db            *gorm.DB
	actionHandler *ActionHandler
	wsHandler     *WebSocketHandler
	wsPath        string
	log           *zap.Logger
}

// NewRouter 创建路由器，db为nil时健康检查跳过数据库
func NewRouter(cfg *config.Config, services *service.Services, hub *ws.Hub, db *gorm.DB, log *zap.Logger) *Router {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 全局中间件
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Recovery())

	router := &Router{
		engine:        engine,
		db:            db,
		actionHandler: NewActionHandler(services, log),
		wsHandler:     NewWebSocketHandler(hub, &cfg.WebSocket, log),
		wsPath:        cfg.WebSocket.Path,
		log:           log,
	}
	if router.wsPath == "" {
		router.wsPath = "/ws"
	}

	router.setupRoutes()
	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/state", r.actionHandler.GetState)
		v1.GET("/actions", r.actionHandler.List)
		v1.POST("/actions/:group/:name", r.actionHandler.Dispatch)
		v1.GET("/online", r.wsHandler.GetOnlineCount)
	}

	// WebSocket路由
	r.engine.GET(r.wsPath, r.wsHandler.Connect)

	// 文档
	registerOpenAPIRoutes(r.engine)
	registerSwaggerRoutes(r.engine)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	if r.db != nil {
		sqlDB, err := r.db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "unhealthy",
				"message": "数据库连接失败",
			})
			return
		}
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "unhealthy",
				"message": "数据库ping失败",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Handler 返回http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
