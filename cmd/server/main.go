package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/wfunc/game-community/internal/adapter"
	"github.com/wfunc/game-community/internal/api"
	"github.com/wfunc/game-community/internal/config"
	"github.com/wfunc/game-community/internal/database"
	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/events"
	"github.com/wfunc/game-community/internal/logger"
	"github.com/wfunc/game-community/internal/service"
	"github.com/wfunc/game-community/internal/session"
	"github.com/wfunc/game-community/internal/store"
	ws "github.com/wfunc/game-community/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	db        *gorm.DB
	store     *store.Store
	services  *service.Services
	hub       *ws.Hub
	publisher events.Publisher
	http      *http.Server
	detach    []func()

	// 关闭控制
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

func main() {
	// 命令行参数，与配置键同名的参数会覆盖配置文件
	flags := pflag.NewFlagSet("game-community", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "配置文件路径")
	showVersion := flags.BoolP("version", "v", false, "显示版本信息")
	flags.String("server.host", "0.0.0.0", "监听地址")
	flags.Int("server.port", 8080, "监听端口")
	flags.String("upstream.backend_url", "http://localhost:3001", "社区后端地址 (BACKEND_URL)")
	flags.String("session.store", "database", "会话存储 (database/memory)")
	flags.String("log.level", "info", "日志级别")
	flags.Usage = printHelp(flags)

	_ = flags.Parse(os.Args[1:])

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// 加载配置，只绑定显式传入的参数
	bound := pflag.NewFlagSet("bound", pflag.ContinueOnError)
	flags.Visit(func(f *pflag.Flag) {
		if f.Name != "config" && f.Name != "version" {
			bound.AddFlag(f)
		}
	})
	if err := config.Init(*configPath, bound); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("配置无效: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志系统
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Cleanup()

	server := NewServer(cfg)

	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:        cfg,
		logger:     logger.GetLogger(),
		shutdownCh: make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("正在启动游戏社区服务...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)

	if err := s.initComponents(); err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "初始化组件失败")
	}

	s.startServices()

	// 监听配置变化
	config.Watch(func(newCfg *config.Config) {
		s.logger.Info("配置已更新，正在重新加载...")
		s.reloadConfig(newCfg)
	})

	s.logger.Info("服务器启动成功",
		zap.String("http", s.http.Addr),
		zap.String("backend", s.cfg.Upstream.BackendURL),
		zap.String("catalog", s.cfg.Upstream.CatalogURL),
	)
	return nil
}

// initComponents 初始化组件
func (s *Server) initComponents() error {
	s.logger.Info("初始化组件...")

	if s.cfg.Session.Store != "memory" {
		if err := s.initDatabase(); err != nil {
			return err
		}
	}

	tokens, err := session.New(s.ctx, &s.cfg.Session, s.db)
	if err != nil {
		return errors.Wrap(err, errors.ErrDatabaseConnect, "初始化会话存储失败")
	}

	publisher, err := events.New(&s.cfg.NATS)
	if err != nil {
		// 连接失败时不广播
		s.logger.Warn("状态广播不可用", zap.Error(err))
		publisher = events.NoopPublisher{}
	}
	s.publisher = publisher

	s.store = store.New()
	s.hub = ws.NewHub(s.store, &s.cfg.WebSocket, logger.GetModuleLogger("websocket"))
	s.services = service.NewServices(&service.Dependencies{
		Store:     s.store,
		Backend:   adapter.NewBackendClient(s.cfg.Upstream.BackendURL, s.cfg.Upstream.Timeout),
		Catalog:   adapter.NewCatalogClient(s.cfg.Upstream.CatalogURL, s.cfg.Upstream.CatalogKey, s.cfg.Upstream.Timeout),
		Tokens:    tokens,
		Navigator: s.hub,
		LoginPath: s.cfg.Server.LoginPath,
	})
	s.detach = append(s.detach, s.hub.Attach(), events.Attach(s.store, s.publisher))

	router := api.NewRouter(s.cfg, s.services, s.hub, s.db, logger.GetModuleLogger("api"))
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.logger.Info("所有组件初始化完成")
	return nil
}

// initDatabase 初始化数据库
func (s *Server) initDatabase() error {
	s.logger.Info("初始化数据库...")

	if err := database.Init(&s.cfg.Database); err != nil {
		return errors.Wrap(err, errors.ErrDatabaseConnect, "初始化数据库连接失败")
	}

	if s.cfg.Database.AutoMigrate {
		s.logger.Info("执行数据库自动迁移...")
		if err := database.AutoMigrate(); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseConnect, "数据库迁移失败")
		}
	}

	if !database.IsConnected() {
		return errors.New(errors.ErrDatabaseConnect, "数据库连接检查失败")
	}

	s.db = database.GetDB()
	s.logger.Info("数据库初始化完成")
	return nil
}

// startServices 启动服务
func (s *Server) startServices() {
	s.wg.Add(2)

	go func() {
		defer s.wg.Done()
		s.hub.Run(s.ctx)
	}()

	go func() {
		defer s.wg.Done()
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP服务异常退出", zap.Error(err))
			s.requestShutdown()
		}
	}()

	// 首次加载当前用户，与界面启动时一致
	go s.services.Session.GetCurrentUser(s.ctx)
}

func (s *Server) requestShutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
}

// WaitForShutdown 等待关闭信号
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,  // Ctrl+C
		syscall.SIGTERM, // kill命令
		syscall.SIGQUIT, // Ctrl+\
	)

	select {
	case sig := <-sigCh:
		s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
		s.requestShutdown()
	case <-s.shutdownCh:
	}
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// 停止接收新请求
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP服务关闭失败", zap.Error(err))
	}

	for _, detach := range s.detach {
		detach()
	}

	// 取消主上下文，触发所有goroutine退出
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("所有服务已正常关闭")
	case <-shutdownCtx.Done():
		s.logger.Warn("关闭超时，强制退出")
		return errors.New(errors.ErrTimeout, "关闭超时")
	}

	s.closeComponents()
	return nil
}

// closeComponents 关闭组件
func (s *Server) closeComponents() {
	s.logger.Info("关闭组件...")

	if err := s.publisher.Close(); err != nil {
		s.logger.Error("关闭状态广播失败", zap.Error(err))
	}

	if s.db != nil {
		if err := database.Close(); err != nil {
			s.logger.Error("关闭数据库失败", zap.Error(err))
		}
	}

	s.logger.Info("所有组件已关闭")
}

// reloadConfig 重新加载配置，只有日志配置可以热更新
func (s *Server) reloadConfig(newCfg *config.Config) {
	if newCfg.Log.Level != s.cfg.Log.Level {
		if err := logger.Reload(&newCfg.Log); err != nil {
			s.logger.Error("重新初始化日志失败", zap.Error(err))
		}
	}
	if newCfg.Upstream != s.cfg.Upstream {
		s.logger.Warn("上游地址变更需要重启才能生效")
	}
	s.cfg.Log = newCfg.Log
	s.logger.Info("配置重新加载完成")
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("游戏社区状态服务\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printHelp 打印帮助信息
func printHelp(flags *pflag.FlagSet) func() {
	return func() {
		fmt.Println("游戏社区状态服务")
		fmt.Println()
		fmt.Println("用法:")
		fmt.Println("  game-community-server [选项]")
		fmt.Println()
		fmt.Println("选项:")
		flags.PrintDefaults()
		fmt.Println()
		fmt.Println("环境变量:")
		fmt.Println("  BACKEND_URL            社区后端地址")
		fmt.Println("  API_RAWG_GET_URL       游戏目录地址")
		fmt.Println("  API_RAWG_KEY           游戏目录密钥")
		fmt.Println("  GAME_COMMUNITY_*       其它配置项，例如 GAME_COMMUNITY_SESSION_STORE=memory")
		fmt.Println()
		fmt.Println("示例:")
		fmt.Println("  game-community-server --config=/path/to/config.yaml")
		fmt.Println("  game-community-server --session.store=memory --server.port=9090")
	}
}
