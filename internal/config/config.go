package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wfunc/game-community/internal/errors"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Session   SessionConfig   `mapstructure:"session"`
	Database  DatabaseConfig  `mapstructure:"database"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	LoginPath       string        `mapstructure:"login_path"`
}

// UpstreamConfig 上游服务配置
type UpstreamConfig struct {
	BackendURL string        `mapstructure:"backend_url"`
	CatalogURL string        `mapstructure:"catalog_url"`
	CatalogKey string        `mapstructure:"catalog_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SessionConfig 会话凭证配置
type SessionConfig struct {
	Store  string        `mapstructure:"store"` // database, memory
	Expiry time.Duration `mapstructure:"expiry"`
	Secret string        `mapstructure:"secret"` // 非空时加密落盘的令牌
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	Path              string        `mapstructure:"path"`
	ReadBufferSize    int           `mapstructure:"read_buffer_size"`
	WriteBufferSize   int           `mapstructure:"write_buffer_size"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	PingInterval      time.Duration `mapstructure:"ping_interval"`
	PongTimeout       time.Duration `mapstructure:"pong_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// NATSConfig 状态变更广播配置
type NATSConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Subject string        `mapstructure:"subject"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  string            `mapstructure:"output"`
	File    LogFileConfig     `mapstructure:"file"`
	Modules map[string]string `mapstructure:"modules"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// 前端构建时注入的环境变量名，保持与上游部署一致
var upstreamEnv = map[string]string{
	"upstream.backend_url": "BACKEND_URL",
	"upstream.catalog_url": "API_RAWG_GET_URL",
	"upstream.catalog_key": "API_RAWG_KEY",
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
	v    *viper.Viper
)

// Init 初始化配置
func Init(configPath string, flags *pflag.FlagSet) error {
	var err error
	once.Do(func() {
		v, cfg, err = load(configPath, flags)
	})

	return err
}

// Load 加载一份独立的配置（不影响全局实例，测试使用）
func Load(configPath string) (*Config, error) {
	_, c, err := load(configPath, nil)
	return c, err
}

func load(configPath string, flags *pflag.FlagSet) (*viper.Viper, *Config, error) {
	nv := viper.New()

	// 设置配置文件路径
	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath("./config")
		nv.AddConfigPath(".")
	}

	// 设置环境变量前缀
	nv.SetEnvPrefix("GAME_COMMUNITY")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	// 上游地址同时接受无前缀的环境变量
	for key, env := range upstreamEnv {
		if err := nv.BindEnv(key, "GAME_COMMUNITY_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "绑定环境变量失败")
		}
	}

	if flags != nil {
		if err := nv.BindPFlags(flags); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "绑定命令行参数失败")
		}
	}

	// 设置默认值
	setDefaults(nv)

	// 读取配置文件
	if err := nv.ReadInConfig(); err != nil {
		// 如果配置文件不存在，使用默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "读取配置文件失败")
		}
	}

	// 解析配置到结构体
	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "解析配置失败")
	}

	normalize(c)
	return nv, c, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.login_path", "/login")

	// 上游服务默认配置
	v.SetDefault("upstream.backend_url", "http://localhost:3001")
	v.SetDefault("upstream.catalog_url", "https://api.rawg.io/api")
	v.SetDefault("upstream.catalog_key", "")
	v.SetDefault("upstream.timeout", "30s")

	// 会话默认配置（与浏览器cookie一致，7天过期）
	v.SetDefault("session.store", "database")
	v.SetDefault("session.expiry", "168h")
	v.SetDefault("session.secret", "")

	// 数据库默认配置
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/game-community.db")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	// WebSocket默认配置
	v.SetDefault("websocket.path", "/ws")
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.max_message_size", 8192)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.enable_compression", true)

	// NATS默认配置
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "game-community.state")
	v.SetDefault("nats.timeout", "5s")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "game-community.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)
}

// normalize 去掉上游地址末尾的斜杠
func normalize(c *Config) {
	if c == nil {
		return
	}
	c.Upstream.BackendURL = strings.TrimRight(c.Upstream.BackendURL, "/")
	c.Upstream.CatalogURL = strings.TrimRight(c.Upstream.CatalogURL, "/")
}

// Validate 校验必需配置
func (c *Config) Validate() error {
	if c.Upstream.BackendURL == "" {
		return errors.New(errors.ErrConfigValidate, "缺少后端地址 (BACKEND_URL)")
	}
	if c.Upstream.CatalogURL == "" {
		return errors.New(errors.ErrConfigValidate, "缺少游戏目录地址 (API_RAWG_GET_URL)")
	}
	switch c.Session.Store {
	case "database", "memory":
	default:
		return errors.Newf(errors.ErrConfigValidate, "不支持的会话存储: %s", c.Session.Store)
	}
	return nil
}

// Get 获取配置实例
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Watch 监听配置文件变化
func Watch(callback func(*Config)) {
	if v == nil {
		return
	}
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		defer mu.Unlock()

		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			fmt.Printf("配置重载失败: %v\n", err)
			return
		}

		normalize(newCfg)
		cfg = newCfg

		if callback != nil {
			callback(cfg)
		}

		fmt.Println("配置已重新加载", e.Name)
	})
}
