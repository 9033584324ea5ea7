package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	CORS   CORSConfig   `mapstructure:"cors"`
	App    AppConfig    `mapstructure:"app"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"` // 唯一的超时
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo uri is required")
	}
	if c.Mongo.Database == "" {
		return errors.New("mongo database name is required")
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return errors.New("mongo connect_timeout must be positive")
	}
	if c.Mongo.MinPoolSize > c.Mongo.MaxPoolSize {
		return fmt.Errorf("mongo min_pool_size (%d) exceeds max_pool_size (%d)", c.Mongo.MinPoolSize, c.Mongo.MaxPoolSize)
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server mode %q must be one of debug, release, test", c.Server.Mode)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "cosmic_blog")
	v.SetDefault("mongo.connect_timeout", 10*time.Second)
	v.SetDefault("mongo.max_pool_size", 100)
	v.SetDefault("mongo.min_pool_size", 5)
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
}

// LoadConfig 加载配置
// 顺序: .env -> configs/config[.<env>].yaml -> 环境变量
func LoadConfig() error {
	// .env 不存在不算错误
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// MONGO_URI -> mongo.uri
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	// 兼容部署脚本使用的短变量名
	if db := os.Getenv("MONGO_DB"); db != "" {
		cfg.Mongo.Database = db
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	cfg.App.Env = env

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	GlobalConfig = cfg
	return nil
}
