package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string        `env:"LISTEN_ADDR"`
	Port              string        `env:"PORT" envDefault:"8080"`
	DatabasePath      string        `env:"DATABASE_PATH" envDefault:"habitgarden.db"`
	SessionSecret     string        `env:"SESSION_SECRET" envDefault:"habitgarden-dev-secret"`
	GinMode           string        `env:"GIN_MODE" envDefault:"release"`
	RedisURL          string        `env:"REDIS_URL"`
	LockTTL           time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	Timezone          string        `env:"TIMEZONE" envDefault:"Local"`
	SuperRootUserName string        `env:"SUPER_ROOT_USER_NAME"`
	SuperRootPassword string        `env:"SUPER_ROOT_PASSWORD"`
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "habitgarden.db"
	}
	cfg.SessionSecret = strings.TrimSpace(cfg.SessionSecret)
	cfg.GinMode = strings.TrimSpace(cfg.GinMode)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.SuperRootUserName = strings.TrimSpace(cfg.SuperRootUserName)
	cfg.SuperRootPassword = strings.TrimSpace(cfg.SuperRootPassword)

	return cfg, nil
}

// Location 解析 Timezone；空值或 Local 使用进程本地时区。
func (c AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
