package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/config"
	"github.com/habitgarden/internal/db"
	"github.com/habitgarden/internal/handler"
	"github.com/habitgarden/internal/lock"
	"github.com/habitgarden/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to load timezone: %v", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure super root user: %v", err)
	}

	// 配置 REDIS_URL 时多实例共享同一把锁，否则只在进程内串行
	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisURL != "" {
		redisLocker, err := lock.NewRedisLocker(cfg.RedisURL, cfg.LockTTL)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer redisLocker.Close()
		locker = redisLocker
		log.Printf("using redis locker")
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(handler.NewAPI(db.DB, locker, loc), cfg.SessionSecret)
	log.Printf("habitgarden listening on %s (timezone %s)", cfg.ListenAddr, loc)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
