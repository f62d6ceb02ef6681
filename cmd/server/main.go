package main

import (
	"github.com/thereayou/voxus/internal/config"
	"github.com/thereayou/voxus/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", "err", err)
	}
	logger.Init(cfg.Server.Env)

	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("server init failed", "err", err)
	}
	if err := srv.Run(); err != nil {
		logger.Fatal("server run error", "err", err)
	}
}
