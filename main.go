package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-grid/api"
	"github.com/hoshinonyaruko/snake-grid/config"
	"github.com/hoshinonyaruko/snake-grid/grid"
	"github.com/hoshinonyaruko/snake-grid/scores"
	"github.com/hoshinonyaruko/snake-grid/session"
)

const configPath = "./config.json"

func main() {
	// Initialize the configuration
	cfg := config.LoadConfig(configPath)

	if cfg.CellSize <= 0 {
		log.Fatalf("invalid grid configuration: cell size %d", cfg.CellSize)
	}
	// 进程级的网格配置 只设置一次
	grid.Setup(cfg.CellSize, cfg.FieldWidth/cfg.CellSize, cfg.FieldHeight/cfg.CellSize)
	index, ok := grid.Default()
	if !ok {
		log.Fatalf("invalid grid configuration: field %dx%d cell %d", cfg.FieldWidth, cfg.FieldHeight, cfg.CellSize)
	}
	log.Printf("grid %dx%d, %d cells", index.Width, index.Height, index.Count())

	// 高分榜 首选位置不可写时退到备用位置
	fallback := cfg.FallbackScoreDB
	if fallback == "" {
		fallback = scores.FallbackPath()
	}
	store := scores.New(cfg.ScoreDB, fallback)

	manager := session.NewManager(session.Settings{
		FieldWidth:   cfg.FieldWidth,
		FieldHeight:  cfg.FieldHeight,
		CellSize:     cfg.CellSize,
		GameplayRate: cfg.GameplayRate,
		IdleRate:     cfg.IdleRate,
	}, store)
	defer manager.Close()

	// 热更新tick频率到存活的会话
	stop, err := config.Watch(configPath, func(c *config.AppConfig) {
		manager.SetRates(c.GameplayRate, c.IdleRate)
	})
	if err != nil {
		log.Printf("config watch disabled: %v", err)
	} else {
		defer stop()
	}

	router := gin.Default()
	api.Register(router, manager)
	// 从配置单例读取端口 监听
	if err := router.Run(":" + config.GetConfigValue("port").(string)); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
