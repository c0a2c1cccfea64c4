package main

import (
	"PeerMatch/config"
	"PeerMatch/internal/matchmaker"
	"PeerMatch/internal/metrics"
	"PeerMatch/internal/middleware"
	"PeerMatch/internal/provider"
	"PeerMatch/internal/storage"
	"PeerMatch/internal/utils"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	utils.Init()

	queueTTL := time.Duration(config.C.Match.QueueTTLSeconds) * time.Second
	cacheTTL := time.Duration(config.C.Match.CacheTTLSeconds) * time.Second

	//-------------------------------------------------------
	// 1. 会话缓存：配置了 Redis 用 Redis，否则用内存实现
	//-------------------------------------------------------
	var cache matchmaker.SessionCache
	if config.C.Redis.Addr != "" {
		if err := storage.InitRedis(
			config.C.Redis.Addr,
			config.C.Redis.Password,
			config.C.Redis.DB,
		); err != nil {
			utils.Error.Fatalf("Redis init failed: %v", err)
		}
		cache = matchmaker.NewRedisCache(storage.Rdb, cacheTTL)
	} else {
		cache = matchmaker.NewMemoryCache(cacheTTL)
	}

	//-------------------------------------------------------
	// 2. 外部协作方：题库服务 + 协作会话服务
	//-------------------------------------------------------
	hc := &http.Client{}
	questions := provider.NewQuestionClient(config.C.Question.BaseURL, hc)
	collab := provider.NewCollabClient(config.C.Collab.BaseURL, hc)

	//-------------------------------------------------------
	// 3. 匹配引擎 + 协调服务
	//-------------------------------------------------------
	engine := matchmaker.NewEngine(queueTTL)
	svc := matchmaker.NewService(engine, cache, questions, collab)

	//-------------------------------------------------------
	// 4. Gin + CORS
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	//-------------------------------------------------------
	// 5. 匹配路由（配置了 JWT secret 则启用鉴权）
	//-------------------------------------------------------
	mh := matchmaker.NewHandler(svc)
	grp := r.Group("/")
	if config.C.JWT.Secret != "" {
		grp.Use(middleware.JwtAuthMiddleware([]byte(config.C.JWT.Secret)))
	}
	grp.POST("/matching", mh.FindMatch)
	grp.GET("/matching/status", mh.Status)
	grp.POST("/matching/cancel", mh.Cancel)

	//-------------------------------------------------------
	// 6. 启动服务器
	//-------------------------------------------------------
	utils.Print.Info("Matching service running", "port", config.C.Server.Port, "queueTTL", queueTTL, "cacheTTL", cacheTTL)
	r.Run(config.C.Server.Port)
}
