package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sev3364/Planning-app/internal/api"
	"github.com/Sev3364/Planning-app/internal/config"
	"github.com/Sev3364/Planning-app/internal/service/pipeline"
	"github.com/Sev3364/Planning-app/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	runner *pipeline.Runner
	api    *api.Handler
	logger *zap.Logger
}

// NewServer 创建服务器；启用 persist_runs 时打开 data_dir 下的 SQLite
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// 未配置时不信任任何代理，ClientIP 只取 RemoteAddr
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted_proxies: %w", err)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}

	var sqliteStore *store.Store
	if cfg.Data.PersistRuns {
		sqliteStore, err = store.New(filepath.Join(dataDir, "planning.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	runner := pipeline.NewRunner(cfg, sqliteStore, logger)

	s := &Server{
		router: router,
		store:  sqliteStore,
		runner: runner,
		api:    api.NewHandler(cfg, runner, dataDir, logger.Named("api")),
		logger: logger,
	}

	s.setupRoutes(cfg.Server.PlanRateLimit)

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(planRateLimit int) {
	s.router.Use(gin.Recovery())
	s.router.Use(RequestLogger(s.logger.Named("http")))
	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length", "Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	apiGroup := s.router.Group("/api")
	if planRateLimit > 0 {
		apiGroup.Use(RateLimit(http.MethodPost, "/api/plan", planRateLimit, s.logger))
	}
	s.api.RegisterRoutes(apiGroup)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler 供 http.Server 或测试使用
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭数据库
func (s *Server) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// GetStore 获取存储（用于测试），未启用持久化时为 nil
func (s *Server) GetStore() *store.Store {
	return s.store
}
