package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sev3364/Planning-app/internal/config"
	"github.com/Sev3364/Planning-app/internal/service/pipeline"
)

// Handler 排课 API 处理器
type Handler struct {
	cfg       *config.AppConfig
	runner    *pipeline.Runner
	dataDir   string
	downloads *exportDownloadStore
	logger    *zap.Logger
}

// NewHandler 创建 API 处理器；上传与导出文件写在 dataDir 的 uploads / exports 下
func NewHandler(cfg *config.AppConfig, runner *pipeline.Runner, dataDir string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:       cfg,
		runner:    runner,
		dataDir:   dataDir,
		downloads: newExportDownloadStore(),
		logger:    logger,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传输入文件并排课
	router.POST("/plan", h.Plan)

	// 历史排课
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/latest", h.GetLatestRun)
	router.GET("/runs/:id", h.GetRun)

	// 导出
	router.POST("/runs/:id/export", h.Export)
	router.POST("/runs/:id/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
}
