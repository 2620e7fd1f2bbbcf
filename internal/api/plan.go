package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sev3364/Planning-app/internal/importer"
	"github.com/Sev3364/Planning-app/internal/service/pipeline"
)

// PlanResponse 排课响应
type PlanResponse struct {
	Run    RunView         `json:"run"`
	Report importer.Report `json:"report"`
}

// Plan 上传四个输入文件并排课
// POST /api/plan (multipart: days, modulesA, modulesB, pinned；或单个 workbook)
func (h *Handler) Plan(c *gin.Context) {
	fields := []struct {
		field string
		name  string
	}{
		{"days", h.cfg.Input.DaysFile},
		{"modulesA", h.cfg.Input.TrackAFile},
		{"modulesB", h.cfg.Input.TrackBFile},
		{"pinned", h.cfg.Input.PinnedFile},
	}

	uploadDir := filepath.Join(h.dataDir, "uploads", uuid.NewString())
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败"})
		return
	}
	defer os.RemoveAll(uploadDir)

	if fh, err := c.FormFile("workbook"); err == nil {
		// 合并工作簿：四个工作表一次上传
		if h.cfg.Input.Workbook == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "未启用合并工作簿输入"})
			return
		}
		if err := c.SaveUploadedFile(fh, filepath.Join(uploadDir, h.cfg.Input.Workbook)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
			return
		}
		fields = nil
	}

	for _, f := range fields {
		fh, err := c.FormFile(f.field)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("缺少上传文件: %s", f.field)})
			return
		}
		// 上传的是工作簿时按同名 .xlsx 保存，由 importer 回退读取
		target := f.name
		if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext == ".xlsx" || ext == ".xlsm" {
			target = strings.TrimSuffix(f.name, filepath.Ext(f.name)) + ".xlsx"
		}
		if err := c.SaveUploadedFile(fh, filepath.Join(uploadDir, target)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
			return
		}
	}

	out, err := h.runner.RunWithReport(uploadDir)
	if err != nil {
		if pipeline.IsInputError(err) {
			h.logger.Warn("plan rejected", zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("plan failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, PlanResponse{Run: h.runView(out.Plan), Report: out.Report})
}
