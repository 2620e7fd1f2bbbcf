package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sev3364/Planning-app/internal/exporter"
	"github.com/Sev3364/Planning-app/internal/model"
)

const downloadTTL = 10 * time.Minute

// ExportResponse 导出结果
type ExportResponse struct {
	RunID       string   `json:"runId"`
	Files       []string `json:"files"`
	DownloadURL string   `json:"downloadUrl"`
}

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Export 导出排课文件并返回下载地址
// POST /api/runs/:id/export
func (h *Handler) Export(c *gin.Context) {
	plan, err := h.runner.Get(c.Param("id"))
	if err != nil {
		h.writeRunError(c, err)
		return
	}

	resp, err := h.export(plan, nil)
	if err != nil {
		h.logger.Error("export failed", zap.String("runId", plan.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportStream 导出排课（SSE 进度 + 完成后提供下载地址）
// POST /api/runs/:id/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	plan, err := h.runner.Get(c.Param("id"))
	if err != nil {
		h.writeRunError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event exportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	lastPercent := -1
	resp, err := h.export(plan, func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	})
	if err != nil {
		send(exportProgressEvent{
			Type:      "error",
			Message:   "导出失败: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}

	send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": resp.DownloadURL,
			"files":       resp.Files,
		},
		Timestamp: time.Now(),
	})
}

func (h *Handler) export(plan *model.Plan, progress func(exporter.ProgressEvent)) (*ExportResponse, error) {
	dir := filepath.Join(h.dataDir, "exports", uuid.NewString())
	res, err := h.runner.Export(plan, dir, progress)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	names := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		names = append(names, filepath.Base(f))
	}

	token := h.downloads.put(dir, plan.ID, names, downloadTTL)
	return &ExportResponse{
		RunID:       plan.ID,
		Files:       names,
		DownloadURL: "/api/export/download/" + token,
	}, nil
}

// DownloadExport 下载导出文件；?file= 指定文件名，缺省为工作簿（未生成时为轨道 A）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	name := c.Query("file")
	if name == "" {
		name = defaultDownload(item.files, h.cfg.Output.XLSXFile)
	}
	if !slices.Contains(item.files, name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	path := filepath.Join(item.dir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(item.runID, name))
	c.Header("Content-Type", contentTypeFor(name))
	c.File(path)
}

func defaultDownload(files []string, xlsxFile string) string {
	if slices.Contains(files, xlsxFile) {
		return xlsxFile
	}
	return exporter.FileTrackA
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv; charset=utf-8"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// buildExportContentDisposition 文件名带上排课 ID 前缀，避免多次下载互相覆盖
func buildExportContentDisposition(runID, name string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	filename := short + "-" + name
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
