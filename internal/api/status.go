package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Persistent  bool   `json:"persistent"`  // 是否启用 SQLite 历史
	RunCount    int    `json:"runCount"`    // 可查询的排课数
	LatestRunID string `json:"latestRunId"` // 最近一次排课
	FreeLabel   string `json:"freeLabel"`
	DateLayout  string `json:"dateLayout"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Persistent: h.runner.Persistent(),
		FreeLabel:  h.cfg.Output.FreeLabel,
		DateLayout: h.cfg.Output.DateLayout,
	}

	runs, err := h.runner.List(0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp.RunCount = len(runs)

	if latest, err := h.runner.Latest(); err == nil {
		resp.LatestRunID = latest.ID
	}

	c.JSON(http.StatusOK, resp)
}
