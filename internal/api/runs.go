package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Sev3364/Planning-app/internal/store"
)

// ListRuns 历史排课列表
// GET /api/runs?limit=
func (h *Handler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	runs, err := h.runner.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs, "total": len(runs)})
}

// GetRun 单次排课详情
// GET /api/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	plan, err := h.runner.Get(c.Param("id"))
	if err != nil {
		h.writeRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.runView(plan))
}

// GetLatestRun 最近一次排课
// GET /api/runs/latest
func (h *Handler) GetLatestRun(c *gin.Context) {
	plan, err := h.runner.Latest()
	if err != nil {
		h.writeRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.runView(plan))
}

func (h *Handler) writeRunError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
