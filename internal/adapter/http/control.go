package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	"github.com/couchcryptid/wildfire-explorer/internal/pipeline"
)

type controlHandler struct {
	ctrl   Controller
	logger *slog.Logger
}

// selectionRequest carries one dimension's new values. Values may be JSON
// numbers or strings ("2", 2, "Feb").
type selectionRequest struct {
	Values []any `json:"values"`
}

type snapshotResponse struct {
	Mode     pipeline.Mode   `json:"mode"`
	Snapshot domain.Snapshot `json:"snapshot"`
	Error    string          `json:"error,omitempty"`
}

type filtersResponse struct {
	Mode         pipeline.Mode    `json:"mode"`
	Filters      domain.Selection `json:"filters"`
	TemporalGate bool             `json:"temporal_gate"`
	AwaitsSubmit bool             `json:"awaits_submit"`
}

// getDomain handles GET /api/v1/domain
func (h *controlHandler) getDomain(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	info, err := h.ctrl.Describe(ctx)
	if err != nil {
		h.logger.Error("describe dataset failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// getFilters handles GET /api/v1/filters
func (h *controlHandler) getFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.filters())
}

// putFilter handles PUT /api/v1/filters/:dimension
func (h *controlHandler) putFilter(c *gin.Context) {
	dim, err := domain.ParseDimension(c.Param("dimension"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tokens := make([]string, 0, len(req.Values))
	for _, v := range req.Values {
		tokens = append(tokens, fmt.Sprint(v))
	}

	if err := h.ctrl.Set(dim, tokens); err != nil {
		if errors.Is(err, domain.ErrUnknownDimension) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.filters())
}

// submit handles POST /api/v1/submit
func (h *controlHandler) submit(c *gin.Context) {
	gen := h.ctrl.Submit()
	c.JSON(http.StatusAccepted, gin.H{"generation": gen})
}

// getSnapshot handles GET /api/v1/snapshot
func (h *controlHandler) getSnapshot(c *gin.Context) {
	resp := snapshotResponse{
		Mode:     h.ctrl.Mode(),
		Snapshot: h.ctrl.Latest(),
	}
	if err := h.ctrl.LastError(); err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *controlHandler) filters() filtersResponse {
	fs := h.ctrl.Filters()
	mode := h.ctrl.Mode()
	return filtersResponse{
		Mode:         mode,
		Filters:      fs.Selection(),
		TemporalGate: fs.TemporalGate(),
		AwaitsSubmit: mode == pipeline.ModeDeferred,
	}
}
