package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/promptcheck/internal/store"
	"github.com/stellarlinkco/promptcheck/unit"
)

type runView struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	TotalUnits  int           `json:"total_units"`
	PassedUnits int           `json:"passed_units"`
	FailedUnits int           `json:"failed_units"`
	TotalMs     float64       `json:"total_ms"`
	AvgMs       float64       `json:"avg_ms"`
	Results     []unit.Result `json:"results,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	recs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]runView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRunView(rec))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (s *Server) handleGetRun(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing run id"})
		return
	}

	rec, err := s.store.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toRunView(rec))
}

func toRunView(rec *store.RunRecord) runView {
	return runView{
		ID:          rec.ID,
		CreatedAt:   rec.CreatedAt,
		TotalUnits:  rec.TotalUnits,
		PassedUnits: rec.PassedUnits,
		FailedUnits: rec.FailedUnits,
		TotalMs:     rec.TotalMs,
		AvgMs:       rec.AvgMs,
		Results:     rec.Results,
	}
}
