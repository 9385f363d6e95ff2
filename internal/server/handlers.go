package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/payguard/internal/events"
	"github.com/mbd888/payguard/internal/health"
	"github.com/mbd888/payguard/internal/logging"
	"github.com/mbd888/payguard/internal/pipeline"
	"github.com/mbd888/payguard/internal/validation"
)

// recentEventsLimit caps the recent slice on the summary endpoint.
const recentEventsLimit = 30

// analyzeRequest is the POST /api/analyze payload. Only message is
// required; the context fields improve both scoring paths when present.
type analyzeRequest struct {
	Message   string `json:"message"`
	Channel   string `json:"channel"`
	ActorRole string `json:"actorRole"`
	Amount    string `json:"amount"`
}

func (s *Server) analyzeHandler(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	req.Message = validation.SanitizeString(req.Message, validation.MaxMessageLength)
	req.Channel = validation.SanitizeString(req.Channel, validation.MaxFieldLength)
	req.ActorRole = validation.SanitizeString(req.ActorRole, validation.MaxFieldLength)
	req.Amount = validation.SanitizeString(req.Amount, validation.MaxFieldLength)

	if errs := validation.Validate(
		validation.Required("message", req.Message),
	); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": errs.Error(),
			"fields":  errs,
		})
		return
	}

	outcome, err := s.pipeline.Analyze(c.Request.Context(), pipeline.Request{
		Message:   req.Message,
		Channel:   req.Channel,
		ActorRole: req.ActorRole,
		AmountRaw: req.Amount,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation_failed",
				"message": "message is required",
			})
			return
		}
		logging.L(c.Request.Context()).Error("analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to analyze message",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"eventId":    outcome.EventID,
		"finalScore": outcome.FinalScore,
		"level":      outcome.RiskLevel,
		"heuristics": outcome.Heuristics,
		"ai":         outcome.AI,
	})
}

func (s *Server) eventsSummaryHandler(c *gin.Context) {
	summary, err := s.store.Summarize(c.Request.Context(), recentEventsLimit)
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to summarize events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to summarize events",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"total":   summary.Total,
		"byLevel": summary.ByLevel,
		"recent":  summary.Recent,
	})
}

func (s *Server) exportHandler(c *gin.Context) {
	all, err := s.store.ListAll(c.Request.Context())
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list events for export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to export events",
		})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="fraud_risk_history.csv"`)
	c.Status(http.StatusOK)

	if err := events.WriteCSV(c.Writer, all); err != nil {
		// Headers already sent; just log
		logging.L(c.Request.Context()).Error("failed to stream csv export", "error", err)
	}
}

// HealthResponse for health check endpoints
type HealthResponse struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Checks    []health.Status `json:"checks,omitempty"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) healthHandler(c *gin.Context) {
	healthy, statuses := s.healthRegistry.CheckAll(c.Request.Context())

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:    status,
		Version:   "0.1.0",
		Checks:    statuses,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "PayGuard",
		"description": "Payment fraud risk scoring for messages",
		"version":     "0.1.0",
	})
}
