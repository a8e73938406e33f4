package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/t2dm-treatment-advisor/internal/cache"
	"github.com/t2dm-treatment-advisor/internal/domain"
	"github.com/t2dm-treatment-advisor/internal/feedback"
	"github.com/t2dm-treatment-advisor/internal/nhanes"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}

// handleRecommend evaluates a patient record against the rule set
func (s *Server) handleRecommend(c *gin.Context) {
	correlationID := c.GetString("correlation_id")

	var req domain.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAdvisorError(
			domain.ErrInvalidInput, "Invalid request body", err.Error(), correlationID))
		return
	}

	patient := req.Patient
	if req.Source == "nhanes" {
		patient = nhanes.MapRow(patient)
	}

	start := time.Now()
	recordHash := cache.RecordHash(patient)

	if s.cache != nil {
		if eval, ok := s.cache.Get(c.Request.Context(), recordHash); ok {
			c.JSON(http.StatusOK, buildResponse(eval, recordHash, true, time.Since(start)))
			return
		}
	}

	eval := s.engine.Evaluate(patient)
	duration := time.Since(start)

	if s.cache != nil {
		s.cache.Set(c.Request.Context(), recordHash, eval)
	}

	if s.audit != nil {
		record := &domain.EvaluationRecord{
			RecordHash:   recordHash,
			FiredRuleIDs: firedRuleIDs(eval),
			FallbackOnly: eval.FallbackOnly,
			Duration:     duration,
		}
		if err := s.audit.Save(c.Request.Context(), record); err != nil {
			s.log.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"error":          err,
			}).Warn("Failed to save evaluation audit record")
		}
	}

	c.JSON(http.StatusOK, buildResponse(eval, recordHash, false, duration))
}

// handleListRules returns the active rule set, fallback last
func (s *Server) handleListRules(c *gin.Context) {
	rules := s.engine.Rules()

	c.JSON(http.StatusOK, gin.H{
		"rules":    rules,
		"fallback": s.engine.Fallback(),
		"count":    len(rules),
	})
}

// handleSubmitFeedback records clinician feedback on a recommendation
func (s *Server) handleSubmitFeedback(c *gin.Context) {
	correlationID := c.GetString("correlation_id")

	if s.feedback == nil {
		c.JSON(http.StatusServiceUnavailable, domain.NewAdvisorError(
			domain.ErrInternalServer, "Feedback store is not configured", "", correlationID))
		return
	}

	var fb feedback.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAdvisorError(
			domain.ErrInvalidInput, "Invalid feedback body", err.Error(), correlationID))
		return
	}

	if fb.RecordHash == "" || fb.RuleID == "" {
		c.JSON(http.StatusBadRequest, domain.NewAdvisorError(
			domain.ErrValidation, "record_hash and rule_id are required", "", correlationID))
		return
	}

	if err := s.feedback.Save(c.Request.Context(), &fb); err != nil {
		s.log.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"rule_id":        fb.RuleID,
			"error":          err,
		}).Error("Failed to save feedback")
		c.JSON(http.StatusInternalServerError, domain.NewAdvisorError(
			domain.ErrDatabaseError, "Failed to save feedback", "", correlationID))
		return
	}

	c.JSON(http.StatusCreated, fb)
}

// handleListFeedback lists stored feedback, newest first
func (s *Server) handleListFeedback(c *gin.Context) {
	correlationID := c.GetString("correlation_id")

	if s.feedback == nil {
		c.JSON(http.StatusServiceUnavailable, domain.NewAdvisorError(
			domain.ErrInternalServer, "Feedback store is not configured", "", correlationID))
		return
	}

	limit := parseIntQuery(c, "limit", 50)
	offset := parseIntQuery(c, "offset", 0)

	items, err := s.feedback.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, domain.NewAdvisorError(
			domain.ErrDatabaseError, "Failed to list feedback", "", correlationID))
		return
	}

	total, err := s.feedback.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, domain.NewAdvisorError(
			domain.ErrDatabaseError, "Failed to count feedback", "", correlationID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": items,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func buildResponse(eval *domain.Evaluation, recordHash string, cached bool, duration time.Duration) *domain.RecommendationResponse {
	return &domain.RecommendationResponse{
		Recommendations: eval.Recommendations,
		Explanations:    eval.Explanations,
		FallbackOnly:    eval.FallbackOnly,
		RecordHash:      recordHash,
		Cached:          cached,
		ProcessingTime:  duration,
		Timestamp:       time.Now().UTC(),
	}
}

func firedRuleIDs(eval *domain.Evaluation) []string {
	ids := make([]string, 0, len(eval.Explanations))
	for _, ex := range eval.Explanations {
		ids = append(ids, ex.RuleID)
	}
	return ids
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
