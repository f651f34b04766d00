package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"smsclassifier/internal/domain"
	"smsclassifier/internal/service"
	"smsclassifier/internal/textnorm"
)

// MaxBatchSize caps the number of texts in one batch request.
const MaxBatchSize = 100

// ClassifierPort is the HTTP-facing subset of the classification service.
type ClassifierPort interface {
	Classify(text string) (domain.PredictionResult, error)
	Info() service.ModelInfo
}

// ClassifyRequest is the body of POST /api/v1/classify.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyBatchRequest is the body of POST /api/v1/classify/batch.
type ClassifyBatchRequest struct {
	Texts []string `json:"texts"`
}

// BatchItem is one entry of a batch reply; exactly one of Result and Error is set.
type BatchItem struct {
	Result *domain.PredictionResult `json:"result,omitempty"`
	Error  *ErrorInfo               `json:"error,omitempty"`
}

// Handler serves classification endpoints.
type Handler struct {
	classifier ClassifierPort
	loadErr    error
	metrics    *Metrics
}

// NewHandler creates a handler. When loadErr is set, classification endpoints answer 503.
func NewHandler(classifier ClassifierPort, loadErr error, metrics *Metrics) *Handler {
	return &Handler{classifier: classifier, loadErr: loadErr, metrics: metrics}
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string             `json:"status"`
	Model  *service.ModelInfo `json:"model,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	if h.loadErr != nil || h.classifier == nil {
		status := HealthStatus{Status: "unhealthy"}
		if h.loadErr != nil {
			status.Error = h.loadErr.Error()
		}
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	info := h.classifier.Info()
	c.JSON(http.StatusOK, HealthStatus{Status: "healthy", Model: &info})
}

func (h *Handler) available(c *gin.Context) bool {
	if h.loadErr != nil || h.classifier == nil {
		respondError(c, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", "model artifacts are not loaded")
		return false
	}
	return true
}

func (h *Handler) classify(text string) (domain.PredictionResult, error) {
	start := time.Now()
	res, err := h.classifier.Classify(text)
	h.metrics.observe(res.Label, err, time.Since(start))
	return res, err
}

// Classify handles POST /api/v1/classify
func (h *Handler) Classify(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	if textnorm.IsBlank(req.Text) {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text must not be empty")
		return
	}
	res, err := h.classify(req.Text)
	if err != nil {
		e := mapError(err)
		respondError(c, e.StatusCode, e.Code, e.Message)
		return
	}
	respondSuccess(c, http.StatusOK, res, withModel(h.classifier.Info()))
}

// ClassifyBatch handles POST /api/v1/classify/batch
func (h *Handler) ClassifyBatch(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req ClassifyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	if len(req.Texts) == 0 || len(req.Texts) > MaxBatchSize {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("texts must hold 1 to %d messages", MaxBatchSize))
		return
	}
	for i, text := range req.Texts {
		if textnorm.IsBlank(text) {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("texts[%d] must not be empty", i))
			return
		}
	}
	items := make([]BatchItem, len(req.Texts))
	failed := 0
	for i, text := range req.Texts {
		res, err := h.classify(text)
		if err != nil {
			e := mapError(err)
			items[i] = BatchItem{Error: &ErrorInfo{Code: e.Code, Message: e.Message}}
			failed++
			continue
		}
		items[i] = BatchItem{Result: &res}
	}
	respondSuccess(c, http.StatusOK, items, withModel(h.classifier.Info()), withBatch(len(items), failed))
}

// ErrorResponse is the HTTP rendering of a service error.
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

func mapError(err error) ErrorResponse {
	var perr *service.PredictError
	switch {
	case errors.As(err, &perr):
		return ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       "PREDICTION_FAILED",
			Message:    perr.Error(),
		}
	case errors.Is(err, service.ErrEmptyInput):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "text must not be empty",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}
