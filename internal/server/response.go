package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smsclassifier/internal/service"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *MetaInfo  `json:"meta"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo carries response metadata. Model names the artifacts that
// produced a prediction; Count and Failed summarize batch replies.
type MetaInfo struct {
	Timestamp string             `json:"timestamp"`
	RequestID string             `json:"request_id"`
	Model     *service.ModelInfo `json:"model,omitempty"`
	Count     int                `json:"count,omitempty"`
	Failed    int                `json:"failed,omitempty"`
}

type metaOption func(*MetaInfo)

func withModel(info service.ModelInfo) metaOption {
	return func(m *MetaInfo) { m.Model = &info }
}

func withBatch(count, failed int) metaOption {
	return func(m *MetaInfo) {
		m.Count = count
		m.Failed = failed
	}
}

func newMeta(c *gin.Context, opts ...metaOption) *MetaInfo {
	requestID := c.GetString(requestIDKey)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	meta := &MetaInfo{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
	for _, opt := range opts {
		opt(meta)
	}
	return meta
}

func respondSuccess(c *gin.Context, status int, data any, opts ...metaOption) {
	c.JSON(status, Response{Success: true, Data: data, Meta: newMeta(c, opts...)})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
		Meta:    newMeta(c),
	})
}
