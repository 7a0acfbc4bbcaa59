package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/service"
)

// LoggingServiceKey is the gin context key the router stores the logging
// service under.
const LoggingServiceKey = "logging_service"

// AuditLog records an allocation, profile or share action.
func AuditLog(c *gin.Context, actionType, message string, fields map[string]interface{}) {
	audit(c, "info", actionType, message, nil, fields)
}

// AuditLogError records a failed action.
func AuditLogError(c *gin.Context, actionType, message string, err error, fields map[string]interface{}) {
	audit(c, "error", actionType, message, err, fields)
}

// loggingServiceFrom returns the logging service set by the router, or nil.
func loggingServiceFrom(c *gin.Context) service.LoggingService {
	v, ok := c.Get(LoggingServiceKey)
	if !ok {
		return nil
	}
	ls, _ := v.(service.LoggingService)
	return ls
}

func audit(c *gin.Context, level, actionType, message string, err error, fields map[string]interface{}) {
	ls := loggingServiceFrom(c)
	if ls == nil {
		return
	}

	entry := &model.LogEntry{
		Timestamp:    time.Now(),
		Level:        level,
		Message:      message,
		RequestID:    GetRequestID(c),
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		IP:           c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		Client:       GetClient(c),
		AllocationID: GetAllocationID(c),
		ActionType:   actionType,
		Fields:       fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if asyncLogger := GetAsyncLogger(); asyncLogger != nil {
		asyncLogger.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ls.CreateLog(ctx, entry)
	}()
}
