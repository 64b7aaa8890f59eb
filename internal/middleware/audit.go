package middleware

import (
	"net/http"

	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit records mutating requests to the audit_logs table. Query
// strings are deliberately dropped: management, invite and attendance
// codes travel there.
func Audit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		requestID := uuid.New().String()
		c.Set("requestID", requestID)

		c.Next()

		entry := models.AuditLog{
			RequestID: requestID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Status:    c.Writer.Status(),
		}
		_ = db.Create(&entry).Error
	}
}
