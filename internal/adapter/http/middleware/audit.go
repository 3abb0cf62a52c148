package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"alumni-platform/internal/core/domain"
	"alumni-platform/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful write operations once the handler has run.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapPathToAction(c.FullPath())
		if action == "" {
			return
		}

		entry := &domain.AuditLog{
			ID:           uuid.New(),
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now().UTC(),
		}
		if id, ok := AccountID(c); ok {
			entry.AccountID = &id
		}
		if rid := c.GetString(CtxAuditResource); rid != "" {
			entry.ResourceID = rid
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})
		entry.Details = string(details)

		auditSvc.Log(c.Request.Context(), entry)
	}
}

func mapPathToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/auth/register":
		return domain.AuditActionRegister, "account"
	case "/api/auth/login":
		return domain.AuditActionLogin, "session"
	case "/api/donations/create-order":
		return domain.AuditActionDonationOrder, "donation"
	case "/api/donations/verify-payment":
		return domain.AuditActionDonationVerify, "donation"
	}
	return "", ""
}
