package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/camberhealth/clinsum/internal/platform/ctxutil"
)

const (
	headerAuditID   = "X-Audit-Id"
	headerRequestID = "X-Request-Id"
)

// AttachAuditContext assigns each request an audit ID (honoring a valid
// caller-supplied X-Audit-Id) and echoes it back on the response so clients
// can correlate their calls with server audit records.
func AttachAuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		auditID := uuid.Nil
		if raw := strings.TrimSpace(c.GetHeader(headerAuditID)); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				auditID = parsed
			}
		}
		if auditID == uuid.Nil {
			auditID = uuid.New()
		}
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}

		ctx := ctxutil.WithAuditData(c.Request.Context(), &ctxutil.AuditData{
			AuditID:   auditID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("audit_id", auditID.String())
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerAuditID, auditID.String())
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}
