package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type auditDataKey struct{}

// AuditData identifies one request for the audit trail. AuditID is minted per
// request; RequestID may be supplied by the caller for cross-system tracing.
type AuditData struct {
	AuditID   uuid.UUID
	RequestID string
}

func WithAuditData(ctx context.Context, ad *AuditData) context.Context {
	return context.WithValue(ctx, auditDataKey{}, ad)
}

func GetAuditData(ctx context.Context) *AuditData {
	val := ctx.Value(auditDataKey{})
	if ad, ok := val.(*AuditData); ok {
		return ad
	}
	return nil
}

// AuditID returns the request's audit ID, or uuid.Nil when no audit context
// was attached.
func AuditID(ctx context.Context) uuid.UUID {
	if ad := GetAuditData(ctx); ad != nil {
		return ad.AuditID
	}
	return uuid.Nil
}
