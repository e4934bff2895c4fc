package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/camberhealth/clinsum/internal/platform/ctxutil"
)

func TestAttachAuditContextMintsID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen uuid.UUID
	r := gin.New()
	r.Use(AttachAuditContext())
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.AuditID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == uuid.Nil {
		t.Fatal("expected an audit ID on the request context")
	}
	if got := rec.Header().Get("X-Audit-Id"); got != seen.String() {
		t.Fatalf("audit header mismatch: got=%q want=%q", got, seen.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request ID header")
	}
}

func TestAttachAuditContextHonorsCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	supplied := uuid.New()
	var seen uuid.UUID
	r := gin.New()
	r.Use(AttachAuditContext())
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.AuditID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Audit-Id", supplied.String())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen != supplied {
		t.Fatalf("audit ID mismatch: got=%s want=%s", seen, supplied)
	}
}

func TestAttachAuditContextRejectsGarbageID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen uuid.UUID
	r := gin.New()
	r.Use(AttachAuditContext())
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.AuditID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Audit-Id", "not-a-uuid")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == uuid.Nil {
		t.Fatal("expected a freshly minted audit ID")
	}
}
