package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/camberhealth/clinsum/internal/platform/logger"
	"github.com/camberhealth/clinsum/internal/prompt"
)

const activeDef = `task: clinical_summarization
version: 1.0.0
status: active
template: "Summarize: {note_text}"
variables:
  - note_text
max_tokens: 512
temperature: 0.2
`

func promptsRouter(t *testing.T) (*gin.Engine, *prompt.Registry, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "v1.yaml"), []byte(activeDef), 0o644); err != nil {
		t.Fatal(err)
	}
	log, err := logger.New("dev")
	if err != nil {
		t.Fatal(err)
	}
	reg, err := prompt.NewRegistry(dir, log)
	if err != nil {
		t.Fatal(err)
	}

	h := NewPromptsHandler(reg, log)
	r := gin.New()
	r.GET("/prompts/:task/versions", h.ListVersions)
	r.POST("/prompts/reload", h.Reload)
	r.GET("/prompts/verify", h.Verify)
	return r, reg, dir
}

func TestListVersions(t *testing.T) {
	r, _, _ := promptsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompts/clinical_summarization/versions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var got struct {
		Task     string               `json:"task"`
		Versions []prompt.VersionInfo `json:"versions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Versions) != 1 || got.Versions[0].Version != "1.0.0" {
		t.Fatalf("unexpected versions: %+v", got.Versions)
	}
}

func TestListVersionsUnknownTaskIsEmpty(t *testing.T) {
	r, _, _ := promptsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompts/nope/versions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d", rec.Code)
	}
	var got struct {
		Versions []prompt.VersionInfo `json:"versions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Versions) != 0 {
		t.Fatalf("expected empty versions, got %+v", got.Versions)
	}
}

func TestReloadSuccess(t *testing.T) {
	r, _, dir := promptsRouter(t)

	extra := `task: clinical_summarization
version: 1.1.0
status: active
template: "Summarize carefully: {note_text}"
variables:
  - note_text
max_tokens: 512
temperature: 0.2
`
	if err := os.WriteFile(filepath.Join(dir, "v1_1.yaml"), []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/prompts/reload", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestReloadFailureKeepsIndexAndReports422(t *testing.T) {
	r, reg, dir := promptsRouter(t)

	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("task: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/prompts/reload", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if _, err := reg.ResolveLatest("clinical_summarization"); err != nil {
		t.Fatalf("serving index should survive a failed reload: %v", err)
	}
}

func TestVerifyReportsBrokenFiles(t *testing.T) {
	r, _, dir := promptsRouter(t)

	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("task: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompts/verify", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var report prompt.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.OK {
		t.Fatal("expected report.OK=false")
	}
	if len(report.Files) != 2 {
		t.Fatalf("expected 2 file reports, got %d", len(report.Files))
	}
}

func TestVerifyCleanDirectory(t *testing.T) {
	r, _, _ := promptsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompts/verify", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
}
