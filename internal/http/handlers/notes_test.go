package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/camberhealth/clinsum/internal/http/response"
	"github.com/camberhealth/clinsum/internal/platform/apierr"
	"github.com/camberhealth/clinsum/internal/prompt"
	"github.com/camberhealth/clinsum/internal/services"
)

type stubIngest struct {
	receipt *services.IngestReceipt
	err     error
}

func (s *stubIngest) Ingest(ctx context.Context, input services.IngestInput) (*services.IngestReceipt, error) {
	return s.receipt, s.err
}

type stubSummarize struct {
	out *services.SummarizeOutput
	err error
}

func (s *stubSummarize) Summarize(ctx context.Context, input services.SummarizeInput) (*services.SummarizeOutput, error) {
	return s.out, s.err
}

func notesRouter(ingest services.IngestService, summarize services.SummarizeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewNotesHandler(ingest, summarize)
	r.POST("/ingest", h.Ingest)
	r.POST("/summarize", h.Summarize)
	return r
}

func TestIngestReturnsReceipt(t *testing.T) {
	receipt := &services.IngestReceipt{NoteID: uuid.New(), AuditID: uuid.New(), NoteChars: 10}
	r := notesRouter(&stubIngest{receipt: receipt}, &stubSummarize{})

	body := `{"patient_id":"p-1","note_text":"BP 120/80"}`
	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var got services.IngestReceipt
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.NoteID != receipt.NoteID {
		t.Fatalf("note_id mismatch: got=%s want=%s", got.NoteID, receipt.NoteID)
	}
}

func TestIngestRejectsMalformedJSON(t *testing.T) {
	r := notesRouter(&stubIngest{}, &stubSummarize{})

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestIngestMapsAPIErrors(t *testing.T) {
	svcErr := apierr.New(http.StatusBadRequest, "invalid_request", nil)
	r := notesRouter(&stubIngest{err: svcErr}, &stubSummarize{})

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if env.Error.Code != "invalid_request" {
		t.Fatalf("unexpected error code: %q", env.Error.Code)
	}
}

func TestSummarizeMapsPromptNotFound(t *testing.T) {
	r := notesRouter(&stubIngest{}, &stubSummarize{err: &prompt.NotFoundError{Task: "triage"}})

	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"note_text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if env.Error.Code != "prompt_not_found" {
		t.Fatalf("unexpected error code: %q", env.Error.Code)
	}
}

func TestSummarizeMapsRenderError(t *testing.T) {
	svcErr := &prompt.RenderError{Task: "clinical_summarization", Version: "1.0.0", Missing: []string{"note_text"}}
	r := notesRouter(&stubIngest{}, &stubSummarize{err: svcErr})

	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"note_text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusInternalServerError)
	}
}

func TestSummarizeReturnsPayload(t *testing.T) {
	out := &services.SummarizeOutput{
		Summary:       "Stable, discharged.",
		Task:          "clinical_summarization",
		PromptVersion: "1.2.0",
		PromptHash:    "abc",
		AuditID:       uuid.New(),
	}
	r := notesRouter(&stubIngest{}, &stubSummarize{out: out})

	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"note_text":"BP 120/80"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var got services.SummarizeOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.PromptVersion != "1.2.0" || got.Summary != out.Summary {
		t.Fatalf("unexpected payload: %+v", got)
	}
}
