package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/camberhealth/clinsum/internal/platform/apierr"
	"github.com/camberhealth/clinsum/internal/platform/ctxutil"
	"github.com/camberhealth/clinsum/internal/platform/logger"
	"github.com/camberhealth/clinsum/internal/repos"
	"github.com/camberhealth/clinsum/internal/types"
)

const maxNoteChars = 100_000

type IngestInput struct {
	PatientID string                 `json:"patient_id"`
	NoteType  string                 `json:"note_type"`
	NoteText  string                 `json:"note_text"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type IngestReceipt struct {
	NoteID     uuid.UUID `json:"note_id"`
	AuditID    uuid.UUID `json:"audit_id"`
	NoteChars  int       `json:"note_chars"`
	ReceivedAt time.Time `json:"received_at"`
}

type IngestService interface {
	Ingest(ctx context.Context, input IngestInput) (*IngestReceipt, error)
}

type ingestService struct {
	notes repos.ClinicalNoteRepo
	log   *logger.Logger
}

func NewIngestService(notes repos.ClinicalNoteRepo, baseLog *logger.Logger) IngestService {
	return &ingestService{
		notes: notes,
		log:   baseLog.With("service", "IngestService"),
	}
}

func (s *ingestService) Ingest(ctx context.Context, input IngestInput) (*IngestReceipt, error) {
	if strings.TrimSpace(input.PatientID) == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("patient_id is required"))
	}
	if strings.TrimSpace(input.NoteText) == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("note_text is required"))
	}
	if len(input.NoteText) > maxNoteChars {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("note_text exceeds %d characters", maxNoteChars))
	}
	noteType := strings.TrimSpace(input.NoteType)
	if noteType == "" {
		noteType = "progress_note"
	}

	auditID := ctxutil.AuditID(ctx)
	if auditID == uuid.Nil {
		auditID = uuid.New()
	}

	var metadata datatypes.JSON
	if input.Metadata != nil {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid metadata: %w", err))
		}
		metadata = datatypes.JSON(raw)
	}

	note, err := s.notes.Create(ctx, nil, &types.ClinicalNote{
		AuditID:   auditID,
		PatientID: input.PatientID,
		NoteType:  noteType,
		NoteText:  input.NoteText,
		Metadata:  metadata,
	})
	if err != nil {
		s.log.Error("Failed to persist clinical note", "audit_id", auditID.String(), "error", err)
		return nil, fmt.Errorf("persist clinical note: %w", err)
	}

	s.log.Info("Clinical note ingested",
		"audit_id", auditID.String(),
		"note_id", note.ID.String(),
		"patient_id", input.PatientID,
		"note_type", noteType,
		"note_text", input.NoteText,
		"note_chars", len(input.NoteText),
	)

	return &IngestReceipt{
		NoteID:     note.ID,
		AuditID:    auditID,
		NoteChars:  len(input.NoteText),
		ReceivedAt: note.CreatedAt,
	}, nil
}
