package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camberhealth/clinsum/internal/platform/ctxutil"
	"github.com/camberhealth/clinsum/internal/platform/logger"
)

func newIngestService(t *testing.T, notes *fakeNoteRepo) IngestService {
	t.Helper()
	log, err := logger.New("dev")
	require.NoError(t, err)
	return NewIngestService(notes, log)
}

func TestIngestPersistsNote(t *testing.T) {
	notes := newFakeNoteRepo()
	svc := newIngestService(t, notes)

	receipt, err := svc.Ingest(context.Background(), IngestInput{
		PatientID: "p-100",
		NoteType:  "discharge_summary",
		NoteText:  "Patient discharged in stable condition.",
		Metadata:  map[string]interface{}{"unit": "3W"},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, receipt.NoteID)
	assert.NotEqual(t, uuid.Nil, receipt.AuditID)
	assert.Equal(t, len("Patient discharged in stable condition."), receipt.NoteChars)

	stored := notes.notes[receipt.NoteID]
	require.NotNil(t, stored)
	assert.Equal(t, "p-100", stored.PatientID)
	assert.Equal(t, "discharge_summary", stored.NoteType)
	assert.NotEmpty(t, stored.Metadata)
}

func TestIngestUsesAuditContextWhenPresent(t *testing.T) {
	notes := newFakeNoteRepo()
	svc := newIngestService(t, notes)

	auditID := uuid.New()
	ctx := ctxutil.WithAuditData(context.Background(), &ctxutil.AuditData{AuditID: auditID})

	receipt, err := svc.Ingest(ctx, IngestInput{PatientID: "p-1", NoteText: "BP 120/80"})
	require.NoError(t, err)
	assert.Equal(t, auditID, receipt.AuditID)
	assert.Equal(t, auditID, notes.notes[receipt.NoteID].AuditID)
}

func TestIngestDefaultsNoteType(t *testing.T) {
	notes := newFakeNoteRepo()
	svc := newIngestService(t, notes)

	receipt, err := svc.Ingest(context.Background(), IngestInput{PatientID: "p-1", NoteText: "BP 120/80"})
	require.NoError(t, err)
	assert.Equal(t, "progress_note", notes.notes[receipt.NoteID].NoteType)
}

func TestIngestValidation(t *testing.T) {
	svc := newIngestService(t, newFakeNoteRepo())

	_, err := svc.Ingest(context.Background(), IngestInput{NoteText: "x"})
	assert.Error(t, err)

	_, err = svc.Ingest(context.Background(), IngestInput{PatientID: "p-1"})
	assert.Error(t, err)

	_, err = svc.Ingest(context.Background(), IngestInput{
		PatientID: "p-1",
		NoteText:  strings.Repeat("a", maxNoteChars+1),
	})
	assert.Error(t, err)
}
