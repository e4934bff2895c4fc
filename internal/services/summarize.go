package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/camberhealth/clinsum/internal/llm"
	"github.com/camberhealth/clinsum/internal/platform/apierr"
	"github.com/camberhealth/clinsum/internal/platform/ctxutil"
	"github.com/camberhealth/clinsum/internal/platform/logger"
	"github.com/camberhealth/clinsum/internal/prompt"
	"github.com/camberhealth/clinsum/internal/repos"
	"github.com/camberhealth/clinsum/internal/types"
)

const defaultTask = "clinical_summarization"

type SummarizeInput struct {
	NoteID        *uuid.UUID        `json:"note_id,omitempty"`
	NoteText      string            `json:"note_text,omitempty"`
	Task          string            `json:"task,omitempty"`
	PromptVersion string            `json:"prompt_version,omitempty"`
	Variables     map[string]string `json:"variables,omitempty"`
}

type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type SummarizeOutput struct {
	Summary       string     `json:"summary"`
	Task          string     `json:"task"`
	PromptVersion string     `json:"prompt_version"`
	PromptHash    string     `json:"prompt_hash"`
	Model         string     `json:"model"`
	Usage         TokenUsage `json:"usage"`
	CostUSD       float64    `json:"cost_usd"`
	LatencyMS     int64      `json:"latency_ms"`
	AuditID       uuid.UUID  `json:"audit_id"`
	NoteID        *uuid.UUID `json:"note_id,omitempty"`
}

type SummarizeService interface {
	Summarize(ctx context.Context, input SummarizeInput) (*SummarizeOutput, error)
}

type summarizeService struct {
	registry        *prompt.Registry
	client          llm.Client
	notes           repos.ClinicalNoteRepo
	generations     repos.GenerationLogRepo
	minSummaryChars int
	log             *logger.Logger
}

func NewSummarizeService(
	registry *prompt.Registry,
	client llm.Client,
	notes repos.ClinicalNoteRepo,
	generations repos.GenerationLogRepo,
	minSummaryChars int,
	baseLog *logger.Logger,
) SummarizeService {
	return &summarizeService{
		registry:        registry,
		client:          client,
		notes:           notes,
		generations:     generations,
		minSummaryChars: minSummaryChars,
		log:             baseLog.With("service", "SummarizeService"),
	}
}

// Summarize resolves a prompt version, verifies its integrity, renders it
// with the note text, calls the model, and writes a generation audit record
// whether the call succeeded or not.
func (s *summarizeService) Summarize(ctx context.Context, input SummarizeInput) (*SummarizeOutput, error) {
	auditID := ctxutil.AuditID(ctx)
	if auditID == uuid.Nil {
		auditID = uuid.New()
	}
	log := s.log.With("audit_id", auditID.String())

	noteText := input.NoteText
	if input.NoteID != nil {
		note, err := s.notes.GetByID(ctx, nil, *input.NoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.New(http.StatusNotFound, "note_not_found", fmt.Errorf("note %s not found", input.NoteID.String()))
			}
			return nil, fmt.Errorf("load note %s: %w", input.NoteID.String(), err)
		}
		noteText = note.NoteText
	}
	if strings.TrimSpace(noteText) == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("note_text or note_id is required"))
	}

	task := strings.TrimSpace(input.Task)
	if task == "" {
		task = defaultTask
	}

	var def *prompt.Definition
	var err error
	if input.PromptVersion != "" {
		def, err = s.registry.ResolveVersion(task, input.PromptVersion)
	} else {
		def, err = s.registry.ResolveLatest(task)
	}
	if err != nil {
		return nil, err
	}

	if !prompt.VerifyIntegrity(def) {
		log.Error("Prompt integrity check failed", "task", task, "version", def.Version.String())
		return nil, apierr.New(http.StatusInternalServerError, "prompt_integrity", fmt.Errorf("prompt %s integrity check failed", def.Key()))
	}

	vars := map[string]string{"note_text": noteText}
	for k, v := range input.Variables {
		vars[k] = v
	}
	rendered, err := prompt.Render(def, vars)
	if err != nil {
		return nil, err
	}

	log.Info("Summarization started",
		"task", task,
		"prompt_version", def.Version.String(),
		"prompt_hash", def.ContentHash,
		"note_text", noteText,
	)

	result, genErr := s.client.Generate(ctx, llm.Request{
		Task:        task,
		System:      def.System,
		Prompt:      rendered,
		MaxTokens:   def.MaxTokens,
		Temperature: def.Temperature,
	})
	if genErr == nil {
		genErr = llm.ValidateResult(result, s.minSummaryChars)
	}

	rec := &types.GenerationLog{
		AuditID:       auditID,
		NoteID:        input.NoteID,
		Task:          task,
		PromptVersion: def.Version.String(),
		PromptHash:    def.ContentHash,
		Success:       genErr == nil,
	}
	if result != nil {
		rec.Model = result.Model
		rec.Summary = result.Text
		rec.CostUSD = result.CostUSD
		rec.LatencyMS = result.Latency.Milliseconds()
		if raw, mErr := json.Marshal(TokenUsage{InputTokens: result.InputTokens, OutputTokens: result.OutputTokens}); mErr == nil {
			rec.Usage = datatypes.JSON(raw)
		}
	}
	if genErr != nil {
		rec.Error = genErr.Error()
	}
	if _, repoErr := s.generations.Create(ctx, nil, rec); repoErr != nil {
		log.Error("Failed to persist generation log", "error", repoErr)
	}

	if genErr != nil {
		log.Error("Summarization failed",
			"task", task,
			"prompt_version", def.Version.String(),
			"error", genErr,
		)
		return nil, apierr.New(http.StatusBadGateway, "generation_failed", fmt.Errorf("generate summary: %w", genErr))
	}

	log.Info("Summarization completed",
		"task", task,
		"prompt_version", def.Version.String(),
		"prompt_hash", def.ContentHash,
		"summary", result.Text,
		"input_tokens", result.InputTokens,
		"output_tokens", result.OutputTokens,
		"cost_usd", result.CostUSD,
		"latency_ms", result.Latency.Milliseconds(),
	)

	return &SummarizeOutput{
		Summary:       result.Text,
		Task:          task,
		PromptVersion: def.Version.String(),
		PromptHash:    def.ContentHash,
		Model:         result.Model,
		Usage:         TokenUsage{InputTokens: result.InputTokens, OutputTokens: result.OutputTokens},
		CostUSD:       result.CostUSD,
		LatencyMS:     result.Latency.Milliseconds(),
		AuditID:       auditID,
		NoteID:        input.NoteID,
	}, nil
}
