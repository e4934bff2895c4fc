package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camberhealth/clinsum/internal/http/response"
	"github.com/camberhealth/clinsum/internal/platform/apierr"
	"github.com/camberhealth/clinsum/internal/prompt"
	"github.com/camberhealth/clinsum/internal/services"
)

type NotesHandler struct {
	ingest    services.IngestService
	summarize services.SummarizeService
}

func NewNotesHandler(ingest services.IngestService, summarize services.SummarizeService) *NotesHandler {
	return &NotesHandler{ingest: ingest, summarize: summarize}
}

func (h *NotesHandler) Ingest(c *gin.Context) {
	var input services.IngestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	receipt, err := h.ingest.Ingest(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *NotesHandler) Summarize(c *gin.Context) {
	var input services.SummarizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.summarize.Summarize(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// respondServiceError translates service and registry error types into the
// client-facing envelope. Registry lookups map to 404, authoring mismatches
// to 500, everything unclassified to 500.
func respondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		response.RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	var nf *prompt.NotFoundError
	if errors.As(err, &nf) {
		response.RespondError(c, http.StatusNotFound, "prompt_not_found", nf)
		return
	}
	var re *prompt.RenderError
	if errors.As(err, &re) {
		response.RespondError(c, http.StatusInternalServerError, "prompt_render_failed", re)
		return
	}
	response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
