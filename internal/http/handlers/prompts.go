package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camberhealth/clinsum/internal/http/response"
	"github.com/camberhealth/clinsum/internal/observability"
	"github.com/camberhealth/clinsum/internal/platform/logger"
	"github.com/camberhealth/clinsum/internal/prompt"
)

type PromptsHandler struct {
	registry *prompt.Registry
	log      *logger.Logger
}

func NewPromptsHandler(registry *prompt.Registry, baseLog *logger.Logger) *PromptsHandler {
	return &PromptsHandler{
		registry: registry,
		log:      baseLog.With("handler", "PromptsHandler"),
	}
}

func (h *PromptsHandler) ListVersions(c *gin.Context) {
	task := c.Param("task")
	versions := h.registry.ListVersions(task)
	response.RespondOK(c, gin.H{
		"task":     task,
		"versions": versions,
	})
}

// Reload swaps in the new prompt index only on full success; a broken file
// leaves the serving index untouched and returns the parse failure.
func (h *PromptsHandler) Reload(c *gin.Context) {
	err := h.registry.Reload()
	if metrics := observability.Current(); metrics != nil {
		metrics.ObservePromptReload(err == nil)
		metrics.SetPromptDefinitions(h.registry.DefinitionCount())
	}
	if err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "reload_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"reloaded":    true,
		"definitions": h.registry.DefinitionCount(),
		"loaded_at":   h.registry.LoadedAt(),
	})
}

func (h *PromptsHandler) Verify(c *gin.Context) {
	report, err := prompt.Verify(h.registry.Dir())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "verify_failed", err)
		return
	}
	status := http.StatusOK
	if !report.OK {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, report)
}
