package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camberhealth/clinsum/internal/http/response"
	"github.com/camberhealth/clinsum/internal/prompt"
)

type HealthHandler struct {
	registry *prompt.Registry
	version  string
}

func NewHealthHandler(registry *prompt.Registry, version string) *HealthHandler {
	return &HealthHandler{registry: registry, version: version}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) Root(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"service":            "clinsum",
		"version":            h.version,
		"prompt_definitions": h.registry.DefinitionCount(),
		"prompts_loaded_at":  h.registry.LoadedAt(),
	})
}
