package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the CORS policy from a comma-separated origin list. "*" allows
// every origin (without credentials, per the CORS spec).
func CORS(allowedOrigins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With", "X-Audit-Id", "X-Request-Id"},
	}

	trimmed := strings.TrimSpace(allowedOrigins)
	if trimmed == "" || trimmed == "*" {
		cfg.AllowAllOrigins = true
		return cors.New(cfg)
	}

	var origins []string
	for _, origin := range strings.Split(trimmed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
