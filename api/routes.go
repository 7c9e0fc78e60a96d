package api

import (
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	if apiKey := strings.TrimSpace(os.Getenv("MEDQA_API_KEY")); apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	}

	api.GET("/health", s.handleHealth)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
	return nil
}
