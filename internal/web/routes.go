package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/solorzano0401/genesis-tools/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	encoderHandler := handlers.NewEncoderHandler()
	resizeHandler := handlers.NewResizeHandler(s.jobManager)
	previewHandler := handlers.NewPreviewHandler(s.previewManager)
	renameHandler := handlers.NewRenameHandler()
	aiHandler := handlers.NewAIHandler(s.provider)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Encoder (catalog matching)
		r.Get("/encoder/template", encoderHandler.Template)
		r.Post("/encoder/match", encoderHandler.Match)
		r.Post("/encoder/export", encoderHandler.Export)

		// Resize (long-running batch operations)
		r.Post("/resize", resizeHandler.Start)
		r.Get("/resize/{jobId}", resizeHandler.Status)
		r.Get("/resize/{jobId}/events", resizeHandler.Events)
		r.Get("/resize/{jobId}/download", resizeHandler.Download)
		r.Delete("/resize/{jobId}", resizeHandler.Cancel)

		// Live preview sessions
		r.Post("/preview", previewHandler.Create)
		r.Post("/preview/{sessionId}", previewHandler.Update)
		r.Get("/preview/{sessionId}/result", previewHandler.Result)
		r.Get("/preview/{sessionId}/events", previewHandler.Events)
		r.Delete("/preview/{sessionId}", previewHandler.Close)

		// Bulk rename
		r.Post("/rename", renameHandler.Export)

		// AI generation
		r.Post("/ai/filenames", aiHandler.SuggestFilenames)
		r.Post("/ai/seo", aiHandler.GenerateSEO)
	})
}
