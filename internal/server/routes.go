package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket event stream for the UI
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Chat
	mux.HandleFunc("/api/chat/ask", s.app.ChatHandler.AskHandler)           // POST - ask a question
	mux.HandleFunc("/api/chat/sessions", s.app.ChatHandler.SessionsHandler) // GET (list), POST (create)
	mux.HandleFunc("/api/chat/sessions/", s.app.ChatHandler.SessionRoutes)  // DELETE /{id}, POST /{id}/select, POST /{id}/backfill
	mux.HandleFunc("/api/chat/history", s.app.ChatHandler.HistoryHandler)   // GET - session message log
	mux.HandleFunc("/api/chat/state", s.app.ChatHandler.StateHandler)       // GET - ask state machine view

	// API routes - Documents
	mux.HandleFunc("/api/documents/upload", s.app.DocumentHandler.UploadHandler) // POST - multipart upload
	mux.HandleFunc("/api/documents/stats", s.app.DocumentHandler.StatsHandler)   // GET - aggregated counts
	mux.HandleFunc("/api/documents/status", s.app.DocumentHandler.StatusHandler) // GET ?doc_id= - single-document refresh
	mux.HandleFunc("/api/documents/poll", s.app.DocumentHandler.PollHandler)     // POST - force a status refresh
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.ListHandler)          // GET - cached snapshot
	mux.HandleFunc("/api/documents/", s.app.DocumentHandler.DeleteHandler)       // DELETE /{id}

	// API routes - Curriculum analysis (stateless pass-through)
	mux.HandleFunc("/api/analysis/course-graph", s.app.AnalysisHandler.CourseGraphHandler)
	mux.HandleFunc("/api/analysis/credits", s.app.AnalysisHandler.CreditsHandler)
	mux.HandleFunc("/api/analysis/prerequisites/", s.app.AnalysisHandler.PrerequisitesHandler)
	mux.HandleFunc("/api/analysis/specializations/", s.app.AnalysisHandler.SpecializationHandler)
	mux.HandleFunc("/api/analysis/exam-helper", s.app.AnalysisHandler.ExamHelperHandler)
	mux.HandleFunc("/api/analysis/career-path", s.app.AnalysisHandler.CareerPathHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
