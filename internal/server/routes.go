package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	r := s.router

	// Health check endpoint
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.handleCustomersList)
			r.Post("/", s.handleCreateCustomer)
			r.Get("/{id}", s.handleCustomerDetail)
			r.Put("/{id}", s.handleUpdateCustomer)
			r.Get("/{id}/vehicles", s.handleCustomerVehicles)
			r.Get("/{id}/jobcards", s.handleCustomerJobCards)
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", s.handleVehiclesList)
			r.Post("/", s.handleCreateVehicle)
			r.Get("/{id}", s.handleVehicleDetail)
			r.Put("/{id}", s.handleUpdateVehicle)
			r.Get("/{id}/history", s.handleVehicleHistory)
		})

		r.Route("/jobcards", func(r chi.Router) {
			r.Get("/", s.handleJobCardsList)
			r.Post("/", s.handleCreateJobCard)
			r.Get("/{id}", s.handleJobCardDetail)
			r.Put("/{id}", s.handleUpdateJobCard)
			r.Delete("/{id}", s.handleDeleteJobCard)
			r.Post("/{id}/quick-update", s.handleQuickUpdate)
			r.Get("/{id}/message", s.handleJobCardMessage)
			r.Post("/{id}/share", s.handleShareJobCard)
			r.Get("/{id}/share/qr", s.handleShareQR)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", s.handleInventoryList)
			r.Post("/", s.handleCreateInventoryItem)
			r.Get("/alerts", s.handleInventoryAlerts)
			r.Get("/{id}", s.handleInventoryItemDetail)
			r.Put("/{id}", s.handleUpdateInventoryItem)
			r.Delete("/{id}", s.handleDeleteInventoryItem)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", s.handleServicesList)
			r.Post("/", s.handleCreateService)
			r.Get("/categories", s.handleServiceCategories)
			r.Get("/{id}", s.handleServiceDetail)
			r.Put("/{id}", s.handleUpdateService)
		})

		r.Route("/mechanics", func(r chi.Router) {
			r.Get("/", s.handleMechanicsList)
			r.Post("/", s.handleCreateMechanic)
			r.Get("/{id}", s.handleMechanicDetail)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily", s.handleDailyReport)
			r.Get("/daily/text", s.handleDailyReportText)
			r.Post("/daily/share", s.handleShareDailyReport)
			r.Get("/summary", s.handleReportSummary)
		})

		r.Get("/settings/{key}", s.handleGetSettings)
		r.Put("/settings/{key}", s.handleUpdateSettings)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().Format(time.RFC3339),
	})
}
