package server

import (
	"net/http"
	"strings"

	"garagepro/internal/domain"
)

// Inventory

func (s *Server) handleInventoryList(w http.ResponseWriter, r *http.Request) {
	items, err := s.repos.Inventory.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch r.URL.Query().Get("filter") {
	case "", "all":
	case "low-stock":
		low := []domain.InventoryItem{}
		for _, it := range items {
			if it.IsLowStock() {
				low = append(low, it)
			}
		}
		items = low
	default:
		s.writeError(w, r, badRequest("unknown inventory filter %q", r.URL.Query().Get("filter")))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var it domain.InventoryItem
	if err := decodeJSON(w, r, &it); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repos.Inventory.Create(r.Context(), &it); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleInventoryItemDetail(w http.ResponseWriter, r *http.Request) {
	it, err := s.repos.Inventory.GetByID(r.Context(), getURLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var it domain.InventoryItem
	if err := decodeJSON(w, r, &it); err != nil {
		s.writeError(w, r, err)
		return
	}
	it.ID = getURLParam(r, "id")
	if err := s.repos.Inventory.Update(r.Context(), &it); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleDeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Inventory.Delete(r.Context(), getURLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInventoryAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.workshop.InventoryAlerts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// Services

func (s *Server) handleServicesList(w http.ResponseWriter, r *http.Request) {
	services, err := s.repos.Services.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if category := r.URL.Query().Get("category"); category != "" {
		matched := []domain.Service{}
		for _, svc := range services {
			if strings.EqualFold(svc.Category, category) {
				matched = append(matched, svc)
			}
		}
		services = matched
	}
	writeJSON(w, http.StatusOK, services)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var svc domain.Service
	if err := decodeJSON(w, r, &svc); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repos.Services.Create(r.Context(), &svc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

func (s *Server) handleServiceDetail(w http.ResponseWriter, r *http.Request) {
	svc, err := s.repos.Services.GetByID(r.Context(), getURLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	var svc domain.Service
	if err := decodeJSON(w, r, &svc); err != nil {
		s.writeError(w, r, err)
		return
	}
	svc.ID = getURLParam(r, "id")
	if err := s.repos.Services.Update(r.Context(), &svc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *Server) handleServiceCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.workshop.ServiceCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Mechanics

func (s *Server) handleMechanicsList(w http.ResponseWriter, r *http.Request) {
	mechanics, err := s.repos.Mechanics.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mechanics)
}

func (s *Server) handleCreateMechanic(w http.ResponseWriter, r *http.Request) {
	var m domain.Mechanic
	if err := decodeJSON(w, r, &m); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repos.Mechanics.Create(r.Context(), &m); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleMechanicDetail(w http.ResponseWriter, r *http.Request) {
	m, err := s.workshop.Mechanic(r.Context(), getURLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
