package server

import (
	"net/http"

	"garagepro/internal/domain"
)

// Customers

func (s *Server) handleCustomersList(w http.ResponseWriter, r *http.Request) {
	customers, err := s.repos.Customers.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := decodeJSON(w, r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repos.Customers.Create(r.Context(), &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleCustomerDetail(w http.ResponseWriter, r *http.Request) {
	c, err := s.repos.Customers.GetByID(r.Context(), getURLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := decodeJSON(w, r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	c.ID = getURLParam(r, "id")
	if err := s.repos.Customers.Update(r.Context(), &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCustomerVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := getURLParam(r, "id")
	if _, err := s.repos.Customers.GetByID(ctx, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	vehicles, err := s.repos.Vehicles.GetByCustomerID(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (s *Server) handleCustomerJobCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := getURLParam(r, "id")
	if _, err := s.repos.Customers.GetByID(ctx, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	jobs, err := s.repos.JobCards.GetByCustomerID(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// Vehicles

func (s *Server) handleVehiclesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		vehicles []domain.Vehicle
		err      error
	)
	if customerID := r.URL.Query().Get("customerId"); customerID != "" {
		vehicles, err = s.repos.Vehicles.GetByCustomerID(ctx, customerID)
	} else {
		vehicles, err = s.repos.Vehicles.List(ctx)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var v domain.Vehicle
	if err := decodeJSON(w, r, &v); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repos.Vehicles.Create(r.Context(), &v); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleVehicleDetail(w http.ResponseWriter, r *http.Request) {
	v, err := s.repos.Vehicles.GetByID(r.Context(), getURLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var v domain.Vehicle
	if err := decodeJSON(w, r, &v); err != nil {
		s.writeError(w, r, err)
		return
	}
	v.ID = getURLParam(r, "id")
	if err := s.repos.Vehicles.Update(r.Context(), &v); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleVehicleHistory(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.workshop.VehicleHistory(r.Context(), getURLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}
