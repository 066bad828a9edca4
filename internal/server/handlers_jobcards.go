package server

import (
	"net/http"

	"garagepro/internal/domain"
	"garagepro/internal/lifecycle"
	"garagepro/internal/repository"
	"garagepro/internal/workshop"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

func (s *Server) handleJobCardsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.JobCardFilter{
		Status:     domain.JobStatus(q.Get("status")),
		MechanicID: q.Get("mechanicId"),
		Query:      q.Get("q"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		s.writeError(w, r, domain.Invalid("status", "Unknown status"))
		return
	}

	jobs, err := s.repos.JobCards.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleCreateJobCard(w http.ResponseWriter, r *http.Request) {
	var in workshop.JobCardInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	jc, err := s.workshop.CreateJobCard(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jc)
}

func (s *Server) handleJobCardDetail(w http.ResponseWriter, r *http.Request) {
	jc, err := s.repos.JobCards.GetByID(r.Context(), getURLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jc)
}

func (s *Server) handleUpdateJobCard(w http.ResponseWriter, r *http.Request) {
	var jc domain.JobCard
	if err := decodeJSON(w, r, &jc); err != nil {
		s.writeError(w, r, err)
		return
	}
	jc.ID = getURLParam(r, "id")
	if err := s.workshop.UpdateJobCard(r.Context(), &jc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jc)
}

func (s *Server) handleDeleteJobCard(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.JobCards.Delete(r.Context(), getURLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuickUpdate(w http.ResponseWriter, r *http.Request) {
	var p lifecycle.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.workshop.QuickUpdate(r.Context(), getURLParam(r, "id"), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleJobCardMessage(w http.ResponseWriter, r *http.Request) {
	intent := lifecycle.ParseIntent(r.URL.Query().Get("intent"))
	msg, err := s.workshop.JobCardMessage(r.Context(), getURLParam(r, "id"), intent)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"intent":  string(intent),
		"message": msg,
	})
}

type shareRequest struct {
	Phone  string `json:"phone"`
	Intent string `json:"intent"`
}

func (s *Server) handleShareJobCard(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	share, err := s.workshop.ShareJobCard(r.Context(), getURLParam(r, "id"), req.Phone, lifecycle.ParseIntent(req.Intent))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, share)
}

// handleShareQR renders the share link as a QR code to scan from a phone
func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	share, err := s.workshop.PrepareShare(r.Context(), getURLParam(r, "id"), q.Get("phone"), lifecycle.ParseIntent(q.Get("intent")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	png, err := qrcode.Encode(share.Link, qrcode.Medium, qrSize)
	if err != nil {
		s.logger.WithError(err).WithField("job_card_id", share.JobCardID).Error("Error generating QR code")
		http.Error(w, "Error generating QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
