package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/reports"
)

const dateLayout = "2006-01-02"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.workshop.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// referenceTime reads ?date=YYYY-MM-DD in the garage's zone, defaulting to now
func (s *Server) referenceTime(r *http.Request) (time.Time, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return s.now().In(s.loc), nil
	}
	ref, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return time.Time{}, badRequest("invalid date %q, expected YYYY-MM-DD", date)
	}
	return ref, nil
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	ref, err := s.referenceTime(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.workshop.DailyReport(r.Context(), ref)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDailyReportText(w http.ResponseWriter, r *http.Request) {
	ref, err := s.referenceTime(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, err := s.workshop.DailyReportText(r.Context(), ref)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": text})
}

func (s *Server) handleShareDailyReport(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ref, err := s.referenceTime(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	share, err := s.workshop.ShareDailyReport(r.Context(), req.Phone, ref)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, share)
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	period := reports.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = reports.PeriodToday
	}
	sum, err := s.workshop.Summary(r.Context(), period, s.now().In(s.loc))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Settings

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := getURLParam(r, "key")

	if key == domain.SettingsReportSchedule {
		sched, err := s.repos.Settings.GetReportSchedule(ctx)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sched)
		return
	}

	raw, err := s.repos.Settings.Get(ctx, key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	writeJSON(w, http.StatusOK, json.RawMessage(raw))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	key := getURLParam(r, "key")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, badRequest("failed to read body: %v", err))
		return
	}
	if err := s.repos.Settings.Set(r.Context(), key, body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.WithField("key", key).Info("Settings updated")
	s.handleGetSettings(w, r)
}
