package workshop

import (
	"context"
	"time"

	"garagepro/internal/domain/notifications"
	"garagepro/internal/lifecycle"
	"garagepro/internal/reports"
	"garagepro/internal/repository"

	log "github.com/sirupsen/logrus"
)

// DailyReport builds the report over every job card as seen at ref
func (s *Service) DailyReport(ctx context.Context, ref time.Time) (reports.Report, error) {
	jobs, err := s.repos.JobCards.List(ctx, repository.JobCardFilter{})
	if err != nil {
		return reports.Report{}, err
	}
	return reports.Build(jobs, ref), nil
}

// DailyReportText renders the daily report message for ref
func (s *Service) DailyReportText(ctx context.Context, ref time.Time) (string, error) {
	r, err := s.DailyReport(ctx, ref)
	if err != nil {
		return "", err
	}
	return s.formatter.Report(r, s.now())
}

// ShareDailyReport renders the report and hands it to the sharer
func (s *Service) ShareDailyReport(ctx context.Context, phone string, ref time.Time) (notifications.Share, error) {
	if err := notifications.ValidatePhone(phone); err != nil {
		return notifications.Share{}, err
	}
	text, err := s.DailyReportText(ctx, ref)
	if err != nil {
		return notifications.Share{}, err
	}
	share, err := notifications.NewShare(string(lifecycle.IntentDailyReport), "", phone, text)
	if err != nil {
		return notifications.Share{}, err
	}
	share.CreatedAt = s.now()

	if err := s.sharer.Share(ctx, share); err != nil {
		s.logger.WithError(err).Warn("Share publication failed")
	}
	s.logger.WithFields(log.Fields{
		"phone":  share.Phone,
		"length": len(text),
	}).Info("Daily report shared")
	return share, nil
}

// Summary aggregates job cards over a named period ending at ref
func (s *Service) Summary(ctx context.Context, period reports.Period, ref time.Time) (reports.PeriodSummary, error) {
	jobs, err := s.repos.JobCards.List(ctx, repository.JobCardFilter{})
	if err != nil {
		return reports.PeriodSummary{}, err
	}
	return reports.Summarize(jobs, period, ref)
}
