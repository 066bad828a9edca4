// Package scheduler sends the daily report once per local day at the time
// configured in the report schedule settings.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/domain/notifications"

	log "github.com/sirupsen/logrus"
)

// DefaultInterval is how often the schedule is checked
const DefaultInterval = time.Minute

const dayLayout = "2006-01-02"

// ScheduleSource reads the report schedule settings
type ScheduleSource interface {
	GetReportSchedule(ctx context.Context) (domain.ReportSchedule, error)
}

// ReportSender renders the daily report and hands it to the sharer
type ReportSender interface {
	ShareDailyReport(ctx context.Context, phone string, ref time.Time) (notifications.Share, error)
}

// Scheduler checks the schedule on every tick and sends at most one report
// per local day.
type Scheduler struct {
	schedules ScheduleSource
	sender    ReportSender
	interval  time.Duration
	loc       *time.Location
	now       func() time.Time
	logger    log.FieldLogger

	mu       sync.Mutex
	lastSent string
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithInterval sets the check interval
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLocation sets the zone the schedule time is read in
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger
func WithLogger(l log.FieldLogger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates a scheduler
func New(schedules ScheduleSource, sender ReportSender, opts ...Option) *Scheduler {
	s := &Scheduler{
		schedules: schedules,
		sender:    sender,
		interval:  DefaultInterval,
		loc:       time.Local,
		now:       time.Now,
		logger:    log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run checks the schedule immediately and then on every tick until ctx is done
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.WithField("interval", s.interval.String()).Info("Report scheduler started")

	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		if _, err := s.Tick(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled report failed")
		}
		select {
		case <-ctx.Done():
			s.logger.Info("Report scheduler stopped")
			return
		case <-tick.C:
		}
	}
}

// Tick sends the report when the schedule is enabled, the configured time
// has passed today and no report went out today. It reports whether a
// report was sent.
func (s *Scheduler) Tick(ctx context.Context) (bool, error) {
	sched, err := s.schedules.GetReportSchedule(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read report schedule: %w", err)
	}
	if !sched.Enabled {
		return false, nil
	}
	hour, minute, err := sched.Clock()
	if err != nil {
		return false, err
	}

	now := s.now().In(s.loc)
	due := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, s.loc)
	if now.Before(due) {
		return false, nil
	}

	day := now.Format(dayLayout)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSent == day {
		return false, nil
	}

	share, err := s.sender.ShareDailyReport(ctx, sched.PhoneNumber, now)
	if err != nil {
		return false, err
	}
	s.lastSent = day

	s.logger.WithFields(log.Fields{
		"day":   day,
		"phone": share.Phone,
	}).Info("Scheduled daily report sent")
	return true, nil
}
