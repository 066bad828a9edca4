package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/domain/notifications"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) GetReportSchedule(ctx context.Context) (domain.ReportSchedule, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ReportSchedule), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) ShareDailyReport(ctx context.Context, phone string, ref time.Time) (notifications.Share, error) {
	args := m.Called(ctx, phone, ref)
	return args.Get(0).(notifications.Share), args.Error(1)
}

var enabled = domain.ReportSchedule{Enabled: true, Time: "18:00", PhoneNumber: "9876543210"}

func newScheduler(src ScheduleSource, sender ReportSender, now *time.Time) *Scheduler {
	logger, _ := test.NewNullLogger()
	return New(src, sender,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return *now }),
		WithLogger(logger),
	)
}

func TestTick_SendsOncePerDay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 17, 59, 0, 0, time.UTC)

	src := &mockSource{}
	src.On("GetReportSchedule", ctx).Return(enabled, nil)
	sender := &mockSender{}
	sender.On("ShareDailyReport", ctx, "9876543210", mock.Anything).Return(notifications.Share{Phone: "9876543210"}, nil)

	s := newScheduler(src, sender, &now)

	sent, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, sent, "before the configured time")

	now = now.Add(time.Minute)
	sent, err = s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, sent)

	now = now.Add(3 * time.Hour)
	sent, err = s.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, sent, "already sent today")

	now = time.Date(2026, 10, 17, 18, 30, 0, 0, time.UTC)
	sent, err = s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, sent)

	sender.AssertNumberOfCalls(t, "ShareDailyReport", 2)
}

func TestTick_Disabled(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)

	src := &mockSource{}
	src.On("GetReportSchedule", ctx).Return(domain.ReportSchedule{Time: "18:00"}, nil)
	sender := &mockSender{}

	sent, err := newScheduler(src, sender, &now).Tick(ctx)
	require.NoError(t, err)
	assert.False(t, sent)
	sender.AssertNotCalled(t, "ShareDailyReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestTick_RetriesAfterFailure(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 18, 5, 0, 0, time.UTC)

	src := &mockSource{}
	src.On("GetReportSchedule", ctx).Return(enabled, nil)
	sender := &mockSender{}
	sender.On("ShareDailyReport", ctx, "9876543210", mock.Anything).Return(notifications.Share{}, errors.New("store offline")).Once()
	sender.On("ShareDailyReport", ctx, "9876543210", mock.Anything).Return(notifications.Share{Phone: "9876543210"}, nil).Once()

	s := newScheduler(src, sender, &now)

	_, err := s.Tick(ctx)
	require.Error(t, err)

	sent, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, sent)
	sender.AssertExpectations(t)
}

func TestTick_UsesConfiguredZone(t *testing.T) {
	ctx := context.Background()
	ist := time.FixedZone("IST", 5*3600+1800)
	// 12:45 UTC is 18:15 in IST
	now := time.Date(2026, 10, 16, 12, 45, 0, 0, time.UTC)

	src := &mockSource{}
	src.On("GetReportSchedule", ctx).Return(enabled, nil)
	sender := &mockSender{}
	sender.On("ShareDailyReport", ctx, "9876543210", mock.MatchedBy(func(ref time.Time) bool {
		return ref.Location() == ist && ref.Hour() == 18
	})).Return(notifications.Share{}, nil)

	logger, _ := test.NewNullLogger()
	s := New(src, sender, WithLocation(ist), WithClock(func() time.Time { return now }), WithLogger(logger))

	sent, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestTick_ScheduleErrors(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)

	src := &mockSource{}
	src.On("GetReportSchedule", ctx).Return(domain.ReportSchedule{}, errors.New("boom")).Once()
	src.On("GetReportSchedule", ctx).Return(domain.ReportSchedule{Enabled: true, Time: "6pm"}, nil).Once()
	s := newScheduler(src, &mockSender{}, &now)

	_, err := s.Tick(ctx)
	assert.ErrorContains(t, err, "failed to read report schedule")

	_, err = s.Tick(ctx)
	var verrs domain.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	checked := make(chan struct{}, 1)
	src := &mockSource{}
	src.On("GetReportSchedule", mock.Anything).Return(domain.ReportSchedule{}, nil).Run(func(mock.Arguments) {
		select {
		case checked <- struct{}{}:
		default:
		}
	})
	logger, hook := test.NewNullLogger()
	s := New(src, &mockSender{}, WithInterval(time.Millisecond), WithClock(func() time.Time { return now }), WithLogger(logger), WithLocation(time.UTC))

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-checked:
	case <-time.After(time.Second):
		t.Fatal("schedule was never checked")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, "Report scheduler stopped", hook.LastEntry().Message)
}
