package reports

import (
	"fmt"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/domain/payments"

	"github.com/shopspring/decimal"
)

// Period names a reporting window relative to a reference instant
type Period string

// Supported periods
const (
	PeriodToday      Period = "today"
	PeriodYesterday  Period = "yesterday"
	PeriodLast7Days  Period = "last7days"
	PeriodLast30Days Period = "last30days"
	PeriodThisMonth  Period = "thisMonth"
	PeriodLastMonth  Period = "lastMonth"
)

// Periods lists the supported periods in picker order
var Periods = []Period{
	PeriodToday,
	PeriodYesterday,
	PeriodLast7Days,
	PeriodLast30Days,
	PeriodThisMonth,
	PeriodLastMonth,
}

// Window returns the half-open interval [start, end) the period covers at ref
func (p Period) Window(ref time.Time) (time.Time, time.Time, error) {
	today := Midnight(ref)
	tomorrow := today.AddDate(0, 0, 1)
	firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())

	switch p {
	case PeriodToday:
		return today, tomorrow, nil
	case PeriodYesterday:
		return today.AddDate(0, 0, -1), today, nil
	case PeriodLast7Days:
		return today.AddDate(0, 0, -6), tomorrow, nil
	case PeriodLast30Days:
		return today.AddDate(0, 0, -29), tomorrow, nil
	case PeriodThisMonth:
		return firstOfMonth, firstOfMonth.AddDate(0, 1, 0), nil
	case PeriodLastMonth:
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
}

// PeriodSummary aggregates job cards over one reporting window
type PeriodSummary struct {
	Period          Period          `json:"period"`
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	JobCount        int             `json:"jobCount"`
	Completed       int             `json:"completed"`
	Revenue         decimal.Decimal `json:"revenue"`
	PendingPayments decimal.Decimal `json:"pendingPayments"`
}

// Summarize aggregates the job cards serviced within the period. Completions
// are counted by the time the card was last updated.
func Summarize(jobs []domain.JobCard, period Period, ref time.Time) (PeriodSummary, error) {
	start, end, err := period.Window(ref)
	if err != nil {
		return PeriodSummary{}, err
	}

	s := PeriodSummary{
		Period:          period,
		Start:           start,
		End:             end,
		Revenue:         decimal.Zero,
		PendingPayments: decimal.Zero,
	}
	for _, jc := range jobs {
		if jc.Status == domain.JobStatusCompleted && within(jc.UpdatedAt, start, end) {
			s.Completed++
		}
		if !within(jc.DateOfService, start, end) {
			continue
		}
		s.JobCount++
		if jc.PaymentStatus == payments.StatusPaid {
			s.Revenue = s.Revenue.Add(jc.TotalAmount)
		} else {
			s.PendingPayments = s.PendingPayments.Add(jc.TotalAmount)
		}
	}
	return s, nil
}

func within(t, start, end time.Time) bool {
	return !t.IsZero() && !t.Before(start) && t.Before(end)
}
