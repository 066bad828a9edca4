// Package reports derives daily and periodic summaries from job cards.
// Everything here is a pure function of its inputs.
package reports

import (
	"errors"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/domain/payments"

	"github.com/shopspring/decimal"
)

// ErrUnknownPeriod is returned by Summarize for an unsupported period name
var ErrUnknownPeriod = errors.New("unknown report period")

// MonthlySummary aggregates the job cards serviced in the reference month
type MonthlySummary struct {
	TotalJobs       int             `json:"totalJobs"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	PendingPayments decimal.Decimal `json:"pendingPayments"`
}

// Report is the daily report snapshot. Buckets overlap; a job card may appear
// in several of them.
type Report struct {
	ReferenceInstant   time.Time        `json:"referenceInstant"`
	PendingJobs        []domain.JobCard `json:"pendingJobs"`
	CompletedToday     []domain.JobCard `json:"completedToday"`
	CompletedYesterday []domain.JobCard `json:"completedYesterday"`
	PaymentPendingJobs []domain.JobCard `json:"paymentPendingJobs"`
	MonthlyJobs        []domain.JobCard `json:"monthlyJobs"`
	MonthlySummary     MonthlySummary   `json:"monthlySummary"`
}

// Midnight returns the start of the local day containing t
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Build computes the report for jobs as seen at ref. Day and month boundaries
// use ref's location. Input order is preserved inside every bucket.
func Build(jobs []domain.JobCard, ref time.Time) Report {
	today := Midnight(ref)
	yesterday := today.AddDate(0, 0, -1)

	r := Report{
		ReferenceInstant:   ref,
		PendingJobs:        []domain.JobCard{},
		CompletedToday:     []domain.JobCard{},
		CompletedYesterday: []domain.JobCard{},
		PaymentPendingJobs: []domain.JobCard{},
		MonthlyJobs:        []domain.JobCard{},
		MonthlySummary: MonthlySummary{
			TotalRevenue:    decimal.Zero,
			PendingPayments: decimal.Zero,
		},
	}

	for _, jc := range jobs {
		if jc.IsActive() {
			r.PendingJobs = append(r.PendingJobs, jc)
		}
		if jc.Status == domain.JobStatusCompleted {
			switch {
			case !jc.UpdatedAt.Before(today):
				r.CompletedToday = append(r.CompletedToday, jc)
			case !jc.UpdatedAt.Before(yesterday):
				r.CompletedYesterday = append(r.CompletedYesterday, jc)
			}
		}
		if jc.PaymentStatus.Outstanding() {
			r.PaymentPendingJobs = append(r.PaymentPendingJobs, jc)
		}
		if sameMonth(jc.DateOfService, ref) {
			r.MonthlyJobs = append(r.MonthlyJobs, jc)
		}
	}

	r.MonthlySummary = summarize(r.MonthlyJobs)
	return r
}

func sameMonth(t, ref time.Time) bool {
	if t.IsZero() {
		return false
	}
	t = t.In(ref.Location())
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

func summarize(jobs []domain.JobCard) MonthlySummary {
	s := MonthlySummary{
		TotalJobs:       len(jobs),
		TotalRevenue:    decimal.Zero,
		PendingPayments: decimal.Zero,
	}
	for _, jc := range jobs {
		if jc.PaymentStatus == payments.StatusPaid {
			s.TotalRevenue = s.TotalRevenue.Add(jc.TotalAmount)
		} else {
			s.PendingPayments = s.PendingPayments.Add(jc.TotalAmount)
		}
	}
	return s
}
