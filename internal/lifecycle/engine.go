// Package lifecycle applies status, payment and note updates to job cards and
// decides which updates should prompt a customer notification.
package lifecycle

import (
	"fmt"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/domain/payments"
)

// Intent is the purpose of an outgoing message
type Intent string

// Share intents
const (
	IntentJobUpdate       Intent = "jobUpdate"
	IntentCompletion      Intent = "completion"
	IntentPaymentReminder Intent = "paymentReminder"
	IntentDailyReport     Intent = "dailyReport"
)

// ParseIntent maps a request value to a job card intent, defaulting to a job update
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentCompletion, IntentPaymentReminder, IntentDailyReport:
		return Intent(s)
	}
	return IntentJobUpdate
}

// Patch carries the fields of a quick update. Nil fields are left unchanged.
type Patch struct {
	Status        *domain.JobStatus    `json:"status,omitempty"`
	PaymentStatus *payments.Status     `json:"paymentStatus,omitempty"`
	ServiceNotes  *string              `json:"serviceNotes,omitempty"`
	Services      []domain.ServiceLine `json:"services,omitempty"`
}

// Validate rejects unknown status values
func (p Patch) Validate() error {
	var errs domain.ValidationErrors
	if p.Status != nil && !p.Status.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "status", Message: "Unknown status"})
	}
	if p.PaymentStatus != nil && !p.PaymentStatus.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "paymentStatus", Message: "Unknown payment status"})
	}
	if p.Services != nil {
		if err := domain.ValidateServiceLines(p.Services); err != nil {
			return err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Engine applies patches to job cards
type Engine struct {
	policy Policy
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithPolicy sets the transition policy (default AllowAll)
func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a lifecycle engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		policy: AllowAll{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Allowed reports whether a job card may move from one status to another.
// Keeping the same status is always allowed.
func (e *Engine) Allowed(from, to domain.JobStatus) bool {
	return from == to || e.policy.Allowed(from, to)
}

// ApplyUpdate returns a copy of jc with the patch applied and UpdatedAt advanced.
// The input job card is not modified.
func (e *Engine) ApplyUpdate(jc domain.JobCard, p Patch) (domain.JobCard, error) {
	if err := p.Validate(); err != nil {
		return jc, err
	}
	if p.Status != nil && !e.Allowed(jc.Status, *p.Status) {
		return jc, fmt.Errorf("%w: %s -> %s", domain.ErrTransitionNotAllowed, jc.Status, *p.Status)
	}

	updated := jc.Clone()
	if p.Status != nil {
		updated.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		updated.PaymentStatus = *p.PaymentStatus
	}
	if p.ServiceNotes != nil {
		updated.ServiceNotes = *p.ServiceNotes
	}
	if p.Services != nil {
		updated.Services = make([]domain.ServiceLine, len(p.Services))
		copy(updated.Services, p.Services)
		for i := range updated.Services {
			if updated.Services[i].ID == "" {
				updated.Services[i].ID = domain.NewUID()
			}
		}
	}
	updated.Recalculate()
	updated.UpdatedAt = e.stamp(jc)

	return updated, nil
}

// stamp returns a timestamp strictly after the previous update and never before creation
func (e *Engine) stamp(jc domain.JobCard) time.Time {
	now := e.now()
	if !jc.UpdatedAt.IsZero() && !now.After(jc.UpdatedAt) {
		now = jc.UpdatedAt.Add(time.Millisecond)
	}
	if now.Before(jc.CreatedAt) {
		now = jc.CreatedAt
	}
	return now
}

// ShouldNotify returns the notification intent triggered by moving from previous
// to updated. Completion wins over a payment reminder; at most one intent fires.
func ShouldNotify(previous, updated domain.JobCard) (Intent, bool) {
	if updated.Status == domain.JobStatusCompleted && previous.Status != domain.JobStatusCompleted {
		return IntentCompletion, true
	}
	if updated.Status == domain.JobStatusAwaitingPayment && previous.Status != domain.JobStatusAwaitingPayment {
		return IntentPaymentReminder, true
	}
	return "", false
}
