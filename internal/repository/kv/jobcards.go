package kv

import (
	"context"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/domain/payments"
	"garagepro/internal/repository"
)

// JobCardRepo implements repository.JobCardRepository
type JobCardRepo struct {
	s *Store
}

// checkRefs verifies the customer exists and owns the vehicle
func (r *JobCardRepo) checkRefs(ctx context.Context, jc *domain.JobCard) error {
	c, err := r.s.customers.find(ctx, jc.CustomerID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.Invalid("customerId", "Customer not found")
	}
	v, err := r.s.vehicles.find(ctx, jc.VehicleID)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.Invalid("vehicleId", "Vehicle not found")
	}
	if v.CustomerID != jc.CustomerID {
		return domain.Invalid("vehicleId", "Vehicle does not belong to the customer")
	}
	return nil
}

// defaults fills the initial status values of a new job card
func defaults(jc *domain.JobCard) {
	if jc.Status == "" {
		jc.Status = domain.JobStatusPending
	}
	if jc.PaymentStatus == "" {
		jc.PaymentStatus = payments.StatusUnpaid
	}
}

func prepare(jc *domain.JobCard) {
	if jc.Services == nil {
		jc.Services = []domain.ServiceLine{}
	}
	for i := range jc.Services {
		if jc.Services[i].ID == "" {
			jc.Services[i].ID = domain.NewUID()
		}
	}
	jc.Recalculate()
}

// after returns now, or just past prev when the clock has not moved past it
func after(now, prev time.Time) time.Time {
	if !prev.IsZero() && !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}

func (r *JobCardRepo) Create(ctx context.Context, jc *domain.JobCard) error {
	defaults(jc)
	prepare(jc)
	if err := domain.ValidateJobCard(jc); err != nil {
		return err
	}
	if err := r.checkRefs(ctx, jc); err != nil {
		return err
	}

	col := r.s.jobCards
	return col.update(ctx, func(items []domain.JobCard) ([]domain.JobCard, error) {
		now := r.s.now()
		jc.ID = domain.JobCardIDs.Next(col.ids(items))
		jc.UID = domain.NewUID()
		jc.CreatedAt = now
		jc.UpdatedAt = now
		if jc.DateOfService.IsZero() {
			jc.DateOfService = now
		}
		return append(items, jc.Clone()), nil
	})
}

func (r *JobCardRepo) GetByID(ctx context.Context, id string) (*domain.JobCard, error) {
	jc, err := r.s.jobCards.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if jc == nil {
		return nil, domain.NotFound("job card", id)
	}
	return jc, nil
}

func (r *JobCardRepo) filter(ctx context.Context, keep func(*domain.JobCard) bool) ([]domain.JobCard, error) {
	items, err := r.s.jobCards.all(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.JobCard{}
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

func (r *JobCardRepo) GetByCustomerID(ctx context.Context, customerID string) ([]domain.JobCard, error) {
	return r.filter(ctx, func(jc *domain.JobCard) bool { return jc.CustomerID == customerID })
}

func (r *JobCardRepo) GetByVehicleID(ctx context.Context, vehicleID string) ([]domain.JobCard, error) {
	return r.filter(ctx, func(jc *domain.JobCard) bool { return jc.VehicleID == vehicleID })
}

// Update overwrites the job card and recomputes its total. ID, UID and
// CreatedAt are kept; UpdatedAt advances. Status values are required.
func (r *JobCardRepo) Update(ctx context.Context, jc *domain.JobCard) error {
	prepare(jc)
	if err := domain.ValidateJobCard(jc); err != nil {
		return err
	}
	if err := r.checkRefs(ctx, jc); err != nil {
		return err
	}

	col := r.s.jobCards
	return col.update(ctx, func(items []domain.JobCard) ([]domain.JobCard, error) {
		i := col.indexOf(items, jc.ID)
		if i < 0 {
			return nil, domain.NotFound("job card", jc.ID)
		}
		jc.UID = items[i].UID
		jc.CreatedAt = items[i].CreatedAt
		jc.UpdatedAt = after(r.s.now(), items[i].UpdatedAt)
		items[i] = jc.Clone()
		return items, nil
	})
}

func (r *JobCardRepo) Modify(ctx context.Context, id string, fn func(domain.JobCard) (domain.JobCard, error)) (domain.JobCard, domain.JobCard, error) {
	var before, updated domain.JobCard

	col := r.s.jobCards
	err := col.update(ctx, func(items []domain.JobCard) ([]domain.JobCard, error) {
		i := col.indexOf(items, id)
		if i < 0 {
			return nil, domain.NotFound("job card", id)
		}
		before = items[i].Clone()

		next, err := fn(items[i].Clone())
		if err != nil {
			return nil, err
		}
		next.ID = before.ID
		next.UID = before.UID
		next.CreatedAt = before.CreatedAt
		updated = next
		items[i] = next.Clone()
		return items, nil
	})
	if err != nil {
		return domain.JobCard{}, domain.JobCard{}, err
	}
	return before, updated, nil
}

func (r *JobCardRepo) Delete(ctx context.Context, id string) error {
	col := r.s.jobCards
	return col.update(ctx, func(items []domain.JobCard) ([]domain.JobCard, error) {
		i := col.indexOf(items, id)
		if i < 0 {
			return nil, domain.NotFound("job card", id)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

// List returns job cards matching the filter in stored order
func (r *JobCardRepo) List(ctx context.Context, f repository.JobCardFilter) ([]domain.JobCard, error) {
	return r.filter(ctx, func(jc *domain.JobCard) bool {
		if f.Status != "" && jc.Status != f.Status {
			return false
		}
		if f.MechanicID != "" && jc.AssignedMechanicID != f.MechanicID {
			return false
		}
		return matches(f.Query, jc.ID, jc.CustomerName, jc.VehicleReg, jc.VehicleMake, jc.VehicleModel)
	})
}
