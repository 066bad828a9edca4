package kv

import (
	"context"
	"strings"

	"garagepro/internal/domain"
)

// VehicleRepo implements repository.VehicleRepository
type VehicleRepo struct {
	s *Store
}

func (r *VehicleRepo) checkCustomer(ctx context.Context, customerID string) error {
	c, err := r.s.customers.find(ctx, customerID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.Invalid("customerId", "Customer not found")
	}
	return nil
}

// checkRegistration fails when another vehicle already uses the registration number
func checkRegistration(items []domain.Vehicle, v *domain.Vehicle) error {
	reg := v.NormalizedRegistration()
	for i := range items {
		if items[i].ID != v.ID && items[i].NormalizedRegistration() == reg {
			return domain.Invalid("registrationNumber", "A vehicle with this registration number already exists")
		}
	}
	return nil
}

func (r *VehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	v.RegistrationNumber = strings.TrimSpace(v.RegistrationNumber)
	if err := domain.ValidateVehicle(v); err != nil {
		return err
	}
	if err := r.checkCustomer(ctx, v.CustomerID); err != nil {
		return err
	}

	col := r.s.vehicles
	return col.update(ctx, func(items []domain.Vehicle) ([]domain.Vehicle, error) {
		v.ID = ""
		if err := checkRegistration(items, v); err != nil {
			return nil, err
		}
		v.ID = domain.VehicleIDs.Next(col.ids(items))
		v.UID = domain.NewUID()
		v.CreatedAt = r.s.now()
		return append(items, *v), nil
	})
}

func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	v, err := r.s.vehicles.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFound("vehicle", id)
	}
	return v, nil
}

func (r *VehicleRepo) GetByCustomerID(ctx context.Context, customerID string) ([]domain.Vehicle, error) {
	items, err := r.s.vehicles.all(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Vehicle{}
	for _, v := range items {
		if v.CustomerID == customerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *VehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	v.RegistrationNumber = strings.TrimSpace(v.RegistrationNumber)
	if err := domain.ValidateVehicle(v); err != nil {
		return err
	}
	if err := r.checkCustomer(ctx, v.CustomerID); err != nil {
		return err
	}

	col := r.s.vehicles
	return col.update(ctx, func(items []domain.Vehicle) ([]domain.Vehicle, error) {
		i := col.indexOf(items, v.ID)
		if i < 0 {
			return nil, domain.NotFound("vehicle", v.ID)
		}
		if err := checkRegistration(items, v); err != nil {
			return nil, err
		}
		v.UID = items[i].UID
		v.CreatedAt = items[i].CreatedAt
		items[i] = *v
		return items, nil
	})
}

// UpdateOdometer raises the last odometer reading. Lower readings are ignored.
func (r *VehicleRepo) UpdateOdometer(ctx context.Context, id string, reading int) error {
	col := r.s.vehicles
	return col.update(ctx, func(items []domain.Vehicle) ([]domain.Vehicle, error) {
		i := col.indexOf(items, id)
		if i < 0 {
			return nil, domain.NotFound("vehicle", id)
		}
		if reading > items[i].LastOdometerReading {
			items[i].LastOdometerReading = reading
		}
		return items, nil
	})
}

func (r *VehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	return r.s.vehicles.all(ctx)
}
