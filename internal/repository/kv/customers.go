package kv

import (
	"context"
	"strings"

	"garagepro/internal/domain"
)

// CustomerRepo implements repository.CustomerRepository
type CustomerRepo struct {
	s *Store
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Mobile = strings.TrimSpace(c.Mobile)
	if err := domain.ValidateCustomer(c); err != nil {
		return err
	}

	col := r.s.customers
	return col.update(ctx, func(items []domain.Customer) ([]domain.Customer, error) {
		c.ID = domain.CustomerIDs.Next(col.ids(items))
		c.UID = domain.NewUID()
		c.CreatedAt = r.s.now()
		return append(items, *c), nil
	})
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := r.s.customers.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("customer", id)
	}
	return c, nil
}

// Update overwrites the customer. ID, UID and CreatedAt are kept from the stored record.
func (r *CustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	if err := domain.ValidateCustomer(c); err != nil {
		return err
	}

	col := r.s.customers
	return col.update(ctx, func(items []domain.Customer) ([]domain.Customer, error) {
		i := col.indexOf(items, c.ID)
		if i < 0 {
			return nil, domain.NotFound("customer", c.ID)
		}
		c.UID = items[i].UID
		c.CreatedAt = items[i].CreatedAt
		items[i] = *c
		return items, nil
	})
}

// List returns customers whose name, mobile, email or id contains query
func (r *CustomerRepo) List(ctx context.Context, query string) ([]domain.Customer, error) {
	items, err := r.s.customers.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(items))
	for _, c := range items {
		if matches(query, c.Name, c.Mobile, c.Email, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}
