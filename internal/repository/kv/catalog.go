package kv

import (
	"context"

	"garagepro/internal/domain"
)

// InventoryRepo implements repository.InventoryRepository
type InventoryRepo struct {
	s *Store
}

func (r *InventoryRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	if err := domain.ValidateInventoryItem(item); err != nil {
		return err
	}
	col := r.s.inventory
	return col.update(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, error) {
		item.ID = domain.InventoryIDs.Next(col.ids(items))
		item.UID = domain.NewUID()
		return append(items, *item), nil
	})
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := r.s.inventory.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("inventory item", id)
	}
	return item, nil
}

func (r *InventoryRepo) Update(ctx context.Context, item *domain.InventoryItem) error {
	if err := domain.ValidateInventoryItem(item); err != nil {
		return err
	}
	col := r.s.inventory
	return col.update(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, error) {
		i := col.indexOf(items, item.ID)
		if i < 0 {
			return nil, domain.NotFound("inventory item", item.ID)
		}
		item.UID = items[i].UID
		items[i] = *item
		return items, nil
	})
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	col := r.s.inventory
	return col.update(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, error) {
		i := col.indexOf(items, id)
		if i < 0 {
			return nil, domain.NotFound("inventory item", id)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (r *InventoryRepo) List(ctx context.Context) ([]domain.InventoryItem, error) {
	return r.s.inventory.all(ctx)
}

// ServiceRepo implements repository.ServiceRepository
type ServiceRepo struct {
	s *Store
}

func (r *ServiceRepo) Create(ctx context.Context, svc *domain.Service) error {
	if err := domain.ValidateService(svc); err != nil {
		return err
	}
	col := r.s.services
	return col.update(ctx, func(items []domain.Service) ([]domain.Service, error) {
		svc.ID = domain.ServiceIDs.Next(col.ids(items))
		svc.UID = domain.NewUID()
		return append(items, *svc), nil
	})
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	svc, err := r.s.services.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.NotFound("service", id)
	}
	return svc, nil
}

func (r *ServiceRepo) Update(ctx context.Context, svc *domain.Service) error {
	if err := domain.ValidateService(svc); err != nil {
		return err
	}
	col := r.s.services
	return col.update(ctx, func(items []domain.Service) ([]domain.Service, error) {
		i := col.indexOf(items, svc.ID)
		if i < 0 {
			return nil, domain.NotFound("service", svc.ID)
		}
		svc.UID = items[i].UID
		items[i] = *svc
		return items, nil
	})
}

func (r *ServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	return r.s.services.all(ctx)
}

// MechanicRepo implements repository.MechanicRepository
type MechanicRepo struct {
	s *Store
}

func (r *MechanicRepo) Create(ctx context.Context, m *domain.Mechanic) error {
	if err := domain.ValidateMechanic(m); err != nil {
		return err
	}
	col := r.s.mechanics
	return col.update(ctx, func(items []domain.Mechanic) ([]domain.Mechanic, error) {
		m.ID = domain.MechanicIDs.Next(col.ids(items))
		m.UID = domain.NewUID()
		m.CreatedAt = r.s.now()
		return append(items, *m), nil
	})
}

func (r *MechanicRepo) GetByID(ctx context.Context, id string) (*domain.Mechanic, error) {
	m, err := r.s.mechanics.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("mechanic", id)
	}
	return m, nil
}

func (r *MechanicRepo) List(ctx context.Context, query string) ([]domain.Mechanic, error) {
	items, err := r.s.mechanics.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Mechanic, 0, len(items))
	for _, m := range items {
		if matches(query, m.Name, m.Phone, m.Specialization, m.ID) {
			out = append(out, m)
		}
	}
	return out, nil
}
