package kv

import (
	"strings"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/repository"
)

// Store holds one collection per entity key on a shared record store
type Store struct {
	records   repository.RecordStore
	now       func() time.Time
	customers *collection[domain.Customer]
	vehicles  *collection[domain.Vehicle]
	jobCards  *collection[domain.JobCard]
	inventory *collection[domain.InventoryItem]
	services  *collection[domain.Service]
	mechanics *collection[domain.Mechanic]
}

// New creates the collections. A nil now uses time.Now.
func New(records repository.RecordStore, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		records:   records,
		now:       now,
		customers: newCollection(records, repository.KeyCustomers, func(c *domain.Customer) string { return c.ID }),
		vehicles:  newCollection(records, repository.KeyVehicles, func(v *domain.Vehicle) string { return v.ID }),
		jobCards:  newCollection(records, repository.KeyJobCards, func(j *domain.JobCard) string { return j.ID }),
		inventory: newCollection(records, repository.KeyInventory, func(i *domain.InventoryItem) string { return i.ID }),
		services:  newCollection(records, repository.KeyServices, func(s *domain.Service) string { return s.ID }),
		mechanics: newCollection(records, repository.KeyMechanics, func(m *domain.Mechanic) string { return m.ID }),
	}
}

// NewRepositories builds every repository over records
func NewRepositories(records repository.RecordStore, now func() time.Time) *repository.Repositories {
	s := New(records, now)
	return &repository.Repositories{
		Customers: &CustomerRepo{s: s},
		Vehicles:  &VehicleRepo{s: s},
		JobCards:  &JobCardRepo{s: s},
		Inventory: &InventoryRepo{s: s},
		Services:  &ServiceRepo{s: s},
		Mechanics: &MechanicRepo{s: s},
		Settings:  &SettingsRepo{s: s},
	}
}

// matches reports whether any field contains query, ignoring case
func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
