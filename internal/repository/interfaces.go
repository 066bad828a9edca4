// Package repository defines interfaces for data persistence
package repository

import (
	"context"

	"garagepro/internal/domain"
)

// Collection keys in the record store
const (
	KeyCustomers = "customers"
	KeyVehicles  = "vehicles"
	KeyJobCards  = "jobcards"
	KeyInventory = "inventory"
	KeyServices  = "services"
	KeyMechanics = "mechanics"
)

// RecordStore persists JSON documents by key. Every backend replaces the whole
// value on Set; Get returns nil, nil for a key that was never written.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	List(ctx context.Context, query string) ([]domain.Customer, error)
}

// VehicleRepository defines the interface for vehicle data operations
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	UpdateOdometer(ctx context.Context, id string, reading int) error
	List(ctx context.Context) ([]domain.Vehicle, error)
}

// JobCardRepository defines the interface for job card data operations
type JobCardRepository interface {
	Create(ctx context.Context, jc *domain.JobCard) error
	GetByID(ctx context.Context, id string) (*domain.JobCard, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]domain.JobCard, error)
	GetByVehicleID(ctx context.Context, vehicleID string) ([]domain.JobCard, error)
	Update(ctx context.Context, jc *domain.JobCard) error
	// Modify applies fn to the stored card inside the collection lock and
	// persists the result. It returns the card before and after fn.
	Modify(ctx context.Context, id string, fn func(domain.JobCard) (domain.JobCard, error)) (before, after domain.JobCard, err error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter JobCardFilter) ([]domain.JobCard, error)
}

// JobCardFilter narrows a job card listing. Zero values match everything.
type JobCardFilter struct {
	Status     domain.JobStatus
	MechanicID string
	Query      string
}

// InventoryRepository defines the interface for inventory data operations
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.InventoryItem, error)
}

// ServiceRepository defines the interface for catalog service data operations
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	Update(ctx context.Context, service *domain.Service) error
	List(ctx context.Context) ([]domain.Service, error)
}

// MechanicRepository defines the interface for mechanic data operations
type MechanicRepository interface {
	Create(ctx context.Context, mechanic *domain.Mechanic) error
	GetByID(ctx context.Context, id string) (*domain.Mechanic, error)
	List(ctx context.Context, query string) ([]domain.Mechanic, error)
}

// SettingsRepository defines the interface for settings blobs
type SettingsRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	GetReportSchedule(ctx context.Context) (domain.ReportSchedule, error)
	SetReportSchedule(ctx context.Context, s domain.ReportSchedule) error
}

// Repositories holds all repository instances
type Repositories struct {
	Customers CustomerRepository
	Vehicles  VehicleRepository
	JobCards  JobCardRepository
	Inventory InventoryRepository
	Services  ServiceRepository
	Mechanics MechanicRepository
	Settings  SettingsRepository
}
