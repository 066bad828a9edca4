// Package workshop coordinates repositories, the lifecycle engine, reports
// and message formatting for the HTTP handlers and the report scheduler.
package workshop

import (
	"context"
	"fmt"
	"sort"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/domain/notifications"
	"garagepro/internal/domain/payments"
	"garagepro/internal/lifecycle"
	"garagepro/internal/messages"
	"garagepro/internal/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Service is the application layer over the repositories
type Service struct {
	repos     *repository.Repositories
	engine    *lifecycle.Engine
	formatter *messages.Formatter
	sharer    notifications.Sharer
	logger    log.FieldLogger
	now       func() time.Time
}

// Config holds the collaborators of a Service
type Config struct {
	Repos     *repository.Repositories
	Engine    *lifecycle.Engine
	Formatter *messages.Formatter
	Sharer    notifications.Sharer
	Logger    log.FieldLogger
	Now       func() time.Time
}

// New creates a workshop service
func New(cfg Config) *Service {
	s := &Service{
		repos:     cfg.Repos,
		engine:    cfg.Engine,
		formatter: cfg.Formatter,
		sharer:    cfg.Sharer,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if s.engine == nil {
		s.engine = lifecycle.NewEngine()
	}
	if s.sharer == nil {
		s.sharer = notifications.NewCompositeSharer()
	}
	if s.logger == nil {
		s.logger = log.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Repos exposes the repositories for plain CRUD handlers
func (s *Service) Repos() *repository.Repositories {
	return s.repos
}

// Formatter exposes the message formatter
func (s *Service) Formatter() *messages.Formatter {
	return s.formatter
}

// JobCardInput is the data entered on the new job card form
type JobCardInput struct {
	CustomerID              string               `json:"customerId"`
	VehicleID               string               `json:"vehicleId"`
	AssignedMechanicID      string               `json:"assignedMechanicId,omitempty"`
	ServiceIDs              []string             `json:"serviceIds,omitempty"`
	Services                []domain.ServiceLine `json:"services,omitempty"`
	OdometerReading         int                  `json:"odometerReadingAtService"`
	FuelLevel               string               `json:"fuelLevel"`
	ServiceNotes            string               `json:"serviceNotes,omitempty"`
	Status                  domain.JobStatus     `json:"status,omitempty"`
	PaymentStatus           payments.Status      `json:"paymentStatus,omitempty"`
	DateOfService           *time.Time           `json:"dateOfService,omitempty"`
	EstimatedCompletionDate *time.Time           `json:"estimatedCompletionDate,omitempty"`
}

// CreateJobCard snapshots the customer, vehicle, mechanic and catalog
// services onto a new job card and raises the vehicle's odometer reading.
func (s *Service) CreateJobCard(ctx context.Context, in JobCardInput) (*domain.JobCard, error) {
	jc := domain.JobCard{
		CustomerID:               in.CustomerID,
		VehicleID:                in.VehicleID,
		AssignedMechanicID:       in.AssignedMechanicID,
		Status:                   in.Status,
		PaymentStatus:            in.PaymentStatus,
		OdometerReadingAtService: in.OdometerReading,
		FuelLevel:                in.FuelLevel,
		ServiceNotes:             in.ServiceNotes,
		EstimatedCompletionDate:  in.EstimatedCompletionDate,
	}
	if in.DateOfService != nil {
		jc.DateOfService = *in.DateOfService
	}

	if err := s.snapshot(ctx, &jc); err != nil {
		return nil, err
	}

	for _, id := range in.ServiceIDs {
		svc, err := s.repos.Services.GetByID(ctx, id)
		if err != nil {
			if domain.IsNotFound(err) {
				return nil, domain.Invalid("serviceIds", fmt.Sprintf("Service %s not found", id))
			}
			return nil, err
		}
		jc.Services = append(jc.Services, svc.Line(domain.NewUID()))
	}
	jc.Services = append(jc.Services, in.Services...)

	if err := s.repos.JobCards.Create(ctx, &jc); err != nil {
		return nil, err
	}

	if jc.OdometerReadingAtService > 0 {
		if err := s.repos.Vehicles.UpdateOdometer(ctx, jc.VehicleID, jc.OdometerReadingAtService); err != nil {
			s.logger.WithError(err).WithField("vehicle_id", jc.VehicleID).Warn("Failed to update odometer reading")
		}
	}

	s.logger.WithFields(log.Fields{
		"job_card_id": jc.ID,
		"customer_id": jc.CustomerID,
		"total":       jc.TotalAmount.String(),
	}).Info("Job card created")

	return &jc, nil
}

func (s *Service) snapshotCustomer(ctx context.Context, jc *domain.JobCard) error {
	c, err := s.repos.Customers.GetByID(ctx, jc.CustomerID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Invalid("customerId", "Customer not found")
		}
		return err
	}
	jc.CustomerName = c.Name
	return nil
}

func (s *Service) snapshotVehicle(ctx context.Context, jc *domain.JobCard) error {
	v, err := s.repos.Vehicles.GetByID(ctx, jc.VehicleID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Invalid("vehicleId", "Vehicle not found")
		}
		return err
	}
	jc.VehicleMake = v.Make
	jc.VehicleModel = v.Model
	jc.VehicleReg = v.RegistrationNumber
	return nil
}

func (s *Service) snapshotMechanic(ctx context.Context, jc *domain.JobCard) error {
	jc.AssignedMechanicName = ""
	if jc.AssignedMechanicID == "" {
		return nil
	}
	m, err := s.repos.Mechanics.GetByID(ctx, jc.AssignedMechanicID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Invalid("assignedMechanicId", "Mechanic not found")
		}
		return err
	}
	jc.AssignedMechanicName = m.Name
	return nil
}

// snapshot copies the display fields of the referenced records onto jc.
// Missing ids are left to validation.
func (s *Service) snapshot(ctx context.Context, jc *domain.JobCard) error {
	if jc.CustomerID != "" {
		if err := s.snapshotCustomer(ctx, jc); err != nil {
			return err
		}
	}
	if jc.VehicleID != "" {
		if err := s.snapshotVehicle(ctx, jc); err != nil {
			return err
		}
	}
	return s.snapshotMechanic(ctx, jc)
}

// UpdateJobCard overwrites a job card. Snapshots are kept unless the
// customer, vehicle or mechanic reference changes.
func (s *Service) UpdateJobCard(ctx context.Context, jc *domain.JobCard) error {
	current, err := s.repos.JobCards.GetByID(ctx, jc.ID)
	if err != nil {
		return err
	}
	if jc.Status != "" && !s.engine.Allowed(current.Status, jc.Status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrTransitionNotAllowed, current.Status, jc.Status)
	}

	if jc.CustomerID == current.CustomerID {
		jc.CustomerName = current.CustomerName
	} else if err := s.snapshotCustomer(ctx, jc); err != nil {
		return err
	}

	if jc.VehicleID == current.VehicleID {
		jc.VehicleMake = current.VehicleMake
		jc.VehicleModel = current.VehicleModel
		jc.VehicleReg = current.VehicleReg
	} else if err := s.snapshotVehicle(ctx, jc); err != nil {
		return err
	}

	if jc.AssignedMechanicID == current.AssignedMechanicID {
		jc.AssignedMechanicName = current.AssignedMechanicName
	} else if err := s.snapshotMechanic(ctx, jc); err != nil {
		return err
	}

	return s.repos.JobCards.Update(ctx, jc)
}

// QuickUpdateResult is the outcome of a quick status update
type QuickUpdateResult struct {
	JobCard domain.JobCard   `json:"jobCard"`
	Notify  bool             `json:"notify"`
	Intent  lifecycle.Intent `json:"intent,omitempty"`
	Message string           `json:"message,omitempty"`
}

// QuickUpdate applies a lifecycle patch and prepares the notification
// message when the new status calls for one.
func (s *Service) QuickUpdate(ctx context.Context, id string, p lifecycle.Patch) (*QuickUpdateResult, error) {
	before, after, err := s.repos.JobCards.Modify(ctx, id, func(jc domain.JobCard) (domain.JobCard, error) {
		return s.engine.ApplyUpdate(jc, p)
	})
	if err != nil {
		return nil, err
	}

	res := &QuickUpdateResult{JobCard: after}
	if intent, ok := lifecycle.ShouldNotify(before, after); ok {
		msg, err := s.formatter.JobCard(intent, after)
		if err != nil {
			return nil, fmt.Errorf("failed to format %s message: %w", intent, err)
		}
		res.Notify = true
		res.Intent = intent
		res.Message = msg
	}

	s.logger.WithFields(log.Fields{
		"job_card_id": id,
		"from":        before.Status,
		"to":          after.Status,
		"payment":     after.PaymentStatus,
		"notify":      res.Notify,
	}).Info("Job card updated")

	return res, nil
}

// JobCardMessage renders the message for a stored job card
func (s *Service) JobCardMessage(ctx context.Context, id string, intent lifecycle.Intent) (string, error) {
	jc, err := s.repos.JobCards.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.formatter.JobCard(intent, *jc)
}

// PrepareShare formats the job card message and builds its share link. An
// empty phone falls back to the customer's mobile number.
func (s *Service) PrepareShare(ctx context.Context, id, phone string, intent lifecycle.Intent) (notifications.Share, error) {
	jc, err := s.repos.JobCards.GetByID(ctx, id)
	if err != nil {
		return notifications.Share{}, err
	}
	if phone == "" {
		if c, err := s.repos.Customers.GetByID(ctx, jc.CustomerID); err == nil {
			phone = c.Mobile
		}
	}

	msg, err := s.formatter.JobCard(intent, *jc)
	if err != nil {
		return notifications.Share{}, err
	}
	share, err := notifications.NewShare(string(intent), jc.ID, phone, msg)
	if err != nil {
		return notifications.Share{}, err
	}
	share.CreatedAt = s.now()
	return share, nil
}

// ShareJobCard prepares the share and hands it to the sharer. Sharer
// failures are logged, the link is still returned.
func (s *Service) ShareJobCard(ctx context.Context, id, phone string, intent lifecycle.Intent) (notifications.Share, error) {
	share, err := s.PrepareShare(ctx, id, phone, intent)
	if err != nil {
		return notifications.Share{}, err
	}
	if err := s.sharer.Share(ctx, share); err != nil {
		s.logger.WithError(err).WithField("job_card_id", id).Warn("Share publication failed")
	}
	return share, nil
}

// VehicleHistory returns the vehicle's job cards, newest service first
func (s *Service) VehicleHistory(ctx context.Context, vehicleID string) ([]domain.JobCard, error) {
	if _, err := s.repos.Vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	jobs, err := s.repos.JobCards.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].DateOfService.After(jobs[j].DateOfService)
	})
	return jobs, nil
}

// MechanicWorkload is a mechanic with the number of open job cards
type MechanicWorkload struct {
	domain.Mechanic
	ActiveJobs int `json:"activeJobs"`
}

// Mechanic returns the mechanic with their active job card count
func (s *Service) Mechanic(ctx context.Context, id string) (*MechanicWorkload, error) {
	m, err := s.repos.Mechanics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repos.JobCards.List(ctx, repository.JobCardFilter{MechanicID: id})
	if err != nil {
		return nil, err
	}
	w := &MechanicWorkload{Mechanic: *m}
	for i := range jobs {
		if jobs[i].IsActive() {
			w.ActiveJobs++
		}
	}
	return w, nil
}

// StockAlerts lists items at or below their threshold
type StockAlerts struct {
	LowStock   []domain.InventoryItem `json:"lowStock"`
	OutOfStock []domain.InventoryItem `json:"outOfStock"`
	Summary    string                 `json:"summary"`
}

// InventoryAlerts returns the low stock items and a one-line summary
func (s *Service) InventoryAlerts(ctx context.Context) (*StockAlerts, error) {
	items, err := s.repos.Inventory.List(ctx)
	if err != nil {
		return nil, err
	}
	a := &StockAlerts{LowStock: []domain.InventoryItem{}, OutOfStock: []domain.InventoryItem{}}
	for i := range items {
		if items[i].IsLowStock() {
			a.LowStock = append(a.LowStock, items[i])
		}
		if items[i].IsOutOfStock() {
			a.OutOfStock = append(a.OutOfStock, items[i])
		}
	}
	a.Summary = stockSummary(len(a.LowStock))
	return a, nil
}

func stockSummary(n int) string {
	switch n {
	case 0:
		return "No inventory items are below minimum stock levels."
	case 1:
		return "1 item is below minimum stock levels."
	}
	return fmt.Sprintf("%d items are below minimum stock levels.", n)
}

// ServiceCategory groups catalog services
type ServiceCategory struct {
	Category string           `json:"category"`
	Services []domain.Service `json:"services"`
}

// ServiceCategories groups the catalog by category in first-seen order
func (s *Service) ServiceCategories(ctx context.Context) ([]ServiceCategory, error) {
	services, err := s.repos.Services.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []ServiceCategory{}
	index := map[string]int{}
	for _, svc := range services {
		cat := svc.Category
		if cat == "" {
			cat = "Other"
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, ServiceCategory{Category: cat})
		}
		out[i].Services = append(out[i].Services, svc)
	}
	return out, nil
}

// Dashboard is the overview shown on the home screen
type Dashboard struct {
	Customers       int                      `json:"customers"`
	Vehicles        int                      `json:"vehicles"`
	JobCards        int                      `json:"jobCards"`
	ByStatus        map[domain.JobStatus]int `json:"byStatus"`
	PendingPayments decimal.Decimal          `json:"pendingPayments"`
	LowStockItems   int                      `json:"lowStockItems"`
	RecentJobCards  []domain.JobCard         `json:"recentJobCards"`
}

const recentJobCards = 5

// Dashboard counts records and lists the most recently updated job cards
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	customers, err := s.repos.Customers.List(ctx, "")
	if err != nil {
		return nil, err
	}
	vehicles, err := s.repos.Vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repos.JobCards.List(ctx, repository.JobCardFilter{})
	if err != nil {
		return nil, err
	}
	alerts, err := s.InventoryAlerts(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Customers:       len(customers),
		Vehicles:        len(vehicles),
		JobCards:        len(jobs),
		ByStatus:        make(map[domain.JobStatus]int, len(domain.JobStatuses)),
		PendingPayments: decimal.Zero,
		LowStockItems:   len(alerts.LowStock),
	}
	for _, st := range domain.JobStatuses {
		d.ByStatus[st] = 0
	}
	for _, jc := range jobs {
		d.ByStatus[jc.Status]++
		if jc.PaymentStatus.Outstanding() {
			d.PendingPayments = d.PendingPayments.Add(jc.TotalAmount)
		}
	}

	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].UpdatedAt.After(jobs[j].UpdatedAt) })
	if len(jobs) > recentJobCards {
		jobs = jobs[:recentJobCards]
	}
	d.RecentJobCards = jobs

	return d, nil
}
