// Package domain defines core business entities
package domain

import (
	"strings"
	"time"

	"garagepro/internal/domain/payments"

	"github.com/shopspring/decimal"
)

// Customer represents a garage customer
type Customer struct {
	ID         string    `json:"id"`
	UID        string    `json:"uid"`
	Name       string    `json:"name" validate:"min=2"`
	Mobile     string    `json:"mobile" validate:"min=6"`
	Email      string    `json:"email,omitempty" validate:"omitempty,email"`
	AltContact string    `json:"altContact,omitempty"`
	Address    string    `json:"address,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Vehicle represents a customer's vehicle
type Vehicle struct {
	ID                  string    `json:"id"`
	UID                 string    `json:"uid"`
	CustomerID          string    `json:"customerId" validate:"required"`
	Make                string    `json:"make" validate:"required"`
	Model               string    `json:"model" validate:"required"`
	Year                string    `json:"year" validate:"len=4,numeric"`
	RegistrationNumber  string    `json:"registrationNumber" validate:"required"`
	EngineNumber        string    `json:"engineNumber,omitempty"`
	ChassisNumber       string    `json:"chassisNumber,omitempty"`
	LastOdometerReading int       `json:"lastOdometerReading" validate:"gte=0"`
	FuelType            string    `json:"fuelType,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

// NormalizedRegistration returns the registration number without spaces or
// dashes, upper-cased, for uniqueness checks.
func (v *Vehicle) NormalizedRegistration() string {
	return normalizeRegistration(v.RegistrationNumber)
}

func normalizeRegistration(reg string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(reg) {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ServiceLine is a service recorded against a specific job card. It is a
// snapshot and does not follow later changes to the catalog.
type ServiceLine struct {
	ID            string          `json:"id"`
	Description   string          `json:"serviceDescription" validate:"required"`
	Cost          decimal.Decimal `json:"serviceCost"`
	EstimatedTime string          `json:"estimatedTime,omitempty"`
	Category      string          `json:"category,omitempty"`
}

// JobCard represents one service visit for one vehicle
type JobCard struct {
	ID                       string          `json:"id"`
	UID                      string          `json:"uid"`
	CustomerID               string          `json:"customerId" validate:"required"`
	CustomerName             string          `json:"customerName"`
	VehicleID                string          `json:"vehicleId" validate:"required"`
	VehicleMake              string          `json:"vehicleMake"`
	VehicleModel             string          `json:"vehicleModel"`
	VehicleReg               string          `json:"vehicleReg"`
	Status                   JobStatus       `json:"status"`
	PaymentStatus            payments.Status `json:"paymentStatus"`
	Services                 []ServiceLine   `json:"services"`
	TotalAmount              decimal.Decimal `json:"totalAmount"`
	OdometerReadingAtService int             `json:"odometerReadingAtService" validate:"gte=0"`
	FuelLevel                string          `json:"fuelLevel"`
	ServiceNotes             string          `json:"serviceNotes,omitempty"`
	DateOfService            time.Time       `json:"dateOfService"`
	EstimatedCompletionDate  *time.Time      `json:"estimatedCompletionDate,omitempty"`
	AssignedMechanicID       string          `json:"assignedMechanicId,omitempty"`
	AssignedMechanicName     string          `json:"assignedMechanicName,omitempty"`
	CreatedAt                time.Time       `json:"createdAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

// SumServices returns the total cost of the given service lines
func SumServices(lines []ServiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Cost)
	}
	return total
}

// Recalculate refreshes the derived total amount from the service lines
func (j *JobCard) Recalculate() {
	j.TotalAmount = SumServices(j.Services)
}

// Clone returns a copy of the job card that shares no mutable state with j
func (j JobCard) Clone() JobCard {
	if j.Services != nil {
		lines := make([]ServiceLine, len(j.Services))
		copy(lines, j.Services)
		j.Services = lines
	}
	if j.EstimatedCompletionDate != nil {
		d := *j.EstimatedCompletionDate
		j.EstimatedCompletionDate = &d
	}
	return j
}

// IsActive reports whether work on the job card is still open
func (j *JobCard) IsActive() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusInProgress
}

// InventoryItem represents a stocked part
type InventoryItem struct {
	ID                string          `json:"id"`
	UID               string          `json:"uid"`
	PartName          string          `json:"partName" validate:"required"`
	PartNumber        string          `json:"partNumber,omitempty"`
	Category          string          `json:"category,omitempty"`
	StockQuantity     int             `json:"stockQuantity" validate:"gte=0"`
	LowStockThreshold int             `json:"lowStockThreshold" validate:"gte=0"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	Description       string          `json:"description,omitempty"`
	Location          string          `json:"location,omitempty"`
}

// IsLowStock reports whether the item is at or below its reorder threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.StockQuantity <= i.LowStockThreshold
}

// IsOutOfStock reports whether no units are left
func (i *InventoryItem) IsOutOfStock() bool {
	return i.StockQuantity == 0
}

// Service represents an offering in the garage's price list
type Service struct {
	ID            string          `json:"id"`
	UID           string          `json:"uid"`
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	EstimatedTime string          `json:"estimatedTime"`
	Category      string          `json:"category"`
}

// Line snapshots the catalog service as a job card service line
func (s *Service) Line(lineID string) ServiceLine {
	return ServiceLine{
		ID:            lineID,
		Description:   s.Name,
		Cost:          s.Price,
		EstimatedTime: s.EstimatedTime,
		Category:      s.Category,
	}
}

// Mechanic represents a workshop mechanic
type Mechanic struct {
	ID             string    `json:"id"`
	UID            string    `json:"uid"`
	Name           string    `json:"name" validate:"min=2"`
	Phone          string    `json:"phone,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ReportSchedule holds the daily report delivery preferences
type ReportSchedule struct {
	Enabled     bool   `json:"enabled"`
	Time        string `json:"time"`
	PhoneNumber string `json:"phoneNumber"`
}

// DefaultReportSchedule is used until the owner saves a schedule
var DefaultReportSchedule = ReportSchedule{Time: "18:00"}

// Clock parses the HH:MM delivery time
func (s ReportSchedule) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", s.Time)
	if err != nil {
		return 0, 0, Invalid("time", "Time must be in HH:MM format")
	}
	return t.Hour(), t.Minute(), nil
}

// JobStatus is the work state of a job card
type JobStatus string

// Job card statuses
const (
	JobStatusPending         JobStatus = "pending"
	JobStatusInProgress      JobStatus = "in-progress"
	JobStatusCompleted       JobStatus = "completed"
	JobStatusAwaitingPayment JobStatus = "awaiting-payment"
	JobStatusCancelled       JobStatus = "cancelled"
)

// JobStatuses lists every job card status in display order
var JobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusAwaitingPayment,
	JobStatusCancelled,
}

// Valid reports whether s is a known status
func (s JobStatus) Valid() bool {
	for _, known := range JobStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the status
func (s JobStatus) Label() string {
	switch s {
	case JobStatusInProgress:
		return "In Progress"
	case JobStatusAwaitingPayment:
		return "Awaiting Payment"
	case "":
		return ""
	default:
		str := string(s)
		return strings.ToUpper(str[:1]) + str[1:]
	}
}

// Settings keys stored alongside the entity collections
const (
	SettingsGeneral        = "generalSettings"
	SettingsAppearance     = "appearanceSettings"
	SettingsNotification   = "notificationSettings"
	SettingsSecurity       = "securitySettings"
	SettingsBilling        = "billingSettings"
	SettingsGarageDetails  = "garageDetails"
	SettingsReportSchedule = "reportSchedule"
)

// OpaqueSettingsKeys are the settings blobs the service stores without interpreting
var OpaqueSettingsKeys = []string{
	SettingsGeneral,
	SettingsAppearance,
	SettingsNotification,
	SettingsSecurity,
	SettingsBilling,
	SettingsGarageDetails,
}
