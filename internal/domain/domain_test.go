package domain

import (
	"errors"
	"testing"
	"time"

	"garagepro/internal/domain/payments"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_Label(t *testing.T) {
	tests := []struct {
		status   JobStatus
		expected string
	}{
		{JobStatusPending, "Pending"},
		{JobStatusInProgress, "In Progress"},
		{JobStatusCompleted, "Completed"},
		{JobStatusAwaitingPayment, "Awaiting Payment"},
		{JobStatusCancelled, "Cancelled"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.Label())
			assert.True(t, tt.status.Valid())
		})
	}

	assert.False(t, JobStatus("done").Valid())
}

func TestPaymentStatus(t *testing.T) {
	assert.Equal(t, "Partially Paid", payments.StatusPartiallyPaid.Label())
	assert.Equal(t, "Unpaid", payments.StatusUnpaid.Label())
	assert.True(t, payments.StatusUnpaid.Outstanding())
	assert.True(t, payments.StatusPartiallyPaid.Outstanding())
	assert.False(t, payments.StatusPaid.Outstanding())
	assert.False(t, payments.Status("refunded").Valid())
}

func TestJobCard_Recalculate(t *testing.T) {
	jc := JobCard{
		Services: []ServiceLine{
			{Description: "Oil change", Cost: decimal.NewFromInt(450)},
			{Description: "Chain lube", Cost: decimal.RequireFromString("149.50")},
		},
	}
	jc.Recalculate()
	assert.True(t, jc.TotalAmount.Equal(decimal.RequireFromString("599.50")), jc.TotalAmount.String())

	jc.Services = nil
	jc.Recalculate()
	assert.True(t, jc.TotalAmount.IsZero())
}

func TestJobCard_CloneDoesNotShareServices(t *testing.T) {
	eta := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	jc := JobCard{
		Services:                []ServiceLine{{Description: "Wash", Cost: decimal.NewFromInt(100)}},
		EstimatedCompletionDate: &eta,
	}
	cp := jc.Clone()
	cp.Services[0].Description = "Polish"
	*cp.EstimatedCompletionDate = eta.AddDate(0, 0, 1)

	assert.Equal(t, "Wash", jc.Services[0].Description)
	assert.Equal(t, eta, *jc.EstimatedCompletionDate)
}

func TestInventoryItem_StockLevels(t *testing.T) {
	tests := []struct {
		name       string
		qty, limit int
		low, out   bool
	}{
		{"above threshold", 10, 5, false, false},
		{"at threshold", 5, 5, true, false},
		{"below threshold", 2, 5, true, false},
		{"empty", 0, 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := InventoryItem{StockQuantity: tt.qty, LowStockThreshold: tt.limit}
			assert.Equal(t, tt.low, item.IsLowStock())
			assert.Equal(t, tt.out, item.IsOutOfStock())
		})
	}
}

func TestIDFormat(t *testing.T) {
	assert.Equal(t, "CUST-0007", CustomerIDs.Format(7))
	assert.Equal(t, "JC-00042", JobCardIDs.Format(42))
	assert.Equal(t, "INV-12345", InventoryIDs.Format(12345))

	n, ok := JobCardIDs.Parse("JC-00042")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = JobCardIDs.Parse("CUST-0001")
	assert.False(t, ok)
	_, ok = JobCardIDs.Parse("JC-abc")
	assert.False(t, ok)
}

func TestIDFormat_Next(t *testing.T) {
	assert.Equal(t, "CUST-0001", CustomerIDs.Next(nil))
	assert.Equal(t, "CUST-0010", CustomerIDs.Next([]string{"CUST-0003", "CUST-0009", "legacy"}))
	assert.Equal(t, "VEH-10000", VehicleIDs.Next([]string{"VEH-9999"}))
}

func TestNewUID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestValidateCustomer(t *testing.T) {
	err := ValidateCustomer(&Customer{Name: "A", Mobile: "123", Email: "not-an-email"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	msgs := map[string]string{}
	for _, v := range verrs {
		msgs[v.Field] = v.Message
	}
	assert.Equal(t, "Name must be at least 2 characters", msgs["name"])
	assert.Equal(t, "Mobile number is required", msgs["mobile"])
	assert.Equal(t, "Invalid email address", msgs["email"])

	assert.NoError(t, ValidateCustomer(&Customer{Name: "Asha Rao", Mobile: "9876543210"}))
}

func TestValidateVehicle(t *testing.T) {
	err := ValidateVehicle(&Vehicle{CustomerID: "CUST-0001", Make: "Honda", Model: "Activa", Year: "21", RegistrationNumber: "KA01AB1234"})
	require.Error(t, err)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "year", verrs[0].Field)
	assert.Equal(t, "Year must be 4 digits", verrs[0].Message)

	assert.NoError(t, ValidateVehicle(&Vehicle{CustomerID: "CUST-0001", Make: "Honda", Model: "Activa", Year: "2021", RegistrationNumber: "KA01AB1234"}))
}

func TestValidateInventoryItem_NegativePrices(t *testing.T) {
	err := ValidateInventoryItem(&InventoryItem{
		PartName:      "Brake pad",
		PurchasePrice: decimal.NewFromInt(-1),
		SellingPrice:  decimal.NewFromInt(10),
	})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "purchasePrice", verrs[0].Field)
}

func TestValidateServiceLines(t *testing.T) {
	err := ValidateServiceLines([]ServiceLine{{Description: "", Cost: decimal.NewFromInt(-5)}})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 1)
	assert.Equal(t, "serviceDescription", verrs[0].Field)

	assert.NoError(t, ValidateServiceLines([]ServiceLine{{Description: "Tune-up", Cost: decimal.NewFromInt(800)}}))
}

func TestVehicle_NormalizedRegistration(t *testing.T) {
	a := Vehicle{RegistrationNumber: "ka 01-ab 1234"}
	b := Vehicle{RegistrationNumber: "KA01AB1234"}
	assert.Equal(t, a.NormalizedRegistration(), b.NormalizedRegistration())
}

func TestErrors(t *testing.T) {
	err := NotFound("job card", "JC-00001")
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "job card JC-00001 not found")
	assert.False(t, IsNotFound(errors.New("boom")))

	assert.Contains(t, (&ShareTargetError{Phone: "123"}).Error(), "at least 10 digits")
}

func TestReportSchedule_Clock(t *testing.T) {
	h, m, err := DefaultReportSchedule.Clock()
	require.NoError(t, err)
	assert.Equal(t, 18, h)
	assert.Equal(t, 0, m)

	h, m, err = ReportSchedule{Time: "07:45"}.Clock()
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	_, _, err = ReportSchedule{Time: "25:00"}.Clock()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "time", verrs[0].Field)
}

func TestValidateJobCard(t *testing.T) {
	jc := &JobCard{
		Status:        JobStatus("done"),
		PaymentStatus: payments.StatusUnpaid,
		Services:      []ServiceLine{{Description: "Wash", Cost: decimal.NewFromInt(-1)}},
	}
	err := ValidateJobCard(jc)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]bool{}
	for _, v := range verrs {
		fields[v.Field] = true
	}
	assert.True(t, fields["customerId"])
	assert.True(t, fields["vehicleId"])
	assert.True(t, fields["status"])
	assert.True(t, fields["serviceCost"])
	assert.False(t, fields["paymentStatus"])

	ok := &JobCard{CustomerID: "CUST-0001", VehicleID: "VEH-0001", Status: JobStatusPending, PaymentStatus: payments.StatusPaid}
	assert.NoError(t, ValidateJobCard(ok))
}
