package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/domain/payments"
	"garagepro/internal/repository"
	"garagepro/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newRepos(t *testing.T) (*repository.Repositories, *memory.RecordStore) {
	t.Helper()
	store := memory.NewRecordStore()
	return NewRepositories(store, func() time.Time { return t0 }), store
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation error, got %v", err)
	return verrs[0].Field
}

func seedCustomerVehicle(t *testing.T, repos *repository.Repositories) (*domain.Customer, *domain.Vehicle) {
	t.Helper()
	ctx := context.Background()
	c := &domain.Customer{Name: "Asha Rao", Mobile: "9876543210"}
	require.NoError(t, repos.Customers.Create(ctx, c))
	v := &domain.Vehicle{CustomerID: c.ID, Make: "Honda", Model: "City", Year: "2021", RegistrationNumber: "KA01AB1234", LastOdometerReading: 12000}
	require.NoError(t, repos.Vehicles.Create(ctx, v))
	return c, v
}

func TestCustomerRepo_CreateAssignsSequentialIDs(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	a := &domain.Customer{Name: "Asha Rao", Mobile: "9876543210"}
	b := &domain.Customer{Name: "Ravi Kumar", Mobile: "9123456780"}
	require.NoError(t, repos.Customers.Create(ctx, a))
	require.NoError(t, repos.Customers.Create(ctx, b))

	assert.Equal(t, "CUST-0001", a.ID)
	assert.Equal(t, "CUST-0002", b.ID)
	assert.NotEqual(t, a.UID, b.UID)
	assert.Equal(t, t0, a.CreatedAt)

	got, err := repos.Customers.GetByID(ctx, "CUST-0002")
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", got.Name)
}

func TestCustomerRepo_ConcurrentCreatesNeverCollide(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repos.Customers.Create(ctx, &domain.Customer{Name: fmt.Sprintf("Customer %d", i), Mobile: "9876543210"}))
		}(i)
	}
	wg.Wait()

	all, err := repos.Customers.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 25)
	seen := map[string]bool{}
	for _, c := range all {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestCustomerRepo_UpdateKeepsIdentity(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	c := &domain.Customer{Name: "Asha Rao", Mobile: "9876543210"}
	require.NoError(t, repos.Customers.Create(ctx, c))
	uid := c.UID

	update := &domain.Customer{ID: c.ID, UID: "forged", Name: "Asha R.", Mobile: "9876543210"}
	require.NoError(t, repos.Customers.Update(ctx, update))

	got, err := repos.Customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha R.", got.Name)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, t0, got.CreatedAt)

	err = repos.Customers.Update(ctx, &domain.Customer{ID: "CUST-9999", Name: "Nobody", Mobile: "9876543210"})
	assert.True(t, domain.IsNotFound(err))
}

func TestCustomerRepo_List(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.Customers.Create(ctx, &domain.Customer{Name: "Asha Rao", Mobile: "9876543210"}))
	require.NoError(t, repos.Customers.Create(ctx, &domain.Customer{Name: "Ravi Kumar", Mobile: "9123456780", Email: "ravi@example.com"}))

	got, err := repos.Customers.List(ctx, "RAVI")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CUST-0002", got[0].ID)

	got, err = repos.Customers.List(ctx, "98765")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestCustomerRepo_GetMissing(t *testing.T) {
	repos, _ := newRepos(t)
	_, err := repos.Customers.GetByID(context.Background(), "CUST-0001")
	assert.True(t, domain.IsNotFound(err))
}

func TestVehicleRepo_ReferencesAndUniqueness(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	c, v := seedCustomerVehicle(t, repos)
	assert.Equal(t, "VEH-0001", v.ID)

	err := repos.Vehicles.Create(ctx, &domain.Vehicle{CustomerID: "CUST-0404", Make: "Bajaj", Model: "Pulsar", Year: "2019", RegistrationNumber: "KA05XY0001"})
	assert.Equal(t, "customerId", fieldOf(t, err))

	err = repos.Vehicles.Create(ctx, &domain.Vehicle{CustomerID: c.ID, Make: "Bajaj", Model: "Pulsar", Year: "2019", RegistrationNumber: "ka 01 ab-1234"})
	assert.Equal(t, "registrationNumber", fieldOf(t, err))

	// updating a vehicle with its own registration is fine
	v.Notes = "Prefers synthetic oil"
	require.NoError(t, repos.Vehicles.Update(ctx, v))

	list, err := repos.Vehicles.GetByCustomerID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Prefers synthetic oil", list[0].Notes)
}

func TestVehicleRepo_UpdateTrimsRegistration(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	_, v := seedCustomerVehicle(t, repos)

	v.RegistrationNumber = "  KA01AB9999 "
	require.NoError(t, repos.Vehicles.Update(ctx, v))
	assert.Equal(t, "KA01AB9999", v.RegistrationNumber)

	got, err := repos.Vehicles.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "KA01AB9999", got.RegistrationNumber)
}

func TestVehicleRepo_UpdateOdometerOnlyRaises(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	_, v := seedCustomerVehicle(t, repos)

	require.NoError(t, repos.Vehicles.UpdateOdometer(ctx, v.ID, 15000))
	require.NoError(t, repos.Vehicles.UpdateOdometer(ctx, v.ID, 9000))

	got, err := repos.Vehicles.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 15000, got.LastOdometerReading)

	assert.True(t, domain.IsNotFound(repos.Vehicles.UpdateOdometer(ctx, "VEH-0404", 1)))
}

func TestJobCardRepo_CreateDefaultsAndTotals(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	c, v := seedCustomerVehicle(t, repos)

	jc := &domain.JobCard{
		CustomerID: c.ID,
		VehicleID:  v.ID,
		Services: []domain.ServiceLine{
			{Description: "Oil change", Cost: decimal.NewFromInt(450)},
			{Description: "Wheel alignment", Cost: decimal.NewFromInt(600)},
		},
		TotalAmount: decimal.NewFromInt(1),
	}
	require.NoError(t, repos.JobCards.Create(ctx, jc))

	assert.Equal(t, "JC-00001", jc.ID)
	assert.Equal(t, domain.JobStatusPending, jc.Status)
	assert.Equal(t, payments.StatusUnpaid, jc.PaymentStatus)
	assert.True(t, jc.TotalAmount.Equal(decimal.NewFromInt(1050)))
	assert.Equal(t, t0, jc.CreatedAt)
	assert.Equal(t, t0, jc.DateOfService)
	for _, l := range jc.Services {
		assert.NotEmpty(t, l.ID)
	}
}

func TestJobCardRepo_CreateChecksReferences(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	c, v := seedCustomerVehicle(t, repos)
	other := &domain.Customer{Name: "Ravi Kumar", Mobile: "9123456780"}
	require.NoError(t, repos.Customers.Create(ctx, other))

	err := repos.JobCards.Create(ctx, &domain.JobCard{CustomerID: other.ID, VehicleID: v.ID})
	assert.Equal(t, "vehicleId", fieldOf(t, err))

	err = repos.JobCards.Create(ctx, &domain.JobCard{CustomerID: c.ID, VehicleID: "VEH-0404"})
	assert.Equal(t, "vehicleId", fieldOf(t, err))

	err = repos.JobCards.Create(ctx, &domain.JobCard{CustomerID: c.ID, VehicleID: v.ID, Status: "done"})
	assert.Equal(t, "status", fieldOf(t, err))
}

func TestJobCardRepo_UpdateAdvancesTimestamp(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	c, v := seedCustomerVehicle(t, repos)

	jc := &domain.JobCard{CustomerID: c.ID, VehicleID: v.ID}
	require.NoError(t, repos.JobCards.Create(ctx, jc))

	jc.ServiceNotes = "Replace wiper blades"
	jc.Services = []domain.ServiceLine{{Description: "Wiper blades", Cost: decimal.NewFromInt(350)}}
	require.NoError(t, repos.JobCards.Update(ctx, jc))

	got, err := repos.JobCards.GetByID(ctx, jc.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, "Replace wiper blades", got.ServiceNotes)
}

func TestJobCardRepo_UpdateRequiresStatusValues(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	c, v := seedCustomerVehicle(t, repos)

	jc := &domain.JobCard{CustomerID: c.ID, VehicleID: v.ID, Status: domain.JobStatusInProgress, PaymentStatus: payments.StatusPaid}
	require.NoError(t, repos.JobCards.Create(ctx, jc))

	blank := jc.Clone()
	blank.Status = ""
	blank.PaymentStatus = ""
	err := repos.JobCards.Update(ctx, &blank)

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation error, got %v", err)
	fields := []string{}
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "paymentStatus")

	got, err := repos.JobCards.GetByID(ctx, jc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusInProgress, got.Status)
	assert.Equal(t, payments.StatusPaid, got.PaymentStatus)
}

func TestJobCardRepo_Modify(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	c, v := seedCustomerVehicle(t, repos)
	jc := &domain.JobCard{CustomerID: c.ID, VehicleID: v.ID}
	require.NoError(t, repos.JobCards.Create(ctx, jc))

	before, after, err := repos.JobCards.Modify(ctx, jc.ID, func(cur domain.JobCard) (domain.JobCard, error) {
		cur.Status = domain.JobStatusCompleted
		cur.ID = "JC-99999"
		return cur, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, before.Status)
	assert.Equal(t, domain.JobStatusCompleted, after.Status)
	assert.Equal(t, jc.ID, after.ID)

	boom := errors.New("boom")
	_, _, err = repos.JobCards.Modify(ctx, jc.ID, func(cur domain.JobCard) (domain.JobCard, error) {
		cur.Status = domain.JobStatusCancelled
		return cur, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repos.JobCards.GetByID(ctx, jc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status, "failed modify must not persist")

	_, _, err = repos.JobCards.Modify(ctx, "JC-40404", func(cur domain.JobCard) (domain.JobCard, error) { return cur, nil })
	assert.True(t, domain.IsNotFound(err))
}

func TestJobCardRepo_ListAndDelete(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	c, v := seedCustomerVehicle(t, repos)

	for _, s := range []domain.JobStatus{domain.JobStatusPending, domain.JobStatusCompleted, domain.JobStatusPending} {
		require.NoError(t, repos.JobCards.Create(ctx, &domain.JobCard{CustomerID: c.ID, VehicleID: v.ID, Status: s, CustomerName: c.Name, VehicleReg: v.RegistrationNumber}))
	}

	pending, err := repos.JobCards.List(ctx, repository.JobCardFilter{Status: domain.JobStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	byReg, err := repos.JobCards.List(ctx, repository.JobCardFilter{Query: "ka01ab"})
	require.NoError(t, err)
	assert.Len(t, byReg, 3)

	require.NoError(t, repos.JobCards.Delete(ctx, "JC-00002"))
	assert.True(t, domain.IsNotFound(repos.JobCards.Delete(ctx, "JC-00002")))

	// labels continue from the highest remaining id
	require.NoError(t, repos.JobCards.Delete(ctx, "JC-00003"))
	next := &domain.JobCard{CustomerID: c.ID, VehicleID: v.ID}
	require.NoError(t, repos.JobCards.Create(ctx, next))
	assert.Equal(t, "JC-00002", next.ID)

	byVehicle, err := repos.JobCards.GetByVehicleID(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, byVehicle, 2)
}

func TestInventoryRepo(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	item := &domain.InventoryItem{PartName: "Brake pad", StockQuantity: 4, LowStockThreshold: 5, SellingPrice: decimal.NewFromInt(800)}
	require.NoError(t, repos.Inventory.Create(ctx, item))
	assert.Equal(t, "INV-0001", item.ID)

	item.StockQuantity = 10
	require.NoError(t, repos.Inventory.Update(ctx, item))
	got, err := repos.Inventory.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity)

	err = repos.Inventory.Create(ctx, &domain.InventoryItem{PartName: "", StockQuantity: -1})
	assert.Error(t, err)

	require.NoError(t, repos.Inventory.Delete(ctx, item.ID))
	list, err := repos.Inventory.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServiceAndMechanicRepos(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	svc := &domain.Service{Name: "General service", Price: decimal.NewFromInt(1500), Category: "Maintenance"}
	require.NoError(t, repos.Services.Create(ctx, svc))
	assert.Equal(t, "SVC-0001", svc.ID)
	assert.Error(t, repos.Services.Create(ctx, &domain.Service{Name: "Bad", Price: decimal.NewFromInt(-1)}))

	m := &domain.Mechanic{Name: "Ravi", Specialization: "Engines"}
	require.NoError(t, repos.Mechanics.Create(ctx, m))
	assert.Equal(t, "MEC-0001", m.ID)

	found, err := repos.Mechanics.List(ctx, "engine")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestCollection_CorruptDataIsAnError(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, repository.KeyCustomers, []byte(`{not json`)))

	_, err := repos.Customers.List(ctx, "")
	assert.Error(t, err)
}

func TestCollection_StoredAsJSONArray(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()
	seedCustomerVehicle(t, repos)

	raw, err := store.Get(ctx, repository.KeyVehicles)
	require.NoError(t, err)
	var vehicles []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vehicles))
	require.Len(t, vehicles, 1)
	assert.Equal(t, "KA01AB1234", vehicles[0]["registrationNumber"])
}

func TestSettingsRepo(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	v, err := repos.Settings.Get(ctx, domain.SettingsGeneral)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, repos.Settings.Set(ctx, domain.SettingsAppearance, []byte(`{"darkMode":true}`)))
	v, err = repos.Settings.Get(ctx, domain.SettingsAppearance)
	require.NoError(t, err)
	assert.JSONEq(t, `{"darkMode":true}`, string(v))

	assert.Error(t, repos.Settings.Set(ctx, domain.SettingsAppearance, []byte(`[1,2]`)))
	assert.True(t, domain.IsNotFound(repos.Settings.Set(ctx, "passwords", []byte(`{}`))))
	_, err = repos.Settings.Get(ctx, "passwords")
	assert.True(t, domain.IsNotFound(err))
}

func TestSettingsRepo_ReportSchedule(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	sched, err := repos.Settings.GetReportSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultReportSchedule, sched)

	err = repos.Settings.SetReportSchedule(ctx, domain.ReportSchedule{Enabled: true, Time: "19:30", PhoneNumber: "12345"})
	assert.Equal(t, "phoneNumber", fieldOf(t, err))

	err = repos.Settings.SetReportSchedule(ctx, domain.ReportSchedule{Time: "7pm"})
	assert.Equal(t, "time", fieldOf(t, err))

	want := domain.ReportSchedule{Enabled: true, Time: "19:30", PhoneNumber: "+91 98765 43210"}
	require.NoError(t, repos.Settings.SetReportSchedule(ctx, want))
	sched, err = repos.Settings.GetReportSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, sched)

	raw, err := repos.Settings.Get(ctx, domain.SettingsReportSchedule)
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":true,"time":"19:30","phoneNumber":"+91 98765 43210"}`, string(raw))
}
