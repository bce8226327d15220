package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/inventory"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/scheduling"
	"github.com/clinic/clinic/internal/domain/staff"
	"github.com/clinic/clinic/internal/domain/treatment"
	"github.com/clinic/clinic/internal/platform/auth"
)

var now = time.Date(2024, 6, 20, 14, 30, 0, 0, time.UTC)

func invoice(amount float64, status billing.PaymentStatus, issued time.Time) *billing.Invoice {
	return &billing.Invoice{ID: uuid.New(), TotalAmount: amount, PaymentStatus: status, DateIssued: issued}
}

func threeInvoices() []*billing.Invoice {
	return []*billing.Invoice{
		invoice(100, billing.StatusPaid, now),
		invoice(50, billing.StatusPending, now),
		invoice(75, billing.StatusPaid, now.AddDate(0, 0, -1)),
	}
}

func TestRevenueByDay(t *testing.T) {
	b := RevenueByDay(threeInvoices(), now, 0)

	require.Equal(t, DefaultRevenueDays, b.Len())
	keys := b.Keys()
	assert.Equal(t, "2024-06-14", keys[0])
	assert.Equal(t, "2024-06-20", keys[6])
	assert.Equal(t, 100.0, b.Get("2024-06-20"))
	assert.Equal(t, 75.0, b.Get("2024-06-19"))
	assert.Equal(t, 0.0, b.Get("2024-06-15"))

	old := []*billing.Invoice{invoice(500, billing.StatusPaid, now.AddDate(0, 0, -30))}
	b = RevenueByDay(old, now, 3)
	assert.Equal(t, 3, b.Len())
	_, ok := b.Lookup("2024-05-21")
	assert.False(t, ok, "invoices outside the window add no buckets")
}

func TestPaymentStatusDistribution(t *testing.T) {
	b := PaymentStatusDistribution(threeInvoices())
	assert.Equal(t, map[string]int{"paid": 2, "pending": 1}, b.Map())
}

func TestRevenueAndAverageByMonth(t *testing.T) {
	invoices := []*billing.Invoice{
		invoice(300, billing.StatusPaid, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)),
		invoice(100, billing.StatusPending, time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC)),
		invoice(100, billing.StatusPaid, time.Date(2024, 5, 28, 0, 0, 0, 0, time.UTC)),
		invoice(40, billing.StatusPaid, time.Time{}),
	}
	rev := RevenueByMonth(invoices)
	assert.Equal(t, []string{"2024-04", "2024-05", Unknown}, rev.Keys())
	assert.Equal(t, 400.0, rev.Get("2024-05"))

	avg := AverageInvoiceByMonth(invoices)
	assert.Equal(t, 200.0, avg.Get("2024-05"))
	assert.Equal(t, 40.0, avg.Get(Unknown))
}

func TestPaidRevenue(t *testing.T) {
	invoices := threeInvoices()
	assert.Equal(t, 175.0, PaidRevenue(invoices, nil))
	assert.Equal(t, 100.0, PaidRevenue(invoices, &now))
}

func TestAppointmentsByStatusPerDay(t *testing.T) {
	appts := []*scheduling.Appointment{
		{Date: "2024-06-21", Status: scheduling.StatusScheduled},
		{Date: "2024-06-20", Status: scheduling.StatusCompleted},
		{Date: "2024-06-20", Status: scheduling.StatusScheduled},
		{Date: "2024-06-20", Status: scheduling.StatusCompleted},
		{Date: "garbage", Status: scheduling.StatusCancelled},
	}
	days := AppointmentsByStatusPerDay(appts)
	require.Len(t, days, 3)
	assert.Equal(t, "2024-06-20", days[0].Date)
	assert.Equal(t, map[string]int{"completed": 2, "scheduled": 1}, days[0].Counts.Map())
	assert.Equal(t, "2024-06-21", days[1].Date)
	assert.Equal(t, Unknown, days[2].Date)

	assert.Empty(t, AppointmentsByStatusPerDay(nil))
}

func TestByStaff_FallsBackToID(t *testing.T) {
	known, stranger := uuid.New(), uuid.New()
	names := map[uuid.UUID]string{known: "Dr. Osei"}

	appts := []*scheduling.Appointment{{DentistID: known}, {DentistID: known}, {DentistID: stranger}}
	b := AppointmentsByStaff(appts, names)
	assert.Equal(t, 2, b.Get("Dr. Osei"))
	assert.Equal(t, 1, b.Get(stranger.String()))

	ts := []*treatment.Treatment{{DentistID: stranger}}
	assert.Equal(t, 1, TreatmentsByStaff(ts, names).Get(stranger.String()))
}

func TestTreatmentFrequency_MostCommonFirst(t *testing.T) {
	ts := []*treatment.Treatment{
		{Description: "Cleaning"}, {Description: "Filling"}, {Description: "Filling"},
		{Description: "Crown"}, {Description: "Filling"}, {Description: "Cleaning"},
	}
	b := TreatmentFrequency(ts)
	assert.Equal(t, []string{"Filling", "Cleaning", "Crown"}, b.Keys())
	assert.Equal(t, 3, b.Get("Filling"))
}

func TestPatientViews(t *testing.T) {
	patients := []*patient.Patient{
		{Gender: patient.GenderFemale, DateOfBirth: "2010-01-01", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Gender: patient.GenderMale, DateOfBirth: "1990-07-01", CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Gender: patient.GenderFemale, DateOfBirth: "1970-01-01", CreatedAt: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
		{Gender: patient.GenderOther, DateOfBirth: "1950-03-03"},
	}

	reg := RegistrationsByMonth(patients)
	assert.Equal(t, []string{"2024-05", "2024-06", Unknown}, reg.Keys())
	assert.Equal(t, 2, reg.Get("2024-06"))

	assert.Equal(t, map[string]int{"female": 2, "male": 1, "other": 1}, GenderDistribution(patients).Map())

	ages := AgeGroups(patients, now)
	assert.Equal(t, []string{"0-18", "19-35", "36-60", "61+"}, ages.Keys())
	assert.Equal(t, map[string]int{"0-18": 1, "19-35": 1, "36-60": 1, "61+": 1}, ages.Map())
}

func TestAgeGroups_UnknownOnlyWhenNeeded(t *testing.T) {
	empty := AgeGroups(nil, now)
	assert.Equal(t, 4, empty.Len())
	_, ok := empty.Lookup(Unknown)
	assert.False(t, ok)

	withBad := AgeGroups([]*patient.Patient{{DateOfBirth: "someday"}}, now)
	assert.Equal(t, 1, withBad.Get(Unknown))
}

func TestAgeGroups_BandEdges(t *testing.T) {
	born := func(age int) *patient.Patient {
		return &patient.Patient{DateOfBirth: now.AddDate(-age, 0, 0).Format("2006-01-02")}
	}
	b := AgeGroups([]*patient.Patient{born(18), born(19), born(35), born(36), born(60), born(61)}, now)
	assert.Equal(t, map[string]int{"0-18": 1, "19-35": 2, "36-60": 2, "61+": 1}, b.Map())
}

func TestInventoryViews(t *testing.T) {
	in10 := inventory.DateOf(now.AddDate(0, 0, 10))
	in3 := inventory.DateOf(now.AddDate(0, 0, 3))
	in40 := inventory.DateOf(now.AddDate(0, 0, 40))
	items := []*inventory.Item{
		{Name: "Gloves", Quantity: 2, LowStockThreshold: 5},
		{Name: "Anesthetic", Quantity: 20, LowStockThreshold: 5, ExpiryDate: &in10},
		{Name: "Bonding agent", Quantity: 20, LowStockThreshold: 5, ExpiryDate: &in3},
		{Name: "Impression putty", Quantity: 20, LowStockThreshold: 5, ExpiryDate: &in40},
	}

	low := LowStock(items)
	require.Len(t, low, 1)
	assert.Equal(t, StockLevel{Item: "Gloves", Stock: 2, Threshold: 5}, low[0])

	soon := ExpiringSoon(items, now, 0)
	assert.Equal(t, []ExpiryCountdown{{"Bonding agent", 3}, {"Anesthetic", 10}}, soon)

	assert.NotNil(t, LowStock(nil))
	assert.NotNil(t, ExpiringSoon(nil, now, 30))
}

func snapshot() *Snapshot {
	dentist := &staff.Profile{ID: uuid.New(), Name: "Dr. Osei", Role: auth.RoleDentist}
	lena := &patient.Patient{ID: uuid.New(), Name: "Lena Park", Gender: patient.GenderFemale,
		DateOfBirth: "1988-02-11", CreatedAt: now.AddDate(0, -1, 0)}
	due := inventory.DateOf(now.AddDate(0, 0, 5))

	var patients []*patient.Patient
	patients = append(patients, lena)
	for i := 0; i < 6; i++ {
		patients = append(patients, &patient.Patient{ID: uuid.New(), Name: "P", CreatedAt: now.AddDate(0, 0, -i)})
	}
	invoices := threeInvoices()
	invoices[0].PatientID = lena.ID

	return &Snapshot{
		Patients: patients,
		Appointments: []*scheduling.Appointment{
			{ID: uuid.New(), PatientID: lena.ID, DentistID: dentist.ID, Date: "2024-06-20", Time: "11:00", Status: scheduling.StatusScheduled},
			{ID: uuid.New(), PatientID: uuid.New(), DentistID: dentist.ID, Date: "2024-06-20", Time: "09:00", Status: scheduling.StatusCompleted},
		},
		Treatments: []*treatment.Treatment{
			{ID: uuid.New(), PatientID: lena.ID, DentistID: dentist.ID, Description: "Filling", CreatedAt: now},
		},
		Inventory: []*inventory.Item{
			{ID: uuid.New(), Name: "Gloves", Quantity: 2, LowStockThreshold: 5},
			{ID: uuid.New(), Name: "Anesthetic", Quantity: 40, LowStockThreshold: 5, ExpiryDate: &due},
		},
		Invoices: invoices,
		Staff:    []*staff.Profile{dentist},
	}
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(snapshot(), Options{Now: now, RevenueTarget: 400})

	assert.Equal(t, 7, d.TotalPatients)
	assert.Equal(t, 2, d.TotalAppointments)
	assert.Equal(t, 1, d.TotalTreatments)
	assert.Equal(t, 175.0, d.TotalRevenue)
	assert.Equal(t, 1, d.PendingInvoices)
	assert.Equal(t, 100.0, d.RevenueToday)
	assert.Equal(t, 25, d.RevenueProgress)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Equal(t, 1, d.ExpiringCount)
	assert.Len(t, d.RecentPatients, 5)
	assert.Equal(t, "09:00", d.UpcomingAppointments[0].Time)
	assert.Equal(t, Unknown, d.UpcomingAppointments[0].PatientName)
	assert.Equal(t, "Lena Park", d.UpcomingAppointments[1].PatientName)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"revenue_by_day":{"2024-06-14":0,`)
}

func TestProgressIsCapped(t *testing.T) {
	assert.Equal(t, 100, progress(5000, 1000))
	assert.Equal(t, 0, progress(50, 0))
	assert.Equal(t, 13, progress(125, 1000))
}

func TestBuildDashboard_EmptySnapshot(t *testing.T) {
	d := BuildDashboard(&Snapshot{}, Options{Now: now, RevenueTarget: 1000})
	assert.Zero(t, d.TotalRevenue)
	assert.NotNil(t, d.RecentPatients)
	assert.NotNil(t, d.UpcomingAppointments)
	assert.Equal(t, DefaultRevenueDays, d.RevenueByDay.Len())
}

func TestBuildReport(t *testing.T) {
	s := snapshot()
	opts := Options{Now: now}

	for _, name := range ReportNames {
		t.Run(name, func(t *testing.T) {
			r, err := BuildReport(name, s, opts)
			require.NoError(t, err)
			_, err = json.Marshal(r)
			require.NoError(t, err)
		})
	}

	_, err := BuildReport("payroll", s, opts)
	assert.ErrorIs(t, err, ErrUnknownReport)

	appts := BuildAppointmentsReport(s)
	assert.Equal(t, "Dr. Osei", appts.Rows[0].Doctor)
	assert.Equal(t, "Lena Park", appts.Rows[0].Patient)
	assert.Equal(t, Unknown, appts.Rows[1].Patient)
	assert.Equal(t, 2, appts.ByStaff.Get("Dr. Osei"))

	bill := BuildBillingReport(s)
	assert.Equal(t, "Lena Park", bill.Rows[0].Patient)
	assert.Equal(t, "2024-06-20", bill.Rows[0].Date)

	inv := BuildInventoryReport(s, opts)
	require.Len(t, inv.ExpiringSoon, 1)
	assert.Equal(t, 5, inv.ExpiringSoon[0].Days)
}
