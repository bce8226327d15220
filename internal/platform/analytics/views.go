package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/inventory"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/scheduling"
	"github.com/clinic/clinic/internal/domain/staff"
	"github.com/clinic/clinic/internal/domain/treatment"
)

// DefaultRevenueDays is the length of the daily revenue window.
const DefaultRevenueDays = 7

// Snapshot is the in-memory state every view is computed from.
type Snapshot struct {
	Patients     []*patient.Patient
	Appointments []*scheduling.Appointment
	Treatments   []*treatment.Treatment
	Inventory    []*inventory.Item
	Invoices     []*billing.Invoice
	Staff        []*staff.Profile
}

// StaffNames maps profile ids to display names.
func (s *Snapshot) StaffNames() map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(s.Staff))
	for _, p := range s.Staff {
		names[p.ID] = p.Name
	}
	return names
}

func (s *Snapshot) PatientNames() map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(s.Patients))
	for _, p := range s.Patients {
		names[p.ID] = p.Name
	}
	return names
}

func resolve(names map[uuid.UUID]string, id uuid.UUID) string {
	if n := names[id]; n != "" {
		return n
	}
	return id.String()
}

// ---------------------------------------------------------------------------
// Billing
// ---------------------------------------------------------------------------

// RevenueByDay sums paid invoice totals for each of the last days calendar
// days ending on now's date, oldest first. Days without revenue are zero.
func RevenueByDay(invoices []*billing.Invoice, now time.Time, days int) Buckets[float64] {
	if days <= 0 {
		days = DefaultRevenueDays
	}
	acc := newAccumulator[float64]()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := days - 1; i >= 0; i-- {
		acc.seed(DayKey(today.AddDate(0, 0, -i)))
	}
	for _, inv := range invoices {
		if inv.PaymentStatus != billing.StatusPaid {
			continue
		}
		key := DayKey(inv.DateIssued.In(now.Location()))
		if _, ok := acc.values[key]; ok {
			acc.add(key, finite(inv.TotalAmount))
		}
	}
	return acc.buckets()
}

func invoiceMonth(inv *billing.Invoice) string  { return MonthOf(inv.DateIssued) }
func invoiceTotal(inv *billing.Invoice) float64 { return inv.TotalAmount }

// RevenueByMonth sums every invoice total per issue month.
func RevenueByMonth(invoices []*billing.Invoice) Buckets[float64] {
	return GroupSum(invoices, invoiceMonth, invoiceTotal).SortedByKey()
}

func AverageInvoiceByMonth(invoices []*billing.Invoice) Buckets[float64] {
	return GroupMean(invoices, invoiceMonth, invoiceTotal).SortedByKey()
}

func PaymentStatusDistribution(invoices []*billing.Invoice) Buckets[int] {
	return GroupCount(invoices, func(inv *billing.Invoice) string {
		return orUnknown(string(inv.PaymentStatus))
	})
}

// PaidRevenue totals paid invoices. With day set, only invoices issued on
// that calendar day (in day's location) count.
func PaidRevenue(invoices []*billing.Invoice, day *time.Time) float64 {
	var total float64
	for _, inv := range invoices {
		if inv.PaymentStatus != billing.StatusPaid {
			continue
		}
		if day != nil && DayKey(inv.DateIssued.In(day.Location())) != DayKey(*day) {
			continue
		}
		total += finite(inv.TotalAmount)
	}
	return total
}

// ---------------------------------------------------------------------------
// Appointments and treatments
// ---------------------------------------------------------------------------

// DayCounts is one day of a stacked per-status chart.
type DayCounts struct {
	Date   string      `json:"date"`
	Counts Buckets[int] `json:"counts"`
}

// AppointmentsByStatusPerDay counts appointments per status for every date
// that has at least one appointment, in date order.
func AppointmentsByStatusPerDay(appts []*scheduling.Appointment) []DayCounts {
	byDay := make(map[string][]*scheduling.Appointment)
	var days []string
	for _, a := range appts {
		key := Unknown
		if t, ok := ParseDate(a.Date); ok {
			key = DayKey(t)
		}
		if _, seen := byDay[key]; !seen {
			days = append(days, key)
		}
		byDay[key] = append(byDay[key], a)
	}
	order := (Buckets[int]{keys: days}).SortedByKey().keys

	out := make([]DayCounts, 0, len(order))
	for _, d := range order {
		out = append(out, DayCounts{
			Date: d,
			Counts: GroupCount(byDay[d], func(a *scheduling.Appointment) string {
				return orUnknown(string(a.Status))
			}),
		})
	}
	return out
}

// AppointmentsByStaff counts appointments per dentist display name, falling
// back to the raw id for unknown dentists.
func AppointmentsByStaff(appts []*scheduling.Appointment, staffNames map[uuid.UUID]string) Buckets[int] {
	return GroupCount(appts, func(a *scheduling.Appointment) string {
		return resolve(staffNames, a.DentistID)
	})
}

func TreatmentsByStaff(ts []*treatment.Treatment, staffNames map[uuid.UUID]string) Buckets[int] {
	return GroupCount(ts, func(t *treatment.Treatment) string {
		return resolve(staffNames, t.DentistID)
	})
}

// TreatmentFrequency counts treatments per description, most common first.
func TreatmentFrequency(ts []*treatment.Treatment) Buckets[int] {
	b := GroupCount(ts, func(t *treatment.Treatment) string { return orUnknown(t.Description) })
	keys := b.Keys()
	sort.SliceStable(keys, func(i, j int) bool { return b.values[keys[i]] > b.values[keys[j]] })
	return Buckets[int]{keys: keys, values: b.Map()}
}

// ---------------------------------------------------------------------------
// Patients
// ---------------------------------------------------------------------------

func RegistrationsByMonth(patients []*patient.Patient) Buckets[int] {
	return GroupCount(patients, func(p *patient.Patient) string { return MonthOf(p.CreatedAt) }).SortedByKey()
}

func GenderDistribution(patients []*patient.Patient) Buckets[int] {
	return GroupCount(patients, func(p *patient.Patient) string { return orUnknown(string(p.Gender)) })
}

var ageBands = []struct {
	label string
	max   int
}{
	{"0-18", 18},
	{"19-35", 35},
	{"36-60", 60},
}

const topAgeBand = "61+"

// AgeGroups histograms patient ages as of now. The four fixed bands are always
// present; Unknown appears only when a date of birth cannot be parsed.
func AgeGroups(patients []*patient.Patient, now time.Time) Buckets[int] {
	acc := newAccumulator[int]()
	for _, b := range ageBands {
		acc.seed(b.label)
	}
	acc.seed(topAgeBand)

	for _, p := range patients {
		dob, ok := ParseDate(p.DateOfBirth)
		if !ok {
			acc.add(Unknown, 1)
			continue
		}
		acc.add(ageBand(AgeInYears(dob, now)), 1)
	}
	return acc.buckets()
}

func ageBand(age int) string {
	for _, b := range ageBands {
		if age <= b.max {
			return b.label
		}
	}
	return topAgeBand
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

type StockLevel struct {
	Item      string `json:"item"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

type ExpiryCountdown struct {
	Item string `json:"item"`
	Days int    `json:"days"`
}

func LowStock(items []*inventory.Item) []StockLevel {
	out := []StockLevel{}
	for _, it := range items {
		if it.IsLowStock() {
			out = append(out, StockLevel{Item: it.Name, Stock: it.Quantity, Threshold: it.LowStockThreshold})
		}
	}
	return out
}

// ExpiringSoon lists items expiring within window days of now, soonest first.
// Non-positive windows use inventory.DefaultExpiryWindow.
func ExpiringSoon(items []*inventory.Item, now time.Time, window int) []ExpiryCountdown {
	if window <= 0 {
		window = inventory.DefaultExpiryWindow
	}
	out := []ExpiryCountdown{}
	for _, e := range inventory.BuildAlerts(items, now, window).ExpiringSoon {
		out = append(out, ExpiryCountdown{Item: e.Item.Name, Days: e.DaysRemaining})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	return out
}
