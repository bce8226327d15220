package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/scheduling"
	"github.com/clinic/clinic/internal/domain/treatment"
)

const recentLimit = 5

// Options carries the clock and tunables shared by every view.
type Options struct {
	Now           time.Time
	RevenueDays   int
	ExpiryWindow  int
	RevenueTarget float64
}

// UpcomingAppointment is an appointment with its patient's name resolved.
type UpcomingAppointment struct {
	*scheduling.Appointment
	PatientName string `json:"patient_name"`
}

type Dashboard struct {
	TotalPatients     int     `json:"total_patients"`
	TotalAppointments int     `json:"total_appointments"`
	TotalTreatments   int     `json:"total_treatments"`
	TotalRevenue      float64 `json:"total_revenue"`
	PendingInvoices   int     `json:"pending_invoices"`
	RevenueToday      float64 `json:"revenue_today"`
	RevenueTarget     float64 `json:"revenue_target"`
	// RevenueProgress is today's revenue as a whole percentage of the
	// target, capped at 100.
	RevenueProgress int              `json:"revenue_progress"`
	RevenueByDay    Buckets[float64] `json:"revenue_by_day"`
	LowStockCount   int              `json:"low_stock_count"`
	ExpiringCount   int              `json:"expiring_count"`

	RecentPatients       []*patient.Patient     `json:"recent_patients"`
	RecentInvoices       []*billing.Invoice     `json:"recent_invoices"`
	RecentTreatments     []*treatment.Treatment `json:"recent_treatments"`
	UpcomingAppointments []UpcomingAppointment  `json:"upcoming_appointments"`
}

// BuildDashboard summarises the snapshot as of opts.Now.
func BuildDashboard(s *Snapshot, opts Options) Dashboard {
	d := Dashboard{
		TotalPatients:     len(s.Patients),
		TotalAppointments: len(s.Appointments),
		TotalTreatments:   len(s.Treatments),
		TotalRevenue:      PaidRevenue(s.Invoices, nil),
		RevenueToday:      PaidRevenue(s.Invoices, &opts.Now),
		RevenueTarget:     opts.RevenueTarget,
		RevenueByDay:      RevenueByDay(s.Invoices, opts.Now, opts.RevenueDays),
		LowStockCount:     len(LowStock(s.Inventory)),
		ExpiringCount:     len(ExpiringSoon(s.Inventory, opts.Now, opts.ExpiryWindow)),
	}
	for _, inv := range s.Invoices {
		if inv.PaymentStatus == billing.StatusPending {
			d.PendingInvoices++
		}
	}
	d.RevenueProgress = progress(d.RevenueToday, opts.RevenueTarget)

	d.RecentPatients = newest(s.Patients, func(p *patient.Patient) time.Time { return p.CreatedAt })
	d.RecentInvoices = newest(s.Invoices, func(inv *billing.Invoice) time.Time { return inv.DateIssued })
	d.RecentTreatments = newest(s.Treatments, func(t *treatment.Treatment) time.Time { return t.CreatedAt })
	d.UpcomingAppointments = earliestByTime(s.Appointments, s.PatientNames())
	return d
}

func progress(today, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(math.Min(100, math.Round(today/target*100)))
}

func newest[T any](items []T, at func(T) time.Time) []T {
	sorted := append([]T{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool { return at(sorted[i]).After(at(sorted[j])) })
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	return sorted
}

func earliestByTime(appts []*scheduling.Appointment, patientNames map[uuid.UUID]string) []UpcomingAppointment {
	sorted := append([]*scheduling.Appointment{}, appts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	out := make([]UpcomingAppointment, 0, len(sorted))
	for _, a := range sorted {
		name := patientNames[a.PatientID]
		if name == "" {
			name = Unknown
		}
		out = append(out, UpcomingAppointment{Appointment: a, PatientName: name})
	}
	return out
}
