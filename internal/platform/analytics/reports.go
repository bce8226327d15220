package analytics

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrUnknownReport = errors.New("unknown report")

// Report names, in tab order.
const (
	ReportAppointments = "appointments"
	ReportBilling      = "billing"
	ReportPatients     = "patients"
	ReportInventory    = "inventory"
	ReportTreatments   = "treatments"
)

var ReportNames = []string{ReportAppointments, ReportBilling, ReportPatients, ReportInventory, ReportTreatments}

type AppointmentRow struct {
	ID      uuid.UUID `json:"id"`
	Patient string    `json:"patient"`
	Doctor  string    `json:"doctor"`
	Date    string    `json:"date"`
	Time    string    `json:"time"`
	Status  string    `json:"status"`
}

type AppointmentsReport struct {
	Rows           []AppointmentRow `json:"rows"`
	ByStatusPerDay []DayCounts      `json:"by_status_per_day"`
	ByStaff        Buckets[int]     `json:"by_staff"`
}

type InvoiceRow struct {
	ID      uuid.UUID `json:"id"`
	Patient string    `json:"patient"`
	Amount  float64   `json:"amount"`
	Date    string    `json:"date"`
	Status  string    `json:"status"`
}

type BillingReport struct {
	Rows                  []InvoiceRow     `json:"rows"`
	RevenueByMonth        Buckets[float64] `json:"revenue_by_month"`
	StatusDistribution    Buckets[int]     `json:"status_distribution"`
	AverageInvoiceByMonth Buckets[float64] `json:"average_invoice_by_month"`
}

type PatientRow struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Registered string    `json:"registered"`
}

type PatientsReport struct {
	Rows                 []PatientRow `json:"rows"`
	RegistrationsByMonth Buckets[int] `json:"registrations_by_month"`
	GenderDistribution   Buckets[int] `json:"gender_distribution"`
	AgeGroups            Buckets[int] `json:"age_groups"`
}

type StockRow struct {
	ID     uuid.UUID `json:"id"`
	Item   string    `json:"item"`
	Stock  int       `json:"stock"`
	Expiry string    `json:"expiry"`
}

type InventoryReport struct {
	Rows         []StockRow        `json:"rows"`
	LowStock     []StockLevel      `json:"low_stock"`
	ExpiringSoon []ExpiryCountdown `json:"expiring_soon"`
}

type TreatmentsReport struct {
	Frequency Buckets[int] `json:"frequency"`
	ByStaff   Buckets[int] `json:"by_staff"`
}

func patientName(names map[uuid.UUID]string, id uuid.UUID) string {
	if n := names[id]; n != "" {
		return n
	}
	return Unknown
}

func BuildAppointmentsReport(s *Snapshot) AppointmentsReport {
	patients, staffNames := s.PatientNames(), s.StaffNames()
	rows := make([]AppointmentRow, 0, len(s.Appointments))
	for _, a := range s.Appointments {
		rows = append(rows, AppointmentRow{
			ID:      a.ID,
			Patient: patientName(patients, a.PatientID),
			Doctor:  resolve(staffNames, a.DentistID),
			Date:    a.Date,
			Time:    a.Time,
			Status:  string(a.Status),
		})
	}
	return AppointmentsReport{
		Rows:           rows,
		ByStatusPerDay: AppointmentsByStatusPerDay(s.Appointments),
		ByStaff:        AppointmentsByStaff(s.Appointments, staffNames),
	}
}

func BuildBillingReport(s *Snapshot) BillingReport {
	patients := s.PatientNames()
	rows := make([]InvoiceRow, 0, len(s.Invoices))
	for _, inv := range s.Invoices {
		rows = append(rows, InvoiceRow{
			ID:      inv.ID,
			Patient: patientName(patients, inv.PatientID),
			Amount:  inv.TotalAmount,
			Date:    DayKey(inv.DateIssued),
			Status:  string(inv.PaymentStatus),
		})
	}
	return BillingReport{
		Rows:                  rows,
		RevenueByMonth:        RevenueByMonth(s.Invoices),
		StatusDistribution:    PaymentStatusDistribution(s.Invoices),
		AverageInvoiceByMonth: AverageInvoiceByMonth(s.Invoices),
	}
}

func BuildPatientsReport(s *Snapshot, opts Options) PatientsReport {
	rows := make([]PatientRow, 0, len(s.Patients))
	for _, p := range s.Patients {
		registered := ""
		if !p.CreatedAt.IsZero() {
			registered = DayKey(p.CreatedAt)
		}
		rows = append(rows, PatientRow{ID: p.ID, Name: p.Name, Registered: registered})
	}
	return PatientsReport{
		Rows:                 rows,
		RegistrationsByMonth: RegistrationsByMonth(s.Patients),
		GenderDistribution:   GenderDistribution(s.Patients),
		AgeGroups:            AgeGroups(s.Patients, opts.Now),
	}
}

func BuildInventoryReport(s *Snapshot, opts Options) InventoryReport {
	rows := make([]StockRow, 0, len(s.Inventory))
	for _, it := range s.Inventory {
		expiry := ""
		if it.ExpiryDate != nil && !it.ExpiryDate.IsZero() {
			expiry = it.ExpiryDate.String()
		}
		rows = append(rows, StockRow{ID: it.ID, Item: it.Name, Stock: it.Quantity, Expiry: expiry})
	}
	return InventoryReport{
		Rows:         rows,
		LowStock:     LowStock(s.Inventory),
		ExpiringSoon: ExpiringSoon(s.Inventory, opts.Now, opts.ExpiryWindow),
	}
}

func BuildTreatmentsReport(s *Snapshot) TreatmentsReport {
	return TreatmentsReport{
		Frequency: TreatmentFrequency(s.Treatments),
		ByStaff:   TreatmentsByStaff(s.Treatments, s.StaffNames()),
	}
}

// BuildReport renders the named report tab.
func BuildReport(name string, s *Snapshot, opts Options) (interface{}, error) {
	switch name {
	case ReportAppointments:
		return BuildAppointmentsReport(s), nil
	case ReportBilling:
		return BuildBillingReport(s), nil
	case ReportPatients:
		return BuildPatientsReport(s, opts), nil
	case ReportInventory:
		return BuildInventoryReport(s, opts), nil
	case ReportTreatments:
		return BuildTreatmentsReport(s), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}
