package auth

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Role string

const (
	RoleReceptionist Role = "receptionist"
	RoleDentist      Role = "dentist"
	RoleManager      Role = "manager"
	RoleNurse        Role = "nurse"
)

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Actor is the acting identity passed explicitly to operations that audit.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func (a Actor) Can(c Capability) bool {
	return a.Role.Can(c)
}

type Capability string

const (
	CapDashboard    Capability = "dashboard"
	CapPatients     Capability = "patients"
	CapAppointments Capability = "appointments"
	CapTreatments   Capability = "treatments"
	CapInventory    Capability = "inventory"
	CapBilling      Capability = "billing"
	CapReports      Capability = "reports"
	CapManageStaff  Capability = "manage-staff"
	CapCases        Capability = "cases"
)

// MenuItem is one navigation entry shown to a role.
type MenuItem struct {
	ID    Capability `json:"id"`
	Label string     `json:"label"`
}

// menuOrder fixes the navigation order; capabilities without a label never
// appear in menus.
var menuOrder = []MenuItem{
	{CapDashboard, "Dashboard"},
	{CapPatients, "Patients"},
	{CapAppointments, "Appointments"},
	{CapTreatments, "Treatments"},
	{CapInventory, "Inventory"},
	{CapBilling, "Billing"},
	{CapReports, "Reports"},
	{CapManageStaff, "Manage Staff"},
}

var roleCapabilities = map[Role]map[Capability]bool{
	RoleReceptionist: set(CapDashboard, CapPatients, CapAppointments, CapInventory, CapBilling),
	RoleDentist:      set(CapDashboard, CapPatients, CapAppointments, CapTreatments, CapCases),
	RoleManager: set(CapDashboard, CapPatients, CapAppointments, CapInventory, CapBilling,
		CapReports, CapManageStaff, CapCases),
	RoleNurse: set(CapCases),
}

func set(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

// MenuFor returns the navigation entries available to r, in display order.
func MenuFor(r Role) []MenuItem {
	items := []MenuItem{}
	for _, item := range menuOrder {
		if r.Can(item.ID) {
			items = append(items, item)
		}
	}
	return items
}

// RequireCapability rejects requests whose actor's role lacks every listed capability.
func RequireCapability(caps ...Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFromContext(c.Request().Context())
			if actor.ID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			for _, want := range caps {
				if actor.Can(want) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("role %q may not access %v", actor.Role, caps))
		}
	}
}
