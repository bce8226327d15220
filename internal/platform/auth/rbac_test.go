package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestMenuFor(t *testing.T) {
	tests := []struct {
		role Role
		want []Capability
	}{
		{RoleReceptionist, []Capability{CapDashboard, CapPatients, CapAppointments, CapInventory, CapBilling}},
		{RoleDentist, []Capability{CapDashboard, CapPatients, CapAppointments, CapTreatments}},
		{RoleManager, []Capability{CapDashboard, CapPatients, CapAppointments, CapInventory, CapBilling, CapReports, CapManageStaff}},
		{RoleNurse, nil},
		{Role("unknown"), nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			items := MenuFor(tt.role)
			if items == nil {
				t.Fatal("expected non-nil menu")
			}
			if len(items) != len(tt.want) {
				t.Fatalf("expected %d items, got %d (%v)", len(tt.want), len(items), items)
			}
			for i, c := range tt.want {
				if items[i].ID != c {
					t.Errorf("item %d: expected %s, got %s", i, c, items[i].ID)
				}
			}
		})
	}
}

func TestRole_Can(t *testing.T) {
	if !RoleNurse.Can(CapCases) {
		t.Error("nurse should see cases")
	}
	if RoleNurse.Can(CapPatients) {
		t.Error("nurse should not manage patients")
	}
	if RoleReceptionist.Can(CapReports) {
		t.Error("receptionist should not see reports")
	}
	if !RoleManager.Can(CapManageStaff) {
		t.Error("manager should manage staff")
	}
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name  string
		actor *Actor
		caps  []Capability
		code  int
	}{
		{"unauthenticated", nil, []Capability{CapReports}, http.StatusUnauthorized},
		{"forbidden", &Actor{ID: "u1", Role: RoleReceptionist}, []Capability{CapReports}, http.StatusForbidden},
		{"allowed", &Actor{ID: "u1", Role: RoleManager}, []Capability{CapReports}, http.StatusOK},
		{"any of", &Actor{ID: "u1", Role: RoleDentist}, []Capability{CapBilling, CapTreatments}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.actor != nil {
				req = req.WithContext(WithActor(req.Context(), *tt.actor))
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := RequireCapability(tt.caps...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			err := h(c)
			if tt.code == http.StatusOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			expectStatus(t, err, tt.code)
		})
	}
}
