package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

func newTestHandler() (*Handler, *Service) {
	svc := NewService(newMockRepo(), &mockRecorder{})
	return NewHandler(svc), svc
}

func withActor(req *http.Request) *http.Request {
	return req.WithContext(auth.WithActor(req.Context(), receptionist))
}

func TestHandler_CreatePatient(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()
	body := `{"name":"Jane Doe","gender":"female","date_of_birth":"1990-04-12","phone":"555",
		"emergency_contact":{"name":"John","phone":"556","relationship":"spouse"}}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.EmergencyContact.Relationship != "spouse" {
		t.Errorf("expected emergency contact to round trip, got %+v", got.EmergencyContact)
	}
}

func TestHandler_CreatePatient_BadRequest(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()
	req := withActor(httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(`{"name":""}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.CreatePatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_GetPatient(t *testing.T) {
	h, svc := newTestHandler()
	p := validPatient()
	_ = svc.CreatePatient(httptest.NewRequest(http.MethodGet, "/", nil).Context(), receptionist, p)

	tests := []struct {
		name string
		id   string
		code int
	}{
		{"found", p.ID.String(), http.StatusOK},
		{"missing", uuid.NewString(), http.StatusNotFound},
		{"malformed", "abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			err := h.GetPatient(c)
			code := rec.Code
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			}
			if code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, code)
			}
		})
	}
}

func TestHandler_ListPatients_Search(t *testing.T) {
	h, svc := newTestHandler()
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	_ = svc.CreatePatient(ctx, receptionist, validPatient())
	other := validPatient()
	other.Name = "Ali Khan"
	_ = svc.CreatePatient(ctx, receptionist, other)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/patients?q=khan", nil), rec)
	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Data  []Patient `json:"data"`
		Total int       `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 1 || body.Data[0].Name != "Ali Khan" {
		t.Errorf("unexpected search result %+v", body)
	}
}

func TestHandler_DeletePatient(t *testing.T) {
	h, svc := newTestHandler()
	p := validPatient()
	_ = svc.CreatePatient(httptest.NewRequest(http.MethodGet, "/", nil).Context(), receptionist, p)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(withActor(httptest.NewRequest(http.MethodDelete, "/", nil)), rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
