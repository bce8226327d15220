package patient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/audit"
	"github.com/clinic/clinic/internal/platform/auth"
)

// -- Mocks --

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return m.Search(ctx, "", limit, offset)
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Patient, error) {
	var out []*Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRepo) Search(ctx context.Context, term string, limit, offset int) ([]*Patient, int, error) {
	all, _ := m.ListAll(ctx)
	term = strings.ToLower(term)
	var out []*Patient
	for _, p := range all {
		if term == "" || strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(p.Phone, term) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type recorded struct {
	actor    auth.Actor
	action   audit.Action
	resource string
	id       string
}

type mockRecorder struct{ entries []recorded }

func (m *mockRecorder) Record(_ context.Context, actor auth.Actor, action audit.Action, resource, resourceID, _ string) {
	m.entries = append(m.entries, recorded{actor, action, resource, resourceID})
}

var receptionist = auth.Actor{ID: "staff-1", Role: auth.RoleReceptionist}

func validPatient() *Patient {
	return &Patient{Name: "Jane Doe", Gender: GenderFemale, DateOfBirth: "1990-04-12", Phone: "555-0101"}
}

// -- Tests --

func TestCreatePatient(t *testing.T) {
	repo, rec := newMockRepo(), &mockRecorder{}
	svc := NewService(repo, rec)

	p := validPatient()
	if err := svc.CreatePatient(context.Background(), receptionist, p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	if len(rec.entries) != 1 || rec.entries[0].action != audit.ActionCreate || rec.entries[0].actor.ID != "staff-1" {
		t.Errorf("expected CREATE audit by staff-1, got %+v", rec.entries)
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"blank name", func(p *Patient) { p.Name = "  " }},
		{"bad gender", func(p *Patient) { p.Gender = "unknown" }},
		{"bad dob", func(p *Patient) { p.DateOfBirth = "12/04/1990" }},
		{"missing dob", func(p *Patient) { p.DateOfBirth = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &mockRecorder{}
			svc := NewService(newMockRepo(), rec)
			p := validPatient()
			tt.mutate(p)
			err := svc.CreatePatient(context.Background(), receptionist, p)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if len(rec.entries) != 0 {
				t.Error("rejected patients must not be audited")
			}
		})
	}
}

func TestUpdatePatient_NotFound(t *testing.T) {
	svc := NewService(newMockRepo(), &mockRecorder{})
	p := validPatient()
	p.ID = uuid.New()
	if err := svc.UpdatePatient(context.Background(), receptionist, p); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePatient_Audits(t *testing.T) {
	repo, rec := newMockRepo(), &mockRecorder{}
	svc := NewService(repo, rec)
	p := validPatient()
	_ = svc.CreatePatient(context.Background(), receptionist, p)

	if err := svc.DeletePatient(context.Background(), receptionist, p.ID); err != nil {
		t.Fatalf("DeletePatient: %v", err)
	}
	if _, err := svc.GetPatient(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected patient to be gone, got %v", err)
	}
	last := rec.entries[len(rec.entries)-1]
	if last.action != audit.ActionDelete || last.id != p.ID.String() {
		t.Errorf("unexpected audit entry %+v", last)
	}
}

func TestSearchPatients_NameOrPhone(t *testing.T) {
	svc := NewService(newMockRepo(), &mockRecorder{})
	ctx := context.Background()
	a := validPatient()
	b := validPatient()
	b.Name, b.Phone = "John Smith", "555-0199"
	_ = svc.CreatePatient(ctx, receptionist, a)
	_ = svc.CreatePatient(ctx, receptionist, b)

	got, total, _ := svc.SearchPatients(ctx, " smith ", 20, 0)
	if total != 1 || got[0].Name != "John Smith" {
		t.Errorf("expected John Smith by name, got %v", got)
	}
	got, total, _ = svc.SearchPatients(ctx, "0101", 20, 0)
	if total != 1 || got[0].Name != "Jane Doe" {
		t.Errorf("expected Jane Doe by phone, got %v", got)
	}
}
