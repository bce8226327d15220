package audit

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/auth"
)

type mockRepo struct {
	entries []*Entry
	err     error
}

func (m *mockRepo) Create(_ context.Context, e *Entry) error {
	if m.err != nil {
		return m.err
	}
	e.ID = uuid.New()
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockRepo) List(_ context.Context, userID string, limit, offset int) ([]*Entry, int, error) {
	var out []*Entry
	for _, e := range m.entries {
		if userID == "" || e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

type countingFailures struct{ n int }

func (c *countingFailures) AuditWriteFailed() { c.n++ }

func TestRecord_UsesExplicitActor(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, zerolog.Nop(), nil)

	actor := auth.Actor{ID: "staff-7", Role: auth.RoleReceptionist}
	svc.Record(context.Background(), actor, ActionCreate, "Patient", "p-1", "Created patient Jane")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	e := repo.entries[0]
	if e.UserID != "staff-7" || e.Action != ActionCreate || e.Resource != "Patient" || e.ResourceID != "p-1" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestRecord_SwallowsFailure(t *testing.T) {
	var buf bytes.Buffer
	failures := &countingFailures{}
	svc := NewService(&mockRepo{err: errors.New("store down")}, zerolog.New(&buf), failures)

	svc.Record(context.Background(), auth.Actor{ID: "u"}, ActionDelete, "Inventory", "i-1", "")

	if failures.n != 1 {
		t.Errorf("expected failure to be counted once, got %d", failures.n)
	}
	if !strings.Contains(buf.String(), "audit write failed") {
		t.Errorf("expected warning to be logged, got %q", buf.String())
	}
}

func TestHandler_ListFiltersByUser(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, zerolog.Nop(), nil)
	svc.Record(context.Background(), auth.Actor{ID: "a"}, ActionCreate, "Patient", "1", "")
	svc.Record(context.Background(), auth.Actor{ID: "b"}, ActionUpdate, "Patient", "1", "")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/audit-logs?user_id=b", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewHandler(svc).List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) || !strings.Contains(rec.Body.String(), `"UPDATE"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
