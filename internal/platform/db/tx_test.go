package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNoTx_RunsFunction(t *testing.T) {
	called := false
	err := NoTx{}.WithTx(context.Background(), func(ctx context.Context) error {
		called = true
		if TxFromContext(ctx) != nil {
			t.Error("expected no transaction in context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected function to be called")
	}
}

func TestNoTx_PropagatesError(t *testing.T) {
	want := errors.New("boom")
	err := NoTx{}.WithTx(context.Background(), func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "appointments_slot_key"})

	if !IsUniqueViolation(err, "") {
		t.Error("expected unique violation for any constraint")
	}
	if !IsUniqueViolation(err, "appointments_slot_key") {
		t.Error("expected unique violation for named constraint")
	}
	if IsUniqueViolation(err, "other_key") {
		t.Error("expected mismatch for a different constraint")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Error("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("plain"), "") {
		t.Error("plain error is not a unique violation")
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)) {
		t.Error("expected wrapped ErrNoRows to match")
	}
	if IsNoRows(errors.New("other")) {
		t.Error("unexpected match")
	}
}

func TestValidSchema(t *testing.T) {
	cases := map[string]bool{
		"clinic":        true,
		"clinic_test_1": true,
		"_private":      true,
		"1clinic":       false,
		"clinic;drop":   false,
		"":              false,
	}
	for name, want := range cases {
		if got := ValidSchema(name); got != want {
			t.Errorf("ValidSchema(%q) = %v, want %v", name, got, want)
		}
	}
}
