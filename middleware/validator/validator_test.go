package validator

import (
	"context"
	"errors"
	"strings"
	"testing"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/middleware"
)

func TestQueryValidator(t *testing.T) {
	v := NewQueryValidator(10)
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "valid", query: "2 + 2?"},
		{name: "blank", query: "   ", wantErr: true},
		{name: "too long", query: strings.Repeat("a", 11), wantErr: true},
		{name: "multibyte at limit", query: strings.Repeat("é", 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := v.Execute(middleware.NewContext(context.Background(), tt.query), func(*middleware.Context) error {
				called = true
				return nil
			})
			if tt.wantErr {
				if !errors.Is(err, rerrors.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				if called {
					t.Fatal("next should not run for invalid input")
				}
				return
			}
			if err != nil || !called {
				t.Fatalf("expected pass-through, err=%v called=%v", err, called)
			}
		})
	}
}

func TestInputValidatorNilFunc(t *testing.T) {
	v := NewInputValidator(nil)
	if err := v.Execute(middleware.NewContext(context.Background(), ""), func(*middleware.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Name() != "InputValidator" {
		t.Fatal("unexpected name")
	}
}
