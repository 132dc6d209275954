package pkgvalidator

import (
	"errors"
	"net/http"
	"testing"

	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
)

type sample struct {
	Name   *string `json:"name" validate:"required"`
	Count  int     `json:"count" validate:"lte=10"`
	Hidden string  `json:"-"`
	Label  string  `validate:"max=3"`
}

func TestStructValid(t *testing.T) {
	name := "ok"
	if err := New().Struct(sample{Name: &name, Count: 3, Label: "abc"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	err := New().Struct(sample{Count: 11, Label: "abcd"})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var perr *pkgerror.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *pkgerror.Error, got %T", err)
	}
	if perr.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", perr.StatusCode())
	}

	fields := perr.Fields()
	if fields["name"] != "name is required" {
		t.Fatalf("unexpected name message: %q", fields["name"])
	}
	if fields["count"] != "count failed on lte" {
		t.Fatalf("unexpected count message: %q", fields["count"])
	}
	if fields["Label"] != "Label failed on max" {
		t.Fatalf("unexpected label message: %q", fields["Label"])
	}
}
