package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type createDevice struct {
	Name         string `validate:"required,max=25"`
	DeviceTypeID uint   `validate:"required"`
	Status       string `validate:"omitempty,oneof=active inactive"`
	Email        string `validate:"omitempty,email"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(createDevice{
		Name:   strings.Repeat("x", 30),
		Status: "broken",
		Email:  "nope",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := FormatValidationError(err)
	for _, want := range []string{
		"Name must be at most 25 characters",
		"Device type is required",
		"Status must be one of: active inactive",
		"Email must be a valid email",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestFormatValidationErrorPlainError(t *testing.T) {
	if got := FormatValidationError(errors.New("EOF")); got != "EOF" {
		t.Fatalf("got %q", got)
	}
}
