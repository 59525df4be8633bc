package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("binary", "cat")
	if v.HasErrors() {
		t.Error("expected no errors for a set binary")
	}

	v2 := New()
	v2.Required("binary", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("binary", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorRequiredUUID(t *testing.T) {
	runID := uuid.New().String()

	v := New()
	v.RequiredUUID("run_id", runID)
	if v.HasErrors() {
		t.Errorf("expected no errors for valid UUID, got %v", v.Errors())
	}

	v2 := New()
	v2.RequiredUUID("run_id", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty UUID")
	}

	v3 := New()
	v3.RequiredUUID("run_id", "not-a-uuid")
	if !v3.HasErrors() {
		t.Error("expected error for invalid UUID")
	}

	v4 := New()
	v4.RequiredUUID("run_id", uuid.Nil.String())
	if !v4.HasErrors() {
		t.Error("expected error for nil UUID")
	}
}

func TestValidatorOptionalUUID(t *testing.T) {
	v := New()
	v.OptionalUUID("run_id", "")
	if v.HasErrors() {
		t.Error("expected no error for empty optional UUID")
	}

	v2 := New()
	v2.OptionalUUID("run_id", uuid.New().String())
	if v2.HasErrors() {
		t.Error("expected no error for valid optional UUID")
	}

	v3 := New()
	v3.OptionalUUID("run_id", "bad-uuid")
	if !v3.HasErrors() {
		t.Error("expected error for invalid optional UUID")
	}
}

func TestValidatorMaxLength(t *testing.T) {
	v := New()
	v.MaxLength("host", "build-01", 64)
	if v.HasErrors() {
		t.Error("expected no error for a host within the limit")
	}

	v2 := New()
	v2.MaxLength("host", "a-very-long-hostname", 5)
	if !v2.HasErrors() {
		t.Error("expected error for a host over the limit")
	}
}

func TestValidatorMinLength(t *testing.T) {
	v := New()
	v.MinLength("shell", "zsh", 2)
	if v.HasErrors() {
		t.Error("expected no error for a shell name meeting min length")
	}

	v2 := New()
	v2.MinLength("shell", "z", 2)
	if !v2.HasErrors() {
		t.Error("expected error for a shell name below min length")
	}
}

func TestValidatorRange(t *testing.T) {
	v := New()
	v.Range("max_concurrent", 8, 1, 64)
	if v.HasErrors() {
		t.Error("expected no error for value in range")
	}

	v2 := New()
	v2.Range("max_concurrent", 0, 1, 64)
	if !v2.HasErrors() {
		t.Error("expected error for value below range")
	}

	v3 := New()
	v3.Range("max_concurrent", 65, 1, 64)
	if !v3.HasErrors() {
		t.Error("expected error for value above range")
	}
}

func TestValidatorMinMax(t *testing.T) {
	v := New()
	v.Min("attempts", 3, 1)
	v.Max("attempts", 3, 10)
	if v.HasErrors() {
		t.Error("expected no errors")
	}

	v2 := New()
	v2.Min("attempts", 0, 1)
	if !v2.HasErrors() {
		t.Error("expected error for value below min")
	}

	v3 := New()
	v3.Max("attempts", 11, 10)
	if !v3.HasErrors() {
		t.Error("expected error for value above max")
	}
}

func TestValidatorPattern(t *testing.T) {
	v := New()
	v.Pattern("env_key", "SHELLKIT_MEMO_DIR", `^[A-Z][A-Z0-9_]*$`)
	if v.HasErrors() {
		t.Error("expected no error for matching pattern")
	}

	v2 := New()
	v2.Pattern("env_key", "lower case", `^[A-Z][A-Z0-9_]*$`)
	if !v2.HasErrors() {
		t.Error("expected error for non-matching pattern")
	}

	// Empty values are skipped; Required covers presence.
	v3 := New()
	v3.Pattern("env_key", "", `^[A-Z]+$`)
	if v3.HasErrors() {
		t.Error("expected no error for empty value with pattern")
	}
}

func TestValidatorOneOf(t *testing.T) {
	formats := []string{"json", "console"}

	v := New()
	v.OneOf("format", "json", formats)
	if v.HasErrors() {
		t.Error("expected no error for an allowed format")
	}

	v2 := New()
	v2.OneOf("format", "xml", formats)
	if !v2.HasErrors() {
		t.Error("expected error for an unknown format")
	}

	v3 := New()
	v3.OneOf("format", "", formats)
	if v3.HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "grace_period", "should pass")
	if v.HasErrors() {
		t.Error("expected no error for true condition")
	}

	v2 := New()
	v2.Custom(false, "grace_period", "must be positive")
	if !v2.HasErrors() {
		t.Error("expected error for false condition")
	}
	if v2.Errors()[0].Message != "must be positive" {
		t.Errorf("expected 'must be positive', got %q", v2.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	v.Required("binary", "cat")
	appErr := v.Validate()
	if appErr != nil {
		t.Error("expected nil for valid input")
	}

	v2 := New()
	v2.Required("binary", "")
	v2.Required("shell", "")
	appErr2 := v2.Validate()
	if appErr2 == nil {
		t.Fatal("expected error")
	}
	if appErr2.Details == nil {
		t.Fatal("expected details in error")
	}
	if !strings.Contains(appErr2.Message, "binary") || !strings.Contains(appErr2.Message, "shell") {
		t.Errorf("expected both fields in message, got %q", appErr2.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("binary", "cat").MaxLength("binary", "cat", 100).Min("attempts", 3, 1)
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestStructValidateValid(t *testing.T) {
	type job struct {
		Binary string `mapstructure:"binary" validate:"required"`
		Shell  string `mapstructure:"shell" validate:"required,oneof=sh bash zsh"`
	}

	err := Validate(job{Binary: "cat", Shell: "sh"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	type job struct {
		Binary string `mapstructure:"binary" validate:"required"`
		Shell  string `mapstructure:"shell" validate:"required,oneof=sh bash zsh"`
	}

	err := Validate(job{Binary: "", Shell: "fish"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "binary") {
		t.Errorf("expected error to mention 'binary', got %q", errStr)
	}
}

func TestStructValidateMaxMin(t *testing.T) {
	type job struct {
		Host string `mapstructure:"host" validate:"required,min=3,max=64"`
	}

	if err := Validate(job{Host: "build-01"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	if err := Validate(job{Host: "ab"}); err == nil {
		t.Error("expected error for host name too short")
	}
}

func TestValidateUUIDFunc(t *testing.T) {
	runID := uuid.New().String()
	id, err := ValidateUUID("run_id", runID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id.String() != runID {
		t.Errorf("expected %s, got %s", runID, id.String())
	}
}

func TestValidateUUIDFuncEmpty(t *testing.T) {
	_, err := ValidateUUID("run_id", "")
	if err == nil {
		t.Error("expected error for empty UUID")
	}
}

func TestValidateUUIDFuncInvalid(t *testing.T) {
	_, err := ValidateUUID("run_id", "bad")
	if err == nil {
		t.Error("expected error for invalid UUID")
	}
}

func TestRequiredFunc(t *testing.T) {
	err := Required("binary", "cat")
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err = Required("binary", "")
	if err == nil {
		t.Error("expected error for empty required field")
	}
}
