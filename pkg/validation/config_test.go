package validation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Required("Name", "value")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{65535, false},
		{65536, true},
	}
	for _, tt := range tests {
		cv := NewConfigValidator("Server").RangeInt("Port", tt.value, 1, 65535)
		if cv.HasErrors() != tt.wantErr {
			t.Errorf("RangeInt(%d) errors = %v, want %v", tt.value, cv.Errors(), tt.wantErr)
		}
	}
}

func TestConfigValidator_Floats(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(*ConfigValidator)
		wantErr bool
	}{
		{"positive ok", func(cv *ConfigValidator) { cv.PositiveFloat("Scale", 0.3) }, false},
		{"positive zero", func(cv *ConfigValidator) { cv.PositiveFloat("Scale", 0) }, true},
		{"positive NaN", func(cv *ConfigValidator) { cv.PositiveFloat("Scale", math.NaN()) }, true},
		{"range inside", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", 0.5, 0, 1) }, false},
		{"range edge", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", 1, 0, 1) }, false},
		{"range above", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", 1.05, 0, 1) }, true},
		{"range NaN", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", math.NaN(), 0, 1) }, true},
		{"less ok", func(cv *ConfigValidator) { cv.LessFloat("MinRadius", 80, "MaxRadius", 280) }, false},
		{"less equal", func(cv *ConfigValidator) { cv.LessFloat("MinRadius", 80, "MaxRadius", 80) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("Canvas")
			tt.apply(cv)
			if cv.HasErrors() != tt.wantErr {
				t.Errorf("errors = %v, wantErr %v", cv.Errors(), tt.wantErr)
			}
		})
	}
}

func TestConfigValidator_MinDuration(t *testing.T) {
	if !NewConfigValidator("Server").MinDuration("ReadTimeout", 0, time.Second).HasErrors() {
		t.Error("Expected error for duration below minimum")
	}
	if NewConfigValidator("Server").MinDuration("ReadTimeout", time.Minute, time.Second).HasErrors() {
		t.Error("Expected no error for duration above minimum")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	sources := []string{"mock", "http", "embeddings"}

	if NewConfigValidator("Data").OneOf("Source", "http", sources).HasErrors() {
		t.Error("Expected no error for allowed value")
	}
	cv := NewConfigValidator("Data").OneOf("Source", "qdrant", sources)
	if !cv.HasErrors() || !strings.Contains(cv.Error().Error(), `"qdrant"`) {
		t.Errorf("Error() = %v", cv.Error())
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("bad url")
	cv := NewConfigValidator("Data").Custom("APIURL", func() error { return sentinel })
	if !errors.Is(cv.Error(), sentinel) {
		t.Errorf("Custom error not wrapped: %v", cv.Error())
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("Data")
	cv.When(false, func(v *ConfigValidator) { v.Required("APIURL", "") })
	if cv.HasErrors() {
		t.Error("When(false) should skip validations")
	}
	cv.When(true, func(v *ConfigValidator) { v.Required("APIURL", "") })
	if !cv.HasErrors() {
		t.Error("When(true) should apply validations")
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	if err := NewConfigValidator("C").Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	cv := NewConfigValidator("C").Required("A", "").Required("B", "")
	err := cv.Validate()
	if err == nil {
		t.Fatal("Expected combined error")
	}
	if !strings.Contains(err.Error(), "2 errors") || !strings.Contains(err.Error(), "C.B") {
		t.Errorf("Validate() = %v", err)
	}
	if len(cv.Errors()) != 2 {
		t.Errorf("Errors() len = %d", len(cv.Errors()))
	}
}

func TestClamp(t *testing.T) {
	if ClampFloat(1.2, 0, 1) != 1 || ClampFloat(math.NaN(), 0, 1) != 0 || ClampFloat(0.25, 0, 1) != 0.25 {
		t.Error("ClampFloat out of range")
	}
}

func TestFieldError(t *testing.T) {
	err := NewConfigValidator("Config").RangeFloat("Data.Threshold", 2, 0, 1).Error()

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error %T is not a *FieldError", err)
	}
	if fe.Path() != "Config.Data.Threshold" {
		t.Errorf("Path() = %q", fe.Path())
	}
	if want := "Config.Data.Threshold: value 2 is outside range [0, 1]"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFailedFields(t *testing.T) {
	err := NewConfigValidator("Config").
		Required("Data.URL", "").
		RangeInt("Server.Port", 0, 1, 65535).
		Custom("Palette.Node", func() error { return errors.New("bad hex") }).
		Validate()

	got := FailedFields(fmt.Errorf("config: %w", err))
	want := []string{"Config.Data.URL", "Config.Server.Port", "Config.Palette.Node"}
	if !slices.Equal(got, want) {
		t.Errorf("FailedFields() = %v, want %v", got, want)
	}

	if got := FailedFields(errors.New("plain")); got != nil {
		t.Errorf("FailedFields(plain) = %v, want nil", got)
	}
}
