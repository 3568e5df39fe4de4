package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateComponentName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"form", false},
		{"marquee", false},
		{"signup-form", false},
		{"Carousel_v2", false},
		{"ui.hero", false},
		{"", true},
		{"1form", true},
		{"with space", true},
		{"tab\tname", true},
		{"../etc", true},
		{strings.Repeat("a", MaxComponentName), false},
		{strings.Repeat("a", MaxComponentName+1), true},
	}
	for _, tt := range tests {
		err := ValidateComponentName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateComponentName(%q) = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidComponent) {
			t.Errorf("ValidateComponentName(%q) code = %s", tt.name, GetCode(err))
		}
	}
}

func TestValidateComponentNames(t *testing.T) {
	if err := ValidateComponentNames([]string{"marquee", "carousel"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateComponentNames(nil); err != nil {
		t.Errorf("nil: %v", err)
	}
	if err := ValidateComponentNames([]string{"marquee", "marquee"}); err == nil {
		t.Error("duplicate accepted")
	}
	if err := ValidateComponentNames([]string{"ok", ""}); err == nil {
		t.Error("empty accepted")
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"json", "html"}
	if err := ValidateFormat("json", allowed...); err != nil {
		t.Errorf("json: %v", err)
	}
	for _, f := range []string{"", "pdf", "JSON"} {
		err := ValidateFormat(f, allowed...)
		if !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) = %v, want INVALID_FORMAT", f, err)
		}
	}
}

func TestValidateColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []float64
		wantErr bool
	}{
		{"single", []float64{1}, false},
		{"fractional", []float64{0.5, 0.25, 0.25}, false},
		{"empty", nil, true},
		{"zero", []float64{1, 0}, true},
		{"negative", []float64{-1, 2}, true},
		{"nan", []float64{math.NaN()}, true},
		{"inf", []float64{math.Inf(1)}, true},
		{"too many", make([]float64, MaxColumns+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumns(tt.columns)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumns(%v) = %v, wantErr %v", tt.columns, err, tt.wantErr)
			}
		})
	}
}
