package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateSupport(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"half", 0.5, false},
		{"one", 1, false},
		{"negative", -0.1, true},
		{"above one", 1.01, true},
		{"NaN", math.NaN(), true},
		{"infinity", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSupport(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSupport(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidOption) {
				t.Errorf("ValidateSupport(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidOption)
			}
		})
	}
}

func TestValidateMaxItems(t *testing.T) {
	tests := []struct {
		input   int
		wantErr bool
	}{
		{-1, false},
		{0, false},
		{1, false},
		{10, false},
		{-2, true},
	}

	for _, tt := range tests {
		err := ValidateMaxItems(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMaxItems(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateRetries(t *testing.T) {
	tests := []struct {
		input   int
		wantErr bool
	}{
		{2, false},
		{10, false},
		{1, true},
		{0, true},
		{-3, true},
	}

	for _, tt := range tests {
		err := ValidateRetries(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRetries(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePattern(t *testing.T) {
	re, err := ValidatePattern("")
	if err != nil || re != nil {
		t.Errorf("ValidatePattern(\"\") = %v, %v, want nil, nil", re, err)
	}

	re, err = ValidatePattern("^milk|bread$")
	if err != nil {
		t.Fatalf("ValidatePattern() error: %v", err)
	}
	if !re.MatchString("milk") || re.MatchString("butter") {
		t.Error("compiled pattern does not match as expected")
	}

	_, err = ValidatePattern("(unclosed")
	if err == nil {
		t.Fatal("ValidatePattern() should reject invalid syntax")
	}
	if !Is(err, ErrCodeInvalidPattern) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidPattern)
	}
}

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "milk", false},
		{"with spaces", "whole milk", false},
		{"unicode", "Brötchen", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"control char", "milk\x01", true},
		{"newline", "milk\nbread", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDelimiter(t *testing.T) {
	tests := []struct {
		input   string
		want    rune
		wantErr bool
	}{
		{",", ',', false},
		{";", ';', false},
		{"\t", '\t', false},
		{"|", '|', false},

		{"", 0, true},
		{",,", 0, true},
		{"\"", 0, true},
		{"\n", 0, true},
	}

	for _, tt := range tests {
		got, err := ValidateDelimiter(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDelimiter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateDelimiter(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateReportID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f2b8c1e-9a4d-4e6f-8b2a-1c3d5e7f9a0b", false},
		{"empty", "", true},
		{"path traversal", "../../etc/passwd", true},
		{"random", "not-a-uuid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReportID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReportID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"data.csv", false},
		{"/tmp/reports/run.json", false},
		{"", true},
		{"   ", true},
		{"a\x00b", true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && GetCode(err) != ErrCodeInvalidPath {
			t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
		}
	}
}
