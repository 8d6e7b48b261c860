package uhid

import (
	"errors"
	"testing"
	"time"
)

func TestFormatPadsSequence(t *testing.T) {
	f := NewFormatter("MED", 5)
	issued := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		seq  int64
		want string
	}{
		{1, "MED-2024-00001"},
		{42, "MED-2024-00042"},
		{99999, "MED-2024-99999"},
		{123456, "MED-2024-123456"},
	}

	for _, tt := range tests {
		if got := f.Format(tt.seq, issued); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestNewFormatterDefaults(t *testing.T) {
	f := NewFormatter("", 0)
	got := f.Format(7, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	if got != "MED-2025-00007" {
		t.Fatalf("Format with defaults = %q", got)
	}
	if got := f.MatchSuffix("7"); got.Value != "-00007" {
		t.Fatalf("default width suffix = %q, want -00007", got.Value)
	}
}

func TestMatchSuffixRoutesByInputType(t *testing.T) {
	f := NewFormatter("MED", 5)

	tests := []struct {
		name     string
		input    string
		wantKind MatchKind
		wantVal  string
	}{
		{"short numeric", "42", MatchSuffix, "-00042"},
		{"full width numeric", "00042", MatchSuffix, "-00042"},
		{"wider than width", "1234567", MatchSuffix, "-1234567"},
		{"trimmed", "  7 ", MatchSuffix, "-00007"},
		{"full uhid", "MED-2024-00042", MatchExact, "MED-2024-00042"},
		{"alphanumeric", "42a", MatchExact, "42a"},
		{"signed", "-42", MatchExact, "-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := f.MatchSuffix(tt.input)
			if p.Kind != tt.wantKind || p.Value != tt.wantVal {
				t.Fatalf("MatchSuffix(%q) = {%s %q}, want {%s %q}", tt.input, p.Kind, p.Value, tt.wantKind, tt.wantVal)
			}
		})
	}
}

func TestSuffixPredicateMatchesFormattedUHID(t *testing.T) {
	f := NewFormatter("MED", 5)
	full := f.Format(42, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	p := f.MatchSuffix("42")

	if len(full) < len(p.Value) || full[len(full)-len(p.Value):] != p.Value {
		t.Fatalf("%q does not end with %q", full, p.Value)
	}
}

func TestParse(t *testing.T) {
	f := NewFormatter("MED", 5)

	parsed, err := f.Parse("MED-2024-00042")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Prefix != "MED" || parsed.Year != 2024 || parsed.Sequence != 42 {
		t.Fatalf("Parse = %+v", parsed)
	}

	parsed, err = f.Parse("CLINIC-A-2023-00100")
	if err != nil {
		t.Fatalf("Parse with dashed prefix: %v", err)
	}
	if parsed.Prefix != "CLINIC-A" || parsed.Sequence != 100 {
		t.Fatalf("Parse = %+v", parsed)
	}

	for _, bad := range []string{"", "MED", "MED-00042", "MED-24-00042", "MED-2024-4x2", "-2024-00001"} {
		if _, err := f.Parse(bad); !errors.Is(err, ErrMalformedUHID) {
			t.Errorf("Parse(%q) err = %v, want ErrMalformedUHID", bad, err)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	if IsNumeric("") || IsNumeric("12 3") || IsNumeric("+91") || IsNumeric("1.5") {
		t.Fatal("IsNumeric accepted a non-digit string")
	}
	if !IsNumeric("9876543210") {
		t.Fatal("IsNumeric rejected digits")
	}
}
