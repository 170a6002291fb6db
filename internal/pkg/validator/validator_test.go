package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2026-02-14"); !ok {
		t.Error("IsValidDate(2026-02-14) = false, want true")
	}
	invalid := []string{"2026-2-14", "14-02-2026", "2026-13-01", "not a date", ""}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsQuarterHours(t *testing.T) {
	cases := []struct {
		hours float64
		want  bool
	}{
		{0.25, true},
		{7.5, true},
		{8, true},
		{24, true},
		{0.1, false},
		{7.33, false},
		{8.05, false},
	}
	for _, c := range cases {
		got := IsQuarterHours(c.hours)
		if got != c.want {
			t.Errorf("IsQuarterHours(%v) = %v, want %v", c.hours, got, c.want)
		}
	}
}

func TestIsValidEntryHours(t *testing.T) {
	cases := []struct {
		hours float64
		want  bool
	}{
		{0.25, true},
		{24, true},
		{0, false},
		{-1, false},
		{24.01, false},
	}
	for _, c := range cases {
		got := IsValidEntryHours(c.hours)
		if got != c.want {
			t.Errorf("IsValidEntryHours(%v) = %v, want %v", c.hours, got, c.want)
		}
	}
}

func TestIsFutureDate(t *testing.T) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if IsFutureDate(today) {
		t.Error("IsFutureDate(today) = true, want false")
	}
	if IsFutureDate(today.AddDate(0, 0, -1)) {
		t.Error("IsFutureDate(yesterday) = true, want false")
	}
	if !IsFutureDate(today.AddDate(0, 0, 1)) {
		t.Error("IsFutureDate(tomorrow) = false, want true")
	}
}

func TestValidationErrorsFirstCode(t *testing.T) {
	errs := ValidationErrors{
		{Field: "member_id", Message: "member_id is required"},
		{Field: "date", Message: "date must not be in the future", Code: "DATE_IN_FUTURE"},
		{Field: "hours", Message: "hours must be a multiple of 0.25", Code: "HOURS_NOT_QUARTER_INCREMENT"},
	}
	if got := errs.FirstCode(); got != "DATE_IN_FUTURE" {
		t.Errorf("FirstCode() = %q, want DATE_IN_FUTURE", got)
	}
	if got := (ValidationErrors{}).FirstCode(); got != "" {
		t.Errorf("FirstCode() on empty list = %q, want empty", got)
	}
}
