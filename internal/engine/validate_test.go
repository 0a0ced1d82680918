package engine

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Іван Петренко", "Іван Петренко"},
		{"  Марія-Олена  Коваль ", "Марія-Олена Коваль"},
		{"O'Brien", "O'Brien"},
		{"Іван123", ""},
		{"А", ""},
		{"", ""},
		{strings.Repeat("а", 101), ""},
	}
	for _, c := range cases {
		if got := ValidateName(c.in); got != c.want {
			t.Errorf("ValidateName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+380671234567", "+380671234567"},
		{"380671234567", "+380671234567"},
		{"0671234567", "+380671234567"},
		{"067 123 45 67", "+380671234567"},
		{"067-123-45-67", "+380671234567"},
		{"123456", ""},
		{"+491711234567", ""},
		{"06712345678", ""},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateDate(t *testing.T) {
	if got := ValidateDate("15-03-2020", false); got != "15-03-2020" {
		t.Errorf("valid date rejected: %q", got)
	}
	if got := ValidateDate("2020-03-15", false); got != "" {
		t.Errorf("ISO order accepted: %q", got)
	}
	if got := ValidateDate("32-01-2020", false); got != "" {
		t.Errorf("impossible day accepted: %q", got)
	}
	if got := ValidateDate("01-01-1899", false); got != "" {
		t.Errorf("pre-1900 year accepted: %q", got)
	}
	if got := ValidateDate("01-01-2099", true); got != "" {
		t.Errorf("far future accepted: %q", got)
	}
	if got := ValidateDate("31-12-2020", true); got != "31-12-2020" {
		t.Errorf("past date with allowFuture rejected: %q", got)
	}
}

func TestSanitizeText(t *testing.T) {
	if got := SanitizeText("  привіт <b>світ</b>  ", 100); got != "привіт bсвіт/b" {
		t.Errorf("SanitizeText = %q", got)
	}
	if got := SanitizeText(strings.Repeat("а", 101), 100); got != "" {
		t.Errorf("over-length accepted: %q", got)
	}
	if got := SanitizeText("   ", 100); got != "" {
		t.Errorf("whitespace-only accepted: %q", got)
	}
}
