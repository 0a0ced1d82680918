package engine

import (
	"regexp"
	"strings"
	"time"
)

// Input length ceilings, in characters.
const (
	maxDescriptionLen = 5000
	maxReplyLen       = 4000
)

var (
	nameRe  = regexp.MustCompile(`^[А-ЯЇІЄҐа-яїієґA-Za-z\s'-]+$`)
	phoneRe = regexp.MustCompile(`^(\+?380|0)\d{9}$`)
	dateRe  = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	multiWS = regexp.MustCompile(`\s+`)
)

// ValidateName accepts Cyrillic or Latin names of 2 to 100 characters and
// collapses repeated whitespace. Returns "" when invalid.
func ValidateName(raw string) string {
	name := strings.TrimSpace(raw)
	n := len([]rune(name))
	if n < 2 || n > 100 {
		return ""
	}
	if !nameRe.MatchString(name) {
		return ""
	}
	return multiWS.ReplaceAllString(name, " ")
}

// NormalizePhone validates a Ukrainian phone number and normalizes it to
// +380XXXXXXXXX. Returns "" when invalid.
func NormalizePhone(raw string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	if !phoneRe.MatchString(cleaned) {
		return ""
	}
	switch {
	case strings.HasPrefix(cleaned, "0"):
		return "+380" + cleaned[1:]
	case strings.HasPrefix(cleaned, "380"):
		return "+" + cleaned
	}
	return cleaned
}

// ValidateDate checks a ДД-ММ-РРРР date. Future dates are rejected unless
// allowFuture is set. Returns the input unchanged when valid, "" otherwise.
func ValidateDate(raw string, allowFuture bool) string {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	t, err := time.Parse("02-01-2006", m[0])
	if err != nil {
		return ""
	}
	if t.Year() < 1900 || t.Year() > time.Now().Year()+1 {
		return ""
	}
	if !allowFuture && t.After(time.Now()) {
		return ""
	}
	return m[0]
}

// SanitizeText strips angle brackets, trims whitespace, and enforces the
// length ceiling. Returns "" for empty or over-length input.
func SanitizeText(raw string, maxLen int) string {
	if len([]rune(raw)) > maxLen {
		return ""
	}
	s := strings.NewReplacer("<", "", ">", "").Replace(raw)
	return strings.TrimSpace(s)
}
