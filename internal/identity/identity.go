// Package identity normalizes and validates the email address and
// profession a respondent registers with.
package identity

import (
	"regexp"
	"strings"

	"github.com/abhisek/profiler/internal/apperr"
)

// MaxEmailLength is the longest accepted address after normalization.
const MaxEmailLength = 254

var emailShape = regexp.MustCompile(`^[a-z0-9._+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// blockedSuffixes are reserved, non-routable top-level domains.
var blockedSuffixes = []string{".test", ".example", ".invalid", ".localhost"}

// Professions offered by the registration forms.
var Professions = []string{
	"Data Analyst",
	"Data Scientist",
	"Business Analyst",
	"Student",
	"Other",
}

// NormalizeEmail lower-cases and trims raw, drops characters outside
// [a-z0-9@.\-_+] and validates the result.
func NormalizeEmail(raw string) (string, error) {
	email := filterEmail(strings.ToLower(strings.TrimSpace(raw)))

	switch {
	case email == "":
		return "", apperr.New(apperr.CodeInvalidIdentity, "email is required")
	case len(email) > MaxEmailLength:
		return "", apperr.New(apperr.CodeInvalidIdentity, "email is longer than %d characters", MaxEmailLength)
	case strings.Contains(email, ".."):
		return "", apperr.New(apperr.CodeInvalidIdentity, "email contains consecutive dots")
	case !emailShape.MatchString(email):
		return "", apperr.New(apperr.CodeInvalidIdentity, "%q is not a valid email address", email)
	}
	for _, suffix := range blockedSuffixes {
		if strings.HasSuffix(email, suffix) {
			return "", apperr.New(apperr.CodeInvalidIdentity, "email domain %s is not allowed", suffix)
		}
	}
	return email, nil
}

func filterEmail(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune("@.-_+", r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Registration is a validated identity ready to be persisted.
type Registration struct {
	Email      string `json:"email"`
	Profession string `json:"profession"`
}

// NewRegistration normalizes the email and requires a profession.
func NewRegistration(email, profession string) (Registration, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return Registration{}, err
	}
	profession = strings.Join(strings.Fields(profession), " ")
	if profession == "" {
		return Registration{}, apperr.New(apperr.CodeInvalidIdentity, "profession is required")
	}
	return Registration{Email: normalized, Profession: profession}, nil
}

// IsListedProfession reports whether p is one of Professions.
func IsListedProfession(p string) bool {
	for _, v := range Professions {
		if strings.EqualFold(v, p) {
			return true
		}
	}
	return false
}
