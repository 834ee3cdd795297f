package dao

import (
	"fmt"
	"net"
	"regexp"
	"sort"
	"strings"
)

var (
	emailRX = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	colorRX = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// FieldErrors maps a json field name to its error message.
type FieldErrors map[string]string

// Fields returns the failing field names sorted.
func (f FieldErrors) Fields() []string {
	ff := make([]string, 0, len(f))
	for k := range f {
		ff = append(ff, k)
	}
	sort.Strings(ff)
	return ff
}

// ValidationError is returned when a user fails validation. No request is
// sent in that case.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidUser, strings.Join(parts, ", "))
}

// Unwrap lets errors.Is match ErrInvalidUser.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidUser
}

// Validate checks a user before submission. An empty result means valid.
func Validate(u User) FieldErrors {
	errs := make(FieldErrors)

	if strings.TrimSpace(u.Name) == "" {
		errs["name"] = "required"
	}
	switch email := strings.TrimSpace(u.Email); {
	case email == "":
		errs["email"] = "required"
	case !emailRX.MatchString(email):
		errs["email"] = "invalid email"
	}
	if u.Color != "" && !colorRX.MatchString(u.Color) {
		errs["color"] = "expected #rrggbb"
	}
	if u.IP != "" && net.ParseIP(u.IP) == nil {
		errs["ip"] = "invalid ip address"
	}
	if u.Dob != "" && u.Born().IsZero() {
		errs["dob"] = "invalid date"
	}
	if u.Genre != "" && !contains(Genres, u.Genre) {
		errs["genre"] = "unknown genre"
	}
	if u.TypeOfJob != "" && !contains(JobTypes, u.TypeOfJob) {
		errs["typeofjob"] = "unknown job type"
	}

	return errs
}

// Check returns a ValidationError if u is invalid.
func Check(u User) error {
	if errs := Validate(u); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// CheckPatch validates only the fields set on a partial user.
func CheckPatch(u User) error {
	errs := Validate(u)
	if u.Name == "" {
		delete(errs, "name")
	}
	if u.Email == "" {
		delete(errs, "email")
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
