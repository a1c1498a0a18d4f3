package model

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MinHotelNameLength = 3
	MinCityLength      = 2
)

// LocationHint is the optional position of the user, used to bias map
// grounding.
type LocationHint struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// AuditInput is what the user submits to request an audit.
type AuditInput struct {
	HotelName      string         `json:"hotelName"`
	City           string         `json:"city"`
	EvaluationType EvaluationType `json:"evaluationType"`
	Location       *LocationHint  `json:"location,omitempty"`
}

// Normalized returns a copy with trimmed names and a default evaluation type.
func (in AuditInput) Normalized() AuditInput {
	out := in
	out.HotelName = strings.TrimSpace(in.HotelName)
	out.City = strings.TrimSpace(in.City)
	if t, ok := ParseEvaluationType(string(in.EvaluationType)); ok {
		out.EvaluationType = t
	} else {
		out.EvaluationType = NewOnboarding
	}
	return out
}

// FieldErrors maps an input field name to the reason it was rejected.
type FieldErrors map[string]string

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return strings.Join(parts, "; ")
}

// Validate checks each field on its own so every invalid input can be
// flagged. It returns nil when the input can be sent.
func (in AuditInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if n := utf8.RuneCountInString(strings.TrimSpace(in.HotelName)); n < MinHotelNameLength {
		errs["hotelName"] = fmt.Sprintf("must be at least %d characters", MinHotelNameLength)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(in.City)); n < MinCityLength {
		errs["city"] = fmt.Sprintf("must be at least %d characters", MinCityLength)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
