package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Clinical metric field keys, as submitted by the page form
const (
	FieldGender = "gender"
	FieldAge    = "age"
	FieldEduc   = "educ"
	FieldSES    = "ses"
	FieldMMSE   = "mmse"
	FieldETIV   = "etiv"
	FieldNWBV   = "nwbv"
	FieldASF    = "asf"
)

// ClinicalFields lists every clinical metric field in form order
var ClinicalFields = []string{
	FieldGender,
	FieldAge,
	FieldEduc,
	FieldSES,
	FieldMMSE,
	FieldETIV,
	FieldNWBV,
	FieldASF,
}

// ClinicalMetrics holds the raw form values for the tabular model.
// Numeric fields stay as entered and are only parsed at submission time.
type ClinicalMetrics struct {
	Gender string `json:"gender"` // "M", "F" or unset
	Age    string `json:"age"`
	Educ   string `json:"educ"`
	SES    string `json:"ses"` // "1" to "5", enforced by With
	MMSE   string `json:"mmse"`
	ETIV   string `json:"etiv"`
	NWBV   string `json:"nwbv"`
	ASF    string `json:"asf"`
}

// IsClinicalField reports whether field names a clinical metric
func IsClinicalField(field string) bool {
	for _, f := range ClinicalFields {
		if f == field {
			return true
		}
	}
	return false
}

// Get returns the raw value of the named field
func (m ClinicalMetrics) Get(field string) (string, bool) {
	switch field {
	case FieldGender:
		return m.Gender, true
	case FieldAge:
		return m.Age, true
	case FieldEduc:
		return m.Educ, true
	case FieldSES:
		return m.SES, true
	case FieldMMSE:
		return m.MMSE, true
	case FieldETIV:
		return m.ETIV, true
	case FieldNWBV:
		return m.NWBV, true
	case FieldASF:
		return m.ASF, true
	}
	return "", false
}

// Choices offered by the select widgets. An empty value means "not selected".
var (
	GenderChoices = []string{"M", "F"}
	SESChoices    = []string{"1", "2", "3", "4", "5"}
)

// With returns a copy of m with the named field replaced. Gender and SES only
// accept their select choices or an empty value.
func (m ClinicalMetrics) With(field, value string) (ClinicalMetrics, error) {
	switch field {
	case FieldGender:
		if !isChoice(GenderChoices, value) {
			return m, fmt.Errorf("%s must be one of %s", FieldGender, strings.Join(GenderChoices, ", "))
		}
		m.Gender = value
	case FieldAge:
		m.Age = value
	case FieldEduc:
		m.Educ = value
	case FieldSES:
		if !isChoice(SESChoices, value) {
			return m, fmt.Errorf("%s must be one of %s", FieldSES, strings.Join(SESChoices, ", "))
		}
		m.SES = value
	case FieldMMSE:
		m.MMSE = value
	case FieldETIV:
		m.ETIV = value
	case FieldNWBV:
		m.NWBV = value
	case FieldASF:
		m.ASF = value
	default:
		return m, fmt.Errorf("unknown clinical field %q", field)
	}
	return m, nil
}

func isChoice(choices []string, value string) bool {
	if value == "" {
		return true
	}
	for _, c := range choices {
		if c == value {
			return true
		}
	}
	return false
}

// ClinicalMetricsPayload is the JSON body accepted by the tabular model endpoint
type ClinicalMetricsPayload struct {
	Gender string  `json:"gender"`
	Age    float64 `json:"age"`
	Educ   float64 `json:"educ"`
	SES    float64 `json:"ses"`
	MMSE   float64 `json:"mmse"`
	ETIV   float64 `json:"etiv"`
	NWBV   float64 `json:"nwbv"`
	ASF    float64 `json:"asf"`
}

// Payload coerces the numeric fields. It is meant for records that already passed validation.
func (m ClinicalMetrics) Payload() (ClinicalMetricsPayload, error) {
	p := ClinicalMetricsPayload{Gender: m.Gender}
	targets := []struct {
		field string
		raw   string
		dst   *float64
	}{
		{FieldAge, m.Age, &p.Age},
		{FieldEduc, m.Educ, &p.Educ},
		{FieldSES, m.SES, &p.SES},
		{FieldMMSE, m.MMSE, &p.MMSE},
		{FieldETIV, m.ETIV, &p.ETIV},
		{FieldNWBV, m.NWBV, &p.NWBV},
		{FieldASF, m.ASF, &p.ASF},
	}
	for _, t := range targets {
		v, err := ParseNumber(t.raw)
		if err != nil {
			return ClinicalMetricsPayload{}, fmt.Errorf("%s: %w", t.field, err)
		}
		*t.dst = v
	}
	return p, nil
}

// ParseNumber parses a free-form numeric form value. Non-finite values are rejected.
func ParseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q is not a finite number", raw)
	}
	return v, nil
}

// ValidationResult maps a field name to true when the field is invalid.
// It is recomputed wholesale on every validation pass.
type ValidationResult map[string]bool

// Valid reports whether no field was flagged
func (r ValidationResult) Valid() bool {
	for _, invalid := range r {
		if invalid {
			return false
		}
	}
	return true
}

// Fields returns the flagged field names in sorted order
func (r ValidationResult) Fields() []string {
	fields := make([]string, 0, len(r))
	for f, invalid := range r {
		if invalid {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	return fields
}

// Clear returns a copy without the given field's flag
func (r ValidationResult) Clear(field string) ValidationResult {
	out := make(ValidationResult, len(r))
	for f, invalid := range r {
		if f != field && invalid {
			out[f] = true
		}
	}
	return out
}
