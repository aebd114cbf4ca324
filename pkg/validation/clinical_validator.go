package validation

import (
	"strings"

	"go-insight-studio/pkg/models"
)

// MMSE bounds, inclusive
const (
	MinMMSE = 0
	MaxMMSE = 30
)

// rule reports whether a non-empty value is out of its domain
type rule func(value float64) bool

var numericRules = map[string]rule{
	models.FieldAge:  func(v float64) bool { return v < 0 },
	models.FieldEduc: func(v float64) bool { return v < 0 },
	models.FieldMMSE: func(v float64) bool { return v < MinMMSE || v > MaxMMSE },
	models.FieldETIV: func(v float64) bool { return v <= 0 },
	models.FieldNWBV: func(v float64) bool { return v <= 0 },
	models.FieldASF:  func(v float64) bool { return v <= 0 },
}

// ValidateClinicalMetrics flags every field of m that is empty or outside its
// domain. The record is valid iff the returned mapping is empty.
//
// SES is only checked for presence; its 1-5 range belongs to the input widget.
func ValidateClinicalMetrics(m models.ClinicalMetrics) models.ValidationResult {
	result := make(models.ValidationResult)

	for _, field := range models.ClinicalFields {
		raw, _ := m.Get(field)
		if IsEmpty(raw) {
			result[field] = true
			continue
		}

		outOfRange, ok := numericRules[field]
		if !ok {
			continue
		}
		v, err := models.ParseNumber(raw)
		if err != nil || outOfRange(v) {
			result[field] = true
		}
	}

	return result
}

// IsEmpty reports whether a form value counts as not supplied
func IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}
