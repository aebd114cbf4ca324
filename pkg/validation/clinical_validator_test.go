package validation

import (
	"reflect"
	"testing"

	"go-insight-studio/pkg/models"
)

func validMetrics() models.ClinicalMetrics {
	return models.ClinicalMetrics{
		Gender: "F",
		Age:    "72",
		Educ:   "16",
		SES:    "2",
		MMSE:   "28",
		ETIV:   "1500",
		NWBV:   "0.72",
		ASF:    "1.2",
	}
}

func TestValidateClinicalMetrics_AllValid(t *testing.T) {
	result := ValidateClinicalMetrics(validMetrics())
	if len(result) != 0 {
		t.Errorf("Expected empty result, got %v", result)
	}
	if !result.Valid() {
		t.Error("Expected record to be valid")
	}
}

func TestValidateClinicalMetrics_SingleEmptyField(t *testing.T) {
	for _, field := range models.ClinicalFields {
		t.Run(field, func(t *testing.T) {
			m, err := validMetrics().With(field, "")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			result := ValidateClinicalMetrics(m)
			want := models.ValidationResult{field: true}
			if !reflect.DeepEqual(result, want) {
				t.Errorf("Expected only %s flagged, got %v", field, result)
			}
		})
	}
}

func TestValidateClinicalMetrics_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		invalid bool
	}{
		{"mmse zero", models.FieldMMSE, "0", false},
		{"mmse thirty", models.FieldMMSE, "30", false},
		{"mmse negative", models.FieldMMSE, "-1", true},
		{"mmse above max", models.FieldMMSE, "31", true},
		{"age zero", models.FieldAge, "0", false},
		{"age negative", models.FieldAge, "-1", true},
		{"educ zero", models.FieldEduc, "0", false},
		{"educ negative", models.FieldEduc, "-0.5", true},
		{"etiv zero", models.FieldETIV, "0", true},
		{"etiv epsilon", models.FieldETIV, "0.0001", false},
		{"nwbv zero", models.FieldNWBV, "0", true},
		{"nwbv epsilon", models.FieldNWBV, "0.0001", false},
		{"asf zero", models.FieldASF, "0", true},
		{"asf epsilon", models.FieldASF, "0.0001", false},
		{"asf negative", models.FieldASF, "-2", true},
		{"age not a number", models.FieldAge, "seventy", true},
		{"mmse not finite", models.FieldMMSE, "NaN", true},
		{"ses selected", models.FieldSES, "5", false},
		{"whitespace is empty", models.FieldAge, "   ", true},
		{"surrounding whitespace", models.FieldAge, " 72 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := validMetrics().With(tt.field, tt.value)
			result := ValidateClinicalMetrics(m)

			if result[tt.field] != tt.invalid {
				t.Errorf("Expected %s=%q invalid=%v, got %v", tt.field, tt.value, tt.invalid, result[tt.field])
			}
			if len(result.Fields()) > 1 {
				t.Errorf("Expected unrelated fields untouched, got %v", result.Fields())
			}
		})
	}
}

func TestValidateClinicalMetrics_IndependentFailures(t *testing.T) {
	m := validMetrics()
	m.Gender = ""
	m.MMSE = "45"
	m.ETIV = "0"

	result := ValidateClinicalMetrics(m)
	want := []string{models.FieldETIV, models.FieldGender, models.FieldMMSE}
	if !reflect.DeepEqual(result.Fields(), want) {
		t.Errorf("Expected %v, got %v", want, result.Fields())
	}
}

func TestValidateClinicalMetrics_EmptyRecord(t *testing.T) {
	result := ValidateClinicalMetrics(models.ClinicalMetrics{})
	if len(result) != len(models.ClinicalFields) {
		t.Errorf("Expected all %d fields flagged, got %d", len(models.ClinicalFields), len(result))
	}
}
