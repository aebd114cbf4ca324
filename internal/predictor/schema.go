package predictor

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"go-insight-studio/pkg/models"
)

var validate = validator.New()

// Response schemas use pointers so that a missing member is told apart from a zero value.

type csvProbabilitiesSchema struct {
	NonDemented *float64 `json:"NonDemented" validate:"required,gte=0,lte=1"`
	Demented    *float64 `json:"Demented" validate:"required,gte=0,lte=1"`
}

type csvResponseSchema struct {
	Prediction    *string                 `json:"prediction" validate:"required"`
	Probabilities *csvProbabilitiesSchema `json:"probabilities" validate:"required"`
	Details       map[string]interface{}  `json:"details"`
}

type cnnProbabilitiesSchema struct {
	NonDemented      *float64 `json:"NonDemented" validate:"required,gte=0,lte=1"`
	VeryMildDemented *float64 `json:"VeryMildDemented" validate:"required,gte=0,lte=1"`
	MildDemented     *float64 `json:"MildDemented" validate:"required,gte=0,lte=1"`
	ModerateDemented *float64 `json:"ModerateDemented" validate:"required,gte=0,lte=1"`
}

type cnnResponseSchema struct {
	Prediction    *string                 `json:"prediction" validate:"required"`
	Probabilities *cnnProbabilitiesSchema `json:"probabilities" validate:"required"`
	Details       map[string]interface{}  `json:"details"`
}

// parseStrict decodes body into dst and validates it against its schema tags
func parseStrict(body []byte, dst interface{}) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// ParseCSVResponse parses a tabular model response or fails on any shape mismatch
func ParseCSVResponse(body []byte) (*models.CSVPredictionResult, error) {
	var s csvResponseSchema
	if err := parseStrict(body, &s); err != nil {
		return nil, err
	}
	return &models.CSVPredictionResult{
		Prediction: *s.Prediction,
		Probabilities: models.CSVProbabilities{
			NonDemented: *s.Probabilities.NonDemented,
			Demented:    *s.Probabilities.Demented,
		},
		Details: s.Details,
	}, nil
}

// ParseCNNResponse parses an image model response or fails on any shape mismatch
func ParseCNNResponse(body []byte) (*models.CNNPredictionResult, error) {
	var s cnnResponseSchema
	if err := parseStrict(body, &s); err != nil {
		return nil, err
	}
	return &models.CNNPredictionResult{
		Prediction: *s.Prediction,
		Probabilities: models.CNNProbabilities{
			NonDemented:      *s.Probabilities.NonDemented,
			VeryMildDemented: *s.Probabilities.VeryMildDemented,
			MildDemented:     *s.Probabilities.MildDemented,
			ModerateDemented: *s.Probabilities.ModerateDemented,
		},
		Details: s.Details,
	}, nil
}
