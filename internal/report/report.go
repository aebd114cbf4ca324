// Package report renders the downloadable summary of a prediction run.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-insight-studio/pkg/models"
)

// Disclaimer is attached to every report
const Disclaimer = "This tool provides supportive predictions only and is not a substitute for " +
	"professional medical diagnosis. Always consult qualified healthcare providers for medical decisions."

// ErrNoResults is returned when a report is requested before any prediction succeeded
var ErrNoResults = errors.New("no prediction results to report")

// ClassProbability is one row of a rendered distribution
type ClassProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Percent     string  `json:"percent"`
}

// ModelSection summarises one model's result
type ModelSection struct {
	Model         string             `json:"model"`
	Prediction    string             `json:"prediction"`
	Label         string             `json:"label"`
	Probabilities []ClassProbability `json:"probabilities"`
}

// Report is the downloadable summary
type Report struct {
	SessionID   string                         `json:"session_id"`
	GeneratedAt time.Time                      `json:"generated_at"`
	Clinical    *ModelSection                  `json:"clinical,omitempty"`
	Imaging     *ModelSection                  `json:"imaging,omitempty"`
	Inputs      *models.ClinicalMetricsPayload `json:"inputs,omitempty"`
	ScanName    string                         `json:"scan_name,omitempty"`
	Disclaimer  string                         `json:"disclaimer"`
}

// Build renders a report from the held results and the inputs submitted to produce them
func Build(sessionID string, inputs *models.ClinicalMetricsPayload, scanName string,
	csv *models.CSVPredictionResult, cnn *models.CNNPredictionResult, at time.Time) (*Report, error) {
	if csv == nil && cnn == nil {
		return nil, ErrNoResults
	}

	r := &Report{
		SessionID:   sessionID,
		GeneratedAt: at.UTC(),
		Disclaimer:  Disclaimer,
	}

	if csv != nil {
		r.Clinical = section("RandomForest clinical model", csv.Prediction, csv.Probabilities.Map())
		r.Inputs = inputs
	}
	if cnn != nil {
		r.Imaging = section("CNN MRI model", cnn.Prediction, cnn.Probabilities.Map())
		r.ScanName = scanName
	}
	return r, nil
}

func section(model, prediction string, probs map[string]float64) *ModelSection {
	rows := make([]ClassProbability, 0, len(probs))
	for label, p := range probs {
		rows = append(rows, ClassProbability{
			Label:       label,
			Probability: p,
			Percent:     FormatPercent(p),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Probability == rows[j].Probability {
			return rows[i].Label < rows[j].Label
		}
		return rows[i].Probability > rows[j].Probability
	})

	return &ModelSection{
		Model:         model,
		Prediction:    prediction,
		Label:         models.CanonicalLabel(prediction),
		Probabilities: rows,
	}
}

// FormatPercent renders a probability as a percentage with one decimal
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// JSON encodes the report for download
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FileName is the suggested download name
func (r *Report) FileName() string {
	return fmt.Sprintf("prediction-report-%s-%s.json", r.SessionID, r.GeneratedAt.Format("20060102T150405Z"))
}
