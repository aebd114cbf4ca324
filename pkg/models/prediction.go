package models

import (
	"encoding/base64"
	"fmt"
)

// Model identifiers used in logs, events and reports
const (
	ModelCSV = "csv"
	ModelCNN = "cnn"
)

// CSVProbabilities is the binary class distribution returned by the tabular model
type CSVProbabilities struct {
	NonDemented float64 `json:"NonDemented"`
	Demented    float64 `json:"Demented"`
}

// Map returns the distribution keyed by class label
func (p CSVProbabilities) Map() map[string]float64 {
	return map[string]float64{
		LabelNonDemented: p.NonDemented,
		LabelDemented:    p.Demented,
	}
}

// CSVPredictionResult is the tabular model response.
// Probabilities are not required to sum to one; the backend is trusted for that.
type CSVPredictionResult struct {
	Prediction    string                 `json:"prediction"`
	Probabilities CSVProbabilities       `json:"probabilities"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// CNNProbabilities is the four class severity distribution returned by the image model
type CNNProbabilities struct {
	NonDemented      float64 `json:"NonDemented"`
	VeryMildDemented float64 `json:"VeryMildDemented"`
	MildDemented     float64 `json:"MildDemented"`
	ModerateDemented float64 `json:"ModerateDemented"`
}

// Map returns the distribution keyed by class label
func (p CNNProbabilities) Map() map[string]float64 {
	return map[string]float64{
		LabelNonDemented:      p.NonDemented,
		LabelVeryMildDemented: p.VeryMildDemented,
		LabelMildDemented:     p.MildDemented,
		LabelModerateDemented: p.ModerateDemented,
	}
}

// CNNPredictionResult is the image model response.
// ImagePreview is attached locally after the response returns and never comes from the server.
type CNNPredictionResult struct {
	Prediction    string                 `json:"prediction"`
	Probabilities CNNProbabilities       `json:"probabilities"`
	Details       map[string]interface{} `json:"details,omitempty"`
	ImagePreview  string                 `json:"imagePreview,omitempty"`
}

// ImageUpload is an MRI scan selected by the user
type ImageUpload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Data        []byte `json:"-"`
}

// PreviewDataURL encodes the upload as a data URL for local display
func (u ImageUpload) PreviewDataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", u.ContentType, base64.StdEncoding.EncodeToString(u.Data))
}
