package models

import "time"

// FieldUpdateRequest carries a single form field edit
type FieldUpdateRequest struct {
	Value string `json:"value"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Type    string   `json:"type,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// SessionResponse is the page state as returned to the browser
type SessionResponse struct {
	ID        string               `json:"id"`
	Metrics   ClinicalMetrics      `json:"metrics"`
	Errors    ValidationResult     `json:"errors"`
	Image     *ImageUpload         `json:"image,omitempty"`
	Preview   string               `json:"image_preview,omitempty"`
	CSVResult *CSVPredictionResult `json:"csv_result"`
	CNNResult *CNNPredictionResult `json:"cnn_result"`
	Loading   bool                 `json:"loading"`
	Notice    *Notice              `json:"notice,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Notice is the single user-facing message raised by the last action
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Destructive bool   `json:"destructive,omitempty"`
}
