// Package session holds the page state of one user and the pure transitions
// that update it. Every transition returns a new State and leaves its receiver
// untouched, so a snapshot taken before a run stays frozen while it executes.
package session

import (
	"time"

	apperrors "go-insight-studio/internal/errors"
	"go-insight-studio/pkg/models"
	"go-insight-studio/pkg/validation"
)

// Notices raised by page actions
var (
	NoticeValidationFailed = models.Notice{
		Title:       "Validation Error",
		Description: "Please fill all required fields correctly or upload an MRI scan.",
		Destructive: true,
	}
	NoticePredictionsComplete = models.Notice{
		Title:       "Predictions Complete",
		Description: "The models have analyzed the provided data.",
	}
	NoticeReportReady = models.Notice{
		Title:       "Download Started",
		Description: "Your prediction report is being generated.",
	}
)

// FailureNotice builds the notice shown when a run fails
func FailureNotice(message string) models.Notice {
	return models.Notice{Title: "Prediction Failed", Description: message, Destructive: true}
}

var now = time.Now

// RunInputs is what a run actually submitted. Reports describe these rather
// than the form, which may have been edited since.
type RunInputs struct {
	Payload  *models.ClinicalMetricsPayload
	ScanName string
}

// State is the page state owned by the top-level controller
type State struct {
	ID        string
	Metrics   models.ClinicalMetrics
	Errors    models.ValidationResult
	Image     *models.ImageUpload
	Preview   string
	CSVResult *models.CSVPredictionResult
	CNNResult *models.CNNPredictionResult
	Loading   bool
	// Run identifies the latest prediction run; completions of older runs are dropped
	Run       int
	Submitted RunInputs
	Notice    *models.Notice
	UpdatedAt time.Time
}

// New returns an empty page state
func New(id string) State {
	return State{
		ID:        id,
		Errors:    models.ValidationResult{},
		UpdatedAt: now(),
	}
}

func (s State) touched() State {
	s.UpdatedAt = now()
	return s
}

// SetField stores a form value. A field's error flag is cleared as soon as any
// non-empty value is supplied; it is only raised again by the next submission.
func (s State) SetField(field, value string) (State, error) {
	metrics, err := s.Metrics.With(field, value)
	if err != nil {
		return s, apperrors.NewValidationError(err.Error(), err)
	}
	s.Metrics = metrics
	if !validation.IsEmpty(value) {
		s.Errors = s.Errors.Clear(field)
	}
	return s.touched(), nil
}

// SelectImage stores the scan and its locally produced preview
func (s State) SelectImage(upload models.ImageUpload) State {
	s.Image = &upload
	s.Preview = upload.PreviewDataURL()
	return s.touched()
}

// ClearImage drops the selected scan and its preview
func (s State) ClearImage() State {
	s.Image = nil
	s.Preview = ""
	return s.touched()
}

// RejectRun records a submission that failed validation before any request
func (s State) RejectRun(result models.ValidationResult) State {
	s.Errors = result
	notice := NoticeValidationFailed
	s.Notice = &notice
	return s.touched()
}

// BeginRun stores the fresh validation result, clears both results and marks the page loading
func (s State) BeginRun(result models.ValidationResult) (State, error) {
	if s.Loading {
		return s, apperrors.NewConflictError("A prediction is already running", nil)
	}
	s.Errors = result
	s.Loading = true
	s.Run++
	s.CSVResult = nil
	s.CNNResult = nil
	s.Submitted = RunInputs{}
	s.Notice = nil
	return s.touched(), nil
}

// CompleteRun replaces each result the run produced along with the inputs
// behind it. Results of a superseded run are ignored.
func (s State) CompleteRun(run int, inputs RunInputs, csv *models.CSVPredictionResult, cnn *models.CNNPredictionResult) State {
	if run != s.Run || !s.Loading {
		return s
	}
	s.Loading = false
	if csv != nil {
		s.CSVResult = csv
		s.Submitted.Payload = inputs.Payload
	}
	if cnn != nil {
		s.CNNResult = cnn
		s.Submitted.ScanName = inputs.ScanName
	}
	notice := NoticePredictionsComplete
	s.Notice = &notice
	return s.touched()
}

// FailRun ends the run without applying any result
func (s State) FailRun(run int, message string) State {
	if run != s.Run || !s.Loading {
		return s
	}
	s.Loading = false
	notice := FailureNotice(message)
	s.Notice = &notice
	return s.touched()
}

// WithNotice replaces the current notice
func (s State) WithNotice(n models.Notice) State {
	s.Notice = &n
	return s.touched()
}

// Reset discards the form, the scan and both results. Any run still in flight is superseded.
func (s State) Reset() State {
	reset := New(s.ID)
	reset.Run = s.Run + 1
	return reset
}

// HasResults reports whether any prediction result is held
func (s State) HasResults() bool {
	return s.CSVResult != nil || s.CNNResult != nil
}

// Response converts the state for the HTTP surface. The local preview is left
// out once the imaging result carries the same image.
func (s State) Response() models.SessionResponse {
	errs := s.Errors
	if errs == nil {
		errs = models.ValidationResult{}
	}
	preview := s.Preview
	if s.CNNResult != nil && s.CNNResult.ImagePreview != "" {
		preview = ""
	}
	return models.SessionResponse{
		ID:        s.ID,
		Metrics:   s.Metrics,
		Errors:    errs,
		Image:     s.Image,
		Preview:   preview,
		CSVResult: s.CSVResult,
		CNNResult: s.CNNResult,
		Loading:   s.Loading,
		Notice:    s.Notice,
		UpdatedAt: s.UpdatedAt,
	}
}
