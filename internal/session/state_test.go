package session

import (
	"testing"

	apperrors "go-insight-studio/internal/errors"
	"go-insight-studio/pkg/models"
)

func TestSetField_EagerErrorClear(t *testing.T) {
	s := New("s1")
	s.Errors = models.ValidationResult{models.FieldAge: true, models.FieldMMSE: true}

	blank, err := s.SetField(models.FieldAge, "  ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !blank.Errors[models.FieldAge] {
		t.Error("Expected blank value to keep the age flag")
	}

	next, err := s.SetField(models.FieldAge, "-5")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if next.Errors[models.FieldAge] {
		t.Error("Expected any non-empty value to clear the age flag")
	}
	if !next.Errors[models.FieldMMSE] {
		t.Error("Expected mmse flag untouched")
	}
	if next.Metrics.Age != "-5" {
		t.Errorf("Expected age stored, got %q", next.Metrics.Age)
	}
	if s.Metrics.Age != "" || !s.Errors[models.FieldAge] {
		t.Error("Expected the previous state to stay unchanged")
	}
}

func TestSetField_Rejected(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"weight", "80"},
		{models.FieldGender, "banana"},
		{models.FieldSES, "abc"},
		{models.FieldSES, "9"},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			_, err := New("s1").SetField(tt.field, tt.value)
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestSelectAndClearImage(t *testing.T) {
	upload := models.ImageUpload{Filename: "scan.png", ContentType: "image/png", Data: []byte{1, 2, 3}}
	s := New("s1").SelectImage(upload)

	if s.Image == nil || s.Image.Filename != "scan.png" {
		t.Fatal("Expected image selected")
	}
	if s.Preview != "data:image/png;base64,AQID" {
		t.Errorf("Unexpected preview %q", s.Preview)
	}

	cleared := s.ClearImage()
	if cleared.Image != nil || cleared.Preview != "" {
		t.Error("Expected image and preview cleared")
	}
}

func TestRunLifecycle(t *testing.T) {
	s := New("s1")
	s.CSVResult = &models.CSVPredictionResult{Prediction: "Demented"}

	running, err := s.BeginRun(models.ValidationResult{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !running.Loading || running.CSVResult != nil {
		t.Error("Expected loading state with cleared results")
	}

	if _, err := running.BeginRun(models.ValidationResult{}); !apperrors.IsType(err, apperrors.ErrorTypeConflict) {
		t.Errorf("Expected second run to be refused while loading, got %v", err)
	}

	cnn := &models.CNNPredictionResult{Prediction: "NonDemented"}
	done := running.CompleteRun(running.Run, RunInputs{ScanName: "scan.png"}, nil, cnn)
	if done.Loading {
		t.Error("Expected loading cleared")
	}
	if done.CSVResult != nil {
		t.Error("Expected CSV result to stay empty")
	}
	if done.CNNResult != cnn {
		t.Error("Expected CNN result stored")
	}
	if done.Notice == nil || done.Notice.Title != NoticePredictionsComplete.Title {
		t.Errorf("Unexpected notice %+v", done.Notice)
	}
	if done.Submitted.ScanName != "scan.png" || done.Submitted.Payload != nil {
		t.Errorf("Unexpected submitted inputs %+v", done.Submitted)
	}
}

func TestCompleteRun_SubmittedInputsOutliveFormEdits(t *testing.T) {
	s := New("s1").SelectImage(models.ImageUpload{Filename: "scan.png", ContentType: "image/png", Data: []byte{1}})
	s, _ = s.SetField(models.FieldAge, "72")
	running, _ := s.BeginRun(models.ValidationResult{})

	inputs := RunInputs{Payload: &models.ClinicalMetricsPayload{Gender: "F", Age: 72}, ScanName: "scan.png"}
	done := running.CompleteRun(running.Run, inputs,
		&models.CSVPredictionResult{Prediction: "NonDemented"},
		&models.CNNPredictionResult{Prediction: "NonDemented"})

	edited, err := done.SetField(models.FieldAge, "19")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	edited = edited.ClearImage()

	if edited.Submitted.Payload == nil || edited.Submitted.Payload.Age != 72 {
		t.Errorf("Expected submitted age 72, got %+v", edited.Submitted.Payload)
	}
	if edited.Submitted.ScanName != "scan.png" {
		t.Errorf("Expected submitted scan name kept, got %q", edited.Submitted.ScanName)
	}

	rerun, _ := edited.BeginRun(models.ValidationResult{})
	if rerun.Submitted != (RunInputs{}) {
		t.Errorf("Expected a new run to drop the previous inputs, got %+v", rerun.Submitted)
	}
	if reset := edited.Reset(); reset.Submitted != (RunInputs{}) {
		t.Errorf("Expected reset to drop submitted inputs, got %+v", reset.Submitted)
	}
}

func TestResponse_PreviewSentOnce(t *testing.T) {
	s := New("s1").SelectImage(models.ImageUpload{Filename: "scan.png", ContentType: "image/png", Data: []byte{1, 2, 3}})

	if got := s.Response().Preview; got != s.Preview {
		t.Errorf("Expected local preview before a result, got %q", got)
	}

	running, _ := s.BeginRun(models.ValidationResult{})
	done := running.CompleteRun(running.Run, RunInputs{ScanName: "scan.png"}, nil,
		&models.CNNPredictionResult{Prediction: "NonDemented", ImagePreview: s.Preview})

	resp := done.Response()
	if resp.Preview != "" {
		t.Errorf("Expected top-level preview omitted, got %q", resp.Preview)
	}
	if resp.CNNResult == nil || resp.CNNResult.ImagePreview != s.Preview {
		t.Error("Expected the imaging result to carry the preview")
	}
	if done.Preview == "" {
		t.Error("Expected the stored preview to be kept")
	}
}

func TestFailRun_NoPartialResults(t *testing.T) {
	running, _ := New("s1").BeginRun(models.ValidationResult{})
	failed := running.FailRun(running.Run, "CSV prediction request failed: 500 Internal Server Error internal error")

	if failed.Loading || failed.HasResults() {
		t.Error("Expected failed run to hold no results")
	}
	if failed.Notice == nil || !failed.Notice.Destructive || failed.Notice.Title != "Prediction Failed" {
		t.Errorf("Unexpected notice %+v", failed.Notice)
	}
}

func TestReset_SupersedesRunningPrediction(t *testing.T) {
	s, _ := New("s1").SetField(models.FieldGender, "M")
	running, _ := s.BeginRun(models.ValidationResult{})
	reset := running.Reset()

	if reset.Metrics != (models.ClinicalMetrics{}) || reset.Loading || reset.ID != "s1" {
		t.Errorf("Expected pristine state, got %+v", reset)
	}

	late := reset.CompleteRun(running.Run, RunInputs{}, &models.CSVPredictionResult{Prediction: "Demented"}, nil)
	if late.HasResults() {
		t.Error("Expected completion of a superseded run to be dropped")
	}
}

func TestRejectRun(t *testing.T) {
	s := New("s1")
	s.CSVResult = &models.CSVPredictionResult{Prediction: "Demented"}
	rejected := s.RejectRun(models.ValidationResult{models.FieldGender: true})

	if !rejected.Errors[models.FieldGender] {
		t.Error("Expected gender flagged")
	}
	if rejected.Notice == nil || rejected.Notice.Title != "Validation Error" {
		t.Errorf("Unexpected notice %+v", rejected.Notice)
	}
	if rejected.CSVResult == nil {
		t.Error("Expected previous results to remain when nothing was submitted")
	}
}
