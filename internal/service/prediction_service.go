package service

import (
	"context"
	"time"

	apperrors "go-insight-studio/internal/errors"
	"go-insight-studio/internal/observer"
	"go-insight-studio/internal/predictor"
	"go-insight-studio/pkg/models"
	"go-insight-studio/pkg/validation"
)

// ValidationNotice is reported when a submission has nothing to send
const ValidationNotice = "Please fill all required fields correctly or upload an MRI scan."

// Submission is the frozen snapshot of page state taken when the user submits
type Submission struct {
	SessionID string
	Metrics   models.ClinicalMetrics
	Image     *models.ImageUpload
	// Preview is the data URL already produced for Image, if any
	Preview string
}

// Plan is a validated submission ready to be executed
type Plan struct {
	Submission
	Validation models.ValidationResult
	// Payload is set only when the clinical metrics are valid
	Payload *models.ClinicalMetricsPayload
}

// Models returns the models the plan will query
func (p *Plan) Models() []string {
	var out []string
	if p.Payload != nil {
		out = append(out, models.ModelCSV)
	}
	if p.Image != nil {
		out = append(out, models.ModelCNN)
	}
	return out
}

// Outcome holds the results of a successful run. A nil result means the model was not queried.
type Outcome struct {
	Validation models.ValidationResult
	CSVResult  *models.CSVPredictionResult
	CNNResult  *models.CNNPredictionResult
}

// PredictionService decides which models to query for a submission and runs them
type PredictionService interface {
	// Prepare validates the snapshot. It fails when neither the metrics are valid
	// nor a scan is selected; the returned plan still carries the validation result.
	Prepare(sub Submission) (*Plan, error)

	// Execute issues the planned requests concurrently and joins them all-or-nothing
	Execute(ctx context.Context, plan *Plan) (*Outcome, error)

	// Submit is Prepare followed by Execute
	Submit(ctx context.Context, sub Submission) (*Outcome, error)
}

type predictionService struct {
	client    predictor.PredictionClient
	publisher observer.Subject
}

// NewPredictionService creates the submission orchestrator
func NewPredictionService(client predictor.PredictionClient, publisher observer.Subject) PredictionService {
	return &predictionService{
		client:    client,
		publisher: publisher,
	}
}

func (s *predictionService) Prepare(sub Submission) (*Plan, error) {
	result := validation.ValidateClinicalMetrics(sub.Metrics)
	plan := &Plan{Submission: sub, Validation: result}

	if result.Valid() {
		payload, err := sub.Metrics.Payload()
		if err != nil {
			return plan, apperrors.NewInternalError("failed to build clinical metrics payload", err)
		}
		plan.Payload = &payload
	}

	if plan.Payload == nil && sub.Image == nil {
		s.notify(context.Background(), observer.PredictionEvent{
			EventType: observer.ValidationFailed,
			SessionID: sub.SessionID,
			Metadata:  map[string]interface{}{"invalid_fields": result.Fields()},
		})
		return plan, apperrors.NewFieldValidationError(ValidationNotice, result.Fields())
	}
	return plan, nil
}

func (s *predictionService) Execute(ctx context.Context, plan *Plan) (*Outcome, error) {
	start := time.Now()
	s.notify(ctx, observer.PredictionEvent{
		EventType: observer.PredictionStarted,
		SessionID: plan.SessionID,
		Models:    plan.Models(),
	})

	var (
		csvResult *models.CSVPredictionResult
		cnnResult *models.CNNPredictionResult
		preview   = plan.Preview
	)

	g := NewTaskGroup()
	if plan.Payload != nil {
		payload := *plan.Payload
		g.Go(models.ModelCSV, func() error {
			r, err := s.client.RequestCSVPrediction(ctx, payload)
			if err != nil {
				return err
			}
			csvResult = r
			return nil
		})
	}
	if plan.Image != nil {
		image := *plan.Image
		g.Go(models.ModelCNN, func() error {
			r, err := s.client.RequestCNNPrediction(ctx, image)
			if err != nil {
				return err
			}
			cnnResult = r
			return nil
		})
		if preview == "" {
			g.Go("preview", func() error {
				preview = image.PreviewDataURL()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		s.notify(ctx, observer.PredictionEvent{
			EventType:    observer.PredictionFailed,
			SessionID:    plan.SessionID,
			Models:       plan.Models(),
			Duration:     time.Since(start),
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	if cnnResult != nil {
		cnnResult.ImagePreview = preview
	}

	s.notify(ctx, observer.PredictionEvent{
		EventType: observer.PredictionCompleted,
		SessionID: plan.SessionID,
		Models:    plan.Models(),
		Duration:  time.Since(start),
		Success:   true,
	})

	return &Outcome{
		Validation: plan.Validation,
		CSVResult:  csvResult,
		CNNResult:  cnnResult,
	}, nil
}

func (s *predictionService) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	plan, err := s.Prepare(sub)
	if err != nil {
		return &Outcome{Validation: plan.Validation}, err
	}
	return s.Execute(ctx, plan)
}

func (s *predictionService) notify(ctx context.Context, event observer.PredictionEvent) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = time.Now()
	s.publisher.NotifyObservers(ctx, event)
}
