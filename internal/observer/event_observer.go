package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PredictionEvent represents a step in the lifecycle of one submission
type PredictionEvent struct {
	EventType    EventType              `json:"event_type"`
	Timestamp    time.Time              `json:"timestamp"`
	SessionID    string                 `json:"session_id,omitempty"`
	Models       []string               `json:"models,omitempty"`
	Duration     time.Duration          `json:"duration"`
	Success      bool                   `json:"success"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of prediction event
type EventType string

const (
	// PredictionStarted when at least one model request is about to be issued
	PredictionStarted EventType = "prediction_started"
	// PredictionCompleted when every issued request succeeded
	PredictionCompleted EventType = "prediction_completed"
	// PredictionFailed when any issued request failed
	PredictionFailed EventType = "prediction_failed"
	// ValidationFailed when a submission had neither valid metrics nor a scan
	ValidationFailed EventType = "validation_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PredictionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PredictionEvent)
}

// LoggingObserver logs prediction events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles prediction events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PredictionEvent) {
	fields := logrus.Fields{
		"event_type":  event.EventType,
		"session_id":  event.SessionID,
		"models":      event.Models,
		"duration_ms": event.Duration.Milliseconds(),
		"success":     event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case PredictionStarted:
		entry.Info("Prediction run started")
	case PredictionCompleted:
		entry.Info("Prediction run completed")
	case PredictionFailed:
		entry.Error("Prediction run failed")
	case ValidationFailed:
		entry.Warn("Submission rejected by validation")
	default:
		entry.Info("Prediction event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from prediction events
type MetricsObserver struct {
	mu             sync.RWMutex
	totalRuns      int64
	successfulRuns int64
	failedRuns     int64
	rejectedRuns   int64
	modelRequests  map[string]int64
	totalDuration  time.Duration
}

// Metrics is a snapshot of MetricsObserver counters
type Metrics struct {
	TotalRuns        int64            `json:"total_runs"`
	SuccessfulRuns   int64            `json:"successful_runs"`
	FailedRuns       int64            `json:"failed_runs"`
	RejectedRuns     int64            `json:"rejected_runs"`
	ModelRequests    map[string]int64 `json:"model_requests"`
	AvgRunDurationMs int64            `json:"avg_run_duration_ms"`
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		modelRequests: make(map[string]int64),
	}
}

// OnEvent handles prediction events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event PredictionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case PredictionStarted:
		o.totalRuns++
		for _, m := range event.Models {
			o.modelRequests[m]++
		}
	case PredictionCompleted:
		o.successfulRuns++
		o.totalDuration += event.Duration
	case PredictionFailed:
		o.failedRuns++
	case ValidationFailed:
		o.rejectedRuns++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var avg time.Duration
	if o.successfulRuns > 0 {
		avg = o.totalDuration / time.Duration(o.successfulRuns)
	}

	requests := make(map[string]int64, len(o.modelRequests))
	for k, v := range o.modelRequests {
		requests[k] = v
	}

	return Metrics{
		TotalRuns:        o.totalRuns,
		SuccessfulRuns:   o.successfulRuns,
		FailedRuns:       o.failedRuns,
		RejectedRuns:     o.rejectedRuns,
		ModelRequests:    requests,
		AvgRunDurationMs: avg.Milliseconds(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	closed    bool
	// wg.Add only happens under mu, so Close can wait without racing new notifications
	wg sync.WaitGroup
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event PredictionEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	// Notify observers concurrently
	for _, observer := range p.observers {
		p.wg.Add(1)
		go func(obs Observer) {
			defer p.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the application
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// Flush waits until every notification sent so far has been handled. It is
// meant for callers that have stopped notifying, such as tests; use Close
// while notifications may still arrive.
func (p *EventPublisher) Flush() {
	p.wg.Wait()
}

// Close drops every later notification and waits for the pending ones
func (p *EventPublisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
