package observer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event PredictionEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                            { return "panicking" }

func TestMetricsObserver_Counters(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)
	publisher.Subscribe(panickingObserver{})

	ctx := context.Background()
	publisher.NotifyObservers(ctx, PredictionEvent{EventType: PredictionStarted, Models: []string{"csv", "cnn"}})
	publisher.NotifyObservers(ctx, PredictionEvent{EventType: PredictionCompleted, Duration: 40 * time.Millisecond, Success: true})
	publisher.NotifyObservers(ctx, PredictionEvent{EventType: PredictionStarted, Models: []string{"cnn"}})
	publisher.NotifyObservers(ctx, PredictionEvent{EventType: PredictionFailed})
	publisher.NotifyObservers(ctx, PredictionEvent{EventType: ValidationFailed})
	publisher.Flush()

	got := metrics.GetMetrics()
	if got.TotalRuns != 2 || got.SuccessfulRuns != 1 || got.FailedRuns != 1 || got.RejectedRuns != 1 {
		t.Errorf("Unexpected counters %+v", got)
	}
	if got.ModelRequests["cnn"] != 2 || got.ModelRequests["csv"] != 1 {
		t.Errorf("Unexpected model requests %v", got.ModelRequests)
	}
	if got.AvgRunDurationMs != 40 {
		t.Errorf("Expected 40ms average, got %d", got.AvgRunDurationMs)
	}
}

func TestLoggingObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	obs := NewLoggingObserver(l)
	obs.OnEvent(context.Background(), PredictionEvent{
		EventType:    PredictionFailed,
		SessionID:    "s1",
		ErrorMessage: "CSV prediction request failed",
		Metadata:     map[string]interface{}{"stage": "join"},
	})

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"session_id":"s1"`, `"stage":"join"`, "Prediction run failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in log output: %s", want, out)
		}
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)
	publisher.Unsubscribe(metrics)

	publisher.NotifyObservers(context.Background(), PredictionEvent{EventType: PredictionStarted})
	publisher.Flush()

	if metrics.GetMetrics().TotalRuns != 0 {
		t.Error("Expected unsubscribed observer to receive nothing")
	}
}

func TestEventPublisher_Close(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)

	publisher.NotifyObservers(context.Background(), PredictionEvent{EventType: PredictionStarted})
	publisher.Close()

	if got := metrics.GetMetrics().TotalRuns; got != 1 {
		t.Errorf("Expected pending notification handled before Close returns, got %d runs", got)
	}

	publisher.NotifyObservers(context.Background(), PredictionEvent{EventType: PredictionStarted})
	publisher.Flush()
	if got := metrics.GetMetrics().TotalRuns; got != 1 {
		t.Errorf("Expected notifications after Close to be dropped, got %d runs", got)
	}
}

func TestEventPublisher_CloseWhileNotifying(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			publisher.NotifyObservers(context.Background(), PredictionEvent{EventType: PredictionStarted})
		}
	}()

	publisher.Close()
	<-done
	publisher.Flush()

	if got := metrics.GetMetrics().TotalRuns; got > 100 {
		t.Errorf("Expected at most 100 runs, got %d", got)
	}
}
