package service

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "go-insight-studio/internal/errors"
)

func TestTaskGroup_Empty(t *testing.T) {
	g := NewTaskGroup()
	if err := g.Wait(); err != nil {
		t.Errorf("Expected empty group to succeed, got %v", err)
	}
}

func TestTaskGroup_AllSucceed(t *testing.T) {
	g := NewTaskGroup()
	var counter int32

	for i := 0; i < 5; i++ {
		g.Go("job", func() error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if counter != 5 {
		t.Errorf("Expected counter to be 5, got %d", counter)
	}
	if len(g.Tasks()) != 5 {
		t.Errorf("Expected 5 task names, got %d", len(g.Tasks()))
	}
}

func TestTaskGroup_FirstErrorWinsAndSiblingsFinish(t *testing.T) {
	g := NewTaskGroup()
	failure := errors.New("first")
	var siblingDone int32

	g.Go("fails", func() error { return failure })
	g.Go("slow", func() error {
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt32(&siblingDone, 1)
		return nil
	})

	if err := g.Wait(); !errors.Is(err, failure) {
		t.Errorf("Expected first error, got %v", err)
	}
	if atomic.LoadInt32(&siblingDone) != 1 {
		t.Error("Expected Wait to join the sibling before returning")
	}
}

func TestTaskGroup_PanicBecomesInternalError(t *testing.T) {
	g := NewTaskGroup()
	g.Go("explodes", func() error { panic("boom") })

	err := g.Wait()
	if !apperrors.IsType(err, apperrors.ErrorTypeInternal) {
		t.Errorf("Expected internal error, got %v", err)
	}
}
