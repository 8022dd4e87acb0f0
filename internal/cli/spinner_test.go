package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()

	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Building input.json")
	s.Start()
	s.SetMessage("Laying out 42 nodes")
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message != "Laying out 42 nodes" {
		t.Errorf("message = %q, want the updated stage text", s.message)
	}
}

func TestStageHooksDriveSpinnerMessage(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "starting")
	h := stageHooks{spinner: s}
	ctx := context.Background()

	h.OnBuildStart(ctx, "physics.json")
	if s.message != "Building physics.json" {
		t.Errorf("after build start: %q", s.message)
	}
	h.OnLayoutStart(ctx, 7)
	if s.message != "Laying out 7 nodes" {
		t.Errorf("after layout start: %q", s.message)
	}
	h.OnRenderStart(ctx, []string{"svg", "png"})
	if s.message != "Rendering svg, png" {
		t.Errorf("after render start: %q", s.message)
	}
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Testing error...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed!")
}
