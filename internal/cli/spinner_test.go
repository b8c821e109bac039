package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStopClearsCleanly(t *testing.T) {
	s := newSpinner(context.Background(), "Reading score...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Compiling...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerTracksParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Scanning offsets...")
	s.Start()

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after the parent context ended")
	}
}

func TestSpinnerTracksParentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, "Scanning offsets...")
	s.Start()
	<-ctx.Done()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after the parent context timed out")
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner(context.Background(), "Compiling...")
	s.Start()
	s.StopWithError("Compile failed")
}
