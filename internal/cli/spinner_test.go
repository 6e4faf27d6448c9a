package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("Rendering schematic...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()
}

func TestSpinnerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Rendering nets...")
	s.Start()

	cancel()
	time.Sleep(2 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("spinner must report cancellation after the parent context ends")
	}
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Converting to PDF...")
	s.Start()
	time.Sleep(60 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner must report cancellation after the context deadline")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Writing netlist...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopVariants(t *testing.T) {
	s := newSpinner("Exporting...")
	s.Start()
	s.StopWithSuccess("Exported")

	s = newSpinner("Exporting...")
	s.Start()
	s.StopWithError("Export failed")
}
