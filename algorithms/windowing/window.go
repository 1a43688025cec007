// Package windowing provides analysis windows for spectral estimation.
// Windows carry real coefficients and apply to complex CSI frames.
package windowing

import (
	"fmt"
)

// Window is an analysis window of fixed size.
type Window interface {
	// ApplyInPlace scales the frame by the window coefficients.
	ApplyInPlace(signal []complex128) error

	// Coefficients returns a copy of the window coefficients.
	Coefficients() []float64

	// Size returns the window length.
	Size() int
}

// New creates a periodic window by name ("hann" or "hamming").
func New(name string, size int) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	switch name {
	case "hann":
		return NewHann(size, false), nil
	case "hamming":
		return NewHamming(size, false), nil
	default:
		return nil, fmt.Errorf("unknown window %q", name)
	}
}

func applyInPlace(coefficients []float64, signal []complex128) error {
	if len(signal) != len(coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(coefficients))
	}

	for i, c := range coefficients {
		signal[i] *= complex(c, 0)
	}

	return nil
}

func copyCoefficients(coefficients []float64) []float64 {
	out := make([]float64, len(coefficients))
	copy(out, coefficients)
	return out
}
