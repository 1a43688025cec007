package windowing

import (
	"math"
)

// Hann represents a Hann window function
type Hann struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHann creates a new Hann window. Periodic (symmetric=false) is the
// right choice for STFT analysis; symmetric for filter design.
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

func (h *Hann) generate() {
	h.coefficients = make([]float64, h.size)

	denominator := float64(h.size)
	if h.symmetric && h.size > 1 {
		denominator = float64(h.size - 1)
	}

	for i := 0; i < h.size; i++ {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
}

// ApplyInPlace applies the window to a frame in-place
func (h *Hann) ApplyInPlace(signal []complex128) error {
	return applyInPlace(h.coefficients, signal)
}

// Coefficients returns a copy of the window coefficients
func (h *Hann) Coefficients() []float64 {
	return copyCoefficients(h.coefficients)
}

// Size returns the window size
func (h *Hann) Size() int {
	return h.size
}
