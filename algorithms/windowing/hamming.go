package windowing

import (
	"math"
)

// Hamming represents a Hamming window function
type Hamming struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHamming creates a new Hamming window
func NewHamming(size int, symmetric bool) *Hamming {
	h := &Hamming{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

func (h *Hamming) generate() {
	h.coefficients = make([]float64, h.size)

	denominator := float64(h.size)
	if h.symmetric && h.size > 1 {
		denominator = float64(h.size - 1)
	}

	for i := 0; i < h.size; i++ {
		h.coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denominator)
	}
}

// ApplyInPlace applies the window to a frame in-place
func (h *Hamming) ApplyInPlace(signal []complex128) error {
	return applyInPlace(h.coefficients, signal)
}

// Coefficients returns a copy of the window coefficients
func (h *Hamming) Coefficients() []float64 {
	return copyCoefficients(h.coefficients)
}

// Size returns the window size
func (h *Hamming) Size() int {
	return h.size
}
