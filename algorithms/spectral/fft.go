// Package spectral implements the spectral-estimation stage: a windowed
// STFT over complex CSI channels and spectrogram assembly with optional
// artifact cleanup.
package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality over complex signals
type FFT struct {
	// No state needed for now
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the FFT of a complex signal using mjibson/go-dsp,
// which handles all sizes efficiently, including non-power-of-2.
func (f *FFT) Compute(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFT(x)
}

// ComputeReal computes the FFT of a real signal
func (f *FFT) ComputeReal(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// Inverse computes the inverse FFT
func (f *FFT) Inverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.IFFT(x)
}
