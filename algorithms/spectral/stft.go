package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/wisense/csiprep/csi"
	"github.com/wisense/csiprep/logging"
)

// STFT provides Short-Time Fourier Transform functionality for complex
// CSI channels
type STFT struct {
	fft    *FFT
	logger logging.Logger
}

// Result holds the STFT of one channel
type Result struct {
	Magnitude      [][]float64 // Time x Frequency magnitude matrix
	TimeFrames     int         // Number of time frames
	FreqBins       int         // Number of frequency bins
	SampleRate     float64     // Sampling rate (Hz)
	WindowSize     int         // FFT window size
	HopSize        int         // Hop size between frames
	FreqResolution float64     // Frequency resolution (Hz/bin)
	TimeResolution float64     // Time resolution (seconds/frame)
}

// Window interface for windowing functions
type Window interface {
	ApplyInPlace(signal []complex128) error
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
		logger: logging.WithFields(logging.Fields{
			"component": "stft",
		}),
	}
}

// Compute computes the STFT of one channel with parallel frame
// processing. Frames shorter than the window are never emitted; a signal
// shorter than one window fails with ErrInsufficientSamples.
func (s *STFT) Compute(signal []complex128, windowSize, hopSize int, sampleRate float64, window Window) (*Result, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}

	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	if len(signal) < windowSize {
		return nil, fmt.Errorf("%w: stft window %d exceeds the %d available packets",
			csi.ErrInsufficientSamples, windowSize, len(signal))
	}

	// Calculate number of frames
	numFrames := (len(signal)-windowSize)/hopSize + 1

	// Positive frequencies only (including DC and Nyquist)
	freqBins := windowSize/2 + 1

	magnitude := make([][]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		magnitude[i] = make([]float64, freqBins)
	}

	numWorkers := s.getOptimalWorkerCount(numFrames)

	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]complex128, windowSize)

			for frameIdx := range jobs {
				startIdx := frameIdx * hopSize
				copy(frameBuffer, signal[startIdx:startIdx+windowSize])

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						s.logger.Error(err, "window application failed", logging.Fields{
							"frame": frameIdx,
						})
						continue
					}
				}

				fftResult := s.fft.Compute(frameBuffer)

				for i := 0; i < freqBins; i++ {
					magnitude[frameIdx][i] = cmplx.Abs(fftResult[i])
				}
			}
		}()
	}

	for frameIdx := 0; frameIdx < numFrames; frameIdx++ {
		jobs <- frameIdx
	}
	close(jobs)

	wg.Wait()

	result := &Result{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: sampleRate / float64(windowSize),
		TimeResolution: float64(hopSize) / sampleRate,
	}

	return result, nil
}

// getOptimalWorkerCount determines the optimal number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(min(numCPU/2, numFrames), 1)
	}

	// Cap at 8 for medium loads
	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
