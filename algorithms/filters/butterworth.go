package filters

import (
	"math"
	"runtime"
	"sync"

	"github.com/mjibson/go-dsp/fft"

	"github.com/wisense/csiprep/csi"
)

// defaultOrder is the Butterworth order used by the pipeline filters.
const defaultOrder = 4

// ZeroPhase is a zero-phase frequency-domain filter: the signal's full
// spectrum is scaled by a real, symmetric Butterworth magnitude response
// and transformed back. No phase is introduced at any frequency, so
// timing alignment is preserved for the spectral stage downstream.
type ZeroPhase struct {
	sampleRate float64
	gain       func(f float64) float64
}

// NewLowPass creates a zero-phase Butterworth low-pass filter.
func NewLowPass(cutoff, sampleRate float64) *ZeroPhase {
	return &ZeroPhase{
		sampleRate: sampleRate,
		gain:       lowPassGain(cutoff, defaultOrder),
	}
}

// NewHighPass creates a zero-phase Butterworth high-pass filter.
func NewHighPass(cutoff, sampleRate float64) *ZeroPhase {
	return &ZeroPhase{
		sampleRate: sampleRate,
		gain:       highPassGain(cutoff, defaultOrder),
	}
}

// NewBandPass creates a zero-phase band-pass filter as the cascade of a
// high-pass at low and a low-pass at high.
func NewBandPass(low, high, sampleRate float64) *ZeroPhase {
	hp := highPassGain(low, defaultOrder)
	lp := lowPassGain(high, defaultOrder)
	return &ZeroPhase{
		sampleRate: sampleRate,
		gain: func(f float64) float64 {
			return hp(f) * lp(f)
		},
	}
}

// lowPassGain is the Butterworth magnitude response
// |H(f)| = (1 + (f/fc)^2n)^-1/2.
func lowPassGain(cutoff float64, order int) func(float64) float64 {
	return func(f float64) float64 {
		return 1.0 / math.Sqrt(1.0+math.Pow(f/cutoff, 2*float64(order)))
	}
}

// highPassGain mirrors lowPassGain around the cutoff.
func highPassGain(cutoff float64, order int) func(float64) float64 {
	return func(f float64) float64 {
		if f == 0 {
			return 0.0
		}
		return 1.0 / math.Sqrt(1.0+math.Pow(cutoff/f, 2*float64(order)))
	}
}

// Gain returns the filter's magnitude response at frequency f (Hz).
func (z *ZeroPhase) Gain(f float64) float64 {
	return z.gain(math.Abs(f))
}

// ApplySignal filters a single complex time series.
func (z *ZeroPhase) ApplySignal(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	n := len(x)
	spectrum := fft.FFT(x)

	for k := range spectrum {
		// Two-sided bin frequency; negative frequencies mirror positive.
		f := float64(k) * z.sampleRate / float64(n)
		if k > n/2 {
			f = float64(k-n) * z.sampleRate / float64(n)
		}
		spectrum[k] *= complex(z.gain(math.Abs(f)), 0)
	}

	return fft.IFFT(spectrum)
}

// Apply filters every channel of the tensor independently. Channels are
// processed in parallel; results are identical to sequential application.
func (z *ZeroPhase) Apply(t *csi.Tensor) (*csi.Tensor, error) {
	out := csi.NewTensor(t.Links, t.Subcarriers, t.Packets)

	numWorkers := min(runtime.NumCPU(), t.Channels())
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan int, t.Channels())

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				copy(out.Data[c], z.ApplySignal(t.Data[c]))
			}
		}()
	}

	for c := range t.Data {
		jobs <- c
	}
	close(jobs)
	wg.Wait()

	return out, nil
}
