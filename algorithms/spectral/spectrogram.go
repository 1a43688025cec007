package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Spectrogram is the terminal output of the pipeline: summed channel
// magnitudes indexed by (frequency bin, time frame), with the matching
// frequency and time axes.
type Spectrogram struct {
	Magnitude [][]float64 // [frequency bin][time frame]
	Freqs     []float64   // Hz per bin
	Times     []float64   // seconds per frame (frame centers)
}

// NewSpectrogram combines per-channel STFT results into one spectrogram
// by summing magnitudes across channels. All results must share the same
// geometry.
func NewSpectrogram(channels []*Result) (*Spectrogram, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("no channel spectra to combine")
	}

	first := channels[0]
	frames := first.TimeFrames
	bins := first.FreqBins

	// Accumulate in the STFT's frame-major layout, then transpose.
	sum := make([][]float64, frames)
	for f := range sum {
		sum[f] = make([]float64, bins)
	}

	for i, ch := range channels {
		if ch.TimeFrames != frames || ch.FreqBins != bins {
			return nil, fmt.Errorf("channel %d spectrum is %dx%d, expected %dx%d",
				i, ch.TimeFrames, ch.FreqBins, frames, bins)
		}
		for f := range sum {
			floats.Add(sum[f], ch.Magnitude[f])
		}
	}

	combined := make([][]float64, bins)
	for k := range combined {
		combined[k] = make([]float64, frames)
		for f := 0; f < frames; f++ {
			combined[k][f] = sum[f][k]
		}
	}

	freqs := make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * first.FreqResolution
	}

	times := make([]float64, frames)
	for f := range times {
		times[f] = (float64(f*first.HopSize) + float64(first.WindowSize)/2) / first.SampleRate
	}

	return &Spectrogram{Magnitude: combined, Freqs: freqs, Times: times}, nil
}

// Clean suppresses non-informative spectrogram content: each time frame
// is smoothed across frequency bins with a centered moving average of
// the given length, flattening spurious narrowband artifacts, and the
// static DC row is zeroed afterwards. Even lengths extend one bin
// further above than below. A window of 0 or 1 leaves the smoothing
// off; edge regions use truncated windows.
func (sp *Spectrogram) Clean(window int) {
	bins := len(sp.Magnitude)
	if bins == 0 {
		return
	}
	frames := len(sp.Magnitude[0])

	if window > 1 {
		column := make([]float64, bins)

		for f := 0; f < frames; f++ {
			for k := 0; k < bins; k++ {
				column[k] = sp.Magnitude[k][f]
			}

			for k := 0; k < bins; k++ {
				lo := max(k-(window-1)/2, 0)
				hi := min(k+window/2+1, bins)
				sp.Magnitude[k][f] = floats.Sum(column[lo:hi]) / float64(hi-lo)
			}
		}
	}

	for f := 0; f < frames; f++ {
		sp.Magnitude[0][f] = 0
	}
}
