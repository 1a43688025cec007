package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisense/csiprep/config"
	"github.com/wisense/csiprep/csi"
)

// sinusoidalCapture builds a capture of stationary sinusoidal CSI: every
// channel carries amplitude 2+cos(2*pi*freq*t/fs) on a fixed per-channel
// phasor, plus the two leading timing columns.
func sinusoidalCapture(packets, links, subcarriers int, freq, fs float64) csi.Matrix {
	channels := links * subcarriers
	m := make(csi.Matrix, packets)
	for p := range m {
		row := make([]complex128, 2+channels)
		row[0] = complex(float64(p), 0)
		row[1] = complex(float64(p), 0)

		amp := 2 + math.Cos(2*math.Pi*freq*float64(p)/fs)
		for c := 0; c < channels; c++ {
			theta := 2 * math.Pi * float64(c) / float64(channels)
			row[2+c] = complex(amp*math.Cos(theta), amp*math.Sin(theta))
		}
		m[p] = row
	}
	return m
}

func assertFinite(t *testing.T, spectrogram [][]float64) {
	t.Helper()
	for k := range spectrogram {
		for f, v := range spectrogram[k] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite value %v at bin %d frame %d", v, k, f)
			}
		}
	}
}

func TestProcessInFitEndToEnd(t *testing.T) {
	t.Parallel()

	const (
		freq = 10.0
		fs   = 1000.0
	)
	matrix := sinusoidalCapture(3000, 3, 30, freq, fs)

	result, err := Process(matrix, map[string]any{"suite": "InFit"})
	require.NoError(t, err)

	// 256-point STFT over 3000 packets with stride 32.
	require.Len(t, result.Freqs, 129)
	require.Len(t, result.Times, (3000-256)/32+1)
	require.Len(t, result.Spectrogram, 129)
	require.Len(t, result.Spectrogram[0], len(result.Times))

	assertFinite(t, result.Spectrogram)

	// The dominant bin tracks the 10 Hz tone in every time frame.
	binWidth := result.Freqs[1]
	for f := range result.Times {
		peak := 0
		for k := range result.Spectrogram {
			if result.Spectrogram[k][f] > result.Spectrogram[peak][f] {
				peak = k
			}
		}
		assert.LessOrEqual(t, math.Abs(result.Freqs[peak]-freq), binWidth, "frame %d", f)
	}

	// Timing metadata is carried through untouched; no RSSI columns here.
	require.Len(t, result.Timing, 3000)
	assert.Equal(t, int64(42), result.Timing[42].TimestampLow)
	assert.Nil(t, result.RSSI)
}

func TestProcessIsDeterministic(t *testing.T) {
	t.Parallel()

	matrix := sinusoidalCapture(1500, 3, 30, 25, 1000)
	options := map[string]any{
		"suite":    "infit",
		"dcRemove": []int{500, 100},
		"pca":      []int{300, 300, 1, 2},
	}

	first, err := Process(matrix, options)
	require.NoError(t, err)
	second, err := Process(matrix, options)
	require.NoError(t, err)

	require.Equal(t, first.Spectrogram, second.Spectrogram)
	require.Equal(t, first.Freqs, second.Freqs)
	require.Equal(t, first.Times, second.Times)
}

func TestProcessSuites(t *testing.T) {
	t.Parallel()

	t.Run("widance runs conjugate calibration", func(t *testing.T) {
		t.Parallel()
		matrix := sinusoidalCapture(3000, 3, 30, 10, 1000)

		result, err := Process(matrix, map[string]any{"suite": "widance"})
		require.NoError(t, err)

		assert.Equal(t, config.SuiteWiDance, result.Params.Suite)
		assert.Equal(t, "conjugate", result.Params.PhaseMethod)
		assertFinite(t, result.Spectrogram)
	})

	t.Run("carm zeroes the static row", func(t *testing.T) {
		t.Parallel()
		matrix := sinusoidalCapture(3000, 3, 30, 10, 1000)

		result, err := Process(matrix, map[string]any{"suite": "carm"})
		require.NoError(t, err)

		assertFinite(t, result.Spectrogram)
		for f := range result.Times {
			assert.Zero(t, result.Spectrogram[0][f])
		}
	})
}

func TestProcessValidation(t *testing.T) {
	t.Parallel()

	t.Run("unsupported suite fails before extraction", func(t *testing.T) {
		t.Parallel()
		// A nil capture proves no numeric stage ran: extraction would
		// reject it with a different error.
		_, err := Process(nil, map[string]any{"suite": "foo"})
		assert.ErrorIs(t, err, config.ErrUnsupportedSuite)
	})

	t.Run("unknown device", func(t *testing.T) {
		t.Parallel()
		_, err := Process(nil, map[string]any{"device": "ath9k"})
		assert.ErrorIs(t, err, csi.ErrUnsupportedDevice)
	})

	t.Run("short capture fails before any stage", func(t *testing.T) {
		t.Parallel()
		matrix := sinusoidalCapture(500, 3, 30, 10, 1000)

		_, err := Process(matrix, nil) // infit needs 1000 packets for DC removal
		assert.ErrorIs(t, err, csi.ErrInsufficientSamples)
	})

	t.Run("pca component beyond capture channels", func(t *testing.T) {
		t.Parallel()
		matrix := sinusoidalCapture(1200, 3, 30, 10, 1000)

		_, err := Process(matrix, map[string]any{"pca": []int{500, 500, 1, 200}})
		assert.ErrorIs(t, err, config.ErrInvalidParameter)
	})

	t.Run("unknown phase method", func(t *testing.T) {
		t.Parallel()
		matrix := sinusoidalCapture(1200, 3, 30, 10, 1000)

		_, err := Process(matrix, map[string]any{"phaseCalibration": "magic"})
		assert.ErrorIs(t, err, config.ErrInvalidParameter)
	})

	t.Run("malformed capture", func(t *testing.T) {
		t.Parallel()
		matrix := csi.Matrix{make([]complex128, 10)}

		_, err := Process(matrix, nil)
		assert.ErrorIs(t, err, csi.ErrMalformedInput)
	})
}

func TestProcessFromYAMLOptions(t *testing.T) {
	t.Parallel()

	options, err := config.ParseYAML([]byte(`
suite: infit
fs: 1000
dcRemove: [600, 100]
pca: [300, 300, 1, 2, 3]
stft: [128, 32, 0]
`))
	require.NoError(t, err)

	matrix := sinusoidalCapture(1500, 3, 30, 10, 1000)
	result, err := Process(matrix, options)
	require.NoError(t, err)

	assert.Len(t, result.Freqs, 65)
	assertFinite(t, result.Spectrogram)
}
