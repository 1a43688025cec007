// Package pipeline orchestrates the CSI signal-conditioning suites: it
// resolves configuration, extracts the CSI tensor from a raw capture,
// runs the suite's denoise and calibration stages, and produces the
// final spectrogram. The pipeline is a pure, synchronous transform: each
// invocation owns its tensors and either runs to completion or fails.
package pipeline

import (
	"fmt"

	"github.com/wisense/csiprep/algorithms/spectral"
	"github.com/wisense/csiprep/algorithms/windowing"
	"github.com/wisense/csiprep/config"
	"github.com/wisense/csiprep/csi"
	"github.com/wisense/csiprep/logging"
)

// Result is the terminal pipeline output: the spectrogram with its axes,
// plus the capture metadata carried through untouched for alignment.
type Result struct {
	Spectrogram [][]float64 // [frequency bin][time frame]
	Freqs       []float64   // Hz per bin
	Times       []float64   // seconds per frame

	Timing []csi.Timing
	RSSI   [][]float64

	Params config.Params
}

// Process runs one conditioning pipeline invocation over a raw capture.
// All validation happens before the first numeric stage; on any failure
// there is no partial output.
func Process(matrix csi.Matrix, options map[string]any) (*Result, error) {
	params, err := config.Resolve(options)
	if err != nil {
		return nil, err
	}

	profile, err := csi.LookupDevice(params.Device)
	if err != nil {
		return nil, err
	}

	timing, tensor, rssi, err := csi.Extract(matrix, profile)
	if err != nil {
		return nil, err
	}

	if err := checkSupport(params, tensor); err != nil {
		return nil, err
	}

	stages, err := buildStages(params)
	if err != nil {
		return nil, err
	}

	window, err := windowing.New(params.STFTWindow, params.STFT.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: stftWindow: %v", config.ErrInvalidParameter, err)
	}

	logger := logging.WithFields(logging.Fields{
		"component": "pipeline",
		"suite":     string(params.Suite),
		"device":    params.Device,
	})
	logger.Debug("capture extracted", logging.Fields{
		"packets":  tensor.Packets,
		"links":    tensor.Links,
		"channels": tensor.Channels(),
	})

	current := tensor
	for _, st := range stages {
		logger.Debug("running stage", logging.Fields{"stage": st.name})
		current, err = st.run(current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
	}

	spectrogram, err := estimate(current, params, window)
	if err != nil {
		return nil, err
	}

	logger.Debug("spectrogram ready", logging.Fields{
		"bins":   len(spectrogram.Freqs),
		"frames": len(spectrogram.Times),
	})

	return &Result{
		Spectrogram: spectrogram.Magnitude,
		Freqs:       spectrogram.Freqs,
		Times:       spectrogram.Times,
		Timing:      timing,
		RSSI:        rssi,
		Params:      params,
	}, nil
}

// checkSupport verifies that the capture can sustain every configured
// window before any stage runs, so a capture fated to fail never pays
// for the early numeric stages.
func checkSupport(params config.Params, t *csi.Tensor) error {
	if t.Packets < params.DCRemove.Size {
		return fmt.Errorf("%w: dcRemove window %d exceeds the %d captured packets",
			csi.ErrInsufficientSamples, params.DCRemove.Size, t.Packets)
	}
	if t.Packets < params.PCA.Window {
		return fmt.Errorf("%w: pca window %d exceeds the %d captured packets",
			csi.ErrInsufficientSamples, params.PCA.Window, t.Packets)
	}
	if t.Packets < params.STFT.Window {
		return fmt.Errorf("%w: stft window %d exceeds the %d captured packets",
			csi.ErrInsufficientSamples, params.STFT.Window, t.Packets)
	}

	for _, c := range params.PCA.Components {
		if c > t.Channels() {
			return fmt.Errorf("%w: pca: component %d exceeds the %d capture channels",
				config.ErrInvalidParameter, c, t.Channels())
		}
	}

	return nil
}

// estimate runs the spectral-estimation stage: per-channel STFT, channel
// combination, and the optional cleanup pass.
func estimate(t *csi.Tensor, params config.Params, window windowing.Window) (*spectral.Spectrogram, error) {
	stft := spectral.NewSTFT()

	results := make([]*spectral.Result, t.Channels())
	for c := range t.Data {
		result, err := stft.Compute(t.Data[c], params.STFT.Window, params.STFT.Stride, params.SampleRate, window)
		if err != nil {
			return nil, fmt.Errorf("spectral estimation: %w", err)
		}
		results[c] = result
	}

	spectrogram, err := spectral.NewSpectrogram(results)
	if err != nil {
		return nil, fmt.Errorf("spectral estimation: %w", err)
	}

	if params.STFT.CleanupWindow > 0 {
		spectrogram.Clean(params.STFT.CleanupWindow)
	}

	return spectrogram, nil
}
