// Package config resolves and validates pipeline configuration. A suite
// name plus a map of named overrides becomes an immutable Params value;
// all validation happens here, before any numeric stage runs.
package config

import (
	"errors"
)

var (
	// ErrInvalidParameter indicates a recognized option with a value that
	// violates its constraints. The message names the offending field.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedField indicates override keys a suite does not accept.
	// The message lists every offending key.
	ErrUnsupportedField = errors.New("unsupported field")

	// ErrUnsupportedSuite indicates an unknown processing suite name.
	ErrUnsupportedSuite = errors.New("unsupported suite")
)

// Suite names a fixed conditioning strategy: a stage ordering plus the
// defaults the stages run with.
type Suite string

const (
	SuiteInFit   Suite = "infit"
	SuiteWiDance Suite = "widance"
	SuiteCARM    Suite = "carm"
)

// FilterKind selects the frequency-domain filter shape.
type FilterKind string

const (
	FilterLowPass  FilterKind = "lpf"
	FilterBandPass FilterKind = "bpf"
	FilterHighPass FilterKind = "hpf"
)

// FilterSpec describes the denoise stage's frequency filter. Passband
// holds one cutoff for lpf/hpf and a (low, high) pair for bpf, in Hz.
type FilterSpec struct {
	Kind     FilterKind
	Passband []float64
}

// WindowSpec is a sliding window over the packet axis.
type WindowSpec struct {
	Size   int
	Stride int
}

// PCASpec configures per-window principal-component denoising.
// Components are 1-based indices in decreasing-variance order.
type PCASpec struct {
	Window     int
	Stride     int
	Components []int
}

// STFTSpec configures spectral estimation. CleanupWindow is the length
// of the spectrogram smoothing pass across frequency bins; 0 disables it.
type STFTSpec struct {
	Window        int
	Stride        int
	CleanupWindow int
}

// Params is the fully-resolved configuration for one pipeline
// invocation. It is created once by Resolve and read-only thereafter.
type Params struct {
	Suite      Suite
	SampleRate float64 // Hz
	Device     string

	Filter   FilterSpec
	DCRemove WindowSpec
	PCA      PCASpec
	STFT     STFTSpec

	// STFTWindow selects the analysis window ("hann" or "hamming").
	STFTWindow string

	// PhaseMethod names the phase-calibration strategy; "none" skips the
	// stage. AntennaSelect lets the calibrator pick its own reference
	// link instead of using link 0.
	PhaseMethod   string
	AntennaSelect bool
}
