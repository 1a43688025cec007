package config

import (
	"fmt"
)

// suiteSpec binds one suite: its defaults, the override keys it accepts,
// and any constraints beyond the shared validation. Adding a suite means
// adding an entry here; stage implementations are untouched.
type suiteSpec struct {
	defaults func() Params
	allowed  map[string]struct{}
	validate func(*Params) error
}

func commonKeys() map[string]struct{} {
	return map[string]struct{}{
		"suite":            {},
		"fs":               {},
		"passband":         {},
		"dcRemove":         {},
		"pca":              {},
		"stft":             {},
		"stftWindow":       {},
		"phaseCalibration": {},
		"device":           {},
	}
}

func withFilterKey(keys map[string]struct{}) map[string]struct{} {
	keys["filter"] = struct{}{}
	return keys
}

var suites = map[Suite]suiteSpec{
	SuiteInFit: {
		defaults: InFitDefaults,
		allowed:  withFilterKey(commonKeys()),
	},
	SuiteWiDance: {
		defaults: WiDanceDefaults,
		allowed:  withFilterKey(commonKeys()),
	},
	SuiteCARM: {
		// CARM forces low-pass filtering, so the filter kind is not an
		// override; the passband still is.
		defaults: CARMDefaults,
		allowed:  commonKeys(),
		validate: func(p *Params) error {
			if p.Filter.Kind != FilterLowPass {
				return fmt.Errorf("%w: filter: carm requires low-pass filtering", ErrInvalidParameter)
			}
			if p.STFT.CleanupWindow <= 0 {
				return fmt.Errorf("%w: stft: carm requires spectrogram cleanup (cleanup window > 0)", ErrInvalidParameter)
			}
			return nil
		},
	},
}

// InFitDefaults returns the InFit suite's default parameters.
func InFitDefaults() Params {
	return Params{
		Suite:      SuiteInFit,
		SampleRate: 1000,
		Device:     "iwl5300",
		Filter:     FilterSpec{Kind: FilterLowPass, Passband: []float64{200}},
		DCRemove:   WindowSpec{Size: 1000, Stride: 100},
		PCA:        PCASpec{Window: 500, Stride: 500, Components: []int{1, 2, 3}},
		STFT:       STFTSpec{Window: 256, Stride: 32, CleanupWindow: 0},
		STFTWindow: "hann",

		PhaseMethod:   "none",
		AntennaSelect: false,
	}
}

// WiDanceDefaults returns the WiDance suite's default parameters:
// band-pass conditioning plus conjugate phase calibration with the
// reference antenna chosen by signal strength.
func WiDanceDefaults() Params {
	return Params{
		Suite:      SuiteWiDance,
		SampleRate: 1000,
		Device:     "iwl5300",
		Filter:     FilterSpec{Kind: FilterBandPass, Passband: []float64{2, 200}},
		DCRemove:   WindowSpec{Size: 1000, Stride: 100},
		PCA:        PCASpec{Window: 500, Stride: 500, Components: []int{1, 2, 3}},
		STFT:       STFTSpec{Window: 256, Stride: 32, CleanupWindow: 0},
		STFTWindow: "hann",

		PhaseMethod:   "conjugate",
		AntennaSelect: true,
	}
}

// CARMDefaults returns the CARM suite's default parameters: low-pass
// conditioning, the second and third principal components, and
// spectrogram cleanup always enabled.
func CARMDefaults() Params {
	return Params{
		Suite:      SuiteCARM,
		SampleRate: 1000,
		Device:     "iwl5300",
		Filter:     FilterSpec{Kind: FilterLowPass, Passband: []float64{200}},
		DCRemove:   WindowSpec{Size: 1000, Stride: 1000},
		PCA:        PCASpec{Window: 1000, Stride: 1000, Components: []int{2, 3}},
		STFT:       STFTSpec{Window: 256, Stride: 32, CleanupWindow: 15},
		STFTWindow: "hann",

		PhaseMethod:   "none",
		AntennaSelect: false,
	}
}
