package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resolve builds an immutable Params from an options map. The "suite"
// key (default "infit", case-insensitive) selects the defaults and the
// accepted key set; remaining options are merged onto those defaults and
// the result validated as a whole.
func Resolve(options map[string]any) (Params, error) {
	suiteName := "infit"
	if raw, ok := options["suite"]; ok {
		s, ok := asString(raw)
		if !ok {
			return Params{}, fmt.Errorf("%w: suite: expected a string, got %T", ErrInvalidParameter, raw)
		}
		suiteName = s
	}

	spec, ok := suites[Suite(strings.ToLower(suiteName))]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnsupportedSuite, suiteName)
	}
	params := spec.defaults()

	// Reject unknown keys before touching any value, listing all of them.
	var unknown []string
	for key := range options {
		if _, ok := spec.allowed[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Params{}, fmt.Errorf("%w: suite %s does not accept: %s",
			ErrUnsupportedField, params.Suite, strings.Join(unknown, ", "))
	}

	if err := applyOverrides(&params, options); err != nil {
		return Params{}, err
	}

	if err := validate(&params); err != nil {
		return Params{}, err
	}
	if spec.validate != nil {
		if err := spec.validate(&params); err != nil {
			return Params{}, err
		}
	}

	return params, nil
}

// ParseYAML decodes a YAML options document into an options map for
// Resolve. It operates on bytes only; reading files is the caller's job.
func ParseYAML(data []byte) (map[string]any, error) {
	options := make(map[string]any)
	if err := yaml.Unmarshal(data, &options); err != nil {
		return nil, fmt.Errorf("%w: options document: %v", ErrInvalidParameter, err)
	}
	return options, nil
}

func applyOverrides(p *Params, options map[string]any) error {
	for key, raw := range options {
		switch key {
		case "suite":
			// Consumed by Resolve.

		case "fs":
			fs, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("%w: fs: expected a number, got %T", ErrInvalidParameter, raw)
			}
			p.SampleRate = fs

		case "device":
			device, ok := asString(raw)
			if !ok {
				return fmt.Errorf("%w: device: expected a string, got %T", ErrInvalidParameter, raw)
			}
			p.Device = device

		case "filter":
			kind, ok := asString(raw)
			if !ok {
				return fmt.Errorf("%w: filter: expected a string, got %T", ErrInvalidParameter, raw)
			}
			p.Filter.Kind = FilterKind(strings.ToLower(kind))

		case "passband":
			band, ok := asFloats(raw)
			if !ok {
				return fmt.Errorf("%w: passband: expected a sequence of frequencies, got %T", ErrInvalidParameter, raw)
			}
			p.Filter.Passband = band

		case "dcRemove":
			vals, ok := asInts(raw)
			if !ok || len(vals) != 2 {
				return fmt.Errorf("%w: dcRemove: expected (window, stride)", ErrInvalidParameter)
			}
			p.DCRemove = WindowSpec{Size: vals[0], Stride: vals[1]}

		case "pca":
			vals, ok := asInts(raw)
			if !ok || len(vals) < 3 {
				return fmt.Errorf("%w: pca: expected (window, stride, components...)", ErrInvalidParameter)
			}
			p.PCA = PCASpec{Window: vals[0], Stride: vals[1], Components: vals[2:]}

		case "stft":
			vals, ok := asInts(raw)
			if !ok || len(vals) != 3 {
				return fmt.Errorf("%w: stft: expected (window, stride, cleanupWindow)", ErrInvalidParameter)
			}
			p.STFT = STFTSpec{Window: vals[0], Stride: vals[1], CleanupWindow: vals[2]}

		case "stftWindow":
			name, ok := asString(raw)
			if !ok {
				return fmt.Errorf("%w: stftWindow: expected a string, got %T", ErrInvalidParameter, raw)
			}
			p.STFTWindow = strings.ToLower(name)

		case "phaseCalibration":
			method, ok := asString(raw)
			if !ok {
				return fmt.Errorf("%w: phaseCalibration: expected a string, got %T", ErrInvalidParameter, raw)
			}
			p.PhaseMethod = strings.ToLower(method)
		}
	}
	return nil
}

func validate(p *Params) error {
	if p.SampleRate <= 0 || math.IsNaN(p.SampleRate) || math.IsInf(p.SampleRate, 0) {
		return fmt.Errorf("%w: fs: sampling rate must be a positive scalar, got %v", ErrInvalidParameter, p.SampleRate)
	}

	switch p.Filter.Kind {
	case FilterLowPass, FilterHighPass:
		if len(p.Filter.Passband) != 1 {
			return fmt.Errorf("%w: passband: %s expects one cutoff frequency, got %d",
				ErrInvalidParameter, p.Filter.Kind, len(p.Filter.Passband))
		}
	case FilterBandPass:
		if len(p.Filter.Passband) != 2 {
			return fmt.Errorf("%w: passband: bpf expects (low, high), got %d values",
				ErrInvalidParameter, len(p.Filter.Passband))
		}
	default:
		return fmt.Errorf("%w: filter: unknown kind %q (want lpf, bpf or hpf)", ErrInvalidParameter, p.Filter.Kind)
	}

	nyquist := p.SampleRate / 2
	prev := 0.0
	for _, f := range p.Filter.Passband {
		if f <= prev {
			return fmt.Errorf("%w: passband: frequencies must be positive and strictly increasing", ErrInvalidParameter)
		}
		if f >= nyquist {
			return fmt.Errorf("%w: passband: %g Hz is at or above Nyquist (%g Hz)", ErrInvalidParameter, f, nyquist)
		}
		prev = f
	}

	if p.DCRemove.Size <= 0 || p.DCRemove.Stride <= 0 {
		return fmt.Errorf("%w: dcRemove: window and stride must be positive", ErrInvalidParameter)
	}
	if p.DCRemove.Stride > p.DCRemove.Size {
		return fmt.Errorf("%w: dcRemove: stride %d exceeds window %d, leaving uncovered samples",
			ErrInvalidParameter, p.DCRemove.Stride, p.DCRemove.Size)
	}

	if p.PCA.Window <= 0 || p.PCA.Stride <= 0 {
		return fmt.Errorf("%w: pca: window and stride must be positive", ErrInvalidParameter)
	}
	if p.PCA.Stride > p.PCA.Window {
		return fmt.Errorf("%w: pca: stride %d exceeds window %d, leaving uncovered samples",
			ErrInvalidParameter, p.PCA.Stride, p.PCA.Window)
	}
	if len(p.PCA.Components) == 0 {
		return fmt.Errorf("%w: pca: at least one component index is required", ErrInvalidParameter)
	}
	for _, c := range p.PCA.Components {
		if c < 1 {
			return fmt.Errorf("%w: pca: component indices are 1-based, got %d", ErrInvalidParameter, c)
		}
	}

	// The DC window bounds the temporal support of everything downstream.
	if p.DCRemove.Size < p.PCA.Window {
		return fmt.Errorf("%w: dcRemove: window %d is smaller than the pca window %d",
			ErrInvalidParameter, p.DCRemove.Size, p.PCA.Window)
	}

	if p.STFT.Window <= 0 || p.STFT.Stride <= 0 {
		return fmt.Errorf("%w: stft: window and stride must be positive", ErrInvalidParameter)
	}
	if p.STFT.CleanupWindow < 0 {
		return fmt.Errorf("%w: stft: cleanup window must be non-negative", ErrInvalidParameter)
	}

	switch p.STFTWindow {
	case "hann", "hamming":
	default:
		return fmt.Errorf("%w: stftWindow: unknown window %q (want hann or hamming)", ErrInvalidParameter, p.STFTWindow)
	}

	if p.PhaseMethod == "" {
		return fmt.Errorf("%w: phaseCalibration: method name must not be empty", ErrInvalidParameter)
	}

	return nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// asFloats accepts a numeric sequence or a single number (a one-element
// sequence), covering both Go literals and decoded YAML values.
func asFloats(v any) ([]float64, bool) {
	switch seq := v.(type) {
	case []float64:
		out := make([]float64, len(seq))
		copy(out, seq)
		return out, true
	case []int:
		out := make([]float64, len(seq))
		for i, n := range seq {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, len(seq))
		for i, item := range seq {
			f, ok := asFloat(item)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	default:
		if f, ok := asFloat(v); ok {
			return []float64{f}, true
		}
		return nil, false
	}
}

// asInts accepts integer sequences; floats are only accepted when they
// carry integral values.
func asInts(v any) ([]int, bool) {
	floats, ok := asFloats(v)
	if !ok {
		return nil, false
	}
	out := make([]int, len(floats))
	for i, f := range floats {
		if f != math.Trunc(f) {
			return nil, false
		}
		out[i] = int(f)
	}
	return out, true
}
