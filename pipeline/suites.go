package pipeline

import (
	"fmt"

	"github.com/wisense/csiprep/algorithms/filters"
	"github.com/wisense/csiprep/algorithms/phase"
	"github.com/wisense/csiprep/algorithms/stats"
	"github.com/wisense/csiprep/config"
	"github.com/wisense/csiprep/csi"
)

// stage is one conditioning step of a suite's plan.
type stage struct {
	name string
	run  func(t *csi.Tensor) (*csi.Tensor, error)
}

type stageKind int

const (
	stageDCRemove stageKind = iota
	stagePCA
	stageFilter
	stagePhase
)

func (k stageKind) String() string {
	switch k {
	case stageDCRemove:
		return "dc-removal"
	case stagePCA:
		return "pca-denoise"
	case stageFilter:
		return "frequency-filter"
	case stagePhase:
		return "phase-calibration"
	default:
		return "unknown"
	}
}

// suitePlans fixes each suite's stage inclusion and ordering. Spectral
// estimation terminates every plan and is not listed here. New suites
// bind a new plan (and config defaults); stage implementations are
// untouched.
var suitePlans = map[config.Suite][]stageKind{
	config.SuiteInFit:   {stageDCRemove, stagePCA, stageFilter, stagePhase},
	config.SuiteWiDance: {stageDCRemove, stagePCA, stageFilter, stagePhase},
	config.SuiteCARM:    {stageDCRemove, stagePCA, stageFilter},
}

// buildStages instantiates the suite's plan against the resolved
// parameters. The phase stage is dropped when the method is "none".
func buildStages(params config.Params) ([]stage, error) {
	plan, ok := suitePlans[params.Suite]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no stage plan", config.ErrUnsupportedSuite, params.Suite)
	}

	var stages []stage
	for _, kind := range plan {
		switch kind {
		case stageDCRemove:
			remover, err := filters.NewDCRemover(params.DCRemove.Size, params.DCRemove.Stride)
			if err != nil {
				return nil, fmt.Errorf("%w: dcRemove: %v", config.ErrInvalidParameter, err)
			}
			stages = append(stages, stage{name: kind.String(), run: remover.Apply})

		case stagePCA:
			pca, err := stats.NewPCA(params.PCA.Window, params.PCA.Stride, params.PCA.Components)
			if err != nil {
				return nil, fmt.Errorf("%w: pca: %v", config.ErrInvalidParameter, err)
			}
			stages = append(stages, stage{name: kind.String(), run: pca.Apply})

		case stageFilter:
			filter, err := buildFilter(params)
			if err != nil {
				return nil, err
			}
			stages = append(stages, stage{name: kind.String(), run: filter.Apply})

		case stagePhase:
			if params.PhaseMethod == "none" {
				continue
			}
			calibrator, err := phase.For(params.PhaseMethod, params.AntennaSelect)
			if err != nil {
				return nil, fmt.Errorf("%w: phaseCalibration: %v", config.ErrInvalidParameter, err)
			}
			stages = append(stages, stage{name: kind.String(), run: calibrator.Calibrate})
		}
	}

	return stages, nil
}

func buildFilter(params config.Params) (*filters.ZeroPhase, error) {
	band := params.Filter.Passband
	switch params.Filter.Kind {
	case config.FilterLowPass:
		return filters.NewLowPass(band[0], params.SampleRate), nil
	case config.FilterBandPass:
		return filters.NewBandPass(band[0], band[1], params.SampleRate), nil
	case config.FilterHighPass:
		return filters.NewHighPass(band[0], params.SampleRate), nil
	default:
		return nil, fmt.Errorf("%w: filter: unknown kind %q", config.ErrInvalidParameter, params.Filter.Kind)
	}
}
