// Package filters implements the denoising filters of the conditioning
// pipeline: sliding-window DC removal and zero-phase frequency filtering.
package filters

import (
	"fmt"

	"github.com/wisense/csiprep/csi"
)

// DCRemover removes the DC component of each (link, subcarrier) channel
// by subtracting the per-window complex mean over sliding windows along
// the packet axis. Samples covered by more than one window receive the
// average of the overlapping windows' outputs. A trailing window shorter
// than the configured size is truncated, not padded.
type DCRemover struct {
	window int
	stride int
}

// NewDCRemover creates a DC remover with the given window and stride.
func NewDCRemover(window, stride int) (*DCRemover, error) {
	if window <= 0 || stride <= 0 {
		return nil, fmt.Errorf("dc removal window and stride must be positive, got (%d, %d)", window, stride)
	}
	if stride > window {
		return nil, fmt.Errorf("dc removal stride %d exceeds window %d", stride, window)
	}
	return &DCRemover{window: window, stride: stride}, nil
}

// Apply returns a new tensor with the windowed mean removed per channel.
func (d *DCRemover) Apply(t *csi.Tensor) (*csi.Tensor, error) {
	if t.Packets < d.window {
		return nil, fmt.Errorf("%w: dc removal needs %d packets, capture has %d",
			csi.ErrInsufficientSamples, d.window, t.Packets)
	}

	packets := t.Packets
	out := csi.NewTensor(t.Links, t.Subcarriers, packets)

	// Coverage counts are identical for every channel.
	counts := make([]float64, packets)
	for start := 0; start < packets; start += d.stride {
		end := min(start+d.window, packets)
		for i := start; i < end; i++ {
			counts[i]++
		}
		if end == packets {
			break
		}
	}

	for c := range t.Data {
		in := t.Data[c]
		acc := out.Data[c]

		for start := 0; start < packets; start += d.stride {
			end := min(start+d.window, packets)

			var mean complex128
			for _, v := range in[start:end] {
				mean += v
			}
			mean /= complex(float64(end-start), 0)

			for i := start; i < end; i++ {
				acc[i] += in[i] - mean
			}
			if end == packets {
				break
			}
		}

		for i := range acc {
			acc[i] /= complex(counts[i], 0)
		}
	}

	return out, nil
}
