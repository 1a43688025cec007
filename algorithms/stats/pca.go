// Package stats implements statistical denoising for CSI tensors.
package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/wisense/csiprep/config"
	"github.com/wisense/csiprep/csi"
)

// PCA denoises a tensor by projecting each sliding window onto the
// dominant signal subspace across the (link, subcarrier) channel axis
// and reconstructing it from the retained components only.
//
// Component indices are 1-based in decreasing-variance order. Windows
// are independent: no state is carried between them. Overlap regions are
// averaged by coverage count. The final window is shifted back to end at
// the last packet, so every window has the full configured length.
//
// The signal is not mean-centered (DC removal runs before this stage),
// so retaining every component reproduces the input exactly and
// retaining none yields the zero signal.
type PCA struct {
	window     int
	stride     int
	components []int
}

// NewPCA creates a PCA denoiser. An empty component list is accepted and
// reconstructs the zero signal.
func NewPCA(window, stride int, components []int) (*PCA, error) {
	if window <= 0 || stride <= 0 {
		return nil, fmt.Errorf("pca window and stride must be positive, got (%d, %d)", window, stride)
	}
	if stride > window {
		return nil, fmt.Errorf("pca stride %d exceeds window %d", stride, window)
	}
	for _, c := range components {
		if c < 1 {
			return nil, fmt.Errorf("pca component indices are 1-based, got %d", c)
		}
	}
	return &PCA{window: window, stride: stride, components: components}, nil
}

// Apply reconstructs every window from the retained components.
func (p *PCA) Apply(t *csi.Tensor) (*csi.Tensor, error) {
	packets := t.Packets
	channels := t.Channels()

	if packets < p.window {
		return nil, fmt.Errorf("%w: pca needs %d packets, capture has %d",
			csi.ErrInsufficientSamples, p.window, packets)
	}

	maxComponent := 0
	for _, c := range p.components {
		if c > maxComponent {
			maxComponent = c
		}
	}
	if maxComponent > channels {
		return nil, fmt.Errorf("%w: pca component %d exceeds the %d available channels",
			config.ErrInvalidParameter, maxComponent, channels)
	}
	if maxComponent > 2*p.window {
		return nil, fmt.Errorf("%w: pca window %d cannot resolve component %d",
			csi.ErrInsufficientSamples, p.window, maxComponent)
	}

	out := csi.NewTensor(t.Links, t.Subcarriers, packets)
	counts := make([]float64, packets)

	for _, start := range p.windowStarts(packets) {
		if err := p.reconstructWindow(t, out, start); err != nil {
			return nil, err
		}
		for i := start; i < start+p.window; i++ {
			counts[i]++
		}
	}

	for c := range out.Data {
		row := out.Data[c]
		for i := range row {
			row[i] /= complex(counts[i], 0)
		}
	}

	return out, nil
}

// windowStarts returns the window offsets: stride steps plus a final
// window ending exactly at the last packet.
func (p *PCA) windowStarts(packets int) []int {
	var starts []int
	for s := 0; s+p.window < packets; s += p.stride {
		starts = append(starts, s)
	}
	last := packets - p.window
	if len(starts) == 0 || starts[len(starts)-1] != last {
		starts = append(starts, last)
	}
	return starts
}

// reconstructWindow projects the window [start, start+window) onto the
// retained principal directions and accumulates the result into out.
//
// The principal directions are the right singular vectors of the real
// matrix formed by stacking the window's real and imaginary parts, so
// complex data is handled with a real-valued decomposition.
func (p *PCA) reconstructWindow(t, out *csi.Tensor, start int) error {
	w := p.window
	channels := t.Channels()

	stacked := mat.NewDense(2*w, channels, nil)
	for i := 0; i < w; i++ {
		for c := 0; c < channels; c++ {
			v := t.Data[c][start+i]
			stacked.Set(i, c, real(v))
			stacked.Set(w+i, c, imag(v))
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(stacked, mat.SVDThin); !ok {
		return fmt.Errorf("pca: svd failed to converge on window at packet %d", start)
	}

	var v mat.Dense
	svd.VTo(&v)

	// Reconstruct y = x V_k V_k' one component at a time. Directions are
	// real, so the complex rows project by plain scaling.
	for _, comp := range p.components {
		direction := make([]float64, channels)
		for c := 0; c < channels; c++ {
			direction[c] = v.At(c, comp-1)
		}

		for i := 0; i < w; i++ {
			var score complex128
			for c := 0; c < channels; c++ {
				score += t.Data[c][start+i] * complex(direction[c], 0)
			}
			for c := 0; c < channels; c++ {
				out.Data[c][start+i] += score * complex(direction[c], 0)
			}
		}
	}

	return nil
}
