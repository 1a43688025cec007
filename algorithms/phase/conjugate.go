package phase

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/stat"

	"github.com/wisense/csiprep/csi"
)

// AutoSelect asks the calibrator to pick its own reference link.
const AutoSelect = -1

// Conjugate cancels the common unknown phase term by multiplying every
// link's signal with the conjugate of a reference link's signal, per
// subcarrier and packet. The phase difference that encodes motion-induced
// delay is preserved; the reference link's own phase becomes zero, which
// makes a second pass with the same reference a no-op on the phase signal.
type Conjugate struct {
	// RefLink is the reference antenna link, or AutoSelect to pick the
	// link with the highest mean signal magnitude.
	RefLink int
}

// Calibrate returns a new tensor of conjugate-multiplied channels.
func (c *Conjugate) Calibrate(t *csi.Tensor) (*csi.Tensor, error) {
	ref := c.RefLink
	if ref == AutoSelect {
		ref = selectReference(t)
	}
	if ref < 0 || ref >= t.Links {
		return nil, fmt.Errorf("%w: reference link %d out of range, capture has %d links",
			csi.ErrMalformedInput, ref, t.Links)
	}

	out := csi.NewTensor(t.Links, t.Subcarriers, t.Packets)
	for l := 0; l < t.Links; l++ {
		for s := 0; s < t.Subcarriers; s++ {
			in := t.Channel(l, s)
			refCh := t.Channel(ref, s)
			dst := out.Channel(l, s)
			for i := range in {
				dst[i] = in[i] * cmplx.Conj(refCh[i])
			}
		}
	}

	return out, nil
}

// selectReference picks the link with the highest mean signal magnitude
// across its subcarriers and packets.
func selectReference(t *csi.Tensor) int {
	best := 0
	bestMean := -1.0

	magnitudes := make([]float64, t.Subcarriers*t.Packets)
	for l := 0; l < t.Links; l++ {
		i := 0
		for s := 0; s < t.Subcarriers; s++ {
			for _, v := range t.Channel(l, s) {
				magnitudes[i] = cmplx.Abs(v)
				i++
			}
		}

		if mean := stat.Mean(magnitudes, nil); mean > bestMean {
			best = l
			bestMean = mean
		}
	}

	return best
}
