package csi

import (
	"fmt"
)

// Extract splits a raw capture into timing metadata, the complex CSI
// tensor and the RSSI columns, following the device profile's layout.
//
// Link count is floor((columns - timing) / subcarriersPerLink). Columns
// past the last full link block are RSSI; rssi is nil when none remain.
func Extract(m Matrix, profile DeviceProfile) ([]Timing, *Tensor, [][]float64, error) {
	if err := validateMatrix(m); err != nil {
		return nil, nil, nil, err
	}

	packets := len(m)
	cols := len(m[0])

	csiCols := cols - profile.TimingColumns
	if csiCols < profile.SubcarriersPerLink {
		return nil, nil, nil, fmt.Errorf("%w: %d columns leave no full link block for device %q",
			ErrMalformedInput, cols, profile.Name)
	}

	links := csiCols / profile.SubcarriersPerLink
	rssiCols := csiCols - links*profile.SubcarriersPerLink

	timing := make([]Timing, packets)
	tensor := NewTensor(links, profile.SubcarriersPerLink, packets)

	var rssi [][]float64
	if rssiCols > 0 {
		rssi = make([][]float64, packets)
	}

	for p, row := range m {
		if profile.TimingColumns >= 2 {
			timing[p] = Timing{
				TimestampLow: int64(real(row[0])),
				BfeeCount:    int64(real(row[1])),
			}
		}

		base := profile.TimingColumns
		for l := 0; l < links; l++ {
			ch := tensor.Data[l*profile.SubcarriersPerLink:]
			for s := 0; s < profile.SubcarriersPerLink; s++ {
				ch[s][p] = row[base+l*profile.SubcarriersPerLink+s]
			}
		}

		if rssiCols > 0 {
			rssi[p] = make([]float64, rssiCols)
			for r := 0; r < rssiCols; r++ {
				rssi[p][r] = real(row[base+links*profile.SubcarriersPerLink+r])
			}
		}
	}

	return timing, tensor, rssi, nil
}
