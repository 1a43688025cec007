// Package csi holds the channel-state-information data model shared by
// every stage of the conditioning pipeline: the raw capture matrix, the
// per-packet timing metadata, the complex CSI tensor, and the device
// profile registry that describes how captures are laid out per device.
package csi

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput indicates a raw capture that cannot be split into
	// timing, CSI and RSSI columns for the given device profile.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInsufficientSamples indicates that a stage needs more packets
	// than the capture provides (e.g. a window longer than the signal).
	ErrInsufficientSamples = errors.New("insufficient samples")

	// ErrUnsupportedDevice indicates an unknown device profile name.
	ErrUnsupportedDevice = errors.New("unsupported device")
)

// Matrix is a raw CSI capture: one row per packet, columns laid out as
// [timing columns | link0 subcarriers | link1 subcarriers | ... | RSSI].
// Timing and RSSI columns carry real values in the real part.
type Matrix [][]complex128

// Timing is the per-packet capture metadata. It is used for alignment
// and validation only and is never mutated by pipeline stages.
type Timing struct {
	TimestampLow int64
	BfeeCount    int64
}

// Tensor is the complex CSI signal indexed by (link, subcarrier) channel
// and packet. Data is channel-major: Data[link*Subcarriers+sc][packet].
// A tensor is owned by a single pipeline invocation and never aliased
// across invocations.
type Tensor struct {
	Data        [][]complex128
	Links       int
	Subcarriers int
	Packets     int
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(links, subcarriers, packets int) *Tensor {
	data := make([][]complex128, links*subcarriers)
	for i := range data {
		data[i] = make([]complex128, packets)
	}
	return &Tensor{
		Data:        data,
		Links:       links,
		Subcarriers: subcarriers,
		Packets:     packets,
	}
}

// Channels returns the number of (link, subcarrier) channels.
func (t *Tensor) Channels() int {
	return t.Links * t.Subcarriers
}

// Channel returns the time series for one (link, subcarrier) pair.
// The returned slice aliases the tensor's storage.
func (t *Tensor) Channel(link, subcarrier int) []complex128 {
	return t.Data[link*t.Subcarriers+subcarrier]
}

// Clone returns a deep copy with the same shape.
func (t *Tensor) Clone() *Tensor {
	out := NewTensor(t.Links, t.Subcarriers, t.Packets)
	for i := range t.Data {
		copy(out.Data[i], t.Data[i])
	}
	return out
}

// validate checks that the matrix is rectangular with at least one row.
func validateMatrix(m Matrix) error {
	if len(m) == 0 {
		return fmt.Errorf("%w: empty capture", ErrMalformedInput)
	}
	cols := len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", ErrMalformedInput, i, len(row), cols)
		}
	}
	return nil
}
