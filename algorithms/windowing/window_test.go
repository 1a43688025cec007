package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHann(t *testing.T) {
	t.Parallel()

	t.Run("periodic endpoints", func(t *testing.T) {
		t.Parallel()
		h := NewHann(8, false)
		coeffs := h.Coefficients()

		require.Len(t, coeffs, 8)
		assert.InDelta(t, 0.0, coeffs[0], 1e-12)
		assert.InDelta(t, 1.0, coeffs[4], 1e-12) // peak at size/2 for periodic
	})

	t.Run("symmetric is mirror-symmetric", func(t *testing.T) {
		t.Parallel()
		h := NewHann(9, true)
		coeffs := h.Coefficients()

		for i := range coeffs {
			assert.InDelta(t, coeffs[len(coeffs)-1-i], coeffs[i], 1e-12)
		}
		assert.InDelta(t, 1.0, coeffs[4], 1e-12)
	})

	t.Run("apply scales a complex frame", func(t *testing.T) {
		t.Parallel()
		h := NewHann(4, false)
		frame := []complex128{1, 1i, -1, -1i}

		require.NoError(t, h.ApplyInPlace(frame))
		coeffs := h.Coefficients()
		assert.InDelta(t, coeffs[1], imag(frame[1]), 1e-12)
		assert.InDelta(t, -coeffs[2], real(frame[2]), 1e-12)
	})

	t.Run("length mismatch", func(t *testing.T) {
		t.Parallel()
		h := NewHann(4, false)
		assert.Error(t, h.ApplyInPlace(make([]complex128, 5)))
	})
}

func TestHamming(t *testing.T) {
	t.Parallel()

	h := NewHamming(8, false)
	coeffs := h.Coefficients()

	require.Len(t, coeffs, 8)
	assert.InDelta(t, 0.08, coeffs[0], 1e-12)
	assert.InDelta(t, 1.0, coeffs[4], 1e-12)
	assert.Equal(t, 8, h.Size())
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"hann", "hamming"} {
		w, err := New(name, 16)
		require.NoError(t, err)
		assert.Equal(t, 16, w.Size())
	}

	_, err := New("blackman", 16)
	assert.Error(t, err)

	_, err = New("hann", 0)
	assert.Error(t, err)
}
