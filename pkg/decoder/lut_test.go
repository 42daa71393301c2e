package decoder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRange(t *testing.T) {
	got := NormalizeRange([]float64{100, 150, 200, 300}, 255)
	assert.Equal(t, []uint16{0, 64, 128, 255}, got)
}

func TestNormalizeRangeFlat(t *testing.T) {
	assert.Equal(t, []uint16{0, 0, 0}, NormalizeRange([]float64{7, 7, 7}, 255))
	assert.Empty(t, NormalizeRange(nil, 255))
}

func TestNormalizeRangeFullDepth(t *testing.T) {
	got := NormalizeRange([]float64{-1024, 3071}, 65535)
	assert.Equal(t, []uint16{0, 65535}, got)
}

func TestApplyWindow(t *testing.T) {
	// center 50, width 11: values <= 44.5 are black, values > 54.5 are white.
	w := Window{Center: 50, Width: 11}
	got, err := ApplyWindow([]float64{40, 44.5, 49.5, 54.5, 60}, w, 255)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 0, 128, 255, 255}, got)
}

func TestApplyWindowUnitWidth(t *testing.T) {
	got, err := ApplyWindow([]float64{9, 10, 11}, Window{Center: 10.5, Width: 1}, 255)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 0, 255}, got)
}

func TestApplyWindowRejectsNarrowWidth(t *testing.T) {
	_, err := ApplyWindow([]float64{1}, Window{Center: 0, Width: 0.5}, 255)
	var pixErr *PixelDecodeError
	assert.True(t, errors.As(err, &pixErr))
}

func TestRescale(t *testing.T) {
	values := []float64{0, 1, 2}
	Rescale(values, 2, -1024)
	assert.Equal(t, []float64{-1024, -1022, -1020}, values)
}

func TestClampRange(t *testing.T) {
	assert.Equal(t, []uint16{0, 3, 255}, ClampRange([]float64{-5, 2.6, 900}, 255))
}

func TestParseVOIMode(t *testing.T) {
	for _, mode := range []VOIMode{VOINormalize, VOIWindow, VOIIdentity} {
		got, err := ParseVOIMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}

	got, err := ParseVOIMode("Window")
	require.NoError(t, err)
	assert.Equal(t, VOIWindow, got)

	_, err = ParseVOIMode("sigmoid")
	assert.Error(t, err)
}
