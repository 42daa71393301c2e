package reconstruction

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naivemip/internal/models"
)

func TestFoldMinMax(t *testing.T) {
	lo, hi, ok := FoldMinMax([]uint16{300, 12, 65535, 40})
	require.True(t, ok)
	assert.Equal(t, uint16(12), lo)
	assert.Equal(t, uint16(65535), hi)

	// A descending run must still update the maximum.
	lo, hi, ok = FoldMinMax([]uint16{5, 4, 3, 9})
	require.True(t, ok)
	assert.Equal(t, uint16(3), lo)
	assert.Equal(t, uint16(9), hi)

	_, _, ok = FoldMinMax(nil)
	assert.False(t, ok)
}

func TestNormalizeEndpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	samples := make([]uint16, 500)
	for i := range samples {
		samples[i] = 1000 + uint16(rng.Intn(3000))
	}
	samples[17] = 1000
	samples[230] = 3999

	vol := Normalize(models.RawVolume{Dims: models.Dims{Rows: 5, Cols: 10, Depth: 10}, Samples: samples})
	require.Len(t, vol.Samples, len(samples))
	assert.Equal(t, uint8(0), vol.Samples[17])
	assert.Equal(t, uint8(255), vol.Samples[230])

	lo, hi, _ := FoldMinMax(samples)
	for i, s := range samples {
		if s == lo {
			assert.Equal(t, uint8(0), vol.Samples[i])
		}
		if s == hi {
			assert.Equal(t, uint8(255), vol.Samples[i])
		}
	}
}

func TestNormalizeIsMonotonic(t *testing.T) {
	samples := []uint16{10, 20, 30, 40, 50, 60, 70, 80}
	vol := Normalize(models.RawVolume{Dims: models.Dims{Rows: 2, Cols: 2, Depth: 2}, Samples: samples})
	for i := 1; i < len(vol.Samples); i++ {
		assert.LessOrEqual(t, vol.Samples[i-1], vol.Samples[i])
	}
}

func TestNormalizeFlatVolume(t *testing.T) {
	samples := []uint16{777, 777, 777, 777}
	vol := Normalize(models.RawVolume{Dims: models.Dims{Rows: 2, Cols: 2, Depth: 1}, Samples: samples})
	assert.Equal(t, []uint8{0, 0, 0, 0}, vol.Samples)
}

func TestNormalizeEmptyVolume(t *testing.T) {
	vol := Normalize(models.RawVolume{})
	assert.Empty(t, vol.Samples)
}

func TestNormalizeRounding(t *testing.T) {
	// 1/4 of 255 is 63.75, 1/2 is 127.5 and 3/4 is 191.25.
	vol := Normalize(models.RawVolume{
		Dims:    models.Dims{Rows: 1, Cols: 5, Depth: 1},
		Samples: []uint16{0, 1, 2, 3, 4},
	})
	assert.Equal(t, []uint8{0, 64, 128, 191, 255}, vol.Samples)
}

func TestSummarize(t *testing.T) {
	st := Summarize(models.Volume{Samples: []uint8{0, 0, 255, 255}})
	assert.Equal(t, uint8(0), st.Min)
	assert.Equal(t, uint8(255), st.Max)
	assert.InDelta(t, 127.5, st.Mean, 1e-9)
	assert.Greater(t, st.StdDev, 0.0)

	single := Summarize(models.Volume{Samples: []uint8{9}})
	assert.Equal(t, 9.0, single.Mean)
	assert.Equal(t, 0.0, single.StdDev)

	assert.Equal(t, Stats{}, Summarize(models.Volume{}))
}
