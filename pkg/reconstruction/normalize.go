package reconstruction

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"naivemip/internal/models"
)

// FoldMinMax returns the smallest and largest sample. ok is false for an
// empty input.
func FoldMinMax(samples []uint16) (lo, hi uint16, ok bool) {
	if len(samples) == 0 {
		return 0, 0, false
	}
	lo, hi = samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return lo, hi, true
}

// Normalize maps the volume's global intensity range linearly onto 0..255,
// rounding half away from zero. A flat or empty volume maps to all zeros.
func Normalize(raw models.RawVolume) models.Volume {
	out := make([]uint8, len(raw.Samples))
	lo, hi, ok := FoldMinMax(raw.Samples)
	if !ok || hi == lo {
		return models.Volume{Dims: raw.Dims, Samples: out}
	}

	span := float64(hi - lo)
	for i, s := range raw.Samples {
		v := math.Round(float64(s-lo) * 255 / span)
		out[i] = uint8(math.Max(0, math.Min(255, v)))
	}
	return models.Volume{Dims: raw.Dims, Samples: out}
}

// Stats describes the normalized sample distribution
type Stats struct {
	Min    uint8
	Max    uint8
	Mean   float64
	StdDev float64
}

// Summarize computes the distribution of the volume's samples.
func Summarize(vol models.Volume) Stats {
	if len(vol.Samples) == 0 {
		return Stats{}
	}

	values := make([]float64, len(vol.Samples))
	st := Stats{Min: vol.Samples[0], Max: vol.Samples[0]}
	for i, s := range vol.Samples {
		values[i] = float64(s)
		st.Min = min(st.Min, s)
		st.Max = max(st.Max, s)
	}
	st.Mean, st.StdDev = stat.MeanStdDev(values, nil)
	if math.IsNaN(st.StdDev) {
		st.StdDev = 0
	}
	return st
}
