package reconstruction

import (
	"errors"
	"fmt"
	"slices"

	"naivemip/internal/models"
)

// ErrNoSlices is returned when no file survived the orientation filter.
var ErrNoSlices = errors.New("no primary axial slices found")

// InconsistentSliceError reports a slice whose payload does not fit the
// series dimensions.
type InconsistentSliceError struct {
	Index int
	Z     float32
	Got   int
	Want  int
}

func (e *InconsistentSliceError) Error() string {
	return fmt.Sprintf("slice %d (z=%g) has %d samples, series dimensions need %d",
		e.Index, e.Z, e.Got, e.Want)
}

// FoldSlices orders the accepted slices along z and concatenates their
// intensities into one slice-major buffer.
//
// Rows and columns come from the last slice in input order; the series is
// assumed homogeneous, so only the payload length of each slice is checked.
// The input is left untouched.
func FoldSlices(accepted []models.Slice) (models.RawVolume, error) {
	if len(accepted) == 0 {
		return models.RawVolume{}, ErrNoSlices
	}

	last := accepted[len(accepted)-1]
	dims := models.Dims{Rows: last.Rows, Cols: last.Cols, Depth: len(accepted)}

	perSlice := dims.Rows * dims.Cols
	for i, s := range accepted {
		if len(s.Intensities) != perSlice {
			return models.RawVolume{}, &InconsistentSliceError{
				Index: i, Z: s.Z, Got: len(s.Intensities), Want: perSlice,
			}
		}
	}

	samples := make([]uint16, 0, dims.Len())
	for _, s := range SortByZ(accepted) {
		samples = append(samples, s.Intensities...)
	}

	return models.RawVolume{Dims: dims, Samples: samples}, nil
}

// SortByZ returns a copy of the slices in ascending z order. The sort is
// stable and NaN positions compare equal to everything, so ties and
// incomparable positions keep their input order.
func SortByZ(in []models.Slice) []models.Slice {
	sorted := slices.Clone(in)
	slices.SortStableFunc(sorted, func(a, b models.Slice) int {
		return compareZ(a.Z, b.Z)
	})
	return sorted
}

func compareZ(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
