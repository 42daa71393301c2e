package decoder

import (
	"fmt"
	"math"
	"strings"
)

// VOIMode selects the value-of-interest transform applied after the
// modality rescale.
type VOIMode int

const (
	// VOINormalize stretches the frame's own value range over the output range.
	VOINormalize VOIMode = iota
	// VOIWindow applies the first WindowCenter/WindowWidth pair of the file.
	VOIWindow
	// VOIIdentity keeps rescaled values, clamped to the output range.
	VOIIdentity
)

var voiModeNames = map[VOIMode]string{
	VOINormalize: "normalize",
	VOIWindow:    "window",
	VOIIdentity:  "identity",
}

func (m VOIMode) String() string {
	if name, ok := voiModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("VOIMode(%d)", int(m))
}

// ParseVOIMode converts a configuration string into a VOIMode.
func ParseVOIMode(s string) (VOIMode, error) {
	for mode, name := range voiModeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown VOI mode %q (must be normalize, window, or identity)", s)
}

// DecodeOptions controls how a pixel payload becomes intensity samples.
type DecodeOptions struct {
	// Force8Bit limits the output to 0..255 so that slices of the same
	// modality land on a comparable scale.
	Force8Bit bool
	VOI       VOIMode
}

// DefaultDecodeOptions matches the conversion used for MIP rendering.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{Force8Bit: true, VOI: VOINormalize}
}

func (o DecodeOptions) outputMax() float64 {
	if o.Force8Bit {
		return math.MaxUint8
	}
	return math.MaxUint16
}

// Window is a VOI window as stored in WindowCenter/WindowWidth.
type Window struct {
	Center float64
	Width  float64
}

// Rescale applies the modality LUT in place: v*slope + intercept.
func Rescale(values []float64, slope, intercept float64) {
	if slope == 1 && intercept == 0 {
		return
	}
	for i, v := range values {
		values[i] = v*slope + intercept
	}
}

// NormalizeRange maps the range of values linearly onto 0..limit.
// A flat input maps to zero.
func NormalizeRange(values []float64, limit float64) []uint16 {
	out := make([]uint16, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return out
	}
	for i, v := range values {
		out[i] = clampRound((v-lo)*limit/(hi-lo), limit)
	}
	return out
}

// ApplyWindow runs the linear VOI function of PS3.3 C.11.2.1.2.
func ApplyWindow(values []float64, w Window, limit float64) ([]uint16, error) {
	if w.Width < 1 {
		return nil, &PixelDecodeError{Reason: fmt.Sprintf("window width %g is below 1", w.Width)}
	}
	lower := w.Center - 0.5 - (w.Width-1)/2
	upper := w.Center - 0.5 + (w.Width-1)/2
	out := make([]uint16, len(values))
	for i, v := range values {
		switch {
		case v <= lower:
			out[i] = 0
		case v > upper:
			out[i] = uint16(limit)
		default:
			out[i] = clampRound(((v-(w.Center-0.5))/(w.Width-1)+0.5)*limit, limit)
		}
	}
	return out, nil
}

// ClampRange rounds values and clamps them into 0..limit.
func ClampRange(values []float64, limit float64) []uint16 {
	out := make([]uint16, len(values))
	for i, v := range values {
		out[i] = clampRound(v, limit)
	}
	return out
}

func clampRound(v, limit float64) uint16 {
	v = math.Round(v)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > limit {
		return uint16(limit)
	}
	return uint16(v)
}
