package models

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Slice represents a single decoded axial scan image
type Slice struct {
	// Z is the third component of the image position, used to order slices
	// along the anatomical axis
	Z float32

	// Intensities holds the decoded samples in row-major order
	Intensities []uint16

	// Rows and Cols are the image dimensions reported by the file
	Rows int
	Cols int
}

// Dims describes the extent of a volume in voxels
type Dims struct {
	Rows  int
	Cols  int
	Depth int
}

// Len returns the number of voxels covered by d.
func (d Dims) Len() int {
	return d.Rows * d.Cols * d.Depth
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Rows, d.Cols, d.Depth)
}

// RawVolume is the assembled volume before intensity normalization.
// Samples are ordered slice-major, then row-major.
type RawVolume struct {
	Dims    Dims
	Samples []uint16
}

// Volume is the normalized 8-bit volume handed to the renderer.
// Samples are ordered slice-major, then row-major.
type Volume struct {
	Dims    Dims
	Samples []uint8
}

// Validate checks the sample count against the dimensions.
func (v Volume) Validate() error {
	if v.Dims.Rows <= 0 || v.Dims.Cols <= 0 || v.Dims.Depth <= 0 {
		return fmt.Errorf("invalid volume dimensions %s", v.Dims)
	}
	if len(v.Samples) != v.Dims.Len() {
		return fmt.Errorf("volume has %d samples, dimensions %s require %d",
			len(v.Samples), v.Dims, v.Dims.Len())
	}
	return nil
}

// At returns the sample at column x, row y and slice z.
func (v Volume) At(x, y, z int) uint8 {
	return v.Samples[z*v.Dims.Rows*v.Dims.Cols+y*v.Dims.Cols+x]
}

// RotationState is the per-frame model transform and its inverse
type RotationState struct {
	Forward mgl32.Mat4
	Inverse mgl32.Mat4
}
