// Package visualization exports 2D views of a normalized volume as images.
package visualization

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"naivemip/internal/models"
)

// Viewer cuts planes and projections out of a volume. Columns run along x,
// rows along y and slices along z.
type Viewer struct {
	vol models.Volume
}

// NewViewer creates a viewer over vol, which must satisfy Validate.
func NewViewer(vol models.Volume) (*Viewer, error) {
	if err := vol.Validate(); err != nil {
		return nil, err
	}
	return &Viewer{vol: vol}, nil
}

// extent returns the number of planes along axis.
func (v *Viewer) extent(axis string) (int, error) {
	switch axis {
	case "x", "X":
		return v.vol.Dims.Cols, nil
	case "y", "Y":
		return v.vol.Dims.Rows, nil
	case "z", "Z":
		return v.vol.Dims.Depth, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis
func (v *Viewer) ExtractSlice(axis string, position int) (*image.Gray, error) {
	n, err := v.extent(axis)
	if err != nil {
		return nil, err
	}
	if position < 0 || position >= n {
		return nil, fmt.Errorf("position %d outside 0..%d along %s", position, n-1, axis)
	}

	d := v.vol.Dims
	var img *image.Gray

	switch axis {
	case "x", "X":
		// YZ plane, slices left to right
		img = image.NewGray(image.Rect(0, 0, d.Depth, d.Rows))
		for y := 0; y < d.Rows; y++ {
			for z := 0; z < d.Depth; z++ {
				img.Pix[y*img.Stride+z] = v.vol.At(position, y, z)
			}
		}

	case "y", "Y":
		// XZ plane, slices top to bottom
		img = image.NewGray(image.Rect(0, 0, d.Cols, d.Depth))
		for z := 0; z < d.Depth; z++ {
			for x := 0; x < d.Cols; x++ {
				img.Pix[z*img.Stride+x] = v.vol.At(x, position, z)
			}
		}

	default:
		// XY plane, the acquired slice itself
		img = image.NewGray(image.Rect(0, 0, d.Cols, d.Rows))
		start := position * d.Rows * d.Cols
		copy(img.Pix, v.vol.Samples[start:start+d.Rows*d.Cols])
	}

	return img, nil
}

// MaxProjection collapses the volume along axis, keeping the brightest
// sample of every line through it. The result has the layout ExtractSlice
// uses for the same axis.
func (v *Viewer) MaxProjection(axis string) (*image.Gray, error) {
	n, err := v.extent(axis)
	if err != nil {
		return nil, err
	}

	var out *image.Gray
	for pos := 0; pos < n; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = img
			continue
		}
		for i, p := range img.Pix {
			if p > out.Pix[i] {
				out.Pix[i] = p
			}
		}
	}
	return out, nil
}

// SaveSlice saves an image as a JPEG
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	return SaveImage(img, filename)
}

// SaveImage writes img to filename as a JPEG, creating parent directories.
func SaveImage(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	n, err := v.extent(axis)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for pos := 0; pos < n; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
