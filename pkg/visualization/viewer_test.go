package visualization

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"naivemip/internal/models"
)

// gradientVolume stores x + 10*y + 50*z in every voxel.
func gradientVolume(cols, rows, depth int) models.Volume {
	dims := models.Dims{Rows: rows, Cols: cols, Depth: depth}
	samples := make([]uint8, dims.Len())
	for z := 0; z < depth; z++ {
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				samples[z*rows*cols+y*cols+x] = uint8(x + 10*y + 50*z)
			}
		}
	}
	return models.Volume{Dims: dims, Samples: samples}
}

func newTestViewer(t *testing.T, vol models.Volume) *Viewer {
	t.Helper()
	viewer, err := NewViewer(vol)
	if err != nil {
		t.Fatalf("Failed to create viewer: %v", err)
	}
	return viewer
}

// TestNewViewerRejectsInvalidVolume verifies that mismatched volumes are refused
func TestNewViewerRejectsInvalidVolume(t *testing.T) {
	vol := gradientVolume(3, 2, 2)
	vol.Samples = vol.Samples[:5]
	if _, err := NewViewer(vol); err == nil {
		t.Error("Expected error for truncated volume, got nil")
	}
}

// TestExtractSlice verifies that slices are correctly extracted from the volume
func TestExtractSlice(t *testing.T) {
	cols, rows, depth := 4, 3, 2
	viewer := newTestViewer(t, gradientVolume(cols, rows, depth))

	// Z slices are the acquired planes
	for z := 0; z < depth; z++ {
		img, err := viewer.ExtractSlice("z", z)
		if err != nil {
			t.Fatalf("Failed to extract Z slice at position %d: %v", z, err)
		}
		if b := img.Bounds(); b.Dx() != cols || b.Dy() != rows {
			t.Errorf("Expected Z slice dimensions %dx%d, got %dx%d", cols, rows, b.Dx(), b.Dy())
		}
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				want := uint8(x + 10*y + 50*z)
				if got := img.GrayAt(x, y).Y; got != want {
					t.Errorf("Z slice %d at (%d,%d): expected %d, got %d", z, x, y, want, got)
				}
			}
		}
	}

	imgX, err := viewer.ExtractSlice("x", 1)
	if err != nil {
		t.Fatalf("Failed to extract X slice: %v", err)
	}
	if b := imgX.Bounds(); b.Dx() != depth || b.Dy() != rows {
		t.Errorf("Expected X slice dimensions %dx%d, got %dx%d", depth, rows, b.Dx(), b.Dy())
	}
	if got := imgX.GrayAt(1, 2).Y; got != 1+20+50 {
		t.Errorf("X slice at (z=1,y=2): expected 71, got %d", got)
	}

	imgY, err := viewer.ExtractSlice("Y", 2)
	if err != nil {
		t.Fatalf("Failed to extract Y slice: %v", err)
	}
	if b := imgY.Bounds(); b.Dx() != cols || b.Dy() != depth {
		t.Errorf("Expected Y slice dimensions %dx%d, got %dx%d", cols, depth, b.Dx(), b.Dy())
	}
	if got := imgY.GrayAt(3, 1).Y; got != 3+20+50 {
		t.Errorf("Y slice at (x=3,z=1): expected 73, got %d", got)
	}

	if _, err := viewer.ExtractSlice("invalid", 0); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
	if _, err := viewer.ExtractSlice("z", depth); err == nil {
		t.Error("Expected error for out of bounds position, got nil")
	}
	if _, err := viewer.ExtractSlice("x", -1); err == nil {
		t.Error("Expected error for negative position, got nil")
	}
}

// TestMaxProjection verifies that projections keep the brightest sample per line
func TestMaxProjection(t *testing.T) {
	vol := models.Volume{
		Dims:    models.Dims{Rows: 2, Cols: 2, Depth: 3},
		Samples: make([]uint8, 12),
	}
	// A single bright voxel at x=1, y=0, z=2 and a dimmer one at x=0, y=1, z=0
	vol.Samples[2*4+0*2+1] = 200
	vol.Samples[0*4+1*2+0] = 90
	viewer := newTestViewer(t, vol)

	mip, err := viewer.MaxProjection("z")
	if err != nil {
		t.Fatalf("Failed to project along z: %v", err)
	}
	want := []uint8{0, 200, 90, 0}
	for i, w := range want {
		if mip.Pix[i] != w {
			t.Errorf("Axial projection pixel %d: expected %d, got %d", i, w, mip.Pix[i])
		}
	}

	side, err := viewer.MaxProjection("x")
	if err != nil {
		t.Fatalf("Failed to project along x: %v", err)
	}
	if got := side.GrayAt(2, 0).Y; got != 200 {
		t.Errorf("Sagittal projection at (z=2,y=0): expected 200, got %d", got)
	}
	if got := side.GrayAt(0, 1).Y; got != 90 {
		t.Errorf("Sagittal projection at (z=0,y=1): expected 90, got %d", got)
	}

	// The projection must not write through to the volume
	if vol.Samples[1] != 0 {
		t.Errorf("Projection modified the volume: sample 1 is %d", vol.Samples[1])
	}

	if _, err := viewer.MaxProjection("w"); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

// TestSaveImage verifies that images are written as decodable JPEGs
func TestSaveImage(t *testing.T) {
	viewer := newTestViewer(t, gradientVolume(8, 6, 2))
	img, err := viewer.MaxProjection("z")
	if err != nil {
		t.Fatalf("Failed to project: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "preview", "mip.jpg")
	if err := SaveImage(img, filename); err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Saved file cannot be opened: %v", err)
	}
	defer f.Close()

	decoded, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("Saved file is not a JPEG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("Expected 8x6 image, got %dx%d", b.Dx(), b.Dy())
	}
}

// TestSaveSliceSequence verifies that a sequence of slices can be saved
func TestSaveSliceSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	cols, rows, depth := 5, 5, 3
	viewer := newTestViewer(t, gradientVolume(cols, rows, depth))

	outputDir := filepath.Join(t.TempDir(), "slices")
	for _, axis := range []string{"x", "y", "z"} {
		if err := viewer.SaveSliceSequence(axis, filepath.Join(outputDir, axis)); err != nil {
			t.Fatalf("Failed to save %s slice sequence: %v", axis, err)
		}
	}

	for z := 0; z < depth; z++ {
		filename := filepath.Join(outputDir, "z", fmt.Sprintf("slice_z_%03d.jpg", z))
		if _, err := os.Stat(filename); err != nil {
			t.Errorf("Expected slice file does not exist: %s", filename)
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "x", "slice_x_004.jpg")); err != nil {
		t.Errorf("Expected last x slice to exist: %v", err)
	}

	if err := viewer.SaveSliceSequence("invalid", outputDir); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}
