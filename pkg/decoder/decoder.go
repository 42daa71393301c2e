// Package decoder turns a single scan file into a Slice.
//
// Access to the file goes through File, which exposes only the four
// operations the pipeline needs: string, float sequence and integer tag
// lookups, plus pixel payload decoding. DicomCodec backs File with
// github.com/suyashkumar/dicom.
package decoder

import (
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"

	"naivemip/internal/models"
)

// AcceptedImageType is the ImageType fragment that marks a primary axial
// image. Every other series type is skipped.
const AcceptedImageType = `\PRIMARY\AXIAL`

// File is an opened scan file.
type File interface {
	// String returns the tag value, multiple values joined with a backslash.
	String(t tag.Tag) (string, error)
	// Floats returns the tag value as a sequence of numbers.
	Floats(t tag.Tag) ([]float64, error)
	// Int returns the first value of an integer tag.
	Int(t tag.Tag) (int, error)
	// Pixels decodes the first frame into intensity samples in row-major order.
	Pixels(opts DecodeOptions) ([]uint16, error)
}

// Codec opens scan files.
type Codec interface {
	Open(path string) (File, error)
}

// IsPrimaryAxial reports whether an ImageType value names a primary axial image.
func IsPrimaryAxial(imageType string) bool {
	return strings.Contains(imageType, AcceptedImageType)
}

// Decode extracts a Slice from f. The boolean result is false when the file
// is not a primary axial image; that is a skip, not an error.
func Decode(f File, opts DecodeOptions) (models.Slice, bool, error) {
	imageType, err := f.String(tag.ImageType)
	if err != nil {
		return models.Slice{}, false, err
	}
	if !IsPrimaryAxial(imageType) {
		return models.Slice{}, false, nil
	}

	position, err := f.Floats(tag.ImagePositionPatient)
	if err != nil {
		return models.Slice{}, false, err
	}
	if len(position) != 3 {
		return models.Slice{}, false, malformedTag(tag.ImagePositionPatient,
			"expected 3 components, got %d", len(position))
	}

	rows, err := dimension(f, tag.Rows)
	if err != nil {
		return models.Slice{}, false, err
	}
	cols, err := dimension(f, tag.Columns)
	if err != nil {
		return models.Slice{}, false, err
	}

	intensities, err := f.Pixels(opts)
	if err != nil {
		return models.Slice{}, false, err
	}
	if len(intensities) != rows*cols {
		return models.Slice{}, false, &PixelDecodeError{
			Reason: fmt.Sprintf("decoded %d samples for a %dx%d image", len(intensities), rows, cols),
		}
	}

	return models.Slice{
		Z:           float32(position[2]),
		Intensities: intensities,
		Rows:        rows,
		Cols:        cols,
	}, true, nil
}

func dimension(f File, t tag.Tag) (int, error) {
	n, err := f.Int(t)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, malformedTag(t, "non-positive value %d", n)
	}
	return n, nil
}
