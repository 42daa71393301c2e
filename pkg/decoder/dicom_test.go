package decoder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func mustNewElement(t *testing.T, tg tag.Tag, data any) *dicom.Element {
	t.Helper()
	elem, err := dicom.NewElement(tg, data)
	require.NoError(t, err)
	return elem
}

// writeSlice writes a 2x2 MONOCHROME2 slice and returns its path.
func writeSlice(t *testing.T, dir, name string, imageType []string, position []string, pixels []uint16) string {
	t.Helper()

	native := frame.NewNativeFrame[uint16](16, 2, 2, 4, 1)
	copy(native.RawData, pixels)

	elements := []*dicom.Element{
		mustNewElement(t, tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.4"}),
		mustNewElement(t, tag.MediaStorageSOPInstanceUID, []string{"1.2.3.4.5." + name}),
		mustNewElement(t, tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(t, tag.ImageType, imageType),
		mustNewElement(t, tag.Modality, []string{"MR"}),
	}
	if position != nil {
		elements = append(elements, mustNewElement(t, tag.ImagePositionPatient, position))
	}
	elements = append(elements,
		mustNewElement(t, tag.SamplesPerPixel, []int{1}),
		mustNewElement(t, tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(t, tag.Rows, []int{2}),
		mustNewElement(t, tag.Columns, []int{2}),
		mustNewElement(t, tag.BitsAllocated, []int{16}),
		mustNewElement(t, tag.BitsStored, []int{16}),
		mustNewElement(t, tag.HighBit, []int{15}),
		mustNewElement(t, tag.PixelRepresentation, []int{0}),
		mustNewElement(t, tag.PixelData, dicom.PixelDataInfo{
			Frames: []*frame.Frame{{Encapsulated: false, NativeData: native}},
		}),
	)

	path := filepath.Join(dir, name+".dcm")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, dicom.Write(f, dicom.Dataset{Elements: elements}))
	return path
}

func TestDicomCodecDecode(t *testing.T) {
	dir := t.TempDir()
	path := writeSlice(t, dir, "1", []string{"ORIGINAL", "PRIMARY", "AXIAL"},
		[]string{"-120.0", "-80.0", "12.5"}, []uint16{100, 150, 200, 300})

	f, err := DicomCodec{}.Open(path)
	require.NoError(t, err)

	imageType, err := f.String(tag.ImageType)
	require.NoError(t, err)
	assert.Equal(t, `ORIGINAL\PRIMARY\AXIAL`, imageType)

	slice, ok, err := Decode(f, DefaultDecodeOptions())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float32(12.5), slice.Z)
	assert.Equal(t, 2, slice.Rows)
	assert.Equal(t, 2, slice.Cols)
	assert.Equal(t, []uint16{0, 64, 128, 255}, slice.Intensities)
}

func TestDicomCodecIdentity(t *testing.T) {
	dir := t.TempDir()
	path := writeSlice(t, dir, "1", []string{"ORIGINAL", "PRIMARY", "AXIAL"},
		[]string{"0", "0", "0"}, []uint16{100, 150, 200, 300})

	f, err := DicomCodec{}.Open(path)
	require.NoError(t, err)

	pixels, err := f.Pixels(DecodeOptions{VOI: VOIIdentity})
	require.NoError(t, err)
	assert.Equal(t, []uint16{100, 150, 200, 300}, pixels)
}

func TestDicomCodecSecondarySkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeSlice(t, dir, "2", []string{"DERIVED", "SECONDARY", "AXIAL"},
		[]string{"0", "0", "1"}, []uint16{1, 2, 3, 4})

	f, err := DicomCodec{}.Open(path)
	require.NoError(t, err)

	_, ok, err := Decode(f, DefaultDecodeOptions())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDicomCodecMissingPosition(t *testing.T) {
	dir := t.TempDir()
	path := writeSlice(t, dir, "3", []string{"ORIGINAL", "PRIMARY", "AXIAL"}, nil, []uint16{1, 2, 3, 4})

	f, err := DicomCodec{}.Open(path)
	require.NoError(t, err)

	_, _, err = Decode(f, DefaultDecodeOptions())
	var missing *MissingTagError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, tag.ImagePositionPatient, missing.Tag)
	assert.True(t, missing.Absent)
}

func TestDicomCodecWindowNeedsTags(t *testing.T) {
	dir := t.TempDir()
	path := writeSlice(t, dir, "4", []string{"ORIGINAL", "PRIMARY", "AXIAL"},
		[]string{"0", "0", "0"}, []uint16{1, 2, 3, 4})

	f, err := DicomCodec{}.Open(path)
	require.NoError(t, err)

	_, err = f.Pixels(DecodeOptions{Force8Bit: true, VOI: VOIWindow})
	var missing *MissingTagError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, tag.WindowCenter, missing.Tag)
}

func TestDicomCodecOpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.dcm")
	require.NoError(t, os.WriteFile(path, []byte("not a dicom file"), 0644))

	_, err := DicomCodec{}.Open(path)
	assert.Error(t, err)
}
