package decoder

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// DicomCodec opens DICOM Part 10 files.
type DicomCodec struct{}

// Open parses the whole file, pixel data included.
func (DicomCodec) Open(path string) (File, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewFile(ds), nil
}

// NewFile wraps an already parsed dataset.
func NewFile(ds dicom.Dataset) File {
	return &dicomFile{ds: ds}
}

type dicomFile struct {
	ds dicom.Dataset
}

func (f *dicomFile) value(t tag.Tag) (any, error) {
	elem, err := f.ds.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return nil, absentTag(t)
	}
	return elem.Value.GetValue(), nil
}

func (f *dicomFile) String(t tag.Tag) (string, error) {
	v, err := f.value(t)
	if err != nil {
		return "", err
	}
	values, ok := v.([]string)
	if !ok || len(values) == 0 {
		return "", malformedTag(t, "expected a string value, got %T", v)
	}
	parts := make([]string, len(values))
	for i, s := range values {
		parts[i] = strings.TrimSpace(s)
	}
	return strings.Join(parts, `\`), nil
}

func (f *dicomFile) Floats(t tag.Tag) ([]float64, error) {
	v, err := f.value(t)
	if err != nil {
		return nil, err
	}
	switch values := v.(type) {
	case []float64:
		return values, nil
	case []string:
		out := make([]float64, 0, len(values))
		for _, s := range values {
			x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, malformedTag(t, "value %q is not a number", s)
			}
			out = append(out, x)
		}
		return out, nil
	}
	return nil, malformedTag(t, "expected a numeric value, got %T", v)
}

func (f *dicomFile) Int(t tag.Tag) (int, error) {
	v, err := f.value(t)
	if err != nil {
		return 0, err
	}
	switch values := v.(type) {
	case []int:
		if len(values) > 0 {
			return values[0], nil
		}
	case []string:
		if len(values) > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(values[0]))
			if err != nil {
				return 0, malformedTag(t, "value %q is not an integer", values[0])
			}
			return n, nil
		}
	}
	return 0, malformedTag(t, "expected an integer value, got %T", v)
}

func (f *dicomFile) Pixels(opts DecodeOptions) ([]uint16, error) {
	elem, err := f.ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, &PixelDecodeError{Reason: "no pixel data element", Err: err}
	}
	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok {
		return nil, &PixelDecodeError{Reason: fmt.Sprintf("unexpected pixel data value %T", elem.Value.GetValue())}
	}
	if len(info.Frames) == 0 || info.Frames[0] == nil {
		return nil, &PixelDecodeError{Reason: "no frames"}
	}

	values, err := frameValues(info.Frames[0])
	if err != nil {
		return nil, err
	}

	slope, intercept, err := f.rescale()
	if err != nil {
		return nil, err
	}
	Rescale(values, slope, intercept)

	limit := opts.outputMax()
	switch opts.VOI {
	case VOINormalize:
		return NormalizeRange(values, limit), nil
	case VOIWindow:
		w, err := f.window()
		if err != nil {
			return nil, err
		}
		return ApplyWindow(values, w, limit)
	case VOIIdentity:
		return ClampRange(values, limit), nil
	}
	return nil, &PixelDecodeError{Reason: fmt.Sprintf("unsupported VOI mode %s", opts.VOI)}
}

// rescale reads the modality LUT. Both attributes are optional.
func (f *dicomFile) rescale() (slope, intercept float64, err error) {
	slope, err = f.optionalFloat(tag.RescaleSlope, 1)
	if err != nil {
		return 0, 0, err
	}
	intercept, err = f.optionalFloat(tag.RescaleIntercept, 0)
	return slope, intercept, err
}

func (f *dicomFile) optionalFloat(t tag.Tag, def float64) (float64, error) {
	values, err := f.Floats(t)
	var missing *MissingTagError
	if errors.As(err, &missing) && missing.Absent {
		return def, nil
	}
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return def, nil
	}
	return values[0], nil
}

func (f *dicomFile) window() (Window, error) {
	centers, err := f.Floats(tag.WindowCenter)
	if err != nil {
		return Window{}, err
	}
	widths, err := f.Floats(tag.WindowWidth)
	if err != nil {
		return Window{}, err
	}
	if len(centers) == 0 {
		return Window{}, malformedTag(tag.WindowCenter, "empty")
	}
	if len(widths) == 0 {
		return Window{}, malformedTag(tag.WindowWidth, "empty")
	}
	return Window{Center: centers[0], Width: widths[0]}, nil
}

func frameValues(fr *frame.Frame) ([]float64, error) {
	if fr.Encapsulated {
		img, err := fr.GetImage()
		if err != nil {
			return nil, &PixelDecodeError{Reason: "decode encapsulated frame", Err: err}
		}
		return imageValues(img), nil
	}

	nf := fr.NativeData
	if nf == nil {
		return nil, &PixelDecodeError{Reason: "frame has no native data"}
	}
	if spp := nf.SamplesPerPixel(); spp != 1 {
		return nil, &PixelDecodeError{Reason: fmt.Sprintf("%d samples per pixel, want 1", spp)}
	}
	switch raw := nf.RawDataSlice().(type) {
	case []uint8:
		return widen(raw), nil
	case []int8:
		return widen(raw), nil
	case []uint16:
		return widen(raw), nil
	case []int16:
		return widen(raw), nil
	case []uint32:
		return widen(raw), nil
	case []int32:
		return widen(raw), nil
	case []int:
		return widen(raw), nil
	default:
		return nil, &PixelDecodeError{Reason: fmt.Sprintf("unsupported sample type %T", raw)}
	}
}

type sample interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int
}

func widen[T sample](raw []T) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}

func imageValues(img image.Image) []float64 {
	b := img.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, float64(color.Gray16Model.Convert(img.At(x, y)).(color.Gray16).Y))
		}
	}
	return out
}
