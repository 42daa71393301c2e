package decoder

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// MissingTagError reports a required attribute that is absent or cannot be
// read as the expected type.
type MissingTagError struct {
	Tag    tag.Tag
	Reason string
	// Absent is true when the attribute is not present at all, as opposed
	// to present with an unusable value.
	Absent bool
}

func (e *MissingTagError) Error() string {
	return fmt.Sprintf("tag %s %s: %s", e.Tag, tagName(e.Tag), e.Reason)
}

func absentTag(t tag.Tag) *MissingTagError {
	return &MissingTagError{Tag: t, Reason: "not present", Absent: true}
}

func malformedTag(t tag.Tag, format string, args ...any) *MissingTagError {
	return &MissingTagError{Tag: t, Reason: fmt.Sprintf(format, args...)}
}

// PixelDecodeError reports a pixel payload that cannot be turned into
// intensity samples.
type PixelDecodeError struct {
	Reason string
	Err    error
}

func (e *PixelDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pixel data: %s: %v", e.Reason, e.Err)
	}
	return "pixel data: " + e.Reason
}

func (e *PixelDecodeError) Unwrap() error { return e.Err }

func tagName(t tag.Tag) string {
	info, err := tag.Find(t)
	if err != nil {
		return "(unknown)"
	}
	return info.Name
}
