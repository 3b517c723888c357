// Package yuv provides planar YUV 4:2:0 (I420) helpers shared by decoders and presenters.
package yuv

import (
	"errors"
	"fmt"
	"image"
)

// PlaneCount is the number of planes in an I420 frame.
const PlaneCount = 3

// MaxDimension bounds frame width and height (16K).
const MaxDimension = 16384

// ErrInvalidDimensions is returned for non-positive or oversized frame dimensions.
var ErrInvalidDimensions = errors.New("yuv: invalid frame dimensions")

// PlaneSize is the visible extent of one plane.
type PlaneSize struct {
	Width  int // Row width in bytes (one byte per sample)
	Height int // Number of rows
}

// Bytes returns the size of a tightly packed plane.
func (p PlaneSize) Bytes() int {
	return p.Width * p.Height
}

// PlaneSizes returns the Y, U and V plane extents for a width x height frame.
// Chroma planes round odd dimensions up.
func PlaneSizes(width, height int) [PlaneCount]PlaneSize {
	cw := (width + 1) / 2
	ch := (height + 1) / 2
	return [PlaneCount]PlaneSize{
		{Width: width, Height: height},
		{Width: cw, Height: ch},
		{Width: cw, Height: ch},
	}
}

// FrameSize returns the byte size of a tightly packed I420 frame.
func FrameSize(width, height int) int {
	total := 0
	for _, p := range PlaneSizes(width, height) {
		total += p.Bytes()
	}
	return total
}

// Validate checks that width and height describe a frame.
func Validate(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// ToImage wraps I420 planes in an *image.YCbCr without copying.
// The image aliases the planes and is only valid as long as they are.
func ToImage(planes [][]byte, strides []int, width, height int) (*image.YCbCr, error) {
	if err := Validate(width, height); err != nil {
		return nil, err
	}
	if len(planes) < PlaneCount || len(strides) < PlaneCount {
		return nil, fmt.Errorf("yuv: expected %d planes, got %d", PlaneCount, len(planes))
	}
	if strides[1] != strides[2] {
		return nil, fmt.Errorf("yuv: chroma strides differ (%d, %d)", strides[1], strides[2])
	}

	return &image.YCbCr{
		Y:              planes[0],
		Cb:             planes[1],
		Cr:             planes[2],
		YStride:        strides[0],
		CStride:        strides[1],
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}, nil
}
