package pipeline

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

// Plane is one owned, tightly packed sample plane.
type Plane struct {
	Data   []byte
	Stride int
}

// Frame is an owned I420 picture in transit through the pipeline.
//
// Exactly one stage holds a Frame at a time. It is never mutated after
// being offered to the channel and must be released exactly once by its
// final holder.
type Frame struct {
	Seq          uint64
	Planes       []Plane
	Width        int
	Height       int
	Timestamp    time.Duration
	HasTimestamp bool

	alloc    *Allocator
	released atomic.Bool
}

// PlaneData returns the plane slices in Y, U, V order.
func (f *Frame) PlaneData() [][]byte {
	data := make([][]byte, len(f.Planes))
	for i, p := range f.Planes {
		data[i] = p.Data
	}
	return data
}

// Strides returns the row strides in Y, U, V order.
func (f *Frame) Strides() []int {
	strides := make([]int, len(f.Planes))
	for i, p := range f.Planes {
		strides[i] = p.Stride
	}
	return strides
}

// Release returns the frame's buffers to its allocator.
// Only the first call has an effect.
func (f *Frame) Release() {
	if !f.released.CompareAndSwap(false, true) {
		return
	}
	if f.alloc != nil {
		f.alloc.put(f)
	}
	f.Planes = nil
}

// Released reports whether Release has been called.
func (f *Frame) Released() bool {
	return f.released.Load()
}

// Allocator hands out owned frames for one stream geometry and tracks how
// many are still outstanding.
type Allocator struct {
	width       int
	height      int
	sizes       [yuv.PlaneCount]yuv.PlaneSize
	pool        sync.Pool
	outstanding atomic.Int64
	allocated   atomic.Int64
}

// NewAllocator creates an allocator for width x height I420 frames.
func NewAllocator(width, height int) (*Allocator, error) {
	if err := yuv.Validate(width, height); err != nil {
		return nil, err
	}

	a := &Allocator{
		width:  width,
		height: height,
		sizes:  yuv.PlaneSizes(width, height),
	}
	a.pool.New = func() any {
		a.allocated.Add(1)
		buf := make([]byte, yuv.FrameSize(width, height))
		return &buf
	}
	return a, nil
}

// Clone copies a decoder frame into a new owned Frame.
// Rows are copied one by one, so source padding and buffer reuse never
// leak into the pipeline.
func (a *Allocator) Clone(raw ports.RawFrame, seq uint64) (*Frame, error) {
	if raw.Width != a.width || raw.Height != a.height {
		return nil, fmt.Errorf("%w: frame is %dx%d, stream is %dx%d",
			ErrFrameGeometry, raw.Width, raw.Height, a.width, a.height)
	}
	if len(raw.Planes) < yuv.PlaneCount || len(raw.Strides) < yuv.PlaneCount {
		return nil, fmt.Errorf("%w: expected %d planes, got %d",
			ErrFrameGeometry, yuv.PlaneCount, len(raw.Planes))
	}
	for i, size := range a.sizes {
		stride := raw.Strides[i]
		if stride < size.Width {
			return nil, fmt.Errorf("%w: plane %d stride %d below row width %d",
				ErrFrameGeometry, i, stride, size.Width)
		}
		if need := (size.Height-1)*stride + size.Width; len(raw.Planes[i]) < need {
			return nil, fmt.Errorf("%w: plane %d has %d bytes, need %d",
				ErrFrameGeometry, i, len(raw.Planes[i]), need)
		}
	}

	bufp := a.pool.Get().(*[]byte)
	buf := *bufp

	planes := make([]Plane, yuv.PlaneCount)
	off := 0
	for i, size := range a.sizes {
		dst := buf[off : off+size.Bytes()]
		src := raw.Planes[i]
		stride := raw.Strides[i]
		for row := 0; row < size.Height; row++ {
			copy(dst[row*size.Width:(row+1)*size.Width], src[row*stride:row*stride+size.Width])
		}
		planes[i] = Plane{Data: dst, Stride: size.Width}
		off += size.Bytes()
	}

	a.outstanding.Add(1)
	return &Frame{
		Seq:          seq,
		Planes:       planes,
		Width:        raw.Width,
		Height:       raw.Height,
		Timestamp:    raw.Timestamp,
		HasTimestamp: raw.HasTimestamp,
		alloc:        a,
	}, nil
}

func (a *Allocator) put(f *Frame) {
	a.outstanding.Add(-1)
	if len(f.Planes) == 0 {
		return
	}
	// Planes are consecutive sub-slices of one pooled buffer.
	buf := f.Planes[0].Data[:cap(f.Planes[0].Data)]
	a.pool.Put(&buf)
}

// Outstanding returns the number of frames cloned but not yet released.
func (a *Allocator) Outstanding() int64 {
	return a.outstanding.Load()
}

// Allocated returns how many frame buffers the pool has created.
func (a *Allocator) Allocated() int64 {
	return a.allocated.Load()
}
