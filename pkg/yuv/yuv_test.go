package yuv

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

func TestPlaneSizes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantChroma    PlaneSize
		wantFrameSize int
	}{
		{"even", 4, 2, PlaneSize{2, 1}, 4*2 + 2*2*1},
		{"odd width", 5, 4, PlaneSize{3, 2}, 5*4 + 2*3*2},
		{"odd both", 3, 3, PlaneSize{2, 2}, 3*3 + 2*2*2},
		{"cif", 352, 288, PlaneSize{176, 144}, 352 * 288 * 3 / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sizes := PlaneSizes(tt.width, tt.height)
			if sizes[0] != (PlaneSize{tt.width, tt.height}) {
				t.Errorf("luma = %+v, want %dx%d", sizes[0], tt.width, tt.height)
			}
			if sizes[1] != tt.wantChroma || sizes[2] != tt.wantChroma {
				t.Errorf("chroma = %+v %+v, want %+v", sizes[1], sizes[2], tt.wantChroma)
			}
			if got := FrameSize(tt.width, tt.height); got != tt.wantFrameSize {
				t.Errorf("FrameSize = %d, want %d", got, tt.wantFrameSize)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	for _, dims := range [][2]int{{2, 2}, {MaxDimension, MaxDimension}} {
		if err := Validate(dims[0], dims[1]); err != nil {
			t.Errorf("Validate(%d, %d): unexpected error: %v", dims[0], dims[1], err)
		}
	}
	for _, dims := range [][2]int{{0, 2}, {2, 0}, {-1, 4}, {MaxDimension + 1, 2}, {2, MaxDimension + 1}, {100000000, 100000000}} {
		if err := Validate(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Validate(%d, %d) = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func makeStream(width, height, frames int) []byte {
	size := FrameSize(width, height)
	data := make([]byte, 0, size*frames)
	for i := 0; i < frames; i++ {
		data = append(data, bytes.Repeat([]byte{byte(i + 1)}, size)...)
	}
	return data
}

func TestReader_Next(t *testing.T) {
	data := makeStream(4, 2, 3)
	r, err := NewReader(bytes.NewReader(data), 4, 2, 25)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	for i := 0; i < 3; i++ {
		frame, err := r.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if len(frame.Planes) != PlaneCount {
			t.Fatalf("expected %d planes, got %d", PlaneCount, len(frame.Planes))
		}
		if len(frame.Planes[0]) != 8 || len(frame.Planes[1]) != 2 || len(frame.Planes[2]) != 2 {
			t.Errorf("unexpected plane lengths: %d %d %d",
				len(frame.Planes[0]), len(frame.Planes[1]), len(frame.Planes[2]))
		}
		if frame.Planes[0][0] != byte(i+1) {
			t.Errorf("frame %d: luma sample = %d, want %d", i, frame.Planes[0][0], i+1)
		}
		if !frame.HasTimestamp {
			t.Errorf("frame %d: expected timestamp", i)
		}
		want := time.Duration(i) * 40 * time.Millisecond
		if frame.Timestamp != want {
			t.Errorf("frame %d: timestamp = %v, want %v", i, frame.Timestamp, want)
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
	if r.Index() != 3 {
		t.Errorf("Index = %d, want 3", r.Index())
	}
}

func TestReader_ReusesBuffer(t *testing.T) {
	data := makeStream(2, 2, 2)
	r, _ := NewReader(bytes.NewReader(data), 2, 2, 0)

	first, _ := r.Next()
	held := first.Planes[0]
	if held[0] != 1 {
		t.Fatalf("expected first frame sample 1, got %d", held[0])
	}

	if _, err := r.Next(); err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if held[0] != 2 {
		t.Errorf("expected buffer to be reused by the next read, sample = %d", held[0])
	}
}

func TestReader_NoFrameRate(t *testing.T) {
	r, _ := NewReader(bytes.NewReader(makeStream(2, 2, 1)), 2, 2, 0)
	frame, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.HasTimestamp {
		t.Error("expected no timestamp without a frame rate")
	}
}

func TestReader_Truncated(t *testing.T) {
	data := makeStream(4, 4, 1)
	data = append(data, 0x10, 0x20, 0x30)

	r, _ := NewReader(bytes.NewReader(data), 4, 4, 0)
	if _, err := r.Next(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, ErrTruncatedFrame) {
		t.Errorf("expected ErrTruncatedFrame, got %v", err)
	}
}

func TestNewReader_InvalidDimensions(t *testing.T) {
	if _, err := NewReader(bytes.NewReader(nil), 0, 10, 0); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestToImage(t *testing.T) {
	y := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	u := []byte{100, 110}
	v := []byte{120, 130}

	img, err := ToImage([][]byte{y, u, v}, []int{4, 2, 2}, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	c := img.YCbCrAt(3, 1)
	if c.Y != 80 || c.Cb != 110 || c.Cr != 130 {
		t.Errorf("YCbCrAt(3,1) = %+v", c)
	}

	// Zero-copy: mutating the plane is visible through the image.
	y[0] = 99
	if img.YCbCrAt(0, 0).Y != 99 {
		t.Error("expected image to alias the luma plane")
	}
}

func TestToImage_Errors(t *testing.T) {
	if _, err := ToImage([][]byte{{1}}, []int{1}, 1, 1); err == nil {
		t.Error("expected error for missing planes")
	}
	if _, err := ToImage([][]byte{{1}, {1}, {1}}, []int{1, 1, 2}, 1, 1); err == nil {
		t.Error("expected error for mismatched chroma strides")
	}
}
