package snapshotpresenter

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/yuvplay/pkg/adapters/ggrenderer"
	"github.com/user/yuvplay/pkg/mocks"
	"github.com/user/yuvplay/pkg/ports"
)

func i420(width, height int, luma byte) ([][]byte, []int) {
	cw, ch := (width+1)/2, (height+1)/2
	y := make([]byte, width*height)
	for i := range y {
		y[i] = luma
	}
	u := make([]byte, cw*ch)
	v := make([]byte, cw*ch)
	for i := range u {
		u[i], v[i] = 128, 128
	}
	return [][]byte{y, u, v}, []int{width, cw, cw}
}

func TestSurface_EveryNth(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	p := New(fs, renderer, Options{Dir: "snaps", Every: 3, FrameRate: 25})

	surf, err := p.CreateSurface(8, 4)
	if err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}
	if exists, _ := fs.Exists("snaps"); !exists {
		t.Error("expected snapshot dir to be created")
	}

	for i := 0; i < 7; i++ {
		planes, strides := i420(8, 4, byte(i))
		if err := surf.Present(planes, strides); err != nil {
			t.Fatalf("Present %d: %v", i, err)
		}
	}

	for _, idx := range []uint64{0, 3, 6} {
		if _, ok := fs.GetFile(filepath.Join("snaps", FileName(idx))); !ok {
			t.Errorf("missing snapshot %d", idx)
		}
	}
	if n := len(fs.GetAllFiles()); n != 3 {
		t.Errorf("wrote %d files, want 3", n)
	}
	if got := surf.(*Surface).Written(); got != 3 {
		t.Errorf("Written = %d, want 3", got)
	}

	if len(renderer.Canvases) != 3 {
		t.Fatalf("expected 3 canvases, got %d", len(renderer.Canvases))
	}
	if texts := renderer.Canvases[1].Texts; len(texts) != 1 || texts[0] != "frame 3  t=0.120s" {
		t.Errorf("unexpected OSD text %v", texts)
	}
}

func TestSurface_LabelWithoutFrameRate(t *testing.T) {
	renderer := &mocks.Renderer{}
	p := New(mocks.NewFileSystem(), renderer, Options{Dir: "d"})
	surf, _ := p.CreateSurface(4, 2)

	planes, strides := i420(4, 2, 0)
	surf.Present(planes, strides)

	if texts := renderer.Canvases[0].Texts; len(texts) != 1 || texts[0] != "frame 0" {
		t.Errorf("unexpected OSD text %v", texts)
	}
}

func TestSurface_ResizesToWidth(t *testing.T) {
	var resized [2]int
	renderer := &mocks.Renderer{
		ResizeImageFunc: func(img image.Image, width, height int) image.Image {
			resized = [2]int{width, height}
			return image.NewRGBA(image.Rect(0, 0, width, height))
		},
	}
	p := New(mocks.NewFileSystem(), renderer, Options{Dir: "d", Width: 160})
	surf, err := p.CreateSurface(320, 180)
	if err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}

	planes, strides := i420(320, 180, 16)
	if err := surf.Present(planes, strides); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if resized != [2]int{160, 90} {
		t.Errorf("resized to %v, want [160 90]", resized)
	}
}

func TestSurface_RealRenderer(t *testing.T) {
	fs := mocks.NewFileSystem()
	r := ggrenderer.New()
	p := New(fs, r, Options{Dir: "d", FrameRate: 30})
	surf, _ := p.CreateSurface(64, 48)

	planes, strides := i420(64, 48, 200)
	if err := surf.Present(planes, strides); err != nil {
		t.Fatalf("Present: %v", err)
	}

	data, ok := fs.GetFile(filepath.Join("d", FileName(0)))
	if !ok {
		t.Fatal("snapshot not written")
	}
	img, err := r.DecodeImage(data, ports.FormatPNG)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("snapshot is %dx%d, want 64x48", b.Dx(), b.Dy())
	}
	// Top-left is outside the OSD bar and keeps the bright luma.
	if red, _, _, _ := img.At(2, 2).RGBA(); red < 0xb000 {
		t.Errorf("expected bright pixel, got red=%#x", red)
	}
}

func TestSurface_Errors(t *testing.T) {
	fs := mocks.NewFileSystem()
	boom := errors.New("disk full")
	fs.WriteFileFunc = func(string, []byte) error { return boom }

	p := New(fs, &mocks.Renderer{}, Options{Dir: "d"})
	surf, _ := p.CreateSurface(4, 2)

	planes, strides := i420(4, 2, 0)
	if err := surf.Present(planes, strides); !errors.Is(err, boom) {
		t.Errorf("expected write error, got %v", err)
	}
	if err := surf.Present(planes[:1], strides[:1]); err == nil {
		t.Error("expected error for malformed frame")
	}
	if surf.PollQuit() || surf.VSync() || surf.Destroy() != nil {
		t.Error("unexpected surface state")
	}
}

func TestCreateSurface_MkdirFails(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAllFunc = func(string) error { return errors.New("read-only") }

	if _, err := New(fs, &mocks.Renderer{}, Options{Dir: "d"}).CreateSurface(4, 2); err == nil {
		t.Error("expected mkdir error")
	}
}
