package smartdecoder

import (
	"context"
	"errors"
	"testing"

	"github.com/user/yuvplay/pkg/adapters/av1decoder"

	"github.com/user/yuvplay/pkg/mocks"
	"github.com/user/yuvplay/pkg/ports"
)

type fakeBackend struct {
	mocks.VideoDecoder
	available bool
}

func (f *fakeBackend) IsAvailable() bool { return f.available }

func newTestDecoder(fs *mocks.FileSystem) (*Decoder, *mocks.VideoDecoder, *mocks.VideoDecoder, *fakeBackend) {
	d := New(fs, Options{})
	yuvDec := &mocks.VideoDecoder{}
	y4mDec := &mocks.VideoDecoder{}
	ff := &fakeBackend{available: true}
	d.yuv, d.y4m, d.ffmpeg = yuvDec, y4mDec, ff
	d.av1 = &fakeBackend{}
	return d, yuvDec, y4mDec, ff
}

func TestDetect(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("clip.bin", []byte("YUV4MPEG2 W2 H2 F25:1\n"))
	fs.WriteFile("movie.dat", []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'})
	fs.WriteFile("web.dat", []byte{0x1A, 0x45, 0xDF, 0xA3, 0, 0, 0, 0})
	fs.WriteFile("plain.y4m", []byte("not really"))
	fs.WriteFile("noext", []byte{1, 2, 3})

	d, _, _, _ := newTestDecoder(fs)

	tests := []struct {
		name string
		src  ports.Source
		want Format
	}{
		{"explicit format wins", ports.Source{Path: "clip.bin", Format: "yuv"}, FormatYUV},
		{"explicit mp4 maps to ffmpeg", ports.Source{Path: "x", Format: "mp4"}, FormatFFmpeg},
		{"y4m magic", ports.Source{Path: "clip.bin"}, FormatY4M},
		{"ftyp magic", ports.Source{Path: "movie.dat"}, FormatFFmpeg},
		{"ebml magic", ports.Source{Path: "web.dat"}, FormatFFmpeg},
		{"extension", ports.Source{Path: "plain.y4m"}, FormatY4M},
		{"missing file uses extension", ports.Source{Path: "gone.mp4"}, FormatFFmpeg},
		{"dimensions imply raw", ports.Source{Path: "noext", Width: 4, Height: 4}, FormatYUV},
		{"stdin with dimensions", ports.Source{Path: "-", Width: 4, Height: 4}, FormatYUV},
		{"stdin without dimensions", ports.Source{Path: "-"}, FormatY4M},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Detect(tt.src)
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetect_Unsupported(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("noext", []byte{1, 2, 3})
	d, _, _, _ := newTestDecoder(fs)

	if _, err := d.Detect(ports.Source{Path: "noext"}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := d.Detect(ports.Source{Path: "noext", Format: "gif"}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat for bad format name, got %v", err)
	}
}

func TestOpen_Dispatches(t *testing.T) {
	fs := mocks.NewFileSystem()
	d, yuvDec, y4mDec, ff := newTestDecoder(fs)
	ctx := context.Background()

	if _, err := d.Open(ctx, ports.Source{Path: "a.yuv", Width: 2, Height: 2}); err != nil {
		t.Fatalf("Open yuv: %v", err)
	}
	if _, err := d.Open(ctx, ports.Source{Path: "a.y4m"}); err != nil {
		t.Fatalf("Open y4m: %v", err)
	}
	if _, err := d.Open(ctx, ports.Source{Path: "a.mp4"}); err != nil {
		t.Fatalf("Open mp4: %v", err)
	}

	if len(yuvDec.OpenCalls) != 1 || len(y4mDec.OpenCalls) != 1 || len(ff.OpenCalls) != 1 {
		t.Fatalf("dispatch counts yuv=%d y4m=%d ffmpeg=%d, want 1 each",
			len(yuvDec.OpenCalls), len(y4mDec.OpenCalls), len(ff.OpenCalls))
	}
	if yuvDec.OpenCalls[0].Width != 2 {
		t.Errorf("source not forwarded: %+v", yuvDec.OpenCalls[0])
	}
}

func TestOpen_FFmpegUnavailable(t *testing.T) {
	d, _, _, ff := newTestDecoder(mocks.NewFileSystem())
	ff.available = false

	_, err := d.Open(context.Background(), ports.Source{Path: "a.mp4"})
	if !errors.Is(err, ErrNoDecoderAvailable) {
		t.Errorf("expected ErrNoDecoderAvailable, got %v", err)
	}
	if len(ff.OpenCalls) != 0 {
		t.Error("ffmpeg should not be invoked when unavailable")
	}
}

func TestOpen_PrefersNativeAV1(t *testing.T) {
	d, _, _, ff := newTestDecoder(mocks.NewFileSystem())
	native := &fakeBackend{available: true}
	d.av1 = native

	if _, err := d.Open(context.Background(), ports.Source{Path: "a.mp4"}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(native.OpenCalls) != 1 || len(ff.OpenCalls) != 0 {
		t.Errorf("native=%d ffmpeg=%d, want the native decoder only", len(native.OpenCalls), len(ff.OpenCalls))
	}
}

func TestOpen_FallsBackFromNativeAV1(t *testing.T) {
	d, _, _, ff := newTestDecoder(mocks.NewFileSystem())
	native := &fakeBackend{available: true}
	native.OpenFunc = func(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
		return nil, av1decoder.ErrNotAV1
	}
	d.av1 = native

	if _, err := d.Open(context.Background(), ports.Source{Path: "a.mp4"}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(native.OpenCalls) != 1 || len(ff.OpenCalls) != 1 {
		t.Errorf("native=%d ffmpeg=%d, want one attempt each", len(native.OpenCalls), len(ff.OpenCalls))
	}
}
