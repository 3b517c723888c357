package yuvdecoder

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/user/yuvplay/pkg/mocks"
	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

func TestDecoder_ReadsFrames(t *testing.T) {
	fs := mocks.NewFileSystem()
	size := yuv.FrameSize(4, 2)
	data := make([]byte, 2*size)
	data[0], data[size] = 0x10, 0x20
	fs.WriteFile("clip.yuv", data)

	src, err := New(fs).Open(context.Background(), ports.Source{Path: "clip.yuv", Width: 4, Height: 2, FrameRate: 10})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if info := src.Info(); info.Format != "yuv" || info.Width != 4 || info.FrameRate != 10 {
		t.Errorf("unexpected info %+v", info)
	}

	for i, want := range []byte{0x10, 0x20} {
		frame, err := src.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame %d: %v", i, err)
		}
		if frame.Planes[0][0] != want {
			t.Errorf("frame %d luma = %#x, want %#x", i, frame.Planes[0][0], want)
		}
	}
	if _, err := src.NextFrame(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestDecoder_TruncatedTail(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("short.yuv", make([]byte, yuv.FrameSize(4, 2)+3))

	src, _ := New(fs).Open(context.Background(), ports.Source{Path: "short.yuv", Width: 4, Height: 2})
	defer src.Close()

	src.NextFrame()
	if _, err := src.NextFrame(); !errors.Is(err, yuv.ErrTruncatedFrame) {
		t.Errorf("expected ErrTruncatedFrame, got %v", err)
	}
}

func TestDecoder_DimensionsRequired(t *testing.T) {
	_, err := New(mocks.NewFileSystem()).Open(context.Background(), ports.Source{Path: "clip.yuv"})
	if !errors.Is(err, ErrDimensionsRequired) {
		t.Errorf("expected ErrDimensionsRequired, got %v", err)
	}
}

func TestDecoder_MissingFile(t *testing.T) {
	_, err := New(mocks.NewFileSystem()).Open(context.Background(), ports.Source{Path: "nope.yuv", Width: 4, Height: 2})
	if err == nil {
		t.Error("expected error for missing file")
	}
}
