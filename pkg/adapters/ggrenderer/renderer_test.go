package ggrenderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/yuvplay/pkg/ports"
)

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 60, color.White)
	img := canvas.ToImage()
	bounds := img.Bounds()

	if bounds.Dx() != 100 || bounds.Dy() != 60 {
		t.Errorf("expected 100x60, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	if red, _, _, _ := img.At(50, 30).RGBA(); red != 0xffff {
		t.Error("expected white background")
	}
}

func TestRenderer_EncodeDecode(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 30, 20))

	for _, format := range []ports.ImageFormat{ports.FormatPNG, ports.FormatJPEG} {
		data, err := r.EncodeImage(img, format, 80)
		if err != nil {
			t.Fatalf("EncodeImage(%d) failed: %v", format, err)
		}
		decoded, err := r.DecodeImage(data, format)
		if err != nil {
			t.Fatalf("DecodeImage(%d) failed: %v", format, err)
		}
		if b := decoded.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
			t.Errorf("format %d: expected 30x20, got %dx%d", format, b.Dx(), b.Dy())
		}
	}

	if _, err := r.EncodeImage(img, ports.ImageFormat(99), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderer_ResizeYCbCr(t *testing.T) {
	r := New()

	src := image.NewYCbCr(image.Rect(0, 0, 64, 32), image.YCbCrSubsampleRatio420)
	for i := range src.Y {
		src.Y[i] = 235
	}
	for i := range src.Cb {
		src.Cb[i], src.Cr[i] = 128, 128
	}

	resized := r.ResizeImage(src, 32, 16)
	if b := resized.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("expected 32x16, got %dx%d", b.Dx(), b.Dy())
	}
	if red, _, _, _ := resized.At(16, 8).RGBA(); red < 0xe000 {
		t.Errorf("expected near-white pixel, got red=%#x", red)
	}
}

func TestCanvas_DrawRect(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawRect(10, 10, 30, 30, color.RGBA{R: 255, A: 255})

	img := canvas.ToImage()
	if _, g, _, _ := img.At(20, 20).RGBA(); g != 0 {
		t.Error("expected red pixel inside rectangle")
	}
	if _, g, _, _ := img.At(60, 60).RGBA(); g == 0 {
		t.Error("expected white pixel outside rectangle")
	}
}

func TestCanvas_DrawImage(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	small := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			small.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	canvas.DrawImage(small, 10, 10)

	if red, _, _, _ := canvas.ToImage().At(15, 15).RGBA(); red != 0 {
		t.Error("expected blue pixel from drawn image")
	}
}

func TestCanvas_DrawText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(200, 30, color.Black)

	style := ports.TextStyle{
		FontSize: 14,
		FontPath: "/nonexistent/font.ttf",
		Color:    color.White,
	}
	canvas.DrawText("frame 12", 4, 15, style)

	img := canvas.ToImage()
	lit := false
	for y := 0; y < 30 && !lit; y++ {
		for x := 0; x < 100; x++ {
			if red, _, _, _ := img.At(x, y).RGBA(); red > 0 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("expected text pixels with the fallback face")
	}
	if len(r.faces) != 1 {
		t.Errorf("expected the failed face lookup to be cached, got %d entries", len(r.faces))
	}
}
