//go:build aom

package av1decoder

/*
#cgo pkg-config: aom
#include <aom/aom_decoder.h>
#include <aom/aomdx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_iface_t* get_av1_decoder_interface() {
    return aom_codec_av1_dx();
}

static aom_codec_err_t init_decoder(aom_codec_ctx_t *ctx, aom_codec_iface_t *iface) {
    return aom_codec_dec_init(ctx, iface, NULL, 0);
}

static unsigned char* get_plane(aom_image_t *img, int plane) {
    return img->planes[plane];
}

static int get_stride(aom_image_t *img, int plane) {
    return img->stride[plane];
}

static unsigned int get_width(aom_image_t *img) {
    return img->d_w;
}

static unsigned int get_height(aom_image_t *img) {
    return img->d_h;
}

static int is_i420(aom_image_t *img) {
    return img->fmt == AOM_IMG_FMT_I420;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/user/yuvplay/pkg/ports"
)

// Available reports whether libaom support was compiled in.
func Available() bool {
	return true
}

type aomCodec struct {
	ctx    *C.aom_codec_ctx_t
	planes [3][]byte
}

func newCodec() (codec, error) {
	ctx := (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	if ctx == nil {
		return nil, fmt.Errorf("failed to allocate decoder context")
	}
	C.memset(unsafe.Pointer(ctx), 0, C.sizeof_aom_codec_ctx_t)

	if res := C.init_decoder(ctx, C.get_av1_decoder_interface()); res != C.AOM_CODEC_OK {
		C.free(unsafe.Pointer(ctx))
		return nil, fmt.Errorf("failed to initialize decoder: %d", res)
	}
	return &aomCodec{ctx: ctx}, nil
}

func (c *aomCodec) decode(data []byte) (ports.RawFrame, error) {
	if c.ctx == nil {
		return ports.RawFrame{}, fmt.Errorf("decoder closed")
	}
	if len(data) == 0 {
		return ports.RawFrame{}, errNoPicture
	}

	res := C.aom_codec_decode(c.ctx, (*C.uint8_t)(unsafe.Pointer(&data[0])), C.size_t(len(data)), nil)
	if res != C.AOM_CODEC_OK {
		return ports.RawFrame{}, fmt.Errorf("decode failed: %d", res)
	}

	var iter C.aom_codec_iter_t
	img := C.aom_codec_get_frame(c.ctx, &iter)
	if img == nil {
		return ports.RawFrame{}, errNoPicture
	}
	if C.is_i420(img) == 0 {
		return ports.RawFrame{}, ErrUnsupportedPixelFormat
	}

	width := int(C.get_width(img))
	height := int(C.get_height(img))
	cw, ch := (width+1)/2, (height+1)/2
	dims := [3][2]int{{width, height}, {cw, ch}, {cw, ch}}

	frame := ports.RawFrame{
		Planes:  make([][]byte, 3),
		Strides: make([]int, 3),
		Width:   width,
		Height:  height,
	}
	for p := 0; p < 3; p++ {
		w, h := dims[p][0], dims[p][1]
		stride := int(C.get_stride(img, C.int(p)))
		src := unsafe.Slice((*byte)(unsafe.Pointer(C.get_plane(img, C.int(p)))), stride*(h-1)+w)

		// Copy out of libaom's buffer, which the next decode call overwrites.
		if cap(c.planes[p]) < w*h {
			c.planes[p] = make([]byte, w*h)
		}
		dst := c.planes[p][:w*h]
		for row := 0; row < h; row++ {
			copy(dst[row*w:(row+1)*w], src[row*stride:row*stride+w])
		}
		frame.Planes[p] = dst
		frame.Strides[p] = w
	}
	return frame, nil
}

func (c *aomCodec) close() {
	if c.ctx != nil {
		C.aom_codec_destroy(c.ctx)
		C.free(unsafe.Pointer(c.ctx))
		c.ctx = nil
	}
}
