package y4mdecoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/user/yuvplay/pkg/yuv"
)

// Magic starts every YUV4MPEG2 stream.
const Magic = "YUV4MPEG2"

const frameTag = "FRAME"

// isFrameLine reports whether line is a FRAME tag, optionally followed by
// frame parameters.
func isFrameLine(line string) bool {
	return line == frameTag || strings.HasPrefix(line, frameTag+" ")
}

// Header is the parsed YUV4MPEG2 stream header.
type Header struct {
	Width      int
	Height     int
	RateNum    int
	RateDen    int
	Interlace  string
	Aspect     string
	Colorspace string
}

// FrameRate returns RateNum/RateDen, or 0 when the header has no rate.
func (h Header) FrameRate() float64 {
	if h.RateNum <= 0 || h.RateDen <= 0 {
		return 0
	}
	return float64(h.RateNum) / float64(h.RateDen)
}

// ParseHeader parses one header line, with or without its trailing newline.
func ParseHeader(line string) (Header, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != Magic {
		return Header{}, ErrNotY4M
	}

	h := Header{Colorspace: "420jpeg"}
	for _, f := range fields[1:] {
		if len(f) < 2 {
			continue
		}
		val := f[1:]
		switch f[0] {
		case 'W':
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 || n > yuv.MaxDimension {
				return Header{}, fmt.Errorf("%w: width %q", ErrBadHeader, val)
			}
			h.Width = n
		case 'H':
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 || n > yuv.MaxDimension {
				return Header{}, fmt.Errorf("%w: height %q", ErrBadHeader, val)
			}
			h.Height = n
		case 'F':
			num, den, err := parseRatio(val)
			if err != nil {
				return Header{}, fmt.Errorf("%w: frame rate %q", ErrBadHeader, val)
			}
			h.RateNum, h.RateDen = num, den
		case 'I':
			h.Interlace = val
		case 'A':
			h.Aspect = val
		case 'C':
			h.Colorspace = val
		}
		// 'X' comments and unknown tags are ignored.
	}

	if h.Width == 0 || h.Height == 0 {
		return Header{}, fmt.Errorf("%w: missing width or height", ErrBadHeader)
	}
	if !supportedColorspace(h.Colorspace) {
		return Header{}, fmt.Errorf("%w: %s", ErrUnsupportedColorspace, h.Colorspace)
	}
	return h, nil
}

func parseRatio(s string) (int, int, error) {
	num, den, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("missing ':'")
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, 0, err
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return 0, 0, err
	}
	return n, d, nil
}

// supportedColorspace reports whether cs is an 8-bit 4:2:0 layout.
// The chroma siting variants share the I420 memory layout.
func supportedColorspace(cs string) bool {
	switch cs {
	case "420", "420jpeg", "420paldv", "420mpeg2":
		return true
	}
	return false
}
