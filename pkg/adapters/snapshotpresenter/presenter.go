// Package snapshotpresenter writes every Nth presented frame to disk as a PNG
// with an on-screen display of the frame number and time.
package snapshotpresenter

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

// Options configures snapshot output.
type Options struct {
	Dir       string
	Every     int     // Keep every Nth frame; <= 1 keeps all
	Width     int     // Output width; 0 keeps the source size
	FrameRate float64 // Used for the OSD timestamp; 0 omits it
	OSDColor  color.Color
	OSDBack   color.Color
	FontPath  string
	FontSize  float64
}

// Presenter implements ports.Presenter by rendering snapshots through a
// ports.Renderer and writing them with a ports.FileSystem.
type Presenter struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	opts     Options
}

// New creates a new snapshot presenter.
func New(fs ports.FileSystem, renderer ports.Renderer, opts Options) *Presenter {
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.OSDColor == nil {
		opts.OSDColor = color.White
	}
	if opts.OSDBack == nil {
		opts.OSDBack = color.RGBA{A: 160}
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 14
	}
	return &Presenter{fs: fs, renderer: renderer, opts: opts}
}

// CreateSurface creates the output directory.
func (p *Presenter) CreateSurface(width, height int) (ports.Surface, error) {
	if err := yuv.Validate(width, height); err != nil {
		return nil, err
	}
	if err := p.fs.MkdirAll(p.opts.Dir); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	outW, outH := width, height
	if p.opts.Width > 0 && p.opts.Width != width {
		outW = p.opts.Width
		outH = height * outW / width
		if outH < 1 {
			outH = 1
		}
	}

	return &Surface{p: p, width: width, height: height, outW: outW, outH: outH}, nil
}

// Surface is the snapshot target for one run.
type Surface struct {
	p             *Presenter
	width, height int
	outW, outH    int

	index   uint64
	written int
}

// Present renders the frame if it falls on the snapshot interval.
func (s *Surface) Present(planes [][]byte, strides []int) error {
	index := s.index
	s.index++
	if index%uint64(s.p.opts.Every) != 0 {
		return nil
	}

	img, err := yuv.ToImage(planes, strides, s.width, s.height)
	if err != nil {
		return err
	}

	canvas := s.p.renderer.CreateCanvas(s.outW, s.outH, color.Black)
	if s.outW != s.width || s.outH != s.height {
		canvas.DrawImage(s.p.renderer.ResizeImage(img, s.outW, s.outH), 0, 0)
	} else {
		canvas.DrawImage(img, 0, 0)
	}

	barH := int(s.p.opts.FontSize*1.6 + 0.5)
	if barH > s.outH {
		barH = s.outH
	}
	canvas.DrawRect(0, s.outH-barH, s.outW, barH, s.p.opts.OSDBack)
	canvas.DrawText(s.label(index), 6, s.outH-barH/2, ports.TextStyle{
		FontSize: s.p.opts.FontSize,
		FontPath: s.p.opts.FontPath,
		Color:    s.p.opts.OSDColor,
		Align:    ports.AlignLeft,
	})

	data, err := s.p.renderer.EncodeImage(canvas.ToImage(), ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.p.fs.WriteFile(filepath.Join(s.p.opts.Dir, FileName(index)), data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.written++
	return nil
}

func (s *Surface) label(index uint64) string {
	if s.p.opts.FrameRate <= 0 {
		return fmt.Sprintf("frame %d", index)
	}
	t := time.Duration(float64(index) / s.p.opts.FrameRate * float64(time.Second))
	return fmt.Sprintf("frame %d  t=%.3fs", index, t.Seconds())
}

// PollQuit never requests a stop; playback ends with the stream.
func (s *Surface) PollQuit() bool {
	return false
}

// VSync is false.
func (s *Surface) VSync() bool {
	return false
}

// Destroy is a no-op.
func (s *Surface) Destroy() error {
	return nil
}

// Written returns the number of snapshots saved so far.
func (s *Surface) Written() int {
	return s.written
}

// FileName returns the snapshot file name for a presented frame index.
func FileName(index uint64) string {
	return fmt.Sprintf("snapshot-%06d.png", index)
}

var _ ports.Presenter = (*Presenter)(nil)
