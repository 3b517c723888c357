package av1decoder

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/yuvplay/pkg/ports"
)

// buildFragmented muxes frames placeholder samples under the given sample
// entry into a single-fragment MP4.
func buildFragmented(t *testing.T, sampleEntry string, fps, frames int) []byte {
	t.Helper()

	timescale := uint32(fps * 1000)
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")
	trak := init.Moov.Trak

	av1C := &mp4.Av1CBox{CodecConfRec: av1.CodecConfRec{Version: 1, ChromaSubsamplingX: 1, ChromaSubsamplingY: 1}}
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox(sampleEntry, 32, 16, av1C))

	frag, err := mp4.CreateFragment(1, trak.Tkhd.TrackID)
	if err != nil {
		t.Fatalf("CreateFragment: %v", err)
	}
	dur := timescale / uint32(fps)
	for i := 0; i < frames; i++ {
		data := []byte{0x12, 0x00, byte(i)}
		flags := mp4.NonSyncSampleFlags
		if i == 0 {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample:     mp4.Sample{Flags: flags, Size: uint32(len(data)), Dur: dur},
			DecodeTime: uint64(i) * uint64(dur),
			Data:       data,
		})
	}

	var buf bytes.Buffer
	if err := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso6", "av01"}).Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	if err := frag.Encode(&buf); err != nil {
		t.Fatalf("encode fragment: %v", err)
	}
	return buf.Bytes()
}

func TestExtractSamples(t *testing.T) {
	data := buildFragmented(t, "av01", 25, 4)

	res, samples, err := ExtractSamples(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ExtractSamples: %v", err)
	}
	if res.Width != 32 || res.Height != 16 {
		t.Errorf("size = %dx%d, want 32x16", res.Width, res.Height)
	}
	if len(samples) != 4 {
		t.Fatalf("got %d samples, want 4", len(samples))
	}

	for i, s := range samples {
		if want := time.Duration(i) * 40 * time.Millisecond; s.Timestamp != want {
			t.Errorf("sample %d timestamp = %v, want %v", i, s.Timestamp, want)
		}
		if s.Data[2] != byte(i) {
			t.Errorf("sample %d carries data of sample %d", i, s.Data[2])
		}
		if s.Keyframe != (i == 0) {
			t.Errorf("sample %d keyframe = %v", i, s.Keyframe)
		}
	}
}

func TestExtractSamples_NotAV1(t *testing.T) {
	data := buildFragmented(t, "avc1", 25, 2)

	if _, _, err := ExtractSamples(bytes.NewReader(data)); !errors.Is(err, ErrNotAV1) {
		t.Errorf("expected ErrNotAV1, got %v", err)
	}
}

func TestExtractSamples_Garbage(t *testing.T) {
	if _, _, err := ExtractSamples(bytes.NewReader([]byte("not an mp4 at all"))); err == nil {
		t.Error("expected an error for non-MP4 input")
	}
}

// fakeCodec yields no picture for samples starting with zero and a 2x2 frame
// otherwise.
type fakeCodec struct {
	closed int
	fail   bool
}

func (c *fakeCodec) decode(data []byte) (ports.RawFrame, error) {
	if c.fail {
		return ports.RawFrame{}, errors.New("corrupt")
	}
	if data[0] == 0 {
		return ports.RawFrame{}, errNoPicture
	}
	return ports.RawFrame{
		Planes:  [][]byte{{data[0], data[0], data[0], data[0]}, {0}, {0}},
		Strides: []int{2, 1, 1},
		Width:   2,
		Height:  2,
	}, nil
}

func (c *fakeCodec) close() { c.closed++ }

func TestFrameSource_SkipsEmptyPictures(t *testing.T) {
	c := &fakeCodec{}
	src := &frameSource{
		samples: []Sample{
			{Data: []byte{0}, Timestamp: 0},
			{Data: []byte{7}, Timestamp: 40 * time.Millisecond},
			{Data: []byte{9}, Timestamp: 80 * time.Millisecond},
		},
		codec: c,
	}

	frame, err := src.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame: %v", err)
	}
	if frame.Planes[0][0] != 7 || frame.Timestamp != 40*time.Millisecond || !frame.HasTimestamp {
		t.Errorf("unexpected first frame: %+v", frame)
	}

	if frame, err = src.NextFrame(); err != nil || frame.Planes[0][0] != 9 {
		t.Errorf("second frame = %+v, %v", frame, err)
	}
	if _, err := src.NextFrame(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}

	src.Close()
	src.Close()
	if c.closed != 1 {
		t.Errorf("codec closed %d times, want 1", c.closed)
	}
}

func TestFrameSource_DecodeError(t *testing.T) {
	src := &frameSource{
		samples: []Sample{{Data: []byte{1}}},
		codec:   &fakeCodec{fail: true},
	}
	if _, err := src.NextFrame(); err == nil || err == io.EOF {
		t.Errorf("expected a decode error, got %v", err)
	}
}
