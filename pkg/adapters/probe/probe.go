// Package probe reads stream information from MP4 containers without decoding them.
package probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/yuvplay/pkg/ports"
)

// ErrNoVideoTrack is returned when a container has no usable video track.
var ErrNoVideoTrack = errors.New("probe: no video track found")

// Result describes the first video track of a container.
type Result struct {
	TrackID    uint32
	Codec      string
	SampleType string // Sample entry fourcc, e.g. "avc1"
	Width      int
	Height     int
	Timescale  uint32
	FrameRate  float64
	FrameCount int64
	Duration   time.Duration
	Fragmented bool
}

// StreamInfo converts r into the form decoders report.
func (r Result) StreamInfo() ports.StreamInfo {
	return ports.StreamInfo{
		Format:     "mp4",
		Codec:      r.Codec,
		Width:      r.Width,
		Height:     r.Height,
		FrameRate:  r.FrameRate,
		FrameCount: r.FrameCount,
	}
}

// File probes the MP4 file at path.
func File(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Reader(f)
}

// Reader probes an MP4 stream and rewinds it afterwards.
func Reader(reader io.ReadSeeker) (Result, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Result{}, fmt.Errorf("decode mp4: %w", err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return Result{}, fmt.Errorf("seek: %w", err)
	}

	return Describe(mp4File)
}

// Describe reports the first video track of an already decoded file.
func Describe(f *mp4.File) (Result, error) {
	moov := f.Moov
	if f.IsFragmented() && f.Init != nil && f.Init.Moov != nil {
		moov = f.Init.Moov
	}
	if moov == nil {
		return Result{}, ErrNoVideoTrack
	}

	for _, trak := range moov.Traks {
		res, ok := describeTrack(trak)
		if !ok {
			continue
		}
		res.TrackID = trak.Tkhd.TrackID
		res.Fragmented = f.IsFragmented()

		var count int64
		var total uint64
		if res.Fragmented {
			count, total = fragmentedSamples(f, moov, trak.Tkhd.TrackID)
		} else {
			count, total = progressiveSamples(trak)
		}
		res.FrameCount = count
		if res.Timescale > 0 && total > 0 {
			res.Duration = time.Duration(total * uint64(time.Second) / uint64(res.Timescale))
			res.FrameRate = float64(count) * float64(res.Timescale) / float64(total)
		}
		return res, nil
	}

	return Result{}, ErrNoVideoTrack
}

func describeTrack(trak *mp4.TrakBox) (Result, bool) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return Result{}, false
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return Result{}, false
	}

	var res Result
	if trak.Mdia.Mdhd != nil {
		res.Timescale = trak.Mdia.Mdhd.Timescale
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		res.SampleType = child.Type()
		res.Codec = codecName(res.SampleType)
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			res.Width = int(vse.Width)
			res.Height = int(vse.Height)
		}
		break
	}
	if res.SampleType == "" {
		return Result{}, false
	}

	// Fall back to the track header, which stores 16.16 fixed point.
	if (res.Width == 0 || res.Height == 0) && trak.Tkhd != nil {
		res.Width = int(uint32(trak.Tkhd.Width) >> 16)
		res.Height = int(uint32(trak.Tkhd.Height) >> 16)
	}

	return res, true
}

func codecName(sampleType string) string {
	switch sampleType {
	case "avc1", "avc3":
		return "h264"
	case "hvc1", "hev1":
		return "hevc"
	case "av01":
		return "av1"
	case "vp08":
		return "vp8"
	case "vp09":
		return "vp9"
	default:
		return sampleType
	}
}

// progressiveSamples returns the sample count and summed durations from stbl.
func progressiveSamples(trak *mp4.TrakBox) (int64, uint64) {
	stbl := trak.Mdia.Minf.Stbl

	var count int64
	if stbl.Stsz != nil {
		count = int64(stbl.Stsz.SampleNumber)
	}

	var total uint64
	var timed int64
	if stbl.Stts != nil {
		for i, n := range stbl.Stts.SampleCount {
			total += uint64(n) * uint64(stbl.Stts.SampleTimeDelta[i])
			timed += int64(n)
		}
	}
	if count == 0 {
		count = timed
	}
	return count, total
}

// fragmentedSamples walks every fragment that carries trackID.
func fragmentedSamples(f *mp4.File, moov *mp4.MoovBox, trackID uint32) (int64, uint64) {
	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	var count int64
	var total uint64
	for _, seg := range f.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || !hasTrack(frag.Moof, trackID) {
				continue
			}
			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				continue
			}
			for _, s := range samples {
				count++
				total += uint64(s.Dur)
			}
		}
	}
	return count, total
}

func hasTrack(moof *mp4.MoofBox, trackID uint32) bool {
	for _, traf := range moof.Trafs {
		if traf.Tfhd != nil && traf.Tfhd.TrackID == trackID {
			return true
		}
	}
	return false
}
