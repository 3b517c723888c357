package av1decoder

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/yuvplay/pkg/adapters/probe"
)

var (
	// ErrNotAV1 is returned when the video track carries another codec.
	ErrNotAV1 = errors.New("av1decoder: video track is not av1")
	// ErrProgressive is returned for non-fragmented files.
	ErrProgressive = errors.New("av1decoder: progressive mp4 is not supported")
)

// Sample is one compressed temporal unit with its presentation time.
type Sample struct {
	Data      []byte
	Timestamp time.Duration
	Keyframe  bool
}

// ExtractSamples reads the AV1 samples of the first video track without
// decoding them.
func ExtractSamples(reader io.ReadSeeker) (probe.Result, []Sample, error) {
	f, err := mp4.DecodeFile(reader)
	if err != nil {
		return probe.Result{}, nil, fmt.Errorf("decode mp4: %w", err)
	}

	res, err := probe.Describe(f)
	if err != nil {
		return res, nil, err
	}
	if res.Codec != "av1" {
		return res, nil, fmt.Errorf("%w: %s", ErrNotAV1, res.Codec)
	}
	if !res.Fragmented {
		return res, nil, ErrProgressive
	}

	var trex *mp4.TrexBox
	if mvex := f.Init.Moov.Mvex; mvex != nil {
		for _, t := range mvex.Trexs {
			if t.TrackID == res.TrackID {
				trex = t
				break
			}
		}
	}

	timescale := uint64(res.Timescale)
	if timescale == 0 {
		timescale = 1000
	}

	var samples []Sample
	for _, seg := range f.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != res.TrackID {
					continue
				}

				var t uint64
				if traf.Tfdt != nil {
					t = traf.Tfdt.BaseMediaDecodeTime()
				}

				full, err := frag.GetFullSamples(trex)
				if err != nil {
					return res, nil, fmt.Errorf("get samples: %w", err)
				}
				for _, s := range full {
					samples = append(samples, Sample{
						Data:      s.Data,
						Timestamp: time.Duration(t * uint64(time.Second) / timescale),
						Keyframe:  s.Flags == mp4.SyncSampleFlags,
					})
					t += uint64(s.Dur)
				}
				break
			}
		}
	}

	return res, samples, nil
}
