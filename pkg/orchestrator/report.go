package orchestrator

// Report is the JSON form of a RunResult saved to the debug sink.
type Report struct {
	Source        string  `json:"source,omitempty"`
	Format        string  `json:"format"`
	Codec         string  `json:"codec,omitempty"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	FrameRate     float64 `json:"frame_rate"`
	Reason        string  `json:"reason"`
	StartedAt     string  `json:"started_at"`
	DurationMs    int64   `json:"duration_ms"`
	QueueCapacity int     `json:"queue_capacity"`
	TickMs        float64 `json:"tick_ms"`
	VSync         bool    `json:"vsync"`

	Decoded       int    `json:"decoded"`
	DecodeError   string `json:"decode_error,omitempty"`
	OfferBlockMs  int64  `json:"offer_block_ms"`
	Ticks         int    `json:"ticks"`
	Presented     int    `json:"presented"`
	EmptyTicks    int    `json:"empty_ticks"`
	PresentErrors int    `json:"present_errors"`
	Dropped       int    `json:"dropped"`
	LastSeq       uint64 `json:"last_seq"`
	Leaked        int64  `json:"leaked"`
}

// NewReport flattens r for serialization.
func NewReport(r RunResult) Report {
	rep := Report{
		Source:        r.Source.Path,
		Format:        r.Stream.Format,
		Codec:         r.Stream.Codec,
		Width:         r.Stream.Width,
		Height:        r.Stream.Height,
		FrameRate:     r.Stream.FrameRate,
		Reason:        r.Reason.String(),
		StartedAt:     r.StartedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		DurationMs:    r.Duration.Milliseconds(),
		QueueCapacity: r.QueueCapacity,
		TickMs:        float64(r.TickInterval.Microseconds()) / 1000,
		VSync:         r.VSync,
		Decoded:       r.Decode.Frames,
		OfferBlockMs:  r.Decode.Blocked.Milliseconds(),
		Ticks:         r.Present.Ticks,
		Presented:     r.Present.Presented,
		EmptyTicks:    r.Present.EmptyTicks,
		PresentErrors: r.Present.PresentErrors,
		Dropped:       r.Present.Dropped,
		LastSeq:       r.Present.LastSeq,
		Leaked:        r.Leaked,
	}
	if r.Decode.Err != nil {
		rep.DecodeError = r.Decode.Err.Error()
	}
	return rep
}
