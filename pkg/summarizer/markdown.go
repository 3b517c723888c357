package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion adds the program version to the report footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a formatter. Labels are untranslated by default.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Playback Summary"))

	fmt.Fprintf(&b, "## %s\n\n", t("Source"))
	f.header(&b)
	f.row(&b, "Path", s.Source.Path)
	f.row(&b, "Format", orDash(s.Source.Format))
	f.row(&b, "Codec", orDash(s.Source.Codec))
	f.row(&b, "Resolution", fmt.Sprintf("%dx%d", s.Source.Width, s.Source.Height))
	if s.Source.FrameRate > 0 {
		f.row(&b, "Frame Rate", fmt.Sprintf("%.2f fps", s.Source.FrameRate))
	} else {
		f.row(&b, "Frame Rate", t("Unknown"))
	}
	if s.Source.FrameCount > 0 {
		f.row(&b, "Frames", fmt.Sprintf("%d", s.Source.FrameCount))
	}
	if s.Source.FileSize > 0 {
		f.row(&b, "File Size", formatBytes(s.Source.FileSize))
	}
	b.WriteString("\n")

	p := s.Playback
	fmt.Fprintf(&b, "## %s\n\n", t("Playback"))
	f.header(&b)
	f.row(&b, "Stop Reason", t(p.Reason))
	f.row(&b, "Decoded", fmt.Sprintf("%d", p.Decoded))
	f.row(&b, "Presented", fmt.Sprintf("%d", p.Presented))
	f.row(&b, "Dropped", fmt.Sprintf("%d", p.Dropped))
	f.row(&b, "Empty Ticks", fmt.Sprintf("%d", p.EmptyTicks))
	f.row(&b, "Present Errors", fmt.Sprintf("%d", p.PresentErrors))
	if p.DecodeError != "" {
		f.row(&b, "Decode Error", p.DecodeError)
	}
	if p.Leaked > 0 {
		f.row(&b, "Unreleased Frames", fmt.Sprintf("%d", p.Leaked))
	}
	f.row(&b, "Wall Time", fmt.Sprintf("%d ms", p.DurationMs))
	f.row(&b, "Effective Rate", fmt.Sprintf("%.2f fps", p.EffectiveFPS()))
	f.row(&b, "Decoder Blocked", fmt.Sprintf("%d ms", p.DecodeBlockedMs))
	b.WriteString("\n")

	st := s.Settings
	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	f.header(&b)
	f.row(&b, "Presenter", orDash(st.Presenter))
	f.row(&b, "Queue Capacity", fmt.Sprintf("%d", st.QueueCapacity))
	if st.VSync {
		f.row(&b, "Tick Interval", t("VSync"))
	} else {
		f.row(&b, "Tick Interval", fmt.Sprintf("%.1f ms", st.TickIntervalMs))
	}
	if st.TakeTimeoutMs > 0 {
		f.row(&b, "Take Timeout", fmt.Sprintf("%d ms", st.TakeTimeoutMs))
	}
	if st.DrainPolicy != "" {
		f.row(&b, "Drain Policy", st.DrainPolicy)
	}
	if st.MaxFrames > 0 {
		f.row(&b, "Frame Limit", fmt.Sprintf("%d", st.MaxFrames))
	}
	b.WriteString("\n")

	b.WriteString("---\n\n")
	generated := s.GeneratedAt.Format("2006-01-02 15:04:05")
	if f.version != "" {
		fmt.Fprintf(&b, "%s %s (yuvplay %s)\n", t("Generated at"), generated, f.version)
	} else {
		fmt.Fprintf(&b, "%s %s\n", t("Generated at"), generated)
	}

	return b.String()
}

func (f *MarkdownFormatter) header(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n|---|---|\n", f.translate("Item"), f.translate("Value"))
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatBytes renders a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
