package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// NewMarkdownFormatter returns a Formatter producing a Markdown report.
func NewMarkdownFormatter() Formatter {
	return FormatFunc(formatMarkdown)
}

func formatMarkdown(s *Summary) string {
	var b strings.Builder

	b.WriteString("# Playback Summary\n\n")
	fmt.Fprintf(&b, "Generated at %s", s.GeneratedAt.Format(time.RFC3339))
	if s.Command != "" {
		fmt.Fprintf(&b, " by `%s`", s.Command)
	}
	b.WriteString("\n\n")

	b.WriteString("## Source\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Source | %s |\n", escape(s.Source.ID))
	fmt.Fprintf(&b, "| Format | %s |\n", orDash(s.Source.Format))
	fmt.Fprintf(&b, "| Size | %d x %d |\n", s.Source.Width, s.Source.Height)
	fmt.Fprintf(&b, "| Frames | %d |\n", s.Source.FrameCount)
	b.WriteString("\n")

	b.WriteString("## Playback\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Frames shown | %d |\n", s.Playback.FramesShown)
	if s.Animated() {
		fmt.Fprintf(&b, "| Loops completed | %d |\n", s.Playback.Loops)
		fmt.Fprintf(&b, "| Cycle duration | %s |\n", formatDuration(s.Playback.CycleDuration))
	}
	if s.Playback.Reloads > 0 {
		fmt.Fprintf(&b, "| Reloads | %d |\n", s.Playback.Reloads)
	}
	fmt.Fprintf(&b, "| Elapsed | %s |\n", formatDuration(s.Playback.Elapsed))
	b.WriteString("\n")

	if len(s.Frames) > 0 {
		b.WriteString("## Frames\n\n")
		b.WriteString("| Frame | Duration |\n|---:|---:|\n")
		for _, f := range s.Frames {
			fmt.Fprintf(&b, "| %d | %s |\n", f.Index, formatDuration(f.Duration))
		}
		b.WriteString("\n")
	}

	if len(s.Failures) > 0 {
		b.WriteString("## Failures\n\n")
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Settings\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Tick interval | %s |\n", formatDuration(s.Settings.TickInterval))
	fmt.Fprintf(&b, "| Default frame duration | %s |\n", formatDuration(s.Settings.DefaultFrameDuration))
	if s.Settings.MaxFileBytes > 0 {
		fmt.Fprintf(&b, "| Max file size | %s |\n", formatBytes(s.Settings.MaxFileBytes))
	} else {
		b.WriteString("| Max file size | unlimited |\n")
	}
	if s.Settings.LoopLimit > 0 {
		fmt.Fprintf(&b, "| Loop limit | %d |\n", s.Settings.LoopLimit)
	}

	return b.String()
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d ms", d.Milliseconds())
}

func formatBytes(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.2f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.2f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// escape keeps table cells intact.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
