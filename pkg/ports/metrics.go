package ports

import "time"

// LoaderMetrics receives loader activity counters. A nil LoaderMetrics is
// valid everywhere the loader accepts one.
type LoaderMetrics interface {
	// LoadStarted records a new load request.
	LoadStarted()

	// LoadSuperseded records a load task abandoned because a newer
	// request was issued.
	LoadSuperseded()

	// LoadCompleted records a committed first frame.
	LoadCompleted(format Format, d time.Duration)

	// LoadFailed records a published failure. reason is a short label.
	LoadFailed(reason string)

	// FrameAdvanced records a committed animation step.
	FrameAdvanced(d time.Duration)
}
