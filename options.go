package life

import "time"

// DefaultFramePace is the sleep at the end of each frame. It caps the frame
// rate when the driver does not pace with vertical sync.
const DefaultFramePace = time.Millisecond

// Option configures an Orchestrator during creation.
//
// Example:
//
//	// Default pacing (1ms sleep per frame)
//	o, err := life.New(dev, 640, 480)
//
//	// Driver already paces with vsync
//	o, err := life.New(dev, 640, 480, life.WithFramePace(0))
type Option func(*options)

// options holds optional configuration for Orchestrator creation.
type options struct {
	pace     time.Duration
	sleep    func(time.Duration)
	observer FrameObserver
	label    string
}

// defaultOptions returns the default orchestrator options.
func defaultOptions() options {
	return options{
		pace:  DefaultFramePace,
		sleep: time.Sleep,
		label: "life",
	}
}

// WithFramePace sets the end-of-frame sleep. Zero disables pacing.
func WithFramePace(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.pace = d
	}
}

// WithSleep replaces the function used for frame pacing.
// Tests use it to observe pacing without blocking.
func WithSleep(fn func(time.Duration)) Option {
	return func(o *options) {
		if fn != nil {
			o.sleep = fn
		}
	}
}

// WithObserver registers an observer notified after every frame.
func WithObserver(obs FrameObserver) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithLabel sets the prefix of the debug labels given to device resources.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
