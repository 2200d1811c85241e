package watcher

import "time"

const defaultSettleDelay = 200 * time.Millisecond

// Options configures the watcher.
type Options struct {
	// SettleDelay is how long the file must stay unchanged before an event
	// is emitted. Editors often write a file in several steps.
	SettleDelay time.Duration
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = defaultSettleDelay
	}
}
