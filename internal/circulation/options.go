package circulation

import "time"

type options struct {
	notifier Notifier
	now      func() time.Time
}

// Option configures the circulation components.
type Option func(*options)

func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		notifier: nopNotifier{},
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
