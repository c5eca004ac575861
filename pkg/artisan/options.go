package artisan

import "time"

type options struct {
	date time.Time
}

// Option configures a conversion.
type Option func(*options)

// WithDate sets the date written to the profile header. Default: today.
func WithDate(t time.Time) Option {
	return func(o *options) {
		o.date = t
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
