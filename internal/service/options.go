package service

import (
	"io"
	"log/slog"
	"time"
)

// Option configures the engine services.
type Option func(*options)

type options struct {
	now      func() time.Time
	loc      *time.Location
	logger   *slog.Logger
	observer UseCaseObserver
	hub      *SessionHub
}

func defaultOptions() options {
	return options{
		now:    time.Now,
		loc:    time.UTC,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.observer = useCaseObserverOrNoop(o.observer)
	return o
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the zone used for "today" and completion dates.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithLogger sets the logger used for degraded reads.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithObserver(observer UseCaseObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithHub sets the hub that session writes are published on.
func WithHub(hub *SessionHub) Option {
	return func(o *options) {
		o.hub = hub
	}
}

// clock returns now in UTC truncated to whole seconds, the precision rows
// are stored at.
func (o options) clock() time.Time {
	return o.now().UTC().Truncate(time.Second)
}
