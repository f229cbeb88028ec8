package mirror

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a [Mirror].
type Option func(*options)

type options struct {
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		prefix: "nslru",
	}
}

// WithPrefix sets the prefix prepended to every Redis key as "prefix:namespace".
// An empty prefix stores snapshots under the bare namespace.
// Default: "nslru".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithTTL sets how long Redis keeps a snapshot. Zero or negative keeps it
// until it is overwritten or deleted.
// Default: 0.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithLogger sets the logger used to report saves and restores.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
