package netgen

import (
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
)

// DefaultComment is written as the first line of every file
const DefaultComment = "Generated by gonetgen"

// Option configures reading and writing
type Option func(*options)

type options struct {
	logger           logrus.FieldLogger
	comment          string
	compressionLevel int
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:           logrus.StandardLogger(),
		comment:          DefaultComment,
		compressionLevel: gzip.DefaultCompression,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger routes diagnostics to l instead of the logrus standard logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithComment sets the header comment line of written files
func WithComment(c string) Option {
	return func(o *options) {
		o.comment = c
	}
}

// WithCompressionLevel sets the gzip level used for .gz output
// (gzip.HuffmanOnly through gzip.BestCompression).
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		if level >= gzip.HuffmanOnly && level <= gzip.BestCompression {
			o.compressionLevel = level
		}
	}
}
