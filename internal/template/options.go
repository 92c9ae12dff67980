package template

import (
	"log/slog"
	"strings"
)

// DefaultReservedParameter is the field-filtering header skipped by default.
const DefaultReservedParameter = "X-Fields"

type settings struct {
	logger      *slog.Logger
	reserved    []string
	concurrency int
}

// Option configures template construction.
type Option func(*settings)

// WithLogger sets the logger that receives traversal and skip events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReservedParameters replaces the parameter names that are recognised
// and skipped rather than templated. Names match case-insensitively.
func WithReservedParameters(names ...string) Option {
	return func(s *settings) {
		s.reserved = append([]string(nil), names...)
	}
}

// WithConcurrency templates up to n operations at once. The operation order
// observed through APITemplate is unaffected.
func WithConcurrency(n int) Option {
	return func(s *settings) { s.concurrency = n }
}

func newSettings(opts []Option) *settings {
	s := &settings{
		logger:      slog.New(slog.DiscardHandler),
		reserved:    []string{DefaultReservedParameter},
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *settings) isReserved(name string) bool {
	for _, r := range s.reserved {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}
