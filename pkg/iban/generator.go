package iban

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// DefaultMaxAttempts bounds collision retries before giving up.
const DefaultMaxAttempts = 8

// Lookup reports whether an identifier is already assigned.
type Lookup interface {
	ExistsIBAN(ctx context.Context, iban string) (bool, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, iban string) (bool, error)

// ExistsIBAN calls f.
func (f LookupFunc) ExistsIBAN(ctx context.Context, iban string) (bool, error) {
	return f(ctx, iban)
}

// Source yields the entropy used for the account segment.
type Source func() uint64

// RandomSource draws 64 random bits from a version 4 UUID.
func RandomSource() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[8:])
}

// Generator allocates unused identifiers under a fixed prefix.
type Generator struct {
	cfg         Config
	source      Source
	maxAttempts int
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces the entropy source.
func WithSource(src Source) Option {
	return func(g *Generator) { g.source = src }
}

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// NewGenerator creates a Generator for cfg.
func NewGenerator(cfg Config, logger *slog.Logger, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		cfg:         cfg,
		source:      RandomSource,
		maxAttempts: DefaultMaxAttempts,
		logger:      logger.With("component", "iban-generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate returns a checksum-valid identifier that lookup does not know.
// Each collision draws a fresh account segment; after maxAttempts it fails with ErrAllocationFailed.
func (g *Generator) Generate(ctx context.Context, lookup Lookup) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate, err := g.cfg.Build(g.source())
		if err != nil {
			return "", err
		}
		taken, err := lookup.ExistsIBAN(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("iban lookup: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		g.logger.Warn("IBAN collision, retrying", "attempt", attempt, "iban", candidate)
	}
	g.logger.Error("IBAN allocation failed", "attempts", g.maxAttempts)
	return "", fmt.Errorf("%w after %d attempts", ErrAllocationFailed, g.maxAttempts)
}
