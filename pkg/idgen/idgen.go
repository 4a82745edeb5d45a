// Package idgen generates record identifiers. Identifiers are unique for the
// lifetime of the process; callers never supply them.
package idgen

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Strategy names accepted by New.
const (
	StrategyUUID     = "uuid"
	StrategySequence = "sequence"
)

// Generator issues identifiers. Implementations must be safe for concurrent use.
type Generator interface {
	Next() string
}

// UUID issues time-ordered UUIDv7 strings.
type UUID struct{}

// Next returns a fresh UUIDv7, falling back to a random UUIDv4 if the
// time source is unavailable.
func (UUID) Next() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Sequence issues increasing decimal identifiers starting at 1.
type Sequence struct {
	n atomic.Uint64
}

// Next returns the next number in the sequence.
func (s *Sequence) Next() string {
	return strconv.FormatUint(s.n.Add(1), 10)
}

type prefixed struct {
	prefix string
	gen    Generator
}

func (p prefixed) Next() string {
	return p.prefix + p.gen.Next()
}

// WithPrefix returns a Generator that prepends prefix to every identifier.
func WithPrefix(prefix string, gen Generator) Generator {
	if prefix == "" {
		return gen
	}
	return prefixed{prefix: prefix, gen: gen}
}

// New returns the Generator for the named strategy.
func New(strategy string) (Generator, error) {
	switch strategy {
	case "", StrategyUUID:
		return UUID{}, nil
	case StrategySequence:
		return &Sequence{}, nil
	default:
		return nil, fmt.Errorf("idgen: unknown strategy %q", strategy)
	}
}
