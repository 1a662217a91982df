package idgen

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator mints entity ids. Injected so tests can assert exact ids
// and orderings.
type Generator interface {
	NewID(prefix string) string
}

// UUID is the production generator.
type UUID struct{}

func (UUID) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Sequence mints deterministic ids (PREFIX-1, PREFIX-2, ...) for tests.
type Sequence struct {
	mu sync.Mutex
	n  int
}

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
