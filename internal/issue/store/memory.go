package store

import (
	"context"
	"errors"
	"sync"

	"github.com/hjiayz/shortid/internal/issue/entity"
	"github.com/hjiayz/shortid/internal/pkg/pkgerror"
)

// InMemoryStore keeps per-shape issuance tallies for the lifetime of
// the process. Nothing is persisted; a restart starts the tallies over
// just like the generator's counter state.
type InMemoryStore struct {
	mu      sync.RWMutex
	tallies map[entity.Shape]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tallies: make(map[entity.Shape]int64),
	}
}

func (s *InMemoryStore) AddIssued(ctx context.Context, shape entity.Shape, n int64) error {
	if n < 1 {
		return pkgerror.NewInvalidInput(errors.New("tally increment must be positive"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tallies[shape] += n

	return nil
}

func (s *InMemoryStore) Tallies(ctx context.Context) ([]entity.ShapeTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entity.ShapeTally, 0, len(entity.Shapes()))
	for _, shape := range entity.Shapes() {
		result = append(result, entity.ShapeTally{
			Shape:  shape,
			Issued: s.tallies[shape],
		})
	}

	return result, nil
}
