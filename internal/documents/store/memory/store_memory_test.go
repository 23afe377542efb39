package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"chainregistry/pkg/domain"
	"chainregistry/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestSaveIfAbsent() {
	ctx := context.Background()
	hash := domain.ContentHash("aa")

	stored, err := s.store.SaveIfAbsent(ctx, hash, "first")
	s.Require().NoError(err)
	s.True(stored)

	stored, err = s.store.SaveIfAbsent(ctx, hash, "second")
	s.Require().NoError(err)
	s.False(stored)

	payload, err := s.store.Load(ctx, hash)
	s.Require().NoError(err)
	s.Equal("first", payload, "existing payload must never be overwritten")
}

func (s *InMemoryStoreSuite) TestLoadMissing() {
	_, err := s.store.Load(context.Background(), domain.ContentHash("missing"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestBoundedEviction() {
	ctx := context.Background()
	store, err := NewBounded(2)
	s.Require().NoError(err)

	for _, key := range []string{"a", "b", "c"} {
		_, err := store.SaveIfAbsent(ctx, domain.ContentHash(key), "payload-"+key)
		s.Require().NoError(err)
	}

	count, err := store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	_, err = store.Load(ctx, domain.ContentHash("a"))
	s.ErrorIs(err, sentinel.ErrNotFound, "least recently used payload is evicted")

	payload, err := store.Load(ctx, domain.ContentHash("c"))
	s.Require().NoError(err)
	s.Equal("payload-c", payload)
}

func (s *InMemoryStoreSuite) TestNonPositiveCapacityIsUnbounded() {
	store, err := NewBounded(0)
	s.Require().NoError(err)
	s.Nil(store.bounded)
}
