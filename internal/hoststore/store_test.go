package hoststore

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreTestSuite struct {
	suite.Suite
	store *MemoryStore
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.store = NewMemoryStore()
}

func (s *MemoryStoreTestSuite) TestPutAndGet() {
	s.store.Put("93.184.216.34", "example.com")

	hostname, ok := s.store.Get("93.184.216.34")
	s.True(ok)
	s.Equal("example.com", hostname)

	_, ok = s.store.Get("10.0.0.1")
	s.False(ok)
}

func (s *MemoryStoreTestSuite) TestPutIsIdempotentUpsert() {
	s.store.Put("10.0.0.1", "old.internal")
	s.store.Put("10.0.0.1", "new.internal")

	hostname, ok := s.store.Get("10.0.0.1")
	s.True(ok)
	s.Equal("new.internal", hostname)
	s.Equal(1, s.store.Len())
}

func (s *MemoryStoreTestSuite) TestLen() {
	s.Equal(0, s.store.Len())

	s.store.Put("10.0.0.1", "a.internal")
	s.store.Put("10.0.0.2", "b.internal")
	s.Equal(2, s.store.Len())
}

func (s *MemoryStoreTestSuite) TestSnapshotIsACopy() {
	s.store.Put("10.0.0.1", "a.internal")

	snap := s.store.Snapshot()
	snap["10.0.0.1"] = "tampered"
	snap["10.0.0.2"] = "injected"

	hostname, ok := s.store.Get("10.0.0.1")
	s.True(ok)
	s.Equal("a.internal", hostname)
	s.Equal(1, s.store.Len())
}

func (s *MemoryStoreTestSuite) TestClose() {
	s.NoError(s.store.Close())
}

func TestMemoryStoreTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}
