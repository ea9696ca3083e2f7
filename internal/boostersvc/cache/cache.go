package cache

import (
	"sync"

	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

// Store holds at most one candidate pack per collection. Writers
// overwrite unconditionally, readers see the latest write. The store is
// injected so a durable implementation can replace the in-memory one
// without touching the orchestrators.
type Store interface {
	Put(collectionID int64, b *models.PotentialBooster)
	Get(collectionID int64) (*models.PotentialBooster, bool)
}

// MemoryStore keeps packs in process memory. Contents do not survive a
// restart; run generation again after boot.
type MemoryStore struct {
	packs sync.Map // collectionID (int64) -> *models.PotentialBooster
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Put(collectionID int64, b *models.PotentialBooster) {
	s.packs.Store(collectionID, b)
}

func (s *MemoryStore) Get(collectionID int64) (*models.PotentialBooster, bool) {
	v, ok := s.packs.Load(collectionID)
	if !ok {
		return nil, false
	}
	return v.(*models.PotentialBooster), true
}
