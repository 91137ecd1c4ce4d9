package store

import (
	"sync"

	"github.com/AngelCh415/marketing-dashboard/internal/models"
)

// MemoryStore holds the raw dataset in load order.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.MarketingRecord
	seen    map[int]struct{} // idempotencia por id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[int]struct{})}
}

func (s *MemoryStore) MarkSeen(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markSeen(id)
}

func (s *MemoryStore) markSeen(id int) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Add appends r unless a record with the same id was already stored.
func (s *MemoryStore) Add(r models.MarketingRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.markSeen(r.ID) {
		return false
	}
	r.Spend = maxf(r.Spend)
	r.Impressions = max0(r.Impressions)
	r.Conversions = max0(r.Conversions)
	r.Clicks = max0(r.Clicks)
	s.records = append(s.records, r)
	return true
}

func (s *MemoryStore) All() []models.MarketingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MarketingRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}
func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
