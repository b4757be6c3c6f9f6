package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"wmx-replay/reconcile"
	"wmx-replay/winamax"
)

// MemoryService keeps everything in maps; it is used by tests and by
// STORE_MODE=memory. Hands go through the same payload codec as the SQL
// backends so callers never share memory with the store.
type MemoryService struct {
	mu          sync.RWMutex
	tournaments map[string]*Tournament
	hands       map[string][][]byte
	now         func() time.Time
}

func NewMemoryService() *MemoryService {
	return &MemoryService{
		tournaments: make(map[string]*Tournament),
		hands:       make(map[string][][]byte),
		now:         time.Now,
	}
}

func (s *MemoryService) Close() error { return nil }

func (s *MemoryService) FindTournament(_ context.Context, name string, date time.Time) (*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tournaments {
		if t.Name == name && t.Date.Equal(date) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryService) CreateTournament(ctx context.Context, t *Tournament, hands []winamax.Hand) (*Tournament, error) {
	blobs := make([][]byte, 0, len(hands))
	for i := range hands {
		blob, err := encodeHand(&hands[i])
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, blob)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tournaments {
		if existing.Name == t.Name && existing.Date.Equal(t.Date) {
			return nil, ErrDuplicate
		}
	}
	cp := *t
	cp.ID = newID()
	cp.TotalHands = len(hands)
	cp.CreatedAt = s.now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.tournaments[cp.ID] = &cp
	s.hands[cp.ID] = blobs

	out := cp
	return &out, nil
}

func (s *MemoryService) GetTournament(_ context.Context, id string) (*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// ListTournaments returns the newest tournament first.
func (s *MemoryService) ListTournaments(_ context.Context) ([]Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tournament, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryService) ListHands(_ context.Context, id string, page, limit int) (*HandPage, error) {
	page, limit = normalizePage(page, limit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	blobs, ok := s.hands[id]
	if !ok {
		return nil, ErrNotFound
	}
	res := &HandPage{
		Hands:      make([]winamax.Hand, 0, limit),
		Total:      len(blobs),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(len(blobs), limit),
	}
	start := (page - 1) * limit
	for i := start; i < len(blobs) && i < start+limit; i++ {
		h, err := decodeHand(blobs[i])
		if err != nil {
			return nil, err
		}
		res.Hands = append(res.Hands, *h)
	}
	return res, nil
}

func (s *MemoryService) GetHand(_ context.Context, id string, number int) (*winamax.Hand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blobs, ok := s.hands[id]
	if !ok || number < 1 || number > len(blobs) {
		return nil, ErrNotFound
	}
	return decodeHand(blobs[number-1])
}

func (s *MemoryService) ApplySummary(_ context.Context, id string, res reconcile.Result) (*Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, ErrNotFound
	}
	applySummary(t, res)
	t.UpdatedAt = s.now().UTC()
	cp := *t
	return &cp, nil
}

func (s *MemoryService) DeleteTournament(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tournaments[id]; !ok {
		return 0, ErrNotFound
	}
	n := len(s.hands[id])
	delete(s.tournaments, id)
	delete(s.hands, id)
	return n, nil
}
