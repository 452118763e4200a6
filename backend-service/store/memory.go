package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xxcode2/shadowpay-sub000/backend-service/model"

	"gorm.io/datatypes"
)

// MemoryStore keeps links in a map guarded by a RWMutex. It is the default
// driver for local development and the one the tests run against.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]model.Link
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]model.Link)}
}

func (s *MemoryStore) Create(ctx context.Context, link model.Link) (model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[link.ID]; exists {
		return model.Link{}, fmt.Errorf("link id %q already exists", link.ID)
	}
	s.links[link.ID] = cloneLink(link)
	return cloneLink(link), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	if !ok {
		return model.Link{}, ErrNotFound
	}
	return cloneLink(link), nil
}

func (s *MemoryStore) UpdateIfStatus(ctx context.Context, id string, expected model.LinkStatus, mutate func(*model.Link)) (model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.links[id]
	if !ok {
		return model.Link{}, ErrNotFound
	}
	if cur.Status != expected {
		return model.Link{}, ErrStatusConflict
	}

	next := cloneLink(cur)
	mutate(&next)
	s.links[id] = next
	return cloneLink(next), nil
}

func (s *MemoryStore) ListByCreator(ctx context.Context, creatorID string) ([]model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Link, 0, len(s.links))
	for _, link := range s.links {
		if creatorID != "" && link.CreatorID != creatorID {
			continue
		}
		out = append(out, cloneLink(link))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// cloneLink deep-copies the pointer and slice fields so callers never alias
// the stored record.
func cloneLink(l model.Link) model.Link {
	c := l
	c.Commitment = clonePtr(l.Commitment)
	c.TxHash = clonePtr(l.TxHash)
	c.WithdrawTx = clonePtr(l.WithdrawTx)
	c.PaidAt = clonePtr(l.PaidAt)
	c.WithdrawnAt = clonePtr(l.WithdrawnAt)
	c.ExpiresAt = clonePtr(l.ExpiresAt)
	if l.Metadata != nil {
		c.Metadata = append(datatypes.JSON(nil), l.Metadata...)
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
