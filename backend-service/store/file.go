package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/xxcode2/shadowpay-sub000/backend-service/model"
)

// fileSnapshot is the on-disk shape of the whole store.
type fileSnapshot struct {
	Version   int                   `json:"version"`
	Links     map[string]model.Link `json:"links"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// FileStore persists every mutation as a JSON snapshot. Good enough for a
// single-process deployment without a database; the same RWMutex discipline
// as MemoryStore keeps UpdateIfStatus atomic.
type FileStore struct {
	mu   sync.RWMutex
	file *os.File
	snap *fileSnapshot
}

func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	s := &FileStore{file: f}
	if err := s.load(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	info, err := s.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		s.snap = &fileSnapshot{
			Version:   1,
			Links:     map[string]model.Link{},
			UpdatedAt: time.Now(),
		}
		return s.flushLocked()
	}
	var snap fileSnapshot
	if err := json.NewDecoder(s.file).Decode(&snap); err != nil {
		return fmt.Errorf("decode link snapshot: %w", err)
	}
	if snap.Links == nil {
		snap.Links = map[string]model.Link{}
	}
	s.snap = &snap
	return nil
}

func (s *FileStore) flushLocked() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	enc := json.NewEncoder(s.file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.snap); err != nil {
		return err
	}
	// truncate in case new content is shorter
	pos, _ := s.file.Seek(0, io.SeekCurrent)
	if err := s.file.Truncate(pos); err != nil {
		return err
	}
	return s.file.Sync()
}

func (s *FileStore) Create(ctx context.Context, link model.Link) (model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.snap.Links[link.ID]; exists {
		return model.Link{}, fmt.Errorf("link id %q already exists", link.ID)
	}
	s.snap.Links[link.ID] = cloneLink(link)
	s.snap.UpdatedAt = time.Now()
	if err := s.flushLocked(); err != nil {
		delete(s.snap.Links, link.ID)
		return model.Link{}, err
	}
	return cloneLink(link), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.snap.Links[id]
	if !ok {
		return model.Link{}, ErrNotFound
	}
	return cloneLink(link), nil
}

func (s *FileStore) UpdateIfStatus(ctx context.Context, id string, expected model.LinkStatus, mutate func(*model.Link)) (model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.snap.Links[id]
	if !ok {
		return model.Link{}, ErrNotFound
	}
	if cur.Status != expected {
		return model.Link{}, ErrStatusConflict
	}

	next := cloneLink(cur)
	mutate(&next)
	s.snap.Links[id] = next
	s.snap.UpdatedAt = time.Now()
	if err := s.flushLocked(); err != nil {
		s.snap.Links[id] = cur
		return model.Link{}, err
	}
	return cloneLink(next), nil
}

func (s *FileStore) ListByCreator(ctx context.Context, creatorID string) ([]model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Link, 0, len(s.snap.Links))
	for _, link := range s.snap.Links {
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

func (s *FileStore) Close() error { return s.file.Close() }
