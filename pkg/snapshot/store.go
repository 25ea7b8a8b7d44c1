package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/eapache/queue"
)

var ErrNotFound = errors.New("snapshot not found")

// Store persists collected snapshots so the panel can fetch them after the
// response has been sent.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Get(ctx context.Context, id string) (Snapshot, error)
	Find(ctx context.Context, filter Filter) ([]Meta, error)
}

// FileStore keeps one JSON file per snapshot in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed snapshot store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes the snapshot to <dir>/<id>.json, creating dir when needed.
func (s *FileStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validID(snap.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", s.dir, err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.ID, err)
	}
	if err := os.WriteFile(s.path(snap.ID), data, 0o600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Get loads a snapshot by id.
func (s *FileStore) Get(ctx context.Context, id string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if err := validID(id); err != nil {
		return Snapshot{}, ErrNotFound
	}
	payload, err := loadSnapshot(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	return payload, nil
}

// Find lists stored snapshot metadata, newest first.
func (s *FileStore) Find(ctx context.Context, filter Filter) ([]Meta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Meta{}, nil
		}
		return nil, fmt.Errorf("list snapshot dir %s: %w", s.dir, err)
	}

	metas := make([]Meta, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		payload, err := loadSnapshot(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if filter.matches(payload.Meta) {
			metas = append(metas, payload.Meta)
		}
	}
	return limitNewest(metas, filter.Limit), nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", id))
}

func loadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}

	var payload Snapshot
	if err := json.Unmarshal(data, &payload); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return payload, nil
}

// MemoryStore keeps the most recent snapshots in memory, evicting the oldest
// once capacity is reached.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	order    *queue.Queue
	items    map[string]Snapshot
}

// DefaultMemoryCapacity bounds a MemoryStore created with capacity <= 0.
const DefaultMemoryCapacity = 100

// NewMemoryStore creates a store holding at most capacity snapshots.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		order:    queue.New(),
		items:    make(map[string]Snapshot, capacity),
	}
}

func (s *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validID(snap.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[snap.ID]; !exists {
		s.order.Add(snap.ID)
	}
	s.items[snap.ID] = snap
	for s.order.Length() > s.capacity {
		oldest, _ := s.order.Remove().(string)
		delete(s.items, oldest)
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.items[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *MemoryStore) Find(ctx context.Context, filter Filter) ([]Meta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	metas := make([]Meta, 0, s.order.Length())
	for i := 0; i < s.order.Length(); i++ {
		id, _ := s.order.Get(i).(string)
		snap, ok := s.items[id]
		if ok && filter.matches(snap.Meta) {
			metas = append(metas, snap.Meta)
		}
	}
	return limitNewest(metas, filter.Limit), nil
}

// Len reports how many snapshots are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func limitNewest(metas []Meta, limit int) []Meta {
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].Datetime.After(metas[j].Datetime)
	})
	if limit > 0 && len(metas) > limit {
		metas = metas[:limit]
	}
	return metas
}

func validID(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || strings.ContainsAny(trimmed, `/\`) || strings.Contains(trimmed, "..") {
		return fmt.Errorf("invalid snapshot id %q", id)
	}
	return nil
}
