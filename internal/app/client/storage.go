package client

import (
	"sort"
	"sync"
	"time"

	"starbook/internal/domain/action"
	"starbook/internal/domain/webcache"
)

// Storage is the persistent local store: queued outbound actions plus
// the four cache partitions. SQLite in production, memory as fallback.
type Storage interface {
	SaveAction(a *action.Action) error
	GetAction(id string) (*action.Action, error)
	PendingActions(kind action.Kind) ([]*action.Action, error)
	PendingCount() (int, error)
	PendingCountByKind() (map[action.Kind]int, error)
	MarkSynced(id string) error
	SetActionError(id string, msg string) error
	DeleteAction(id string) error
	PurgeSynced(olderThan time.Time) (int, error)

	GetCacheEntry(tier webcache.Tier, key string) (*webcache.Entry, error)
	PutCacheEntry(e *webcache.Entry) error
	CacheCount(tier webcache.Tier) (int, error)
	EvictOldest(tier webcache.Tier, keep int) (int, error)
	DeleteCacheOlderThan(tier webcache.Tier, cutoff time.Time) (int, error)
	ClearTier(tier webcache.Tier) error

	LastSync() (time.Time, error)
	SetLastSync(t time.Time) error

	Close() error
}

// MemoryStorage is the in-memory fallback used when SQLite cannot be
// opened. Contents do not survive a restart.
type MemoryStorage struct {
	mu       sync.RWMutex
	actions  map[string]*action.Action
	order    []string
	cache    map[webcache.Tier]map[string]*webcache.Entry
	lastSync time.Time
}

func NewMemoryStorage() *MemoryStorage {
	cache := make(map[webcache.Tier]map[string]*webcache.Entry)
	for _, tier := range webcache.Tiers() {
		cache[tier] = make(map[string]*webcache.Entry)
	}
	return &MemoryStorage{
		actions: make(map[string]*action.Action),
		cache:   cache,
	}
}

func (m *MemoryStorage) SaveAction(a *action.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.actions[a.ID]; !exists {
		m.order = append(m.order, a.ID)
	}
	cp := *a
	m.actions[a.ID] = &cp
	return nil
}

func (m *MemoryStorage) GetAction(id string) (*action.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, exists := m.actions[id]
	if !exists {
		return nil, action.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStorage) PendingActions(kind action.Kind) ([]*action.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pending []*action.Action
	for _, id := range m.order {
		a := m.actions[id]
		if a != nil && !a.Synced && a.Kind == kind {
			cp := *a
			pending = append(pending, &cp)
		}
	}
	return pending, nil
}

func (m *MemoryStorage) PendingCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, a := range m.actions {
		if !a.Synced {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStorage) PendingCountByKind() (map[action.Kind]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[action.Kind]int)
	for _, a := range m.actions {
		if !a.Synced {
			counts[a.Kind]++
		}
	}
	return counts, nil
}

func (m *MemoryStorage) MarkSynced(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, exists := m.actions[id]; exists {
		a.Synced = true
		a.LastError = ""
	}
	return nil
}

func (m *MemoryStorage) SetActionError(id string, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, exists := m.actions[id]; exists {
		a.LastError = msg
	}
	return nil
}

func (m *MemoryStorage) DeleteAction(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actions, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStorage) PurgeSynced(olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	purged := 0
	kept := m.order[:0]
	for _, id := range m.order {
		a := m.actions[id]
		if a != nil && a.Synced && a.CreatedAt.Before(olderThan) {
			delete(m.actions, id)
			purged++
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return purged, nil
}

func (m *MemoryStorage) GetCacheEntry(tier webcache.Tier, key string) (*webcache.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, exists := m.cache[tier][key]
	if !exists {
		return nil, action.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MemoryStorage) PutCacheEntry(e *webcache.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.cache[e.Tier][e.Key] = &cp
	return nil
}

func (m *MemoryStorage) CacheCount(tier webcache.Tier) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache[tier]), nil
}

func (m *MemoryStorage) EvictOldest(tier webcache.Tier, keep int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]*webcache.Entry, 0, len(m.cache[tier]))
	for _, e := range m.cache[tier] {
		entries = append(entries, e)
	}
	if len(entries) <= keep {
		return 0, nil
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StoredAt.Before(entries[j].StoredAt)
	})
	evicted := 0
	for _, e := range entries[:len(entries)-keep] {
		delete(m.cache[tier], e.Key)
		evicted++
	}
	return evicted, nil
}

func (m *MemoryStorage) DeleteCacheOlderThan(tier webcache.Tier, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for key, e := range m.cache[tier] {
		if e.StoredAt.Before(cutoff) {
			delete(m.cache[tier], key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryStorage) ClearTier(tier webcache.Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[tier] = make(map[string]*webcache.Entry)
	return nil
}

func (m *MemoryStorage) LastSync() (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync, nil
}

func (m *MemoryStorage) SetLastSync(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSync = t
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
