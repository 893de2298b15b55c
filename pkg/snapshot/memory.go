package snapshot

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

type entry struct {
	expiresAt time.Time
	key       string
	data      []byte
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory keeps encoded snapshots in process memory with optional TTL and
// least recently used eviction. Every Load decodes a fresh copy.
type Memory struct {
	items    map[string]*list.Element
	eviction *list.List
	opts     memoryOptions
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// MemoryOption configures the in-memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

// WithTTL sets how long snapshots are kept. Zero keeps them forever.
func WithTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.ttl = d
	}
}

// WithCleanupInterval sets how often expired snapshots are dropped.
// Default: 1 minute. Zero disables the background cleanup.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries bounds the number of stored snapshots. Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// NewMemory creates an in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	o := memoryOptions{cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}
	if o.ttl > 0 && o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

// Load returns a decoded copy of the snapshot stored under key.
// Missing and expired keys return ErrNotFound.
func (m *Memory) Load(_ context.Context, key string) (*routing.Snapshot, error) {
	m.mu.Lock()
	elem, ok := m.items[key]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	e := elem.Value.(*entry)
	if e.expired(time.Now()) {
		m.remove(elem)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	m.eviction.MoveToFront(elem)
	data := e.data
	m.mu.Unlock()

	return decode(data)
}

// Save stores snap under key, evicting the least recently used entry
// when the store is full. It fails with ErrClosed after Close.
func (m *Memory) Save(_ context.Context, key string, snap *routing.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	var expiresAt time.Time
	if m.opts.ttl > 0 {
		expiresAt = time.Now().Add(m.opts.ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry)
		e.data = data
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.eviction.Back(); oldest != nil {
			m.remove(oldest)
		}
	}

	m.items[key] = m.eviction.PushFront(&entry{key: key, data: data, expiresAt: expiresAt})
	return nil
}

// Delete removes the snapshot stored under key. Missing keys are not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Len returns the number of stored snapshots, expired ones included until
// they are cleaned up.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Ping reports ErrClosed after Close.
func (m *Memory) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close stops the cleanup goroutine. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).expired(now) {
			m.remove(elem)
		}
		elem = prev
	}
}

// remove must be called with the mutex held.
func (m *Memory) remove(elem *list.Element) {
	m.eviction.Remove(elem)
	delete(m.items, elem.Value.(*entry).key)
}

var _ Store = (*Memory)(nil)
