package roster

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxPages bounds a Store created without an explicit limit.
const DefaultMaxPages = 1000

type storeEntry struct {
	page      *Controller
	expiresAt time.Time
}

// Store keeps open pages by id. Entries expire ttl after their last use, and
// once maxPages are held the least recently used page is dropped.
type Store struct {
	mu    sync.Mutex
	pages *lru.Cache[string, storeEntry]
	ttl   time.Duration
	now   func() time.Time
}

// NewStore returns a store whose pages expire after ttl of inactivity. A
// non-positive ttl keeps pages until they are evicted or deleted. A
// non-positive maxPages means DefaultMaxPages.
func NewStore(ttl time.Duration, maxPages int) *Store {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	pages, err := lru.New[string, storeEntry](maxPages)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Store{
		pages: pages,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put registers page under its id, dropping expired pages and, when the store
// is full, the least recently used one.
func (s *Store) Put(page *Controller) {
	if page == nil {
		return
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropExpired(now)
	s.pages.Add(page.ID(), storeEntry{page: page, expiresAt: s.deadline(now)})
}

// Get returns the page with id and extends its lifetime.
func (s *Store) Get(_ context.Context, id string) (*Controller, bool) {
	if id == "" {
		return nil, false
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.pages.Get(id)
	if !ok {
		return nil, false
	}
	if s.expired(e, now) {
		s.pages.Remove(id)
		return nil, false
	}
	e.expiresAt = s.deadline(now)
	s.pages.Add(id, e)
	return e.page, true
}

// Delete forgets the page with id.
func (s *Store) Delete(_ context.Context, id string) {
	s.mu.Lock()
	s.pages.Remove(id)
	s.mu.Unlock()
}

// Len returns the number of stored pages, expired ones included until dropped.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages.Len()
}

// dropExpired removes pages from the least recently used end. With a fixed
// ttl that end expires first, so the walk stops at the first live page.
func (s *Store) dropExpired(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for {
		_, e, ok := s.pages.GetOldest()
		if !ok || !s.expired(e, now) {
			return
		}
		s.pages.RemoveOldest()
	}
}

func (s *Store) expired(e storeEntry, now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}

func (s *Store) deadline(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}
