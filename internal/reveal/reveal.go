// Package reveal tracks pending phone-number reveals awaiting webhook
// delivery from the enrichment provider. The store is bounded (max
// entries with LRU eviction) and entries expire after a TTL, so an
// undelivered webhook can never grow the process without limit.
package reveal

import (
	"container/list"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cgr-group/prospect-api/internal/config"
)

// Entry is one pending reveal, registered when an enrichment request is
// sent and resolved when the provider's webhook delivers the phone.
type Entry struct {
	FirstName string
	LastName  string
	Company   string
	Position  string
}

type storedEntry struct {
	key       string
	entry     Entry
	expiresAt time.Time
}

// Store is a bounded, TTL-evicting map of pending reveals keyed by
// fingerprint. Safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front = most recently registered
	now        func() time.Time
}

// NewStore builds an empty store bounded by cfg.
func NewStore(cfg config.RevealConfig) *Store {
	return &Store{
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
}

// Register records a pending reveal under its fingerprint, evicting the
// oldest entry when the store is full. Re-registering a fingerprint
// refreshes its entry and TTL.
func (s *Store) Register(fingerprint string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneExpired()

	if el, ok := s.entries[fingerprint]; ok {
		se := el.Value.(*storedEntry)
		se.entry = e
		se.expiresAt = s.now().Add(s.ttl)
		s.order.MoveToFront(el)
		return
	}

	for s.maxEntries > 0 && s.order.Len() >= s.maxEntries {
		s.evictOldest()
	}

	el := s.order.PushFront(&storedEntry{
		key:       fingerprint,
		entry:     e,
		expiresAt: s.now().Add(s.ttl),
	})
	s.entries[fingerprint] = el
}

// Resolve removes and returns the pending entry for a fingerprint.
// Returns false when the fingerprint is unknown or already expired.
func (s *Store) Resolve(fingerprint string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[fingerprint]
	if !ok {
		return Entry{}, false
	}
	se := el.Value.(*storedEntry)
	s.remove(el)
	if s.now().After(se.expiresAt) {
		return Entry{}, false
	}
	return se.entry, true
}

// Len reports the number of unexpired pending entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpired()
	return s.order.Len()
}

func (s *Store) pruneExpired() {
	now := s.now()
	for el := s.order.Back(); el != nil; {
		se := el.Value.(*storedEntry)
		prev := el.Prev()
		if now.After(se.expiresAt) {
			s.remove(el)
		}
		el = prev
	}
}

func (s *Store) evictOldest() {
	if el := s.order.Back(); el != nil {
		s.remove(el)
	}
}

func (s *Store) remove(el *list.Element) {
	se := el.Value.(*storedEntry)
	s.order.Remove(el)
	delete(s.entries, se.key)
}

// Fingerprint derives the lookup key for a contact from the normalized
// name and company triple: SHA-256 hex of the folded fields joined by
// pipes. Accents and casing do not change the fingerprint.
func Fingerprint(firstName, lastName, company string) string {
	normalized := fmt.Sprintf("%s|%s|%s",
		foldField(firstName), foldField(lastName), foldField(company))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

func foldField(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
