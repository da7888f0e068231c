package moderation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/db"
	errs "github.com/iamwavecut/guardbot/internal/errors"
	"github.com/iamwavecut/guardbot/internal/event"
)

type premiumChecker interface {
	IsPremium(chatID int64) bool
}

// TermStore resolves the blocked vocabulary for a chat from three layers:
// the process-wide default set, the chat's admin-edited custom set, and a
// fixed premium bonus set unioned in for entitled chats only.
type TermStore struct {
	defaults map[string]struct{}
	premium  map[string]struct{}
	gate     premiumChecker
	store    db.Client

	mu     sync.RWMutex
	custom map[int64]map[string]struct{}
}

func NewTermStore(store db.Client, gate premiumChecker, defaults, premium []string) *TermStore {
	return &TermStore{
		defaults: termSet(defaults),
		premium:  termSet(premium),
		gate:     gate,
		store:    store,
		custom:   make(map[int64]map[string]struct{}),
	}
}

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t = NormalizeTerm(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// ParseTermList reads a newline-separated term list, skipping blanks and
// # comments. Entries are normalized on the way in.
func ParseTermList(raw []byte) []string {
	var terms []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if t := NormalizeTerm(line); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Load seeds the custom layers from the store. Call once at startup.
func (s *TermStore) Load(ctx context.Context) error {
	all, err := s.store.GetAllChatTerms(ctx)
	if err != nil {
		return errors.Wrap(err, "load chat terms")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for chatID, terms := range all {
		s.custom[chatID] = termSet(terms)
	}
	return nil
}

// EffectiveBlockedSet returns a snapshot union of the layers active for
// the chat. The returned map is owned by the caller.
func (s *TermStore) EffectiveBlockedSet(chatID int64) map[string]struct{} {
	s.mu.RLock()
	custom := s.custom[chatID]
	set := make(map[string]struct{}, len(s.defaults)+len(custom)+len(s.premium))
	for t := range s.defaults {
		set[t] = struct{}{}
	}
	for t := range custom {
		set[t] = struct{}{}
	}
	s.mu.RUnlock()

	if s.gate != nil && s.gate.IsPremium(chatID) {
		for t := range s.premium {
			set[t] = struct{}{}
		}
	}
	return set
}

// AddCustomTerm normalizes rawInput and inserts it into the chat's custom
// set. Re-adding an existing term is a no-op reported via added=false. The
// durable write is queued; in-memory state is authoritative either way.
func (s *TermStore) AddCustomTerm(ctx context.Context, chatID int64, rawInput string) (term string, added bool, err error) {
	term = NormalizeTerm(rawInput)
	if term == "" {
		return "", false, errors.Wrapf(errs.ErrInvalidTerm, "%q", rawInput)
	}

	s.mu.Lock()
	set, ok := s.custom[chatID]
	if !ok {
		set = make(map[string]struct{})
		s.custom[chatID] = set
	}
	if _, exists := set[term]; exists {
		s.mu.Unlock()
		return term, false, nil
	}
	set[term] = struct{}{}
	s.mu.Unlock()

	s.persistInsert(chatID, term)
	return term, true, nil
}

// RemoveCustomTerm deletes the term matching the normalized rawInput.
func (s *TermStore) RemoveCustomTerm(ctx context.Context, chatID int64, rawInput string) error {
	term := NormalizeTerm(rawInput)
	if term == "" {
		return errors.Wrapf(errs.ErrInvalidTerm, "%q", rawInput)
	}

	s.mu.Lock()
	set := s.custom[chatID]
	if _, exists := set[term]; !exists {
		s.mu.Unlock()
		return errors.Wrapf(errs.ErrTermNotFound, "%q", term)
	}
	delete(set, term)
	s.mu.Unlock()

	s.persistDelete(chatID, term)
	return nil
}

// ListCustomTerms returns the chat's custom terms in sorted order.
func (s *TermStore) ListCustomTerms(chatID int64) []string {
	s.mu.RLock()
	set := s.custom[chatID]
	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	s.mu.RUnlock()
	sort.Strings(terms)
	return terms
}

func (s *TermStore) persistInsert(chatID int64, term string) {
	event.Bus.Enqueue(event.NewJob("term_insert", time.Now().Add(time.Minute), func(ctx context.Context) error {
		return s.store.InsertChatTerm(ctx, chatID, term)
	}))
	log.WithFields(log.Fields{"chat_id": chatID, "term": term}).Debug("queued term insert")
}

func (s *TermStore) persistDelete(chatID int64, term string) {
	event.Bus.Enqueue(event.NewJob("term_delete", time.Now().Add(time.Minute), func(ctx context.Context) error {
		return s.store.DeleteChatTerm(ctx, chatID, term)
	}))
}
