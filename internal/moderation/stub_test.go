package moderation

import (
	"context"
	"sync"

	"github.com/iamwavecut/guardbot/internal/db"
)

// stubClient is an in-memory db.Client for engine tests.
type stubClient struct {
	mu           sync.Mutex
	terms        map[int64][]string
	entitlements []*db.Entitlement
	warns        []*db.Warn
}

func newStubClient() *stubClient {
	return &stubClient{terms: map[int64][]string{}}
}

func (s *stubClient) Close() error { return nil }

func (s *stubClient) InsertChatTerm(_ context.Context, chatID int64, term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[chatID] = append(s.terms[chatID], term)
	return nil
}

func (s *stubClient) DeleteChatTerm(_ context.Context, chatID int64, term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.terms[chatID][:0]
	for _, t := range s.terms[chatID] {
		if t != term {
			kept = append(kept, t)
		}
	}
	s.terms[chatID] = kept
	return nil
}

func (s *stubClient) GetChatTerms(_ context.Context, chatID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.terms[chatID]...), nil
}

func (s *stubClient) GetAllChatTerms(_ context.Context) (map[int64][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make(map[int64][]string, len(s.terms))
	for k, v := range s.terms {
		res[k] = append([]string{}, v...)
	}
	return res, nil
}

func (s *stubClient) UpsertEntitlement(_ context.Context, e *db.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entitlements = append(s.entitlements, e)
	return nil
}

func (s *stubClient) GetEntitlement(_ context.Context, chatID int64) (*db.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.entitlements) - 1; i >= 0; i-- {
		if s.entitlements[i].ChatID == chatID {
			return s.entitlements[i], nil
		}
	}
	return nil, nil
}

func (s *stubClient) DeleteEntitlement(_ context.Context, chatID int64) error { return nil }

func (s *stubClient) GetAllEntitlements(_ context.Context) ([]*db.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*db.Entitlement{}, s.entitlements...), nil
}

func (s *stubClient) UpsertWarn(_ context.Context, w *db.Warn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warns = append(s.warns, w)
	return nil
}

func (s *stubClient) DeleteWarn(_ context.Context, chatID int64, userID int64) error { return nil }

func (s *stubClient) GetAllWarns(_ context.Context) ([]*db.Warn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*db.Warn{}, s.warns...), nil
}

// staticGate is a premiumChecker with a fixed answer per chat.
type staticGate struct {
	premium map[int64]bool
}

func (g *staticGate) IsPremium(chatID int64) bool {
	return g.premium[chatID]
}
