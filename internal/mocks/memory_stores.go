package mocks

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MemoryUserStore is a map-backed store.UserStore. Passwords are stored as
// given in HashedPassword; it never hashes.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

var _ store.UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore returns a store holding users.
func NewMemoryUserStore(users ...*domain.User) *MemoryUserStore {
	s := &MemoryUserStore{users: make(map[uuid.UUID]domain.User)}
	for _, u := range users {
		s.users[u.ID] = *u
	}
	return s
}

func (s *MemoryUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	stored := *user
	if stored.Password != "" {
		stored.HashedPassword = stored.Password
		stored.Password = ""
	}
	s.users[user.ID] = stored
	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *MemoryUserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryUserStore) WithTx(*sql.Tx) store.UserStore { return s }

// MemorySessionStore keeps each user's token list in insertion order.
type MemorySessionStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID][]string
}

var _ store.SessionStore = (*MemorySessionStore)(nil)

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{tokens: make(map[uuid.UUID][]string)}
}

func (s *MemorySessionStore) Add(_ context.Context, userID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = append(s.tokens[userID], token)
	return nil
}

func (s *MemorySessionStore) Exists(_ context.Context, userID uuid.UUID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.tokens[userID], token), nil
}

func (s *MemorySessionStore) List(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tokens[userID]), nil
}

// Remove deletes exactly one occurrence of token.
func (s *MemorySessionStore) Remove(_ context.Context, userID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.tokens[userID], token)
	if i < 0 {
		return store.ErrSessionNotFound
	}
	s.tokens[userID] = slices.Delete(s.tokens[userID], i, i+1)
	return nil
}

func (s *MemorySessionStore) RemoveAll(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, userID)
	return nil
}

func (s *MemorySessionStore) WithTx(*sql.Tx) store.SessionStore { return s }

// MemoryAvatarStore is a map-backed store.AvatarStore.
type MemoryAvatarStore struct {
	mu      sync.Mutex
	avatars map[uuid.UUID]domain.Avatar
}

var _ store.AvatarStore = (*MemoryAvatarStore)(nil)

func NewMemoryAvatarStore() *MemoryAvatarStore {
	return &MemoryAvatarStore{avatars: make(map[uuid.UUID]domain.Avatar)}
}

func (s *MemoryAvatarStore) Put(_ context.Context, avatar *domain.Avatar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatars[avatar.UserID] = *avatar
	return nil
}

func (s *MemoryAvatarStore) Get(_ context.Context, userID uuid.UUID) (*domain.Avatar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.avatars[userID]
	if !ok {
		return nil, store.ErrAvatarNotFound
	}
	return &a, nil
}

func (s *MemoryAvatarStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.avatars, userID)
	return nil
}

// Len reports how many avatars are stored.
func (s *MemoryAvatarStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.avatars)
}
