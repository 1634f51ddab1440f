package inmemory

import (
	"context"
	"sync"
	"time"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
)

type UserStorage struct {
	mu      sync.RWMutex
	users   map[int64]model.User
	byEmail map[string]int64
	nextID  int64
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users:   make(map[int64]model.User),
		byEmail: make(map[string]int64),
		nextID:  1,
	}
}

func (s *UserStorage) CreateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[in.Email]; ok {
		return model.User{}, storage.ErrUniqueViolation
	}

	now := time.Now().UTC()
	in.ID = s.nextID
	in.CreatedAt, in.UpdatedAt = now, now
	s.nextID++

	s.users[in.ID] = in
	s.byEmail[in.Email] = in.ID
	return in, nil
}

func (s *UserStorage) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return model.User{}, storage.ErrNotFound
	}
	return u, nil
}
