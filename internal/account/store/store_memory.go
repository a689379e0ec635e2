package store

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"netra/internal/account/models"
	"netra/pkg/platform/sentinel"
)

// InMemory keeps accounts in process memory.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*models.Account
	byName map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[uuid.UUID]*models.Account),
		byName: make(map[string]uuid.UUID),
	}
}

// CreateIfNameAvailable stores the account unless its (clinic, name) pair is
// taken, in which case sentinel.ErrAlreadyUsed is returned.
func (s *InMemory) CreateIfNameAvailable(_ context.Context, account *models.Account) error {
	key := models.NameKey(account.HFRID, account.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	if _, taken := s.byID[account.ID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	stored := *account
	stored.Profile = maps.Clone(account.Profile)
	s.byID[account.ID] = &stored
	s.byName[key] = account.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *account
	found.Profile = maps.Clone(account.Profile)
	return &found, nil
}
