package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"netra/internal/patient/models"
	"netra/pkg/platform/sentinel"
)

// InMemory keeps patients in registration order.
type InMemory struct {
	mu        sync.RWMutex
	patients  []models.Patient
	byAadhaar map[string]struct{}
}

func NewInMemory(seed []models.Patient) *InMemory {
	s := &InMemory{
		patients:  slices.Clone(seed),
		byAadhaar: make(map[string]struct{}),
	}
	for _, p := range s.patients {
		if p.Aadhaar != "" {
			s.byAadhaar[p.Aadhaar] = struct{}{}
		}
	}
	return s
}

// List returns a copy of all patients in registration order.
func (s *InMemory) List(_ context.Context) ([]models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.patients), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if strings.EqualFold(p.ID, id) {
			found := p
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Create appends patient unless its Aadhaar number is already registered,
// in which case sentinel.ErrAlreadyUsed is returned.
func (s *InMemory) Create(_ context.Context, patient *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patient.Aadhaar != "" {
		if _, taken := s.byAadhaar[patient.Aadhaar]; taken {
			return sentinel.ErrAlreadyUsed
		}
		s.byAadhaar[patient.Aadhaar] = struct{}{}
	}
	s.patients = append(s.patients, *patient)
	return nil
}
