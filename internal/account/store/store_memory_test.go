package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"netra/internal/account/models"
	"netra/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func newAccount(hfrID, name string) *models.Account {
	return &models.Account{
		ID:           uuid.New(),
		HFRID:        hfrID,
		ClinicName:   "Apollo Clinic - Jubilee Hills",
		Name:         name,
		PasswordHash: "$2a$10$hash",
		Profile:      map[string]string{"city": "Hyderabad"},
		CreatedAt:    time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC),
	}
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	account := newAccount("12-34-5678-ABCD", "Dr. Rao")
	s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, account))

	found, err := s.store.FindByID(s.ctx, account.ID)
	s.Require().NoError(err)
	s.Equal(account, found)

	found.Profile["city"] = "changed"
	again, err := s.store.FindByID(s.ctx, account.ID)
	s.Require().NoError(err)
	s.Equal("Hyderabad", again.Profile["city"], "stored copy is isolated from callers")
}

func (s *InMemoryStoreSuite) TestFindUnknown() {
	_, err := s.store.FindByID(s.ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestNameUniqueness() {
	s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, newAccount("12-34-5678-ABCD", "Dr. Rao")))

	s.Run("same clinic, differently cased name", func() {
		err := s.store.CreateIfNameAvailable(s.ctx, newAccount("12-34-5678-abcd", "DR. RAO"))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("same name at another clinic", func() {
		err := s.store.CreateIfNameAvailable(s.ctx, newAccount("98-76-5432-WXYZ", "Dr. Rao"))
		s.NoError(err)
	})
}
