package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/spendwise/spendwise-go/internal/model"
)

type UserRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo *UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	db, err := NewDB(":memory:")
	require.NoError(s.T(), err, "failed to create test database")
	s.db = db
	s.repo = NewUserRepository(db)
}

func (s *UserRepositorySuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *UserRepositorySuite) newUser(email string) *model.User {
	return &model.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	}
}

func (s *UserRepositorySuite) TestCreateAssignsIDAndTimestamps() {
	user := s.newUser("ada@example.com")
	require.NoError(s.T(), s.repo.Create(context.Background(), user))

	assert.NotZero(s.T(), user.ID)
	assert.False(s.T(), user.CreatedAt.IsZero())
	assert.False(s.T(), user.UpdatedAt.IsZero())
}

func (s *UserRepositorySuite) TestCreateDuplicateEmail() {
	ctx := context.Background()
	require.NoError(s.T(), s.repo.Create(ctx, s.newUser("ada@example.com")))

	err := s.repo.Create(ctx, s.newUser("ada@example.com"))
	assert.ErrorIs(s.T(), err, ErrDuplicateEmail)

	// Exactly one row survives the duplicate attempt.
	var count int
	require.NoError(s.T(), s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(s.T(), 1, count)
}

func (s *UserRepositorySuite) TestGetByEmail() {
	ctx := context.Background()
	created := s.newUser("ada@example.com")
	require.NoError(s.T(), s.repo.Create(ctx, created))

	user, err := s.repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, user.ID)
	assert.Equal(s.T(), "Ada", user.FirstName)
	assert.Equal(s.T(), "Lovelace", user.LastName)
	assert.False(s.T(), user.Disabled)
}

func (s *UserRepositorySuite) TestGetByEmailIsCaseSensitive() {
	ctx := context.Background()
	require.NoError(s.T(), s.repo.Create(ctx, s.newUser("ada@example.com")))

	_, err := s.repo.GetByEmail(ctx, "Ada@Example.com")
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestGetByIDMissing() {
	_, err := s.repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
