package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/spendwise/spendwise-go/internal/model"
)

type ExpenseRepositorySuite struct {
	suite.Suite
	db      *sql.DB
	repo    *ExpenseRepository
	ownerID int64
	otherID int64
}

func (s *ExpenseRepositorySuite) SetupTest() {
	db, err := NewDB(":memory:")
	require.NoError(s.T(), err, "failed to create test database")
	s.db = db
	s.repo = NewExpenseRepository(db)

	users := NewUserRepository(db)
	owner := &model.User{FirstName: "A", LastName: "A", Email: "a@example.com", PasswordHash: "x"}
	other := &model.User{FirstName: "B", LastName: "B", Email: "b@example.com", PasswordHash: "x"}
	require.NoError(s.T(), users.Create(context.Background(), owner))
	require.NoError(s.T(), users.Create(context.Background(), other))
	s.ownerID = owner.ID
	s.otherID = other.ID
}

func (s *ExpenseRepositorySuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *ExpenseRepositorySuite) create(userID int64, amount float64, category model.Category, date time.Time) *model.Expense {
	e := &model.Expense{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	require.NoError(s.T(), s.repo.Create(context.Background(), e))
	return e
}

func (s *ExpenseRepositorySuite) TestCreateAndGetRoundTrip() {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	created := s.create(s.ownerID, 250, model.CategoryFood, date)

	got, err := s.repo.GetByID(context.Background(), s.ownerID, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 250.0, got.Amount)
	assert.Equal(s.T(), model.CategoryFood, got.Category)
	assert.True(s.T(), got.Date.Equal(date))
}

func (s *ExpenseRepositorySuite) TestGetByIDScopedToOwner() {
	created := s.create(s.ownerID, 10, model.CategoryOther, time.Now().UTC())

	_, err := s.repo.GetByID(context.Background(), s.otherID, created.ID)
	assert.ErrorIs(s.T(), err, ErrExpenseNotFound)
}

func (s *ExpenseRepositorySuite) TestListOrderedByDateDescending() {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.create(s.ownerID, 1, model.CategoryFood, base)
	s.create(s.ownerID, 2, model.CategoryFood, base.AddDate(0, 0, 2))
	s.create(s.ownerID, 3, model.CategoryFood, base.AddDate(0, 0, 1))

	expenses, err := s.repo.List(ctx, ExpenseFilter{UserID: s.ownerID}, 0, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 3)
	assert.Equal(s.T(), 2.0, expenses[0].Amount)
	assert.Equal(s.T(), 3.0, expenses[1].Amount)
	assert.Equal(s.T(), 1.0, expenses[2].Amount)
}

func (s *ExpenseRepositorySuite) TestListEqualDatesNewestInsertFirst() {
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first := s.create(s.ownerID, 1, model.CategoryFood, date)
	second := s.create(s.ownerID, 2, model.CategoryFood, date)

	expenses, err := s.repo.List(ctx, ExpenseFilter{UserID: s.ownerID}, 0, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 2)
	assert.Equal(s.T(), second.ID, expenses[0].ID)
	assert.Equal(s.T(), first.ID, expenses[1].ID)
}

func (s *ExpenseRepositorySuite) TestListFilters() {
	ctx := context.Background()
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	s.create(s.ownerID, 10, model.CategoryFood, jan)
	s.create(s.ownerID, 20, model.CategoryTravel, feb)
	s.create(s.otherID, 30, model.CategoryFood, jan)

	byCategory, err := s.repo.List(ctx, ExpenseFilter{UserID: s.ownerID, Category: model.CategoryFood}, 0, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), byCategory, 1)
	assert.Equal(s.T(), 10.0, byCategory[0].Amount)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	byDate, err := s.repo.List(ctx, ExpenseFilter{UserID: s.ownerID, StartDate: &start, EndDate: &end}, 0, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), byDate, 1)
	assert.Equal(s.T(), 20.0, byDate[0].Amount)

	count, err := s.repo.Count(ctx, ExpenseFilter{UserID: s.ownerID})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), count)
}

func (s *ExpenseRepositorySuite) TestDateRangeIsInclusive() {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s.create(s.ownerID, 1, model.CategoryFood, start)
	s.create(s.ownerID, 2, model.CategoryFood, end)

	expenses, err := s.repo.List(ctx, ExpenseFilter{UserID: s.ownerID, StartDate: &start, EndDate: &end}, 0, 10)
	require.NoError(s.T(), err)
	assert.Len(s.T(), expenses, 2)
}

func (s *ExpenseRepositorySuite) TestUpdateOtherOwnerNotFound() {
	created := s.create(s.ownerID, 10, model.CategoryFood, time.Now().UTC())

	created.UserID = s.otherID
	created.Amount = 99
	err := s.repo.Update(context.Background(), created)
	assert.ErrorIs(s.T(), err, ErrExpenseNotFound)
}

func (s *ExpenseRepositorySuite) TestDelete() {
	ctx := context.Background()
	created := s.create(s.ownerID, 10, model.CategoryFood, time.Now().UTC())

	assert.ErrorIs(s.T(), s.repo.Delete(ctx, s.otherID, created.ID), ErrExpenseNotFound)
	require.NoError(s.T(), s.repo.Delete(ctx, s.ownerID, created.ID))
	assert.ErrorIs(s.T(), s.repo.Delete(ctx, s.ownerID, created.ID), ErrExpenseNotFound)
}

func (s *ExpenseRepositorySuite) TestSummarizeByCategory() {
	ctx := context.Background()
	now := time.Now().UTC()
	s.create(s.ownerID, 30, model.CategoryFood, now)
	s.create(s.ownerID, 10, model.CategoryFood, now)
	s.create(s.ownerID, 60, model.CategoryTravel, now)
	s.create(s.otherID, 500, model.CategoryTravel, now)

	totals, err := s.repo.SummarizeByCategory(ctx, ExpenseFilter{UserID: s.ownerID})
	require.NoError(s.T(), err)
	require.Len(s.T(), totals, 2)
	assert.Equal(s.T(), model.CategoryTravel, totals[0].Category)
	assert.Equal(s.T(), 60.0, totals[0].Total)
	assert.Equal(s.T(), int64(1), totals[0].Count)
	assert.Equal(s.T(), model.CategoryFood, totals[1].Category)
	assert.Equal(s.T(), 40.0, totals[1].Total)
	assert.Equal(s.T(), int64(2), totals[1].Count)
}

func TestExpenseRepositorySuite(t *testing.T) {
	suite.Run(t, new(ExpenseRepositorySuite))
}
