package service

import (
	"context"
	"errors"
	"time"

	"github.com/spendwise/spendwise-go/internal/model"
	"github.com/spendwise/spendwise-go/internal/repository"
)

var (
	ErrAmountInvalid   = errors.New("amount must be greater than zero")
	ErrCategoryInvalid = errors.New("invalid expense category")
	ErrDateInvalid     = model.ErrInvalidDate
	ErrExpenseNotFound = errors.New("expense not found")
)

const (
	DefaultPage     = 1
	DefaultPageSize = 5
)

// ExpenseService handles expense business logic. Every operation is scoped to
// the owning user; an expense belonging to someone else behaves exactly like
// one that does not exist.
type ExpenseService struct {
	expenses *repository.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenses *repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

// Create records a new expense for the user. The date defaults to the current
// time when omitted.
func (s *ExpenseService) Create(ctx context.Context, userID int64, req model.ExpenseRequest) (model.ExpenseResponse, error) {
	if req.Amount <= 0 {
		return model.ExpenseResponse{}, ErrAmountInvalid
	}

	category := model.Category(req.Category)
	if !category.Valid() {
		return model.ExpenseResponse{}, ErrCategoryInvalid
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := model.ParseDate(req.Date)
		if err != nil {
			return model.ExpenseResponse{}, err
		}
		date = parsed
	}

	expense := &model.Expense{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    category,
		Date:        date,
		Description: req.Description,
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		return model.ExpenseResponse{}, err
	}

	return expense.Response(), nil
}

// ListParams selects and paginates a user's expenses. Page and PageSize are
// clamped to positive values with defaults 1 and 5.
type ListParams struct {
	Page      int
	PageSize  int
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// List returns one page of the user's expenses, newest date first, together
// with the pagination totals for the full filtered set.
func (s *ExpenseService) List(ctx context.Context, userID int64, params ListParams) (model.ExpenseListResponse, error) {
	page := params.Page
	if page < 1 {
		page = DefaultPage
	}
	size := params.PageSize
	if size < 1 {
		size = DefaultPageSize
	}

	filter := repository.ExpenseFilter{
		UserID:    userID,
		Category:  model.Category(params.Category),
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
	}

	expenses, err := s.expenses.List(ctx, filter, (page-1)*size, size)
	if err != nil {
		return model.ExpenseListResponse{}, err
	}

	total, err := s.expenses.Count(ctx, filter)
	if err != nil {
		return model.ExpenseListResponse{}, err
	}

	items := make([]model.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, expenses[i].Response())
	}

	return model.ExpenseListResponse{
		Expenses:      items,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
		CurrentPage:   page,
		TotalExpenses: total,
	}, nil
}

// Update applies a partial update to one of the user's expenses. Zero-valued
// request fields keep the stored values; a provided category must still be in
// the closed set, and a provided amount must still be positive.
func (s *ExpenseService) Update(ctx context.Context, userID, id int64, req model.ExpenseRequest) (model.ExpenseResponse, error) {
	expense, err := s.expenses.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return model.ExpenseResponse{}, ErrExpenseNotFound
		}
		return model.ExpenseResponse{}, err
	}

	if req.Amount != 0 {
		if req.Amount < 0 {
			return model.ExpenseResponse{}, ErrAmountInvalid
		}
		expense.Amount = req.Amount
	}
	if req.Category != "" {
		category := model.Category(req.Category)
		if !category.Valid() {
			return model.ExpenseResponse{}, ErrCategoryInvalid
		}
		expense.Category = category
	}
	if req.Date != "" {
		date, err := model.ParseDate(req.Date)
		if err != nil {
			return model.ExpenseResponse{}, err
		}
		expense.Date = date
	}
	if req.Description != "" {
		expense.Description = req.Description
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return model.ExpenseResponse{}, ErrExpenseNotFound
		}
		return model.ExpenseResponse{}, err
	}

	return expense.Response(), nil
}

// Delete removes one of the user's expenses.
func (s *ExpenseService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.expenses.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return ErrExpenseNotFound
		}
		return err
	}
	return nil
}

// Summarize aggregates the user's spending by category over an optional date
// range, largest spend first, with each category's share of the grand total.
func (s *ExpenseService) Summarize(ctx context.Context, userID int64, startDate, endDate *time.Time) (model.SummaryResponse, error) {
	totals, err := s.expenses.SummarizeByCategory(ctx, repository.ExpenseFilter{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return model.SummaryResponse{}, err
	}

	var grand float64
	for _, ct := range totals {
		grand += ct.Total
	}

	categories := make([]model.CategorySummary, 0, len(totals))
	for _, ct := range totals {
		percentage := 0.0
		if grand > 0 {
			percentage = ct.Total / grand * 100
		}
		categories = append(categories, model.CategorySummary{
			Category:   ct.Category,
			Total:      ct.Total,
			Count:      ct.Count,
			Percentage: percentage,
		})
	}

	return model.SummaryResponse{Total: grand, Categories: categories}, nil
}
