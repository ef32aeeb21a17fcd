package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/spendwise/spendwise-go/internal/model"
)

var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseRepository handles expense persistence operations. Every query is
// scoped by owner: an expense belonging to another user is indistinguishable
// from one that does not exist.
type ExpenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ExpenseFilter selects a subset of a user's expenses. UserID is mandatory;
// Category and the date bounds are applied only when set. The date range is
// inclusive on both ends.
type ExpenseFilter struct {
	UserID    int64
	Category  model.Category
	StartDate *time.Time
	EndDate   *time.Time
}

func (f ExpenseFilter) where() (string, []any) {
	clause := ` WHERE user_id = ?`
	args := []any{f.UserID}

	if f.Category != "" {
		clause += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.StartDate != nil {
		clause += ` AND date >= ?`
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		clause += ` AND date <= ?`
		args = append(args, *f.EndDate)
	}

	return clause, args
}

// Create inserts a new expense and sets the generated ID and timestamps on
// the expense struct.
func (r *ExpenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	now := time.Now().UTC()

	query := `INSERT INTO expenses (user_id, amount, category, date, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		expense.UserID, expense.Amount, expense.Category, expense.Date, expense.Description, now, now,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	expense.ID = id
	expense.CreatedAt = now
	expense.UpdatedAt = now
	return nil
}

// GetByID retrieves an expense by ID scoped to its owner.
func (r *ExpenseRepository) GetByID(ctx context.Context, userID, id int64) (*model.Expense, error) {
	query := `SELECT id, user_id, amount, category, date, description, created_at, updated_at
		FROM expenses WHERE id = ? AND user_id = ?`

	expense := &model.Expense{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&expense.ID, &expense.UserID, &expense.Amount, &expense.Category,
		&expense.Date, &expense.Description, &expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	return expense, nil
}

// List retrieves a page of matching expenses ordered by date descending,
// falling back to insertion order (newest first) for equal dates.
func (r *ExpenseRepository) List(ctx context.Context, filter ExpenseFilter, offset, limit int) ([]model.Expense, error) {
	where, args := filter.where()
	query := `SELECT id, user_id, amount, category, date, description, created_at, updated_at
		FROM expenses` + where + ` ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Amount, &e.Category,
			&e.Date, &e.Description, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// Count returns the number of expenses matching the filter, ignoring pagination.
func (r *ExpenseRepository) Count(ctx context.Context, filter ExpenseFilter) (int64, error) {
	where, args := filter.where()

	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`+where, args...).Scan(&count)
	return count, err
}

// Update persists the full field set of an expense. The owner scope in the
// WHERE clause makes the write and the ownership check a single atomic
// statement; zero affected rows means not-found-or-not-yours.
func (r *ExpenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	now := time.Now().UTC()

	query := `UPDATE expenses SET amount = ?, category = ?, date = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		expense.Amount, expense.Category, expense.Date, expense.Description, now,
		expense.ID, expense.UserID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrExpenseNotFound
	}

	expense.UpdatedAt = now
	return nil
}

// Delete removes an expense scoped to its owner.
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrExpenseNotFound
	}

	return nil
}

// CategoryTotal is the aggregate amount and record count for one category.
type CategoryTotal struct {
	Category model.Category
	Total    float64
	Count    int64
}

// SummarizeByCategory returns per-category totals for the matching expenses,
// largest spend first.
func (r *ExpenseRepository) SummarizeByCategory(ctx context.Context, filter ExpenseFilter) ([]CategoryTotal, error) {
	where, args := filter.where()
	query := `SELECT category, SUM(amount), COUNT(*) FROM expenses` + where +
		` GROUP BY category ORDER BY SUM(amount) DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}
