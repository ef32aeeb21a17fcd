package model

import (
	"errors"
	"time"
)

// Category is an expense category. The set of valid categories is closed;
// anything outside it is rejected on create and update.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryHousing        Category = "Housing"
	CategoryUtilities      Category = "Utilities"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryShopping       Category = "Shopping"
	CategoryEducation      Category = "Education"
	CategoryTravel         Category = "Travel"
	CategoryOther          Category = "Other"
)

// Categories lists every valid expense category.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ErrInvalidDate is returned when a date string matches none of the accepted layouts.
var ErrInvalidDate = errors.New("invalid date format")

// ParseDate parses a date supplied by a client, accepting either a bare
// calendar date ("2024-01-05") or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// Expense represents a single expense record owned by a user.
type Expense struct {
	ID          int64
	UserID      int64
	Amount      float64
	Category    Category
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpenseRequest represents the body of a create or update request. On update
// every field is optional: zero-valued fields leave the stored value untouched.
type ExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Amount      float64   `json:"amount"`
	Category    Category  `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Response converts an Expense to its external projection.
func (e *Expense) Response() ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ExpenseMutationResponse is the body returned when a single expense is
// created or updated.
type ExpenseMutationResponse struct {
	Message string          `json:"message"`
	Expense ExpenseResponse `json:"expense"`
}

// ExpenseListResponse is the paginated listing body.
type ExpenseListResponse struct {
	Expenses      []ExpenseResponse `json:"expenses"`
	TotalPages    int               `json:"totalPages"`
	CurrentPage   int               `json:"currentPage"`
	TotalExpenses int64             `json:"totalExpenses"`
}

// CategorySummary is the aggregate spend for one category.
type CategorySummary struct {
	Category   Category `json:"category"`
	Total      float64  `json:"total"`
	Count      int64    `json:"count"`
	Percentage float64  `json:"percentage"`
}

// SummaryResponse is the spending-by-category body.
type SummaryResponse struct {
	Total      float64           `json:"total"`
	Categories []CategorySummary `json:"categories"`
}
