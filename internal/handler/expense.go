package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spendwise/spendwise-go/internal/middleware"
	"github.com/spendwise/spendwise-go/internal/model"
	"github.com/spendwise/spendwise-go/internal/service"
)

// ExpenseHandler handles HTTP requests for expense operations. All routes sit
// behind the access gate, so the owning user is always on the context.
type ExpenseHandler struct {
	service *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: svc}
}

// HandleCreate handles POST /api/expenses requests.
func (h *ExpenseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	expense, err := h.service.Create(r.Context(), user.ID, req)
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, internalError(err))
		return
	}

	writeJSON(w, http.StatusCreated, model.ExpenseMutationResponse{
		Message: "expense created successfully",
		Expense: expense,
	})
}

// HandleList handles GET /api/expenses requests. Supported query parameters:
// page, limit, category, startDate, endDate. The date range is applied only
// when both bounds are given.
func (h *ExpenseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	params := service.ListParams{
		Page:     queryInt(r, "page", service.DefaultPage),
		PageSize: queryInt(r, "limit", service.DefaultPageSize),
		Category: r.URL.Query().Get("category"),
	}

	start, end, err := queryDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	params.StartDate = start
	params.EndDate = end

	resp, err := h.service.List(r.Context(), user.ID, params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, internalError(err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleSummary handles GET /api/expenses/summary requests, returning the
// user's spending grouped by category over an optional date range.
func (h *ExpenseHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	start, end, err := queryDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	resp, err := h.service.Summarize(r.Context(), user.ID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, internalError(err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /api/expenses/{id} requests.
func (h *ExpenseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid expense id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	expense, err := h.service.Update(r.Context(), user.ID, id, req)
	if err != nil {
		switch {
		case isValidationError(err):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrExpenseNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, internalError(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.ExpenseMutationResponse{
		Message: "expense updated successfully",
		Expense: expense,
	})
}

// HandleDelete handles DELETE /api/expenses/{id} requests.
func (h *ExpenseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid expense id"))
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, service.ErrExpenseNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, internalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "expense deleted successfully"})
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrAmountInvalid) ||
		errors.Is(err, service.ErrCategoryInvalid) ||
		errors.Is(err, service.ErrDateInvalid)
}

// queryInt parses a positive integer query parameter, falling back to the
// default on absence, garbage, or non-positive values.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// queryDateRange parses the startDate/endDate query parameters. The range is
// applied only when both are present; the end bound is pushed to the end of
// its day so a bare calendar date stays inclusive.
func queryDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	startStr := r.URL.Query().Get("startDate")
	endStr := r.URL.Query().Get("endDate")
	if startStr == "" || endStr == "" {
		return nil, nil, nil
	}

	start, err := model.ParseDate(startStr)
	if err != nil {
		return nil, nil, err
	}
	end, err := model.ParseDate(endStr)
	if err != nil {
		return nil, nil, err
	}
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	return &start, &end, nil
}
