package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"budgetd/internal/core"
	"budgetd/internal/services"
)

type expenseRequest struct {
	Name         *string          `json:"name"`
	Amount       *decimal.Decimal `json:"amount"`
	Time         *time.Time       `json:"time"`
	Counterparty *string          `json:"counterparty"`
	Category     *string          `json:"category"`
}

// toInput converts the wire shape into a core.ExpenseInput, rejecting
// unknown category codes before they reach the service layer.
func (r expenseRequest) toInput() (core.ExpenseInput, error) {
	in := core.ExpenseInput{
		Name:         r.Name,
		Amount:       r.Amount,
		Time:         r.Time,
		Counterparty: r.Counterparty,
	}
	if r.Category != nil {
		cat, err := core.ParseCategory(*r.Category)
		if err != nil {
			return core.ExpenseInput{}, err
		}
		in.Category = &cat
	}
	return in, nil
}

type expenseResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	Time             *time.Time      `json:"time"`
	Counterparty     string          `json:"counterparty"`
	Category         string          `json:"category"`
	CounterpartyText string          `json:"counterpartyText"`
	CategoryText     string          `json:"categoryText"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	resp := expenseResponse{
		ID:               e.ID,
		Name:             e.Name,
		Amount:           e.Amount,
		Counterparty:     e.Counterparty,
		Category:         string(e.Category),
		CounterpartyText: e.CounterpartyText(),
		CategoryText:     e.CategoryText(),
	}
	if !e.Time.IsZero() {
		t := e.Time
		resp.Time = &t
	}
	return resp
}

func toExpenseResponses(expenses []core.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out
}

type preferenceRequest struct {
	DateSeparator *string `json:"dateSeparator"`
	DatePattern   *string `json:"datePattern"`
}

func (r preferenceRequest) toInput() (core.PreferenceInput, error) {
	var in core.PreferenceInput
	if r.DateSeparator != nil {
		sep, err := core.ParseDateSeparator(*r.DateSeparator)
		if err != nil {
			return core.PreferenceInput{}, err
		}
		in.Separator = &sep
	}
	if r.DatePattern != nil {
		pat, err := core.ParseDatePattern(*r.DatePattern)
		if err != nil {
			return core.PreferenceInput{}, err
		}
		in.Pattern = &pat
	}
	return in, nil
}

type preferenceResponse struct {
	ID                  string `json:"id"`
	DateSeparator       string `json:"dateSeparator"`
	DatePattern         string `json:"datePattern"`
	DatePatternComplete string `json:"datePatternComplete"`
}

func toPreferenceResponse(p core.UserPreference) preferenceResponse {
	return preferenceResponse{
		ID:                  p.ID,
		DateSeparator:       string(p.Separator),
		DatePattern:         string(p.Pattern),
		DatePatternComplete: p.PatternComplete,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Missing entities get a
// plain-text body carrying the lookup detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *services.NotFoundError
	switch {
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrAmountRequired),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrTimeUnset):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// queryInt parses an integer query parameter, falling back to def on
// absence or malformed input.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
