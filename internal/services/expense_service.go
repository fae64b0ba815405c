package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"budgetd/internal/core"
	"budgetd/internal/events"
	"budgetd/internal/storage"
)

// DefaultPageSize is used when a paged listing is requested without a size.
const DefaultPageSize = 20

// ExpenseStore is the persistence collaborator for expenses. Saving an
// entity with an empty id assigns a new unique one.
type ExpenseStore interface {
	SaveExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	FindExpense(ctx context.Context, id string) (core.Expense, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	ListExpensesByTimeDesc(ctx context.Context, page, size int) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ExpenseAmounts(ctx context.Context) ([]decimal.Decimal, error)
}

// PreferenceReader is the subset of the preference store the expense
// service needs for timestamp rendering.
type PreferenceReader interface {
	FindPreference(ctx context.Context, id string) (core.UserPreference, error)
}

// EventPublisher publishes expense lifecycle events. Implementations may
// be nil-safe absent; the service treats publish failures as non-fatal.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, id, action string) error
}

// ExpenseService implements expense CRUD, patch merge and the balance
// aggregate over an ExpenseStore.
type ExpenseService struct {
	store  ExpenseStore
	prefs  PreferenceReader
	events EventPublisher
	now    func() time.Time
}

func NewExpenseService(store ExpenseStore, prefs PreferenceReader, events EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:  store,
		prefs:  prefs,
		events: events,
		now:    time.Now,
	}
}

// Create validates the input, stamps the time to the current second when
// absent and stores the new expense.
func (s *ExpenseService) Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	e, err := core.NewExpense(in, s.now())
	if err != nil {
		return core.Expense{}, err
	}

	saved, err := s.store.SaveExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.publish(ctx, saved.ID, events.ActionCreated)
	return saved, nil
}

// GetByID returns the expense or a NotFoundError.
func (s *ExpenseService) GetByID(ctx context.Context, id string) (core.Expense, error) {
	e, err := s.store.FindExpense(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Expense{}, &NotFoundError{Kind: KindExpense, ID: id}
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// List returns every stored expense.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

// ListPaged returns one page of expenses ordered by time descending with
// id descending as the tie-break. Negative pages and non-positive sizes
// fall back to the defaults (page 0, size 20).
func (s *ExpenseService) ListPaged(ctx context.Context, page, size int) ([]core.Expense, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return s.store.ListExpensesByTimeDesc(ctx, page, size)
}

// FullReplace overwrites every mutable field of the expense with the
// input's values. When no expense with the id exists it behaves as Create;
// the new record then gets a store-assigned id, not the requested one.
func (s *ExpenseService) FullReplace(ctx context.Context, id string, in core.ExpenseInput) (core.Expense, error) {
	replacement, err := core.NewExpense(in, s.now())
	if err != nil {
		return core.Expense{}, err
	}

	existing, err := s.store.FindExpense(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Upsert: fall through with an empty id so the store assigns one.
	case err != nil:
		return core.Expense{}, fmt.Errorf("replace expense: %w", err)
	default:
		replacement.ID = existing.ID
	}

	saved, err := s.store.SaveExpense(ctx, replacement)
	if err != nil {
		return core.Expense{}, fmt.Errorf("replace expense: %w", err)
	}

	s.publish(ctx, saved.ID, events.ActionUpdated)
	return saved, nil
}

// PatchMerge overwrites exactly the fields the input supplies; absent
// fields are left untouched. The expense must exist.
func (s *ExpenseService) PatchMerge(ctx context.Context, id string, in core.ExpenseInput) (core.Expense, error) {
	if in.Category != nil && !in.Category.Valid() {
		return core.Expense{}, core.ErrInvalidCategory
	}

	e, err := s.store.FindExpense(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Expense{}, &NotFoundError{Kind: KindExpense, ID: id}
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("patch expense: %w", err)
	}

	e.ApplyPatch(in)

	saved, err := s.store.SaveExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("patch expense: %w", err)
	}

	s.publish(ctx, saved.ID, events.ActionUpdated)
	return saved, nil
}

// Delete removes the expense. Deleting an id that does not exist is not an
// error.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, id, events.ActionDeleted)
	return nil
}

// TotalBalance sums every stored amount exactly and rounds half-up to two
// decimals. An empty store yields exactly 0.00.
func (s *ExpenseService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	amounts, err := s.store.ExpenseAmounts(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total balance: %w", err)
	}
	return core.TotalBalance(amounts), nil
}

// FormattedTime renders the expense's timestamp using the given user
// preference's complete date pattern.
func (s *ExpenseService) FormattedTime(ctx context.Context, expenseID, preferenceID string) (string, error) {
	e, err := s.GetByID(ctx, expenseID)
	if err != nil {
		return "", err
	}

	pref, err := s.prefs.FindPreference(ctx, preferenceID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", &NotFoundError{Kind: KindPreference, ID: preferenceID}
	}
	if err != nil {
		return "", fmt.Errorf("formatted time: %w", err)
	}

	// Load boundary: the derived pattern is recomputed, never read stale.
	pref.Recompute()
	return core.RenderTimestamp(e, pref)
}

func (s *ExpenseService) publish(ctx context.Context, id, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, id, action); err != nil {
		// The expense is already persisted; event delivery is best effort.
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"id", id, "action", action, "error", err)
	}
}
