package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgetd/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// SQLiteRepository is the persistence collaborator for expenses and user
// preferences. It owns id assignment: a save with an empty id gets a fresh
// UUID. Amounts are stored as exact decimal text, times as unix seconds.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveExpense inserts or overwrites an expense. An empty id means a new
// record; the assigned id is returned on the stored copy.
func (r *SQLiteRepository) SaveExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expense (expense_id, name, amount, time, counterparty, category)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (expense_id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			time = excluded.time,
			counterparty = excluded.counterparty,
			category = excluded.category`,
		e.ID, e.Name, e.Amount.String(), e.Time.Unix(), e.Counterparty, string(e.Category))
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"name", e.Name,
		"amount", e.Amount.String(),
		"category", string(e.Category))

	return e, nil
}

// FindExpense returns the expense with the given id, or ErrNotFound.
func (r *SQLiteRepository) FindExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT expense_id, name, amount, time, counterparty, category
		FROM expense WHERE expense_id = ?`, id)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("find expense %s: %w", id, err)
	}
	return e, nil
}

// ListExpenses returns every stored expense.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT expense_id, name, amount, time, counterparty, category
		FROM expense`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// ListExpensesByTimeDesc returns one page of expenses ordered by time
// descending. Equal timestamps are broken by id descending so the order
// is total.
func (r *SQLiteRepository) ListExpensesByTimeDesc(ctx context.Context, page, size int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT expense_id, name, amount, time, counterparty, category
		FROM expense
		ORDER BY time DESC, expense_id DESC
		LIMIT ? OFFSET ?`, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("list expenses by time: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// DeleteExpense removes the expense if present. Deleting a missing id is
// not an error.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expense WHERE expense_id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}

// ExpenseAmounts returns the amount of every stored expense, exact as
// written. Summation happens in the domain layer so no precision is lost
// to SQL numeric coercion.
func (r *SQLiteRepository) ExpenseAmounts(ctx context.Context) ([]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT amount FROM expense`)
	if err != nil {
		return nil, fmt.Errorf("list expense amounts: %w", err)
	}
	defer rows.Close()

	var amounts []decimal.Decimal
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan amount: %w", err)
		}
		a, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", raw, err)
		}
		amounts = append(amounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate amounts: %w", err)
	}
	return amounts, nil
}

// SavePreference inserts or overwrites a user preference. The separator is
// persisted as its glyph, the pattern as its code; the derived complete
// pattern is never stored.
func (r *SQLiteRepository) SavePreference(ctx context.Context, p core.UserPreference) (core.UserPreference, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_preference (preference_id, date_separator, date_pattern)
		VALUES (?, ?, ?)
		ON CONFLICT (preference_id) DO UPDATE SET
			date_separator = excluded.date_separator,
			date_pattern = excluded.date_pattern`,
		p.ID, p.Separator.Glyph(), string(p.Pattern))
	if err != nil {
		return core.UserPreference{}, fmt.Errorf("save preference: %w", err)
	}

	slog.InfoContext(ctx, "Preference saved",
		"id", p.ID,
		"separator", string(p.Separator),
		"pattern", string(p.Pattern))

	return p, nil
}

// FindPreference returns the preference with the given id, or ErrNotFound.
func (r *SQLiteRepository) FindPreference(ctx context.Context, id string) (core.UserPreference, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT preference_id, date_separator, date_pattern
		FROM user_preference WHERE preference_id = ?`, id)

	p, err := scanPreference(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserPreference{}, ErrNotFound
	}
	if err != nil {
		return core.UserPreference{}, fmt.Errorf("find preference %s: %w", id, err)
	}
	return p, nil
}

// ListPreferences returns every stored preference.
func (r *SQLiteRepository) ListPreferences(ctx context.Context) ([]core.UserPreference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT preference_id, date_separator, date_pattern
		FROM user_preference`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []core.UserPreference
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return prefs, nil
}

// DeletePreference removes the preference if present; missing ids are not
// an error.
func (r *SQLiteRepository) DeletePreference(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_preference WHERE preference_id = ?`, id); err != nil {
		return fmt.Errorf("delete preference %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e        core.Expense
		amount   string
		unixSecs int64
		category string
	)
	if err := row.Scan(&e.ID, &e.Name, &amount, &unixSecs, &e.Counterparty, &category); err != nil {
		return core.Expense{}, err
	}

	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	e.Amount = a
	e.Time = time.Unix(unixSecs, 0)
	e.Category = core.ExpenseCategory(category)
	return e, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func scanPreference(row rowScanner) (core.UserPreference, error) {
	var (
		p       core.UserPreference
		glyph   string
		pattern string
	)
	if err := row.Scan(&p.ID, &glyph, &pattern); err != nil {
		return core.UserPreference{}, err
	}

	// The separator column holds the glyph itself; parsing is lenient and
	// falls back to space. The pattern column holds the enum code and must
	// be recognized.
	p.Separator = core.SeparatorFromGlyph(glyph)
	parsed, err := core.ParseDatePattern(pattern)
	if err != nil {
		return core.UserPreference{}, fmt.Errorf("stored date pattern: %w", err)
	}
	p.Pattern = parsed
	return p, nil
}
