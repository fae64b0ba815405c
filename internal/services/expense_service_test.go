package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgetd/internal/core"
	"budgetd/internal/storage"
)

// fakeStore keeps everything in maps and assigns sequential ids, mirroring
// the store contract: saving with an empty id assigns a fresh one.
type fakeStore struct {
	nextID   int
	expenses map[string]core.Expense
	prefs    map[string]core.UserPreference
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expenses: make(map[string]core.Expense),
		prefs:    make(map[string]core.UserPreference),
	}
}

func (f *fakeStore) assignID() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeStore) SaveExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = f.assignID()
	}
	f.expenses[e.ID] = e
	return e, nil
}

func (f *fakeStore) FindExpense(_ context.Context, id string) (core.Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return core.Expense{}, storage.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) ListExpenses(_ context.Context) ([]core.Expense, error) {
	out := make([]core.Expense, 0, len(f.expenses))
	for _, e := range f.expenses {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) ListExpensesByTimeDesc(_ context.Context, page, size int) ([]core.Expense, error) {
	all, _ := f.ListExpenses(context.Background())
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Time.Equal(all[j].Time) {
			return all[i].Time.After(all[j].Time)
		}
		return all[i].ID > all[j].ID
	})
	start := page * size
	if start >= len(all) {
		return nil, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, id string) error {
	delete(f.expenses, id)
	return nil
}

func (f *fakeStore) ExpenseAmounts(_ context.Context) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(f.expenses))
	for _, e := range f.expenses {
		out = append(out, e.Amount)
	}
	return out, nil
}

func (f *fakeStore) SavePreference(_ context.Context, p core.UserPreference) (core.UserPreference, error) {
	if p.ID == "" {
		p.ID = f.assignID()
	}
	// The derived pattern is never persisted.
	p.PatternComplete = ""
	f.prefs[p.ID] = p
	return p, nil
}

func (f *fakeStore) FindPreference(_ context.Context, id string) (core.UserPreference, error) {
	p, ok := f.prefs[id]
	if !ok {
		return core.UserPreference{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListPreferences(_ context.Context) ([]core.UserPreference, error) {
	out := make([]core.UserPreference, 0, len(f.prefs))
	for _, p := range f.prefs {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) DeletePreference(_ context.Context, id string) error {
	delete(f.prefs, id)
	return nil
}

type publishedEvent struct {
	id     string
	action string
}

type fakePublisher struct {
	events []publishedEvent
	fail   bool
}

func (f *fakePublisher) PublishExpenseEvent(_ context.Context, id, action string) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.events = append(f.events, publishedEvent{id: id, action: action})
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal { d := dec(s); return &d }
func strPtr(s string) *string          { return &s }
func timePtr(t time.Time) *time.Time   { return &t }

func newTestExpenseService(store *fakeStore, pub *fakePublisher) *ExpenseService {
	var events EventPublisher
	if pub != nil {
		events = pub
	}
	svc := NewExpenseService(store, store, events)
	svc.now = func() time.Time {
		return time.Date(2026, 5, 1, 9, 0, 0, 123456789, time.UTC)
	}
	return svc
}

func TestCreateStampsTimeAndAssignsID(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newTestExpenseService(store, pub)

	e, err := svc.Create(context.Background(), core.ExpenseInput{Amount: decPtr("10.00")})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if !e.Time.Equal(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected stamped time, got %v", e.Time)
	}
	if len(pub.events) != 1 || pub.events[0].action != "created" {
		t.Fatalf("expected one created event, got %+v", pub.events)
	}
}

func TestCreateRequiresAmount(t *testing.T) {
	svc := newTestExpenseService(newFakeStore(), nil)

	_, err := svc.Create(context.Background(), core.ExpenseInput{Name: strPtr("no amount")})
	if !errors.Is(err, core.ErrAmountRequired) {
		t.Fatalf("expected ErrAmountRequired, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestExpenseService(newFakeStore(), nil)

	_, err := svc.GetByID(context.Background(), "missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Error() != "expense not found with id missing" {
		t.Fatalf("got message %q", nf.Error())
	}
}

func TestFullReplaceKeepsExistingID(t *testing.T) {
	store := newFakeStore()
	svc := newTestExpenseService(store, nil)

	created, err := svc.Create(context.Background(), core.ExpenseInput{Amount: decPtr("5"), Name: strPtr("old")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	replaced, err := svc.FullReplace(context.Background(), created.ID, core.ExpenseInput{Amount: decPtr("7"), Name: strPtr("new")})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.ID != created.ID {
		t.Fatalf("expected id kept, got %s", replaced.ID)
	}
	if replaced.Name != "new" || !replaced.Amount.Equal(dec("7")) {
		t.Fatalf("replace did not overwrite: %+v", replaced)
	}
	// Absent fields reset, not inherited.
	if replaced.Counterparty != "" || replaced.Category != core.CategoryOther {
		t.Fatalf("expected reset fields, got %+v", replaced)
	}
}

func TestFullReplaceMissingIDCreatesWithFreshID(t *testing.T) {
	store := newFakeStore()
	svc := newTestExpenseService(store, nil)

	e, err := svc.FullReplace(context.Background(), "never-existed", core.ExpenseInput{Amount: decPtr("3")})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.ID == "" || e.ID == "never-existed" {
		t.Fatalf("expected store-assigned id, got %q", e.ID)
	}
}

func TestPatchMergeSkipsAbsentFields(t *testing.T) {
	store := newFakeStore()
	svc := newTestExpenseService(store, nil)

	created, err := svc.Create(context.Background(), core.ExpenseInput{
		Amount:       decPtr("-20"),
		Name:         strPtr("lunch"),
		Counterparty: strPtr("Cafe"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	patched, err := svc.PatchMerge(context.Background(), created.ID, core.ExpenseInput{Amount: decPtr("-25")})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if !patched.Amount.Equal(dec("-25")) {
		t.Fatalf("amount not patched: %s", patched.Amount)
	}
	if patched.Name != "lunch" || patched.Counterparty != "Cafe" {
		t.Fatalf("absent fields changed: %+v", patched)
	}
	if !patched.Time.Equal(created.Time) {
		t.Fatalf("time changed: %v", patched.Time)
	}
}

func TestPatchMergeMissingExpense(t *testing.T) {
	svc := newTestExpenseService(newFakeStore(), nil)

	_, err := svc.PatchMerge(context.Background(), "missing", core.ExpenseInput{Amount: decPtr("1")})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newTestExpenseService(store, pub)

	created, err := svc.Create(context.Background(), core.ExpenseInput{Amount: decPtr("1")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "never-existed"); err != nil {
		t.Fatalf("delete of unknown id: %v", err)
	}
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	store := newFakeStore()
	svc := newTestExpenseService(store, &fakePublisher{fail: true})

	e, err := svc.Create(context.Background(), core.ExpenseInput{Amount: decPtr("1")})
	if err != nil {
		t.Fatalf("expected ok despite publish failure, got %v", err)
	}
	if _, err := store.FindExpense(context.Background(), e.ID); err != nil {
		t.Fatalf("expense not persisted: %v", err)
	}
}

func TestListPagedOrdersAndClamps(t *testing.T) {
	store := newFakeStore()
	svc := newTestExpenseService(store, nil)

	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		if _, err := svc.Create(context.Background(), core.ExpenseInput{Amount: decPtr("1"), Time: timePtr(ts)}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := svc.ListPaged(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2, got %d", len(page))
	}
	if !page[0].Time.After(page[1].Time) {
		t.Fatalf("expected newest first: %v then %v", page[0].Time, page[1].Time)
	}

	// Negative page and zero size fall back to the defaults.
	page, err = svc.ListPaged(context.Background(), -3, 0)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(page) != 5 {
		t.Fatalf("expected all 5 on default page, got %d", len(page))
	}
}

func TestTotalBalance(t *testing.T) {
	store := newFakeStore()
	svc := newTestExpenseService(store, nil)

	total, err := svc.TotalBalance(context.Background())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if total.StringFixed(2) != "0.00" {
		t.Fatalf("expected 0.00 on empty store, got %s", total.StringFixed(2))
	}

	for _, a := range []string{"10.005", "-3.001"} {
		if _, err := svc.Create(context.Background(), core.ExpenseInput{Amount: decPtr(a)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	total, err = svc.TotalBalance(context.Background())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if total.StringFixed(2) != "7.00" {
		t.Fatalf("got %s", total.StringFixed(2))
	}
}

func TestFormattedTime(t *testing.T) {
	store := newFakeStore()
	svc := newTestExpenseService(store, nil)
	prefSvc := NewPreferenceService(store)

	sep := core.SeparatorSlash
	pref, err := prefSvc.Create(context.Background(), core.PreferenceInput{Separator: &sep})
	if err != nil {
		t.Fatalf("create preference: %v", err)
	}

	ts := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e, err := svc.Create(context.Background(), core.ExpenseInput{Amount: decPtr("1"), Time: timePtr(ts)})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	got, err := svc.FormattedTime(context.Background(), e.ID, pref.ID)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got != "3/4/2026" {
		t.Fatalf("got %q", got)
	}

	if _, err := svc.FormattedTime(context.Background(), e.ID, "missing"); err == nil {
		t.Fatalf("expected error for missing preference")
	}
	if _, err := svc.FormattedTime(context.Background(), "missing", pref.ID); err == nil {
		t.Fatalf("expected error for missing expense")
	}
}
