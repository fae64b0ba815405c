package services

import (
	"context"
	"errors"
	"fmt"

	"budgetd/internal/core"
	"budgetd/internal/storage"
)

// PreferenceStore is the persistence collaborator for user preferences.
type PreferenceStore interface {
	SavePreference(ctx context.Context, p core.UserPreference) (core.UserPreference, error)
	FindPreference(ctx context.Context, id string) (core.UserPreference, error)
	ListPreferences(ctx context.Context) ([]core.UserPreference, error)
	DeletePreference(ctx context.Context, id string) error
}

// PreferenceService implements user preference CRUD over a
// PreferenceStore. The derived complete date pattern is recomputed at
// every mutation and every load so callers never observe it stale.
type PreferenceService struct {
	store PreferenceStore
}

func NewPreferenceService(store PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store}
}

// Create stores a new preference, applying the defaults (space separator,
// numeric month-day-year pattern) for fields the input leaves absent.
func (s *PreferenceService) Create(ctx context.Context, in core.PreferenceInput) (core.UserPreference, error) {
	p := core.NewPreference(in)

	saved, err := s.store.SavePreference(ctx, p)
	if err != nil {
		return core.UserPreference{}, fmt.Errorf("create preference: %w", err)
	}

	saved.Recompute()
	return saved, nil
}

// GetByID returns the preference or a NotFoundError.
func (s *PreferenceService) GetByID(ctx context.Context, id string) (core.UserPreference, error) {
	p, err := s.store.FindPreference(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.UserPreference{}, &NotFoundError{Kind: KindPreference, ID: id}
	}
	if err != nil {
		return core.UserPreference{}, fmt.Errorf("get preference: %w", err)
	}

	p.Recompute()
	return p, nil
}

// List returns every stored preference.
func (s *PreferenceService) List(ctx context.Context) ([]core.UserPreference, error) {
	prefs, err := s.store.ListPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}

	for i := range prefs {
		prefs[i].Recompute()
	}
	return prefs, nil
}

// FullReplace overwrites both mutable fields with the input's values,
// absent fields reverting to their defaults. A missing id behaves as
// Create, with the new record getting a store-assigned id.
func (s *PreferenceService) FullReplace(ctx context.Context, id string, in core.PreferenceInput) (core.UserPreference, error) {
	replacement := core.NewPreference(in)

	existing, err := s.store.FindPreference(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Upsert: the store assigns a fresh id.
	case err != nil:
		return core.UserPreference{}, fmt.Errorf("replace preference: %w", err)
	default:
		replacement.ID = existing.ID
	}

	saved, err := s.store.SavePreference(ctx, replacement)
	if err != nil {
		return core.UserPreference{}, fmt.Errorf("replace preference: %w", err)
	}

	saved.Recompute()
	return saved, nil
}

// PatchMerge overwrites exactly the fields the input supplies. The
// preference must exist.
func (s *PreferenceService) PatchMerge(ctx context.Context, id string, in core.PreferenceInput) (core.UserPreference, error) {
	p, err := s.store.FindPreference(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.UserPreference{}, &NotFoundError{Kind: KindPreference, ID: id}
	}
	if err != nil {
		return core.UserPreference{}, fmt.Errorf("patch preference: %w", err)
	}

	p.ApplyPatch(in)

	saved, err := s.store.SavePreference(ctx, p)
	if err != nil {
		return core.UserPreference{}, fmt.Errorf("patch preference: %w", err)
	}

	saved.Recompute()
	return saved, nil
}

// Delete removes the preference. Deleting an id that does not exist is not
// an error.
func (s *PreferenceService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePreference(ctx, id); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}
