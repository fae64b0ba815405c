package services

import (
	"context"
	"errors"
	"testing"

	"budgetd/internal/core"
)

func sepPtr(s core.DateSeparator) *core.DateSeparator { return &s }
func patPtr(p core.DatePattern) *core.DatePattern     { return &p }

func TestPreferenceCreateDefaults(t *testing.T) {
	svc := NewPreferenceService(newFakeStore())

	p, err := svc.Create(context.Background(), core.PreferenceInput{})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if p.Separator != core.SeparatorSpace || p.Pattern != core.PatternMonthDayYear {
		t.Fatalf("expected defaults, got %+v", p)
	}
	if p.PatternComplete != "M d yyyy" {
		t.Fatalf("got %q", p.PatternComplete)
	}
}

func TestPreferenceGetRecomputesDerivedPattern(t *testing.T) {
	store := newFakeStore()
	svc := NewPreferenceService(store)

	created, err := svc.Create(context.Background(), core.PreferenceInput{
		Separator: sepPtr(core.SeparatorDot),
		Pattern:   patPtr(core.PatternDayMonthYear),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The store drops the derived pattern; a load must restore it.
	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PatternComplete != "d.M.yyyy" {
		t.Fatalf("got %q", got.PatternComplete)
	}

	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].PatternComplete != "d.M.yyyy" {
		t.Fatalf("list did not recompute: %+v", all)
	}
}

func TestPreferenceFullReplaceResetsAbsentFields(t *testing.T) {
	store := newFakeStore()
	svc := NewPreferenceService(store)

	created, err := svc.Create(context.Background(), core.PreferenceInput{
		Separator: sepPtr(core.SeparatorSlash),
		Pattern:   patPtr(core.PatternYearMonthDay),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	replaced, err := svc.FullReplace(context.Background(), created.ID, core.PreferenceInput{
		Pattern: patPtr(core.PatternMonthDayYearWord),
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.ID != created.ID {
		t.Fatalf("expected id kept, got %s", replaced.ID)
	}
	// The absent separator reverts to the default rather than surviving.
	if replaced.Separator != core.SeparatorSpace {
		t.Fatalf("expected default separator, got %s", replaced.Separator)
	}
}

func TestPreferenceFullReplaceMissingIDCreates(t *testing.T) {
	svc := NewPreferenceService(newFakeStore())

	p, err := svc.FullReplace(context.Background(), "never-existed", core.PreferenceInput{})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if p.ID == "" || p.ID == "never-existed" {
		t.Fatalf("expected store-assigned id, got %q", p.ID)
	}
}

func TestPreferencePatchMerge(t *testing.T) {
	store := newFakeStore()
	svc := NewPreferenceService(store)

	created, err := svc.Create(context.Background(), core.PreferenceInput{
		Separator: sepPtr(core.SeparatorHyphen),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	patched, err := svc.PatchMerge(context.Background(), created.ID, core.PreferenceInput{
		Pattern: patPtr(core.PatternYearDayMonth),
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.Separator != core.SeparatorHyphen {
		t.Fatalf("absent separator changed: %s", patched.Separator)
	}
	if patched.PatternComplete != "yyyy-d-M" {
		t.Fatalf("got %q", patched.PatternComplete)
	}

	_, err = svc.PatchMerge(context.Background(), "missing", core.PreferenceInput{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Error() != "user preference not found with id missing" {
		t.Fatalf("got message %q", nf.Error())
	}
}

func TestPreferenceDeleteIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewPreferenceService(store)

	created, err := svc.Create(context.Background(), core.PreferenceInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
