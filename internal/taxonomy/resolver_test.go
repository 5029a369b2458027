package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"RecipePress/internal/domain"
)

type fakeTaxonomyStore struct {
	nextID   int64
	terms    map[string]map[string]int64 // taxonomy → name → id
	assigned map[int64][]int64           // post → term ids
	failFind bool
}

func newFakeTaxonomyStore() *fakeTaxonomyStore {
	return &fakeTaxonomyStore{
		nextID:   1,
		terms:    map[string]map[string]int64{},
		assigned: map[int64][]int64{},
	}
}

func (f *fakeTaxonomyStore) TermExists(_ context.Context, taxonomy string, termID int64) (bool, error) {
	for _, id := range f.terms[taxonomy] {
		if id == termID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaxonomyStore) FindTerm(_ context.Context, taxonomy, name string) (int64, bool, error) {
	if f.failFind {
		return 0, false, errors.New("store unavailable")
	}
	id, ok := f.terms[taxonomy][name]
	return id, ok, nil
}

func (f *fakeTaxonomyStore) CreateTerm(_ context.Context, taxonomy, name string) (int64, error) {
	if f.terms[taxonomy] == nil {
		f.terms[taxonomy] = map[string]int64{}
	}
	id := f.nextID
	f.nextID++
	f.terms[taxonomy][name] = id
	return id, nil
}

func (f *fakeTaxonomyStore) AssignTerms(_ context.Context, postID int64, _ string, termIDs []int64) error {
	f.assigned[postID] = append(f.assigned[postID], termIDs...)
	return nil
}

func TestResolveSkipMode(t *testing.T) {
	t.Parallel()

	r := New(newFakeTaxonomyStore(), nil)
	got := r.Resolve(context.Background(), Config{Taxonomy: "category", Mode: domain.TaxonomySkip}, 1, []string{"Dessert"})
	if got != nil {
		t.Fatalf("expected no assignment for skip mode, got %+v", got)
	}
}

func TestResolveAutoCreatesOnce(t *testing.T) {
	t.Parallel()

	store := newFakeTaxonomyStore()
	r := New(store, nil)

	got := r.Resolve(context.Background(), Config{Taxonomy: "category", Mode: domain.TaxonomyAuto}, 7, []string{"Dessert", "Dessert"})
	if got == nil || !got.Success {
		t.Fatalf("expected successful assignment, got %+v", got)
	}

	if len(store.terms["category"]) != 1 {
		t.Fatalf("expected exactly one term created, got %v", store.terms["category"])
	}
	if !reflect.DeepEqual(got.TermIDs, []int64{1}) {
		t.Fatalf("expected term ids [1], got %v", got.TermIDs)
	}
	if !reflect.DeepEqual(store.assigned[7], []int64{1}) {
		t.Fatalf("expected single assignment, got %v", store.assigned[7])
	}
}

func TestResolveAutoReusesExistingTerm(t *testing.T) {
	t.Parallel()

	store := newFakeTaxonomyStore()
	existing, _ := store.CreateTerm(context.Background(), "category", "Dessert")
	r := New(store, nil)

	got := r.Resolve(context.Background(), Config{Taxonomy: "category", Mode: domain.TaxonomyAuto}, 7, []string{"Dessert", "Breakfast"})
	if got == nil || !got.Success {
		t.Fatalf("expected successful assignment, got %+v", got)
	}
	if got.TermIDs[0] != existing {
		t.Fatalf("expected existing term %d reused, got %v", existing, got.TermIDs)
	}
	if len(store.terms["category"]) != 2 {
		t.Fatalf("expected one new term alongside the existing, got %v", store.terms["category"])
	}
}

func TestResolveAutoNoCandidates(t *testing.T) {
	t.Parallel()

	r := New(newFakeTaxonomyStore(), nil)
	for _, candidates := range [][]string{nil, {}, {""}} {
		if got := r.Resolve(context.Background(), Config{Taxonomy: "category", Mode: domain.TaxonomyAuto}, 1, candidates); got != nil {
			t.Fatalf("expected skip for candidates %v, got %+v", candidates, got)
		}
	}
}

func TestResolveAutoStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeTaxonomyStore()
	store.failFind = true
	r := New(store, nil)

	got := r.Resolve(context.Background(), Config{Taxonomy: "category", Mode: domain.TaxonomyAuto}, 1, []string{"Dessert"})
	if got == nil || got.Success {
		t.Fatalf("expected error outcome, got %+v", got)
	}
	if got.Detail == "" {
		t.Fatal("expected failure detail")
	}
}

func TestResolveFixedMode(t *testing.T) {
	t.Parallel()

	store := newFakeTaxonomyStore()
	id, _ := store.CreateTerm(context.Background(), "category", "Dinner")
	r := New(store, nil)

	got := r.Resolve(context.Background(), Config{Taxonomy: "category", Mode: domain.TaxonomyFixed, TermID: id}, 3, nil)
	if got == nil || !got.Success {
		t.Fatalf("expected successful fixed assignment, got %+v", got)
	}
	if !reflect.DeepEqual(store.assigned[3], []int64{id}) {
		t.Fatalf("expected term %d assigned, got %v", id, store.assigned[3])
	}
}

func TestResolveFixedModeUnknownTerm(t *testing.T) {
	t.Parallel()

	r := New(newFakeTaxonomyStore(), nil)
	got := r.Resolve(context.Background(), Config{Taxonomy: "category", Mode: domain.TaxonomyFixed, TermID: 99}, 3, nil)
	if got == nil || got.Success {
		t.Fatalf("expected error outcome for unknown term, got %+v", got)
	}
	if want := fmt.Sprintf("term %d does not exist", 99); !strings.Contains(got.Detail, want) {
		t.Fatalf("expected detail mentioning %q, got %q", want, got.Detail)
	}
}
