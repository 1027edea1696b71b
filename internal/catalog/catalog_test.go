package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIsIsolated(t *testing.T) {
	first := Default()
	second := Default()

	first.Items[0].Title = "changed"

	if second.Items[0].Title == "changed" {
		t.Fatalf("expected every Default call to return an independent catalog")
	}
}

func TestByCategoryPreservesOrder(t *testing.T) {
	movies, err := Default().ByCategory("Movie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(movies) != 5 {
		t.Fatalf("expected 5 movies, got %d", len(movies))
	}

	expected := []string{"The Dark Knight", "Pulp Fiction", "Inception", "The Matrix", "Interstellar"}
	for idx, title := range expected {
		if movies[idx].Title != title {
			t.Fatalf("expected %q at position %d, got %q", title, idx, movies[idx].Title)
		}
	}
}

func TestByCategoryUnknown(t *testing.T) {
	_, err := Default().ByCategory("books")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestByCategoryKnownButEmpty(t *testing.T) {
	c := &Catalog{Items: []*Item{{ID: "m1", Category: CategoryMovie}}}

	items, err := c.ByCategory(CategoryMusic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestAttrsWeaklyTyped(t *testing.T) {
	item := &Item{
		ID: "x",
		Attributes: map[string]any{
			"year":   "2008",
			"rating": 9,
			"genre":  "Drama",
		},
	}

	attrs, err := item.Attrs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attrs.Year != 2008 || attrs.Rating != 9 || attrs.Genre != "Drama" {
		t.Fatalf("unexpected attributes: %+v", attrs)
	}
}

func TestAttrsInvalid(t *testing.T) {
	item := &Item{ID: "x", Attributes: map[string]any{"year": "not a year"}}

	if _, err := item.Attrs(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	payload := `{"items":[{"id":"a1","category":" Movie ","title":"Heat","attributes":{"year":1995,"rating":8.3,"genre":"Crime"}}]}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := c.FindByID("a1")
	if item == nil {
		t.Fatalf("expected item a1 to be loaded")
	}
	if item.Category != CategoryMovie {
		t.Fatalf("expected category to be normalized, got %q", item.Category)
	}
}

func TestLoadFileRejectsItemsWithoutID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	if err := os.WriteFile(path, []byte(`{"items":[{"title":"nameless"}]}`), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for item without id")
	}
}

func TestReportByCategory(t *testing.T) {
	report := Default().ReportByCategory()

	movies, ok := report[CategoryMovie]
	if !ok || len(movies) != 5 {
		t.Fatalf("expected 5 movie entries, got %v", movies)
	}

	if movies[0]["rating"] != "9.0" {
		t.Fatalf("unexpected rating: %q", movies[0]["rating"])
	}

	if got := Default().Categories(); len(got) != 2 || got[0] != CategoryMovie || got[1] != CategoryMusic {
		t.Fatalf("unexpected categories: %v", got)
	}
}
