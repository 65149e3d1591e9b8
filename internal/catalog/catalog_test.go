package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sample = `{
  "categories": [
    {"name": "Arma", "items": ["Uzi", "Ak47", "G3"]},
    {"name": "Utilitario", "items": ["Bandagem", "Combo"]}
  ]
}`

func TestParseFlattensCategoriesInOrder(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []string{"Ak47", "G3", "Uzi", "Bandagem", "Combo"}
	if got := c.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Items() = %v, want %v", got, want)
	}
}

func TestParseRejectsDuplicateItems(t *testing.T) {
	raw := `{"categories": [
		{"name": "A", "items": ["Ak47"]},
		{"name": "B", "items": ["Ak47"]}
	]}`
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("expected duplicate item to be rejected")
	}
}

func TestParseRejectsEmptyCatalog(t *testing.T) {
	cases := []string{
		`{}`,
		`{"categories": []}`,
		`{"categories": [{"name": "", "items": ["x"]}]}`,
		`{"categories": [{"name": "A", "items": []}]}`,
		`not json`,
	}
	for _, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestContains(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !c.Contains("Ak47") {
		t.Fatal("expected Ak47 to be present")
	}
	if c.Contains("ak47") {
		t.Fatal("catalog matches must be exact")
	}
}

func TestMaxSelectableCapsAtFive(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.MaxSelectable(); got != 5 {
		t.Fatalf("MaxSelectable() = %d, want 5", got)
	}

	small, err := Parse([]byte(`{"categories": [{"name": "A", "items": ["x", "y"]}]}`))
	if err != nil {
		t.Fatalf("Parse small: %v", err)
	}
	if got := small.MaxSelectable(); got != 2 {
		t.Fatalf("MaxSelectable() on small catalog = %d, want 2", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected missing file to error")
	}
}
