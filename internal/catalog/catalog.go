// Package catalog loads the static item catalog the pickers are built from.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
)

// MaxPickable bounds a single selection. The quantity form holds one field
// per item and Discord modals carry at most five inputs, so the picker never
// offers more than five at a time.
const MaxPickable = 5

// Category groups related items. Categories keep their file order; items are
// sorted alphabetically inside each category when flattened.
type Category struct {
	Name  string   `json:"name" validate:"required"`
	Items []string `json:"items" validate:"required,min=1,dive,required"`
}

// Catalog is the full item list, immutable after load.
type Catalog struct {
	categories []Category
	flattened  []string
}

type catalogFile struct {
	Categories []Category `json:"categories" validate:"required,min=1,dive"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(raw)
}

// Parse builds a catalog from raw JSON.
func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	seen := make(map[string]string)
	for _, category := range file.Categories {
		for _, item := range category.Items {
			if prior, dup := seen[item]; dup {
				return nil, fmt.Errorf("item %q appears in both %q and %q", item, prior, category.Name)
			}
			seen[item] = category.Name
		}
	}

	return &Catalog{
		categories: file.Categories,
		flattened:  flatten(file.Categories),
	}, nil
}

func flatten(categories []Category) []string {
	var items []string
	for _, category := range categories {
		sorted := append([]string(nil), category.Items...)
		sort.Strings(sorted)
		items = append(items, sorted...)
	}
	return items
}

// Items returns every catalog item: categories in file order, alphabetical
// within each category.
func (c *Catalog) Items() []string {
	return append([]string(nil), c.flattened...)
}

// Contains reports whether the name matches a catalog item exactly.
func (c *Catalog) Contains(name string) bool {
	for _, item := range c.flattened {
		if item == name {
			return true
		}
	}
	return false
}

// Len is the total number of items.
func (c *Catalog) Len() int {
	return len(c.flattened)
}

// MaxSelectable is how many items one selection may carry.
func (c *Catalog) MaxSelectable() int {
	if c.Len() < MaxPickable {
		return c.Len()
	}
	return MaxPickable
}
