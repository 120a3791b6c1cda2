// Package adapters implements per-site recipe extraction. Each adapter
// knows one site: how to build a search URL, which listing links are recipe
// detail pages, and how to pull structured recipe data out of the detail
// markup. Adapters prefer JSON-LD Recipe blocks and fall back to the site's
// visual markup.
package adapters

import (
	"fmt"
	"sort"
	"sync"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
)

// Adapter extracts recipes from one site.
type Adapter interface {
	// Name identifies the site, e.g. "AllRecipes".
	Name() string

	// FetchMode reports which fetch strategy this site's pages need.
	FetchMode() domain.FetchMode

	// SearchURL builds the site search URL for a query such as
	// "strawberry jam".
	SearchURL(query string) string

	// RecipeLinks extracts candidate recipe detail URLs from a search
	// results page, already filtered and capped per site policy.
	RecipeLinks(listingHTML string) ([]string, error)

	// ExtractRecipe parses one detail page into a Recipe. Pages that are
	// not actually jam recipes return validator.ErrNotTargetContent.
	ExtractRecipe(detailHTML, sourceURL string) (*domain.Recipe, error)

	// ExtractFruits reports the taxonomy fruit identifiers present in the
	// recipe's ingredients.
	ExtractFruits(ingredients domain.IngredientList) []string
}

// Registry is a name-keyed adapter collection.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its own name. Registering the same name
// twice is a programming error.
func (r *Registry) Register(a Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("adapter %q is already registered", name)
	}
	r.adapters[name] = a
	return nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for %q", name)
	}
	return a, nil
}

// All returns every registered adapter sorted by name.
func (r *Registry) All() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// Names returns the registered adapter names sorted alphabetically.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.Name()
	}
	return names
}

// DefaultRegistry returns a registry with every built-in site adapter.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range []Adapter{
		NewAllRecipes(),
		NewSeriousEats(),
		NewBBCGoodFood(),
		NewFoodNetwork(),
	} {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
	return r
}
