package categories

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// PreferenceStore persists category order and favorites. Absent values load
// as empty, never as an error.
type PreferenceStore interface {
	CategoryOrder(ctx context.Context) ([]string, error)
	SaveCategoryOrder(ctx context.Context, order []string) error
	FavoriteCategories(ctx context.Context) ([]string, error)
	SaveFavoriteCategories(ctx context.Context, favorites []string) error
}

// Registry derives the set of known categories from loaded articles and
// merges it with persisted order and favorite preferences.
type Registry struct {
	prefs     PreferenceStore
	known     map[string]struct{}
	favorites map[string]struct{}
	order     []string
}

func NewRegistry(ctx context.Context, prefs PreferenceStore) (*Registry, error) {
	order, err := prefs.CategoryOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category order: %w", err)
	}
	favorites, err := prefs.FavoriteCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load favorite categories: %w", err)
	}

	r := &Registry{
		prefs:     prefs,
		known:     make(map[string]struct{}),
		favorites: make(map[string]struct{}, len(favorites)),
		order:     order,
	}
	for _, name := range favorites {
		r.favorites[name] = struct{}{}
	}
	return r, nil
}

// Register adds a category to the known set. Idempotent; empty names are
// ignored.
func (r *Registry) Register(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	r.known[name] = struct{}{}
}

// Sorted returns the display ordering: favorites first, then the persisted
// order index, then alphabetically for names absent from the order list.
// The comparator runs over the alphabetically sorted known set, so identical
// inputs always produce identical output.
func (r *Registry) Sorted() []string {
	names := make([]string, 0, len(r.known))
	for name := range r.known {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[string]int, len(r.order))
	for i, name := range r.order {
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		a, b := names[i], names[j]
		aFav := r.IsFavorite(a)
		bFav := r.IsFavorite(b)
		if aFav != bFav {
			return aFav
		}
		return lessByOrder(a, b, index)
	})
	return names
}

func lessByOrder(a, b string, index map[string]int) bool {
	ai, aOK := index[a]
	bi, bOK := index[b]
	switch {
	case !aOK && !bOK:
		return a < b
	case !aOK:
		return false
	case !bOK:
		return true
	default:
		return ai < bi
	}
}

// Reorder replaces the persisted order list verbatim. Known categories
// missing from the new list fall back to the alphabetical tail on the next
// sort; stale names are tolerated.
func (r *Registry) Reorder(ctx context.Context, names []string) error {
	order := append([]string(nil), names...)
	if err := r.prefs.SaveCategoryOrder(ctx, order); err != nil {
		return fmt.Errorf("persist category order: %w", err)
	}
	r.order = order
	return nil
}

// ToggleFavorite flips a category's favorite flag and persists the favorite
// set immediately.
func (r *Registry) ToggleFavorite(ctx context.Context, name string) error {
	if _, ok := r.favorites[name]; ok {
		delete(r.favorites, name)
	} else {
		r.favorites[name] = struct{}{}
	}

	favorites := make([]string, 0, len(r.favorites))
	for fav := range r.favorites {
		favorites = append(favorites, fav)
	}
	sort.Strings(favorites)

	if err := r.prefs.SaveFavoriteCategories(ctx, favorites); err != nil {
		// Undo the in-memory flip so state and storage stay aligned.
		if _, ok := r.favorites[name]; ok {
			delete(r.favorites, name)
		} else {
			r.favorites[name] = struct{}{}
		}
		return fmt.Errorf("persist favorite categories: %w", err)
	}
	return nil
}

func (r *Registry) IsFavorite(name string) bool {
	_, ok := r.favorites[name]
	return ok
}

// Order returns the persisted order list, for callers that need to derive a
// new ordering from the current one.
func (r *Registry) Order() []string {
	return append([]string(nil), r.order...)
}
