package shop

import "florist/internal/models"

// Favorites is the set of liked product ids. Iteration follows the order in
// which ids were added.
type Favorites struct {
	ids []int64
	set map[int64]struct{}
}

// Toggle flips membership of id and returns the new state.
func (f *Favorites) Toggle(id int64) bool {
	if f.set == nil {
		f.set = make(map[int64]struct{})
	}
	if _, ok := f.set[id]; ok {
		delete(f.set, id)
		for i, v := range f.ids {
			if v == id {
				f.ids = append(f.ids[:i], f.ids[i+1:]...)
				break
			}
		}
		return false
	}
	f.set[id] = struct{}{}
	f.ids = append(f.ids, id)
	return true
}

// Has reports whether id is a favorite.
func (f *Favorites) Has(id int64) bool {
	_, ok := f.set[id]
	return ok
}

// IDs returns the favorite ids in insertion order.
func (f *Favorites) IDs() []int64 {
	out := make([]int64, len(f.ids))
	copy(out, f.ids)
	return out
}

// Filter keeps the catalog products that are favorites, in catalog order.
// Favorite ids with no matching product are skipped.
func (f *Favorites) Filter(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(f.ids))
	for _, p := range products {
		if f.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}
