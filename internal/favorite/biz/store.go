package biz

import (
	"slices"
	"sync"

	"github.com/lk2023060901/workspace-backend/internal/favorite/types"
)

// Store holds one session's favorites in insertion order. It does not
// validate items; callers reject malformed input before calling Toggle.
type Store struct {
	mu       sync.RWMutex
	items    []types.FavoriteItem
	revision uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Toggle removes the entry with item's (id, type) if present, otherwise
// appends item. It reports whether the item is a favorite afterwards.
func (s *Store) Toggle(item types.FavoriteItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revision++
	key := item.Key()
	if i := s.indexOf(key); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		return false
	}
	s.items = append(s.items, item)
	return true
}

// IsFavorite reports whether the (id, t) entry is present.
func (s *Store) IsFavorite(id string, t types.ItemType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(types.Key{ID: id, Type: t}) >= 0
}

// FavoriteApps returns every entry that is not a desktop.
func (s *Store) FavoriteApps() []types.FavoriteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterByType(s.items, func(t types.ItemType) bool { return t != types.ItemTypeDesktop })
}

// FavoriteDesktops returns every desktop entry.
func (s *Store) FavoriteDesktops() []types.FavoriteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterByType(s.items, func(t types.ItemType) bool { return t == types.ItemTypeDesktop })
}

// All returns a copy of every entry in insertion order.
func (s *Store) All() []types.FavoriteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Revision increases on every Toggle.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns the partitioned list and the revision it was taken at,
// read under a single lock.
func (s *Store) Snapshot() *types.FavoriteList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := FilterByType(s.items, func(t types.ItemType) bool { return t != types.ItemTypeDesktop })
	desktops := FilterByType(s.items, func(t types.ItemType) bool { return t == types.ItemTypeDesktop })
	return &types.FavoriteList{
		Apps:     apps,
		Desktops: desktops,
		Total:    len(apps) + len(desktops),
		Revision: s.revision,
	}
}

func (s *Store) indexOf(key types.Key) int {
	return slices.IndexFunc(s.items, func(f types.FavoriteItem) bool {
		return f.Key() == key
	})
}

// FilterByType returns the items whose type satisfies keep, in order. The
// result never aliases items.
func FilterByType(items []types.FavoriteItem, keep func(types.ItemType) bool) []types.FavoriteItem {
	out := make([]types.FavoriteItem, 0, len(items))
	for _, it := range items {
		if keep(it.Type) {
			out = append(out, it)
		}
	}
	return out
}
