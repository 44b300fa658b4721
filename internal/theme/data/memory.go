package data

import (
	"context"
	"sync"

	"github.com/lk2023060901/workspace-backend/internal/theme/biz"
)

// MemoryPreferenceRepo keeps preferences in process memory.
type MemoryPreferenceRepo struct {
	mu    sync.RWMutex
	prefs map[string]string
}

// NewMemoryPreferenceRepo returns an empty repo.
func NewMemoryPreferenceRepo() *MemoryPreferenceRepo {
	return &MemoryPreferenceRepo{prefs: make(map[string]string)}
}

// Get returns biz.ErrPreferenceNotFound for unknown owners.
func (r *MemoryPreferenceRepo) Get(_ context.Context, owner string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.prefs[owner]
	if !ok {
		return "", biz.ErrPreferenceNotFound
	}
	return name, nil
}

// Set stores name for owner.
func (r *MemoryPreferenceRepo) Set(_ context.Context, owner, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[owner] = name
	return nil
}
