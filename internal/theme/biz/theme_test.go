package biz

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu     sync.Mutex
	prefs  map[string]string
	getErr error
	setErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{prefs: make(map[string]string)}
}

func (r *fakeRepo) Get(_ context.Context, owner string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return "", r.getErr
	}
	name, ok := r.prefs[owner]
	if !ok {
		return "", ErrPreferenceNotFound
	}
	return name, nil
}

func (r *fakeRepo) Set(_ context.Context, owner, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.prefs[owner] = name
	return nil
}

func TestThemes(t *testing.T) {
	themes := Themes()
	require.Len(t, themes, 8)

	names := make([]string, 0, len(themes))
	for _, th := range themes {
		names = append(names, th.Name)
	}
	assert.Equal(t, []string{"blue", "indigo", "purple", "emerald", "orange", "teal", "rose", "slate"}, names)

	themes[0].Label = "mutated"
	blue, ok := Get("blue")
	require.True(t, ok)
	assert.Equal(t, "Ocean Blue", blue.Label)
}

func TestCSSVariables(t *testing.T) {
	rose, ok := Get("rose")
	require.True(t, ok)

	vars := CSSVariables(rose)
	assert.Equal(t, "244 63 94", vars["--primary"])
	assert.Equal(t, "225 29 72", vars["--primary-dark"])
	assert.Equal(t, "253 164 175", vars["--primary-light"])
	assert.Equal(t, "255 228 230", vars["--accent"])
	assert.Equal(t, "from-rose-500 to-rose-600", vars["--theme-gradient"])
	assert.Equal(t, vars["--primary"], vars["--accops-blue"])
	assert.Equal(t, vars["--primary-dark"], vars["--accops-blue-dark"])
}

func TestThemeUseCase_Preference(t *testing.T) {
	ctx := context.Background()

	t.Run("default when unset", func(t *testing.T) {
		uc := NewThemeUseCase(newFakeRepo(), "", logger.NewNop())
		assert.Equal(t, "blue", uc.Preference(ctx, "alice").Name)
	})

	t.Run("configured default", func(t *testing.T) {
		uc := NewThemeUseCase(newFakeRepo(), "teal", logger.NewNop())
		assert.Equal(t, "teal", uc.Preference(ctx, "alice").Name)
	})

	t.Run("stored name no longer a palette", func(t *testing.T) {
		repo := newFakeRepo()
		repo.prefs["alice"] = "neon"
		uc := NewThemeUseCase(repo, "blue", logger.NewNop())
		assert.Equal(t, "blue", uc.Preference(ctx, "alice").Name)
	})

	t.Run("read failure falls back", func(t *testing.T) {
		repo := newFakeRepo()
		repo.getErr = errors.New("connection refused")
		uc := NewThemeUseCase(repo, "blue", logger.NewNop())
		view := uc.Preference(ctx, "alice")
		assert.Equal(t, "blue", view.Name)
		assert.Equal(t, "59 130 246", view.Variables["--primary"])
	})
}

func TestThemeUseCase_SetPreference(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc := NewThemeUseCase(repo, "blue", logger.NewNop())

	view, err := uc.SetPreference(ctx, "alice", "emerald")
	require.NoError(t, err)
	assert.Equal(t, "Emerald Green", view.Label)
	assert.Equal(t, "emerald", uc.Preference(ctx, "alice").Name)
	assert.Equal(t, "blue", uc.Preference(ctx, "bob").Name)

	_, err = uc.SetPreference(ctx, "alice", "neon")
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.Equal(t, "emerald", uc.Preference(ctx, "alice").Name)

	boom := errors.New("disk full")
	repo.setErr = boom
	_, err = uc.SetPreference(ctx, "alice", "slate")
	assert.ErrorIs(t, err, boom)
}
