package biz

import (
	"context"
	"errors"
	"fmt"

	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/theme/types"
	"go.uber.org/zap"
)

var (
	ErrUnknownTheme       = errors.New("unknown theme")
	ErrPreferenceNotFound = errors.New("theme preference not found")
)

// PreferenceRepo stores the chosen theme name per owner.
type PreferenceRepo interface {
	// Get returns ErrPreferenceNotFound when owner has no preference.
	Get(ctx context.Context, owner string) (string, error)
	Set(ctx context.Context, owner, name string) error
}

// ThemeUseCase resolves and stores each user's theme.
type ThemeUseCase struct {
	repo         PreferenceRepo
	defaultTheme types.Theme
	logger       *logger.Logger
}

// NewThemeUseCase falls back to blue when defaultName is not a palette.
func NewThemeUseCase(repo PreferenceRepo, defaultName string, log *logger.Logger) *ThemeUseCase {
	def, ok := Get(defaultName)
	if !ok {
		def, _ = Get(DefaultTheme)
	}
	return &ThemeUseCase{repo: repo, defaultTheme: def, logger: log.Named("theme")}
}

// Preference returns owner's theme, or the default when none is stored, the
// stored name is no longer a palette, or the store cannot be read.
func (uc *ThemeUseCase) Preference(ctx context.Context, owner string) *types.ThemeView {
	name, err := uc.repo.Get(ctx, owner)
	if err != nil {
		if !errors.Is(err, ErrPreferenceNotFound) {
			uc.logger.WithContext(ctx).Warn("read theme preference failed", zap.String("owner", owner), zap.Error(err))
		}
		return View(uc.defaultTheme)
	}

	t, ok := Get(name)
	if !ok {
		return View(uc.defaultTheme)
	}
	return View(t)
}

// SetPreference stores name for owner. Unknown names return ErrUnknownTheme.
func (uc *ThemeUseCase) SetPreference(ctx context.Context, owner, name string) (*types.ThemeView, error) {
	t, ok := Get(name)
	if !ok {
		return nil, ErrUnknownTheme
	}
	if err := uc.repo.Set(ctx, owner, t.Name); err != nil {
		return nil, fmt.Errorf("failed to store theme preference: %w", err)
	}

	uc.logger.WithContext(ctx).Debug("theme preference updated", zap.String("owner", owner), zap.String("theme", t.Name))
	return View(t), nil
}
