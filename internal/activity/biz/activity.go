package biz

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/lk2023060901/workspace-backend/internal/activity/types"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

var ErrAppNotFound = errors.New("active application not found")

// DefaultApps is the state every new session starts from.
func DefaultApps() []types.ActiveApp {
	return []types.ActiveApp{
		{ID: "chrome-1", Name: "Google Chrome", Icon: "chrome", Status: types.StatusRunning, StartTime: "10:32 AM"},
		{ID: "excel-1", Name: "Microsoft Excel", Icon: "file-text", Status: types.StatusRunning, StartTime: "09:15 AM"},
		{ID: "calc-1", Name: "Calculator", Icon: "calculator", Status: types.StatusSuspended, StartTime: "08:45 AM"},
		{ID: "settings-1", Name: "Control Panel", Icon: "settings", Status: types.StatusRunning, StartTime: "11:20 AM"},
	}
}

// ActivityUseCase tracks the running and suspended apps of each session.
type ActivityUseCase struct {
	mu       sync.Mutex
	sessions map[string][]types.ActiveApp
	seed     func() []types.ActiveApp
	logger   *logger.Logger
}

// NewActivityUseCase returns a use case with no sessions.
func NewActivityUseCase(log *logger.Logger) *ActivityUseCase {
	return &ActivityUseCase{
		sessions: make(map[string][]types.ActiveApp),
		seed:     DefaultApps,
		logger:   log.Named("activity"),
	}
}

// List returns the session's apps, seeding them on first use.
func (uc *ActivityUseCase) List(_ context.Context, sessionID string) *types.ActivityList {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	apps := uc.appsLocked(sessionID)
	list := &types.ActivityList{Running: []types.ActiveApp{}, Suspended: []types.ActiveApp{}, Total: len(apps)}
	for _, a := range apps {
		if a.Status == types.StatusRunning {
			list.Running = append(list.Running, a)
		} else {
			list.Suspended = append(list.Suspended, a)
		}
	}
	return list
}

// Toggle switches an app between running and suspended.
func (uc *ActivityUseCase) Toggle(ctx context.Context, sessionID, appID string) (*types.ActiveApp, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	apps := uc.appsLocked(sessionID)
	i := slices.IndexFunc(apps, func(a types.ActiveApp) bool { return a.ID == appID })
	if i < 0 {
		return nil, ErrAppNotFound
	}

	if apps[i].Status == types.StatusRunning {
		apps[i].Status = types.StatusSuspended
	} else {
		apps[i].Status = types.StatusRunning
	}
	app := apps[i]

	uc.logger.WithContext(ctx).Debug("app toggled", zap.String("app_id", appID), zap.String("status", string(app.Status)))
	return &app, nil
}

// Stop removes an app from the session.
func (uc *ActivityUseCase) Stop(ctx context.Context, sessionID, appID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	apps := uc.appsLocked(sessionID)
	i := slices.IndexFunc(apps, func(a types.ActiveApp) bool { return a.ID == appID })
	if i < 0 {
		return ErrAppNotFound
	}
	uc.sessions[sessionID] = slices.Delete(apps, i, i+1)

	uc.logger.WithContext(ctx).Debug("app stopped", zap.String("app_id", appID))
	return nil
}

// Clear forgets the session.
func (uc *ActivityUseCase) Clear(_ context.Context, sessionID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.sessions, sessionID)
}

func (uc *ActivityUseCase) appsLocked(sessionID string) []types.ActiveApp {
	apps, ok := uc.sessions[sessionID]
	if !ok {
		apps = uc.seed()
		uc.sessions[sessionID] = apps
	}
	return apps
}
