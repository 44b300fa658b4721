package biz

import (
	"context"
	"errors"
	"sync"

	"github.com/lk2023060901/workspace-backend/internal/favorite/types"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrInvalidFavorite     = errors.New("favorite item requires an id and a valid type")
	ErrInvalidType         = errors.New("unknown item type")
	ErrCatalogItemNotFound = errors.New("catalog item not found")
)

// CatalogSource resolves a catalog entry to the snapshot that gets favorited.
type CatalogSource interface {
	FavoriteSnapshot(ctx context.Context, t types.ItemType, id string) (types.FavoriteItem, bool)
}

// Publisher receives a session's list after every change to it.
type Publisher interface {
	Publish(sessionID string, list *types.FavoriteList)
}

// FavoriteUseCase scopes favorite operations to a session.
type FavoriteUseCase struct {
	registry  *Registry
	catalog   CatalogSource
	publisher Publisher
	logger    *logger.Logger

	// publishMu orders publishes and Watch snapshots, so lists reach a
	// subscriber in revision order.
	publishMu sync.Mutex
}

// NewFavoriteUseCase returns a use case over registry. catalog resolves
// ToggleCatalogItem lookups.
func NewFavoriteUseCase(registry *Registry, catalog CatalogSource, log *logger.Logger) *FavoriteUseCase {
	return &FavoriteUseCase{
		registry: registry,
		catalog:  catalog,
		logger:   log.Named("favorite"),
	}
}

// SetPublisher must be called before the use case serves requests.
func (uc *FavoriteUseCase) SetPublisher(p Publisher) {
	uc.publisher = p
}

// publish sends the session's current list. The list is read under
// publishMu, so a later publish never carries an older list.
func (uc *FavoriteUseCase) publish(ctx context.Context, sessionID string) {
	if uc.publisher == nil {
		return
	}
	uc.publishMu.Lock()
	defer uc.publishMu.Unlock()
	uc.publisher.Publish(sessionID, uc.List(ctx, sessionID))
}

// Watch hands the session's current list to subscribe while no change can be
// published. A subscriber that registers for changes inside subscribe sees
// every change made after the list it was given.
func (uc *FavoriteUseCase) Watch(ctx context.Context, sessionID string, subscribe func(list *types.FavoriteList)) {
	uc.publishMu.Lock()
	defer uc.publishMu.Unlock()
	subscribe(uc.List(ctx, sessionID))
}

// Toggle flips membership of item in the session's favorites.
func (uc *FavoriteUseCase) Toggle(ctx context.Context, sessionID string, item types.FavoriteItem) (*types.ToggleResult, error) {
	if item.ID == "" || item.Type == "" {
		return nil, ErrInvalidFavorite
	}
	if !item.Type.Valid() {
		return nil, ErrInvalidType
	}

	fav := uc.registry.Get(sessionID).Toggle(item)
	uc.logger.WithContext(ctx).Debug("favorite toggled",
		zap.String("session_id", sessionID),
		zap.String("id", item.ID),
		zap.String("type", string(item.Type)),
		zap.Bool("favorite", fav),
	)
	uc.publish(ctx, sessionID)
	return &types.ToggleResult{Favorite: fav, Item: item}, nil
}

// ToggleCatalogItem toggles the catalog's snapshot of (t, id).
func (uc *FavoriteUseCase) ToggleCatalogItem(ctx context.Context, sessionID string, t types.ItemType, id string) (*types.ToggleResult, error) {
	if !t.Valid() {
		return nil, ErrInvalidType
	}
	item, ok := uc.catalog.FavoriteSnapshot(ctx, t, id)
	if !ok {
		return nil, ErrCatalogItemNotFound
	}
	return uc.Toggle(ctx, sessionID, item)
}

// IsFavorite never creates a store for an unknown session.
func (uc *FavoriteUseCase) IsFavorite(_ context.Context, sessionID, id string, t types.ItemType) bool {
	s, ok := uc.registry.Peek(sessionID)
	if !ok {
		return false
	}
	return s.IsFavorite(id, t)
}

// List returns the session's favorites split into apps and desktops.
func (uc *FavoriteUseCase) List(_ context.Context, sessionID string) *types.FavoriteList {
	s, ok := uc.registry.Peek(sessionID)
	if !ok {
		return &types.FavoriteList{Apps: []types.FavoriteItem{}, Desktops: []types.FavoriteItem{}}
	}
	return s.Snapshot()
}

// Clear drops the session's favorites.
func (uc *FavoriteUseCase) Clear(ctx context.Context, sessionID string) {
	uc.registry.Drop(sessionID)
	uc.publish(ctx, sessionID)
	uc.logger.WithContext(ctx).Debug("favorites cleared", zap.String("session_id", sessionID))
}
