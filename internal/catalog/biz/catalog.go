package biz

import (
	"context"
	"errors"
	"strings"

	"github.com/lk2023060901/workspace-backend/internal/catalog/types"
	ftypes "github.com/lk2023060901/workspace-backend/internal/favorite/types"
)

var (
	ErrItemNotFound = errors.New("catalog item not found")
	ErrInvalidKind  = errors.New("unknown catalog kind")
)

// CatalogRepo is the read-only source of catalog data.
type CatalogRepo interface {
	Items(ctx context.Context, kind ftypes.ItemType) []types.CatalogItem
	Item(ctx context.Context, kind ftypes.ItemType, id string) (types.CatalogItem, bool)
	RecentDesktops(ctx context.Context) []types.CatalogItem
	Connections(ctx context.Context) []types.RemoteConnection
	Sidebar(ctx context.Context) []types.SidebarEntry
}

// FavoriteChecker reports per-session favorite membership.
type FavoriteChecker interface {
	IsFavorite(ctx context.Context, sessionID, id string, t ftypes.ItemType) bool
}

// CatalogUseCase serves catalog pages annotated with the session's favorites.
type CatalogUseCase struct {
	repo      CatalogRepo
	favorites FavoriteChecker
}

// NewCatalogUseCase returns a use case reading from repo.
func NewCatalogUseCase(repo CatalogRepo, favorites FavoriteChecker) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, favorites: favorites}
}

// List returns the items of kind whose name contains query, ignoring case.
func (uc *CatalogUseCase) List(ctx context.Context, sessionID string, kind ftypes.ItemType, query string) ([]types.ItemView, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	items := filterItems(uc.repo.Items(ctx, kind), query)
	return uc.annotate(ctx, sessionID, items), nil
}

// Get returns one entry, or ErrItemNotFound.
func (uc *CatalogUseCase) Get(ctx context.Context, sessionID string, kind ftypes.ItemType, id string) (*types.ItemView, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	item, ok := uc.repo.Item(ctx, kind, id)
	if !ok {
		return nil, ErrItemNotFound
	}
	return &uc.annotate(ctx, sessionID, []types.CatalogItem{item})[0], nil
}

// Desktops splits the desktop catalog into its SHD and VDI groups.
func (uc *CatalogUseCase) Desktops(ctx context.Context, sessionID string, query string) *types.DesktopGroups {
	views := uc.annotate(ctx, sessionID, filterItems(uc.repo.Items(ctx, ftypes.ItemTypeDesktop), query))
	groups := &types.DesktopGroups{SHD: []types.ItemView{}, VDI: []types.ItemView{}}
	for _, v := range views {
		switch v.Group {
		case "SHD":
			groups.SHD = append(groups.SHD, v)
		case "VDI":
			groups.VDI = append(groups.VDI, v)
		}
	}
	return groups
}

// Connections matches query against connection name or host.
func (uc *CatalogUseCase) Connections(ctx context.Context, query string) *types.ConnectionList {
	q := strings.ToLower(strings.TrimSpace(query))
	all := uc.repo.Connections(ctx)

	matched := make([]types.RemoteConnection, 0, len(all))
	for _, c := range all {
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Host), q) {
			matched = append(matched, c)
		}
	}
	return &types.ConnectionList{Connections: matched, Stats: ConnectionStats(all)}
}

// ConnectionStats counts connections by status and protocol.
func ConnectionStats(conns []types.RemoteConnection) types.ConnectionStats {
	var s types.ConnectionStats
	for _, c := range conns {
		switch c.Status {
		case types.StatusConnected:
			s.Connected++
		case types.StatusDisconnected:
			s.Disconnected++
		case types.StatusConnecting:
			s.Connecting++
		}
		if c.Protocol == types.ProtocolRDP {
			s.RDP++
		}
	}
	s.Total = len(conns)
	return s
}

// Search matches query across every kind and the remote connections. An
// empty query matches nothing.
func (uc *CatalogUseCase) Search(ctx context.Context, sessionID, query string) *types.SearchResult {
	res := &types.SearchResult{
		Query:       query,
		Items:       []types.ItemView{},
		Connections: []types.RemoteConnection{},
	}
	if strings.TrimSpace(query) == "" {
		return res
	}

	for _, kind := range ftypes.ItemTypes {
		res.Items = append(res.Items, uc.annotate(ctx, sessionID, filterItems(uc.repo.Items(ctx, kind), query))...)
	}
	res.Connections = uc.Connections(ctx, query).Connections
	res.Total = len(res.Items) + len(res.Connections)
	return res
}

// Dashboard returns the home page sections for the session.
func (uc *CatalogUseCase) Dashboard(ctx context.Context, sessionID string) *types.Dashboard {
	return &types.Dashboard{
		RecentDesktops:     uc.annotate(ctx, sessionID, uc.repo.RecentDesktops(ctx)),
		RecentApplications: uc.annotate(ctx, sessionID, uc.repo.Items(ctx, ftypes.ItemTypeApplication)),
	}
}

// Sidebar returns the navigation entries.
func (uc *CatalogUseCase) Sidebar(ctx context.Context) []types.SidebarEntry {
	return uc.repo.Sidebar(ctx)
}

func (uc *CatalogUseCase) annotate(ctx context.Context, sessionID string, items []types.CatalogItem) []types.ItemView {
	views := make([]types.ItemView, len(items))
	for i, it := range items {
		views[i] = types.ItemView{
			CatalogItem: it,
			IsFavorite:  uc.favorites.IsFavorite(ctx, sessionID, it.ID, it.Kind),
		}
	}
	return views
}

func filterItems(items []types.CatalogItem, query string) []types.CatalogItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]types.CatalogItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return out
}
