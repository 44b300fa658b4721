package data

import (
	"context"
	"slices"

	"github.com/lk2023060901/workspace-backend/internal/catalog/types"
	ftypes "github.com/lk2023060901/workspace-backend/internal/favorite/types"
)

var virtualApplications = []types.CatalogItem{
	{ID: "chrome", Name: "Chrome", Icon: "🌐", Kind: ftypes.ItemTypeVirtual, BgColor: "bg-blue-100"},
	{ID: "excel", Name: "Excel", Icon: "📊", Kind: ftypes.ItemTypeVirtual, BgColor: "bg-green-100"},
	{ID: "word", Name: "Word", Icon: "📄", Kind: ftypes.ItemTypeVirtual, BgColor: "bg-blue-100"},
	{ID: "powerpoint", Name: "PowerPoint", Icon: "📈", Kind: ftypes.ItemTypeVirtual, BgColor: "bg-orange-100"},
	{ID: "teams", Name: "Teams", Icon: "👥", Kind: ftypes.ItemTypeVirtual, BgColor: "bg-purple-100"},
	{ID: "noteplus", Name: "Noteplus", Icon: "📝", Kind: ftypes.ItemTypeVirtual, BgColor: "bg-yellow-100"},
	{ID: "zoom", Name: "Zoom", Icon: "📹", Kind: ftypes.ItemTypeVirtual, BgColor: "bg-blue-100"},
}

// Dashboard "recent applications" tiles.
var applications = []types.CatalogItem{
	{ID: "chrome", Name: "Chrome", Icon: "🌐", Kind: ftypes.ItemTypeApplication, BgColor: "bg-blue-100"},
	{ID: "excel", Name: "Excel", Icon: "📊", Kind: ftypes.ItemTypeApplication, BgColor: "bg-green-100"},
	{ID: "noteplus", Name: "Noteplus", Icon: "📝", Kind: ftypes.ItemTypeApplication, BgColor: "bg-yellow-100"},
	{ID: "powerpoint", Name: "PowerPoint", Icon: "📈", Kind: ftypes.ItemTypeApplication, BgColor: "bg-orange-100"},
	{ID: "word", Name: "Word", Icon: "📄", Kind: ftypes.ItemTypeApplication, BgColor: "bg-blue-100"},
}

var desktops = []types.CatalogItem{
	{ID: "desktop1", Name: "SHD2K22", Icon: "💻", Kind: ftypes.ItemTypeDesktop, IsActive: true, Group: "SHD", Location: "Primary"},
	{ID: "desktop2", Name: "VDIO188.ACCOPS.COM", Icon: "✓", Kind: ftypes.ItemTypeDesktop, Group: "VDI", Location: "Production"},
	{ID: "desktop3", Name: "SHD-DEV01", Icon: "🖥️", Kind: ftypes.ItemTypeDesktop, Group: "SHD", Location: "Development"},
	{ID: "desktop4", Name: "VDI-PROD02", Icon: "🖥️", Kind: ftypes.ItemTypeDesktop, Group: "VDI", Location: "Production"},
	{ID: "desktop5", Name: "SHD-TEST03", Icon: "💻", Kind: ftypes.ItemTypeDesktop, Group: "SHD", Location: "Testing"},
	{ID: "desktop6", Name: "VDI-BACKUP01", Icon: "🖥️", Kind: ftypes.ItemTypeDesktop, Group: "VDI", Location: "Backup"},
	{ID: "desktop7", Name: "SHD-UAT04", Icon: "💻", Kind: ftypes.ItemTypeDesktop, Group: "SHD", Location: "UAT"},
	{ID: "desktop8", Name: "VDI-DR01", Icon: "🖥️", Kind: ftypes.ItemTypeDesktop, Group: "VDI", Location: "Disaster Recovery"},
}

// Dashboard "recent desktops" tiles, by desktop id.
var recentDesktopIDs = []string{"desktop1", "desktop2"}

var webApplications = []types.CatalogItem{
	{ID: "accopsai", Name: "AccopsAI", Icon: "🤖", Kind: ftypes.ItemTypeWeb, IsActive: true, BgColor: "bg-blue-100"},
	{ID: "ars", Name: "ARS", Icon: "🔄", Kind: ftypes.ItemTypeWeb, BgColor: "bg-green-100"},
	{ID: "aspl", Name: "ASPL", Icon: "🔄", Kind: ftypes.ItemTypeWeb, BgColor: "bg-purple-100"},
	{ID: "crm", Name: "CRM", Icon: "🔄", Kind: ftypes.ItemTypeWeb, IsActive: true, BgColor: "bg-orange-100"},
	{ID: "git", Name: "GIT", Icon: "🔄", Kind: ftypes.ItemTypeWeb, BgColor: "bg-gray-100"},
	{ID: "jenkins", Name: "Jenkins", Icon: "🔄", Kind: ftypes.ItemTypeWeb, BgColor: "bg-blue-100"},
	{ID: "portal", Name: "Portal", Icon: "🔄", Kind: ftypes.ItemTypeWeb, BgColor: "bg-indigo-100"},
	{ID: "support", Name: "Support", Icon: "🔄", Kind: ftypes.ItemTypeWeb, BgColor: "bg-red-100"},
}

var networkApplications = []types.CatalogItem{
	{ID: "aspl-turbo", Name: "ASPL-Turbo", Icon: "monitor", Kind: ftypes.ItemTypeNetwork, IsActive: true, BgColor: "bg-blue-100"},
	{ID: "ars-oracle", Name: "ARS-ORACLE", Icon: "monitor", Kind: ftypes.ItemTypeNetwork, BgColor: "bg-green-100"},
	{ID: "clientdev", Name: "ClientDevMachines", Icon: "monitor", Kind: ftypes.ItemTypeNetwork, IsActive: true, BgColor: "bg-purple-100"},
	{ID: "git-cloud", Name: "GIT-Cloud", Icon: "monitor", Kind: ftypes.ItemTypeNetwork, BgColor: "bg-orange-100"},
	{ID: "hsqa-virtual", Name: "HSQA-VIRTUAL", Icon: "monitor", Kind: ftypes.ItemTypeNetwork, BgColor: "bg-gray-100"},
	{ID: "prod-server", Name: "Production-Server", Icon: "monitor", Kind: ftypes.ItemTypeNetwork, BgColor: "bg-red-100"},
}

var connections = []types.RemoteConnection{
	{ID: "rdp1", Name: "Production Server", Protocol: types.ProtocolRDP, Host: "192.168.1.100", Port: 3389, Status: types.StatusConnected, LastConnected: "2 minutes ago"},
	{ID: "ssh1", Name: "Development SSH", Protocol: types.ProtocolSSH, Host: "dev.example.com", Port: 22, Status: types.StatusDisconnected, LastConnected: "1 hour ago"},
	{ID: "vnc1", Name: "Graphics Workstation", Protocol: types.ProtocolVNC, Host: "192.168.1.50", Port: 5900, Status: types.StatusDisconnected, LastConnected: "Yesterday"},
	{ID: "rdp2", Name: "Test Environment", Protocol: types.ProtocolRDP, Host: "test.local", Port: 3389, Status: types.StatusConnecting, LastConnected: "5 minutes ago"},
}

var sidebar = []types.SidebarEntry{
	{Label: "Favorites", Path: "/dashboard", Icon: "star"},
	{Label: "Virtual Applications", Path: "/virtual-applications", Icon: "settings"},
	{Label: "Virtual Desktops", Path: "/virtual-desktops", Icon: "monitor"},
	{Label: "Web Applications", Path: "/web-applications", Icon: "globe"},
	{Label: "Network Applications", Path: "/network-applications", Icon: "network"},
}

// StaticRepo serves the built-in catalog. Every method returns copies.
type StaticRepo struct {
	byKind map[ftypes.ItemType][]types.CatalogItem
}

// NewStaticRepo returns the built-in catalog.
func NewStaticRepo() *StaticRepo {
	return &StaticRepo{
		byKind: map[ftypes.ItemType][]types.CatalogItem{
			ftypes.ItemTypeApplication: applications,
			ftypes.ItemTypeDesktop:     desktops,
			ftypes.ItemTypeWeb:         webApplications,
			ftypes.ItemTypeNetwork:     networkApplications,
			ftypes.ItemTypeVirtual:     virtualApplications,
		},
	}
}

// Items returns a copy of every entry of kind.
func (r *StaticRepo) Items(_ context.Context, kind ftypes.ItemType) []types.CatalogItem {
	return slices.Clone(r.byKind[kind])
}

// Item looks up one entry by kind and id.
func (r *StaticRepo) Item(ctx context.Context, kind ftypes.ItemType, id string) (types.CatalogItem, bool) {
	i := slices.IndexFunc(r.byKind[kind], func(c types.CatalogItem) bool { return c.ID == id })
	if i < 0 {
		return types.CatalogItem{}, false
	}
	return r.byKind[kind][i], true
}

// RecentDesktops returns the desktops shown first on the desktops page.
func (r *StaticRepo) RecentDesktops(ctx context.Context) []types.CatalogItem {
	out := make([]types.CatalogItem, 0, len(recentDesktopIDs))
	for _, id := range recentDesktopIDs {
		if d, ok := r.Item(ctx, ftypes.ItemTypeDesktop, id); ok {
			out = append(out, d)
		}
	}
	return out
}

// Connections returns a copy of the saved remote connections.
func (r *StaticRepo) Connections(_ context.Context) []types.RemoteConnection {
	return slices.Clone(connections)
}

// Sidebar returns the navigation entries.
func (r *StaticRepo) Sidebar(_ context.Context) []types.SidebarEntry {
	return slices.Clone(sidebar)
}

// FavoriteSnapshot returns the favorite snapshot for (t, id).
func (r *StaticRepo) FavoriteSnapshot(ctx context.Context, t ftypes.ItemType, id string) (ftypes.FavoriteItem, bool) {
	item, ok := r.Item(ctx, t, id)
	if !ok {
		return ftypes.FavoriteItem{}, false
	}
	return item.ToFavorite(), true
}
