package types

import (
	"strings"

	ftypes "github.com/lk2023060901/workspace-backend/internal/favorite/types"
)

// CatalogItem is one launchable entry on a catalog page. Group is the desktop
// flavor (SHD or VDI) and is empty for everything else.
type CatalogItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Icon     string          `json:"icon"`
	Kind     ftypes.ItemType `json:"kind"`
	IsActive bool            `json:"isActive"`
	Category string          `json:"category,omitempty"`
	BgColor  string          `json:"bgColor,omitempty"`
	Location string          `json:"location,omitempty"`
	Group    string          `json:"group,omitempty"`
}

// ToFavorite builds the snapshot the catalog pages pass when toggling.
// Virtual and dashboard applications carry no activity flag.
func (c CatalogItem) ToFavorite() ftypes.FavoriteItem {
	f := ftypes.FavoriteItem{
		ID:       c.ID,
		Name:     c.Name,
		Icon:     c.Icon,
		Type:     c.Kind,
		Category: c.Category,
		BgColor:  c.BgColor,
		Location: c.Location,
	}
	switch c.Kind {
	case ftypes.ItemTypeDesktop, ftypes.ItemTypeWeb, ftypes.ItemTypeNetwork:
		active := c.IsActive
		f.IsActive = &active
	}
	return f
}

// ItemView is a catalog item annotated for the calling session.
type ItemView struct {
	CatalogItem
	IsFavorite bool `json:"isFavorite"`
}

// DesktopGroups splits desktops into the recent list and the named groups.
type DesktopGroups struct {
	SHD []ItemView `json:"shd"`
	VDI []ItemView `json:"vdi"`
}

// Protocol is the remote access protocol of a connection.
type Protocol string

const (
	ProtocolRDP Protocol = "RDP"
	ProtocolSSH Protocol = "SSH"
	ProtocolVNC Protocol = "VNC"
)

// ConnectionStatus is the live state of a remote connection.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
)

// RemoteConnection is one saved remote host.
type RemoteConnection struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Protocol      Protocol         `json:"type"`
	Host          string           `json:"host"`
	Port          int              `json:"port"`
	Status        ConnectionStatus `json:"status"`
	LastConnected string           `json:"lastConnected"`
}

// ConnectionStats counts connections by status.
type ConnectionStats struct {
	Connected    int `json:"connected"`
	Disconnected int `json:"disconnected"`
	Connecting   int `json:"connecting"`
	RDP          int `json:"rdp"`
	Total        int `json:"total"`
}

// ConnectionList is the connections page payload.
type ConnectionList struct {
	Connections []RemoteConnection `json:"connections"`
	Stats       ConnectionStats    `json:"stats"`
}

// SidebarEntry is one navigation link.
type SidebarEntry struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

// Dashboard is the home page payload.
type Dashboard struct {
	RecentDesktops     []ItemView `json:"recentDesktops"`
	RecentApplications []ItemView `json:"recentApplications"`
}

// SearchResult groups matches by catalog kind.
type SearchResult struct {
	Query       string             `json:"query"`
	Items       []ItemView         `json:"items"`
	Connections []RemoteConnection `json:"connections"`
	Total       int                `json:"total"`
}

// ParseKind accepts the item type names and the plural page names.
func ParseKind(s string) (ftypes.ItemType, bool) {
	k := ftypes.ItemType(strings.TrimSuffix(strings.ToLower(s), "s"))
	if !k.Valid() {
		return "", false
	}
	return k, true
}
