package types

// ItemType is the closed set of kinds an item can be favorited as.
type ItemType string

const (
	ItemTypeApplication ItemType = "application"
	ItemTypeDesktop     ItemType = "desktop"
	ItemTypeWeb         ItemType = "web"
	ItemTypeNetwork     ItemType = "network"
	ItemTypeVirtual     ItemType = "virtual"
)

// ItemTypes lists every valid ItemType.
var ItemTypes = []ItemType{
	ItemTypeApplication,
	ItemTypeDesktop,
	ItemTypeWeb,
	ItemTypeNetwork,
	ItemTypeVirtual,
}

// Valid reports whether t is one of ItemTypes.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeApplication, ItemTypeDesktop, ItemTypeWeb, ItemTypeNetwork, ItemTypeVirtual:
		return true
	}
	return false
}

// Key identifies a favorite. The same ID under two types is two favorites.
type Key struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`
}

// FavoriteItem is the snapshot stored when an item is favorited. Icon is an
// opaque token resolved by the client.
type FavoriteItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Type     ItemType `json:"type"`
	IsActive *bool    `json:"isActive,omitempty"`
	Category string   `json:"category,omitempty"`
	BgColor  string   `json:"bgColor,omitempty"`
	Location string   `json:"location,omitempty"`
}

// Key returns the identity of f.
func (f FavoriteItem) Key() Key {
	return Key{ID: f.ID, Type: f.Type}
}

// FavoriteList is the partitioned view returned to clients. Revision is the
// store revision the list was read at; a cleared session reports 0.
type FavoriteList struct {
	Apps     []FavoriteItem `json:"apps"`
	Desktops []FavoriteItem `json:"desktops"`
	Total    int            `json:"total"`
	Revision uint64         `json:"revision"`
}

// ToggleResult reports the membership of an item after a toggle.
type ToggleResult struct {
	Favorite bool         `json:"favorite"`
	Item     FavoriteItem `json:"item"`
}
