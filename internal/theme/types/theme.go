package types

// Theme is a color palette. Colors are space-separated RGB triples as the
// front-end's CSS variables expect.
type Theme struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Primary      string `json:"primary"`
	PrimaryDark  string `json:"primaryDark"`
	PrimaryLight string `json:"primaryLight"`
	Accent       string `json:"accent"`
	Gradient     string `json:"gradient"`
	Description  string `json:"description"`
}

// ThemeView is a theme plus the CSS variables to apply for it.
type ThemeView struct {
	Theme
	Variables map[string]string `json:"variables"`
}
