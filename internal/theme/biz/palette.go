package biz

import "github.com/lk2023060901/workspace-backend/internal/theme/types"

const DefaultTheme = "blue"

var palettes = []types.Theme{
	{Name: "blue", Label: "Ocean Blue", Primary: "59 130 246", PrimaryDark: "37 99 235", PrimaryLight: "147 197 253", Accent: "219 234 254", Gradient: "from-blue-500 to-blue-600", Description: "Professional and trustworthy"},
	{Name: "indigo", Label: "Deep Indigo", Primary: "99 102 241", PrimaryDark: "79 70 229", PrimaryLight: "165 180 252", Accent: "224 231 255", Gradient: "from-indigo-500 to-indigo-600", Description: "Modern and sophisticated"},
	{Name: "purple", Label: "Royal Purple", Primary: "147 51 234", PrimaryDark: "126 34 206", PrimaryLight: "196 181 253", Accent: "243 232 255", Gradient: "from-purple-500 to-purple-600", Description: "Creative and innovative"},
	{Name: "emerald", Label: "Emerald Green", Primary: "16 185 129", PrimaryDark: "5 150 105", PrimaryLight: "110 231 183", Accent: "209 250 229", Gradient: "from-emerald-500 to-emerald-600", Description: "Growth and sustainability"},
	{Name: "orange", Label: "Vibrant Orange", Primary: "249 115 22", PrimaryDark: "234 88 12", PrimaryLight: "253 186 116", Accent: "255 237 213", Gradient: "from-orange-500 to-orange-600", Description: "Energetic and dynamic"},
	{Name: "teal", Label: "Corporate Teal", Primary: "20 184 166", PrimaryDark: "13 148 136", PrimaryLight: "94 234 212", Accent: "204 251 241", Gradient: "from-teal-500 to-teal-600", Description: "Balanced and reliable"},
	{Name: "rose", Label: "Elegant Rose", Primary: "244 63 94", PrimaryDark: "225 29 72", PrimaryLight: "253 164 175", Accent: "255 228 230", Gradient: "from-rose-500 to-rose-600", Description: "Warm and approachable"},
	{Name: "slate", Label: "Executive Slate", Primary: "100 116 139", PrimaryDark: "71 85 105", PrimaryLight: "148 163 184", Accent: "241 245 249", Gradient: "from-slate-500 to-slate-600", Description: "Professional and neutral"},
}

// Themes returns every palette in display order.
func Themes() []types.Theme {
	out := make([]types.Theme, len(palettes))
	copy(out, palettes)
	return out
}

// Get looks up a palette by name.
func Get(name string) (types.Theme, bool) {
	for _, p := range palettes {
		if p.Name == name {
			return p, true
		}
	}
	return types.Theme{}, false
}

// CSSVariables maps the custom properties the client sets on its root
// element. The accops-blue pair follows the primary colors.
func CSSVariables(t types.Theme) map[string]string {
	return map[string]string{
		"--primary":          t.Primary,
		"--primary-dark":     t.PrimaryDark,
		"--primary-light":    t.PrimaryLight,
		"--accent":           t.Accent,
		"--theme-gradient":   t.Gradient,
		"--accops-blue":      t.Primary,
		"--accops-blue-dark": t.PrimaryDark,
	}
}

// View pairs t with its CSS variables.
func View(t types.Theme) *types.ThemeView {
	return &types.ThemeView{Theme: t, Variables: CSSVariables(t)}
}
