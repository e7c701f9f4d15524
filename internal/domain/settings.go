package domain

// ReaderTheme is the color scheme used inside the reader.
type ReaderTheme string

// Reader themes.
const (
	ThemeLight ReaderTheme = "light"
	ThemeDark  ReaderTheme = "dark"
	ThemeSepia ReaderTheme = "sepia"
)

// Valid reports whether the theme is one of the known values.
func (t ReaderTheme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSepia:
		return true
	}
	return false
}

// ScrollMode controls how the renderer paginates content.
type ScrollMode string

// Scroll modes.
const (
	ScrollModeScroll ScrollMode = "scroll"
	ScrollModePage   ScrollMode = "page"
)

// Valid reports whether the scroll mode is one of the known values.
func (m ScrollMode) Valid() bool {
	return m == ScrollModeScroll || m == ScrollModePage
}

// FontSizes is the discrete set of sizes the reader offers.
var FontSizes = []int{12, 14, 16, 18, 20, 22, 24}

// ValidFontSize reports whether size is one of FontSizes.
func ValidFontSize(size int) bool {
	for _, s := range FontSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ReaderSettings is the process-wide reader configuration. It applies to
// every book; there are no per-book overrides.
type ReaderSettings struct {
	FontSize   int         `json:"font_size"`
	Theme      ReaderTheme `json:"theme"`
	ScrollMode ScrollMode  `json:"scroll_mode"`
}

// DefaultReaderSettings returns the settings used when nothing is stored.
func DefaultReaderSettings() *ReaderSettings {
	return &ReaderSettings{
		FontSize:   16,
		Theme:      ThemeLight,
		ScrollMode: ScrollModeScroll,
	}
}

// AppTheme is the application-wide UI theme, stored separately from the
// reader settings.
type AppTheme string

// App themes.
const (
	AppThemeLight AppTheme = "light"
	AppThemeDark  AppTheme = "dark"
)

// Valid reports whether the app theme is one of the known values.
func (t AppTheme) Valid() bool {
	return t == AppThemeLight || t == AppThemeDark
}
