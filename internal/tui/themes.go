package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// BUCKETUSAGE_THEME_DIR can point to one or more additional theme directories
// (path-list separated, e.g. ":" on unix, ";" on Windows).
const themeDirEnvVar = "BUCKETUSAGE_THEME_DIR"

const DefaultThemeName = "Catppuccin Mocha"

// Theme is the color token set the dashboard renders with.
//
// External themes are JSON files with matching snake_case fields,
// for example: {"name":"My Theme","base":"#111111",...}.
type Theme struct {
	Name string `json:"name"`
	Icon string `json:"icon"`

	Base     lipgloss.Color `json:"base"`
	Surface1 lipgloss.Color `json:"surface1"`

	Text    lipgloss.Color `json:"text"`
	Subtext lipgloss.Color `json:"subtext"`
	Dim     lipgloss.Color `json:"dim"`

	Accent   lipgloss.Color `json:"accent"`
	Blue     lipgloss.Color `json:"blue"`
	Green    lipgloss.Color `json:"green"`
	Yellow   lipgloss.Color `json:"yellow"`
	Red      lipgloss.Color `json:"red"`
	Teal     lipgloss.Color `json:"teal"`
	Peach    lipgloss.Color `json:"peach"`
	Lavender lipgloss.Color `json:"lavender"`
}

func builtinThemes() []Theme {
	return []Theme{
		{
			Name: "Catppuccin Mocha", Icon: "🐱",
			Base: "#1E1E2E", Surface1: "#45475A",
			Text: "#CDD6F4", Subtext: "#A6ADC8", Dim: "#585B70",
			Accent: "#CBA6F7", Blue: "#89B4FA", Green: "#A6E3A1", Yellow: "#F9E2AF",
			Red: "#F38BA8", Teal: "#94E2D5", Peach: "#FAB387", Lavender: "#B4BEFE",
		},
		{
			Name: "Gruvbox", Icon: "🌻",
			Base: "#282828", Surface1: "#504945",
			Text: "#EBDBB2", Subtext: "#D5C4A1", Dim: "#665C54",
			Accent: "#D3869B", Blue: "#83A598", Green: "#B8BB26", Yellow: "#FABD2F",
			Red: "#FB4934", Teal: "#8EC07C", Peach: "#FE8019", Lavender: "#D3869B",
		},
		{
			Name: "Dracula", Icon: "🧛",
			Base: "#282A36", Surface1: "#6272A4",
			Text: "#F8F8F2", Subtext: "#BFBFBF", Dim: "#6272A4",
			Accent: "#BD93F9", Blue: "#8BE9FD", Green: "#50FA7B", Yellow: "#F1FA8C",
			Red: "#FF5555", Teal: "#8BE9FD", Peach: "#FFB86C", Lavender: "#BD93F9",
		},
		{
			Name: "Nord", Icon: "❄",
			Base: "#2E3440", Surface1: "#434C5E",
			Text: "#ECEFF4", Subtext: "#D8DEE9", Dim: "#4C566A",
			Accent: "#B48EAD", Blue: "#81A1C1", Green: "#A3BE8C", Yellow: "#EBCB8B",
			Red: "#BF616A", Teal: "#8FBCBB", Peach: "#D08770", Lavender: "#B48EAD",
		},
		{
			Name: "Tokyo Night", Icon: "🌃",
			Base: "#1A1B26", Surface1: "#414868",
			Text: "#C0CAF5", Subtext: "#A9B1D6", Dim: "#565F89",
			Accent: "#BB9AF7", Blue: "#7AA2F7", Green: "#9ECE6A", Yellow: "#E0AF68",
			Red: "#F7768E", Teal: "#73DACA", Peach: "#FF9E64", Lavender: "#BB9AF7",
		},
		{
			Name: "Solarized Dark", Icon: "🌅",
			Base: "#002B36", Surface1: "#0E3A45",
			Text: "#93A1A1", Subtext: "#839496", Dim: "#586E75",
			Accent: "#D33682", Blue: "#268BD2", Green: "#859900", Yellow: "#B58900",
			Red: "#DC322F", Teal: "#2AA198", Peach: "#CB4B16", Lavender: "#6C71C4",
		},
		{
			Name: "Rose Pine", Icon: "🌹",
			Base: "#191724", Surface1: "#26233A",
			Text: "#E0DEF4", Subtext: "#908CAA", Dim: "#6E6A86",
			Accent: "#C4A7E7", Blue: "#9CCFD8", Green: "#9CCFD8", Yellow: "#F6C177",
			Red: "#EB6F92", Teal: "#9CCFD8", Peach: "#EA9A97", Lavender: "#C4A7E7",
		},
		{
			Name: "Grayscale", Icon: "⬛",
			Base: "#000000", Surface1: "#2A2A2A",
			Text: "#F5F5F5", Subtext: "#D6D6D6", Dim: "#A8A8A8",
			Accent: "#FFFFFF", Blue: "#E8E8E8", Green: "#D0D0D0", Yellow: "#BEBEBE",
			Red: "#AAAAAA", Teal: "#CCCCCC", Peach: "#ECECEC", Lavender: "#D9D9D9",
		},
	}
}

func trimColor(c lipgloss.Color) lipgloss.Color {
	return lipgloss.Color(strings.TrimSpace(string(c)))
}

func normalizeTheme(in Theme) Theme {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.Icon == "" {
		in.Icon = "🎨"
	}
	for _, c := range in.colors() {
		*c.value = trimColor(*c.value)
	}
	return in
}

type themeColor struct {
	name  string
	value *lipgloss.Color
}

func (t *Theme) colors() []themeColor {
	return []themeColor{
		{"base", &t.Base}, {"surface1", &t.Surface1},
		{"text", &t.Text}, {"subtext", &t.Subtext}, {"dim", &t.Dim},
		{"accent", &t.Accent}, {"blue", &t.Blue}, {"green", &t.Green}, {"yellow", &t.Yellow},
		{"red", &t.Red}, {"teal", &t.Teal}, {"peach", &t.Peach}, {"lavender", &t.Lavender},
	}
}

func (t Theme) validate() error {
	if t.Name == "" {
		return fmt.Errorf("missing required field: name")
	}
	missing := lo.FilterMap(t.colors(), func(c themeColor, _ int) (string, bool) {
		return c.name, strings.TrimSpace(string(*c.value)) == ""
	})
	if len(missing) > 0 {
		return fmt.Errorf("missing required color fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Catalog is an ordered, immutable set of themes. It is passed around by
// value; nothing in the package holds an active theme.
type Catalog struct {
	themes []Theme
}

func BuiltinCatalog() Catalog {
	return Catalog{themes: builtinThemes()}
}

// LoadCatalog merges the built-in themes with JSON theme files from
//  1. <configDir>/themes
//  2. each path in BUCKETUSAGE_THEME_DIR (path-list separated)
//
// Invalid theme files are skipped. The returned error aggregates the files
// that failed; the catalog is usable either way.
func LoadCatalog(configDir string) (Catalog, error) {
	all := builtinThemes()
	var errs []error
	for _, dir := range themeSearchDirs(configDir) {
		loaded, err := loadThemesFromDir(dir)
		if err != nil {
			errs = append(errs, err)
		}
		all = mergeThemes(all, loaded)
	}
	return Catalog{themes: all}, errors.Join(errs...)
}

func (c Catalog) Themes() []Theme {
	return append([]Theme(nil), c.themes...)
}

func (c Catalog) Names() []string {
	return lo.Map(c.themes, func(t Theme, _ int) string { return t.Name })
}

// Lookup finds a theme by name, ignoring case.
func (c Catalog) Lookup(name string) (Theme, bool) {
	idx := c.indexOf(name)
	if idx < 0 {
		return Theme{}, false
	}
	return c.themes[idx], true
}

// Resolve returns the named theme, falling back to the default theme.
func (c Catalog) Resolve(name string) Theme {
	if t, ok := c.Lookup(name); ok {
		return t
	}
	if t, ok := c.Lookup(DefaultThemeName); ok {
		return t
	}
	if len(c.themes) > 0 {
		return c.themes[0]
	}
	return builtinThemes()[0]
}

// Next returns the theme after name, wrapping around.
func (c Catalog) Next(name string) Theme {
	if len(c.themes) == 0 {
		return c.Resolve(name)
	}
	idx := c.indexOf(name)
	return c.themes[(idx+1)%len(c.themes)]
}

func (c Catalog) indexOf(name string) int {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return -1
	}
	_, idx, ok := lo.FindIndexOf(c.themes, func(t Theme) bool {
		return strings.ToLower(t.Name) == needle
	})
	if !ok {
		return -1
	}
	return idx
}

func themeSearchDirs(configDir string) []string {
	var dirs []string
	if strings.TrimSpace(configDir) != "" {
		dirs = append(dirs, filepath.Join(configDir, "themes"))
	}
	if env := strings.TrimSpace(os.Getenv(themeDirEnvVar)); env != "" {
		dirs = append(dirs, strings.Split(env, string(os.PathListSeparator))...)
	}
	dirs = lo.FilterMap(dirs, func(d string, _ int) (string, bool) {
		d = strings.TrimSpace(d)
		return filepath.Clean(d), d != ""
	})
	return lo.Uniq(dirs)
}

func loadThemesFromDir(dir string) ([]Theme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read theme dir %s: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var loaded []Theme
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, readErr))
			continue
		}

		var t Theme
		if unmarshalErr := json.Unmarshal(data, &t); unmarshalErr != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, unmarshalErr))
			continue
		}

		t = normalizeTheme(t)
		if validateErr := t.validate(); validateErr != nil {
			errs = append(errs, fmt.Errorf("validate %s: %w", path, validateErr))
			continue
		}
		loaded = append(loaded, t)
	}

	return loaded, errors.Join(errs...)
}

// mergeThemes appends extra to base; a theme with an existing name replaces it in place.
func mergeThemes(base, extra []Theme) []Theme {
	if len(extra) == 0 {
		return base
	}
	merged := append([]Theme(nil), base...)
	indexByName := make(map[string]int, len(merged))
	for i, t := range merged {
		indexByName[strings.ToLower(t.Name)] = i
	}
	for _, t := range extra {
		k := strings.ToLower(t.Name)
		if i, ok := indexByName[k]; ok {
			merged[i] = t
			continue
		}
		indexByName[k] = len(merged)
		merged = append(merged, t)
	}
	return merged
}
