package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/papers/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Save   bool
	Copy   bool
}

// Canvas holds the drawing defaults of new canvases.
type Canvas struct {
	Linewidth  float64
	EraserSize float64
	Color      string
	// Platform picks the shortcut modifier: "darwin" uses cmd. Empty means
	// the platform the program runs on.
	Platform string
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	Library   string
	ExportDir string
	Canvas    Canvas
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Notify: Notify{
			Export: false,
			Save:   false,
			Copy:   false,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.Library != "" {
		fmt.Fprintf(&sb, "library = %s\n", c.Library)
	}
	if c.ExportDir != "" {
		fmt.Fprintf(&sb, "export_dir = %s\n", c.ExportDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	if c.Canvas.Linewidth > 0 {
		fmt.Fprintf(&sb, "linewidth = %s\n", strconv.FormatFloat(c.Canvas.Linewidth, 'f', -1, 64))
	}
	if c.Canvas.EraserSize > 0 {
		fmt.Fprintf(&sb, "eraser_size = %s\n", strconv.FormatFloat(c.Canvas.EraserSize, 'f', -1, 64))
	}
	if c.Canvas.Color != "" {
		fmt.Fprintf(&sb, "color = %q\n", c.Canvas.Color)
	}
	if c.Canvas.Platform != "" {
		fmt.Fprintf(&sb, "platform = %s\n", c.Canvas.Platform)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fmt.Fprintf(&sb, "Background: %s\n", theme.ToHex(t.Background))
		fmt.Fprintf(&sb, "Foreground: %s\n", theme.ToHex(t.Foreground))
		fmt.Fprintf(&sb, "DefaultStroke: %s\n", theme.ToHex(t.DefaultStroke))
		fmt.Fprintf(&sb, "EraserCursor: %s\n", theme.ToHex(t.EraserCursor))
		fmt.Fprintf(&sb, "Selection: %s\n", theme.ToHex(t.Selection))
		fmt.Fprintf(&sb, "StatusBar: %s\n", theme.ToHex(t.StatusBar))
		if len(t.Palette) > 0 {
			fmt.Fprintf(&sb, "Palette: %s\n", strings.Join(t.PaletteHex(), ", "))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
