package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
library = /tmp/papers.db
export_dir = /tmp/exports

[canvas]
linewidth = large
eraser_size = 40
color = "#fd5865"
platform = darwin

[notify]
export = true
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
Palette: #ff0000, #00ff00
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.Library != "/tmp/papers.db" {
		t.Errorf("Expected library '/tmp/papers.db', got '%s'", cfg.Library)
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Errorf("Expected export_dir '/tmp/exports', got '%s'", cfg.ExportDir)
	}

	if cfg.Canvas.Linewidth != 8 || cfg.Canvas.EraserSize != 40 {
		t.Errorf("Unexpected canvas section: %+v", cfg.Canvas)
	}
	if cfg.Canvas.Color != "#fd5865" || cfg.Canvas.Platform != "darwin" {
		t.Errorf("Unexpected canvas section: %+v", cfg.Canvas)
	}

	if !cfg.Notify.Export {
		t.Error("Expected notify.export to be true")
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}

	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
	if len(theme.Palette) != 2 || theme.Palette[1].G != 0xff {
		t.Errorf("Unexpected palette: %+v", theme.Palette)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"[canvas]\nlinewidth = huge\n",
		"[canvas]\ncolor = red\n",
		"[notify]\nsave = maybe\n",
		"[theme.x]\nBackground = #12\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected an error for %q", input)
		}
	}
}

func TestDarkThemeSectionStartsFromDark(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[theme.dark]\nSelection = #ff00ff\n"))
	if err != nil {
		t.Fatal(err)
	}
	th := cfg.Themes["dark"]
	if th.Background.R != 0x25 || th.Selection.R != 0xff {
		t.Errorf("unexpected dark override: %+v", th)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
library = /home/user/papers.db
export_dir = /home/user/exports

[canvas]
linewidth = 3.5
eraser_size = 25
color = #2e9ceb

[notify]
export = true
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.Library != cfg2.Library || cfg.ExportDir != cfg2.ExportDir {
		t.Errorf("Path mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Canvas != cfg2.Canvas {
		t.Errorf("Canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if t1.Background != t2.Background {
		t.Errorf("Theme background mismatch: %v vs %v", t1.Background, t2.Background)
	}
	if len(t1.Palette) != len(t2.Palette) {
		t.Errorf("Palette mismatch: %v vs %v", t1.Palette, t2.Palette)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.rc")
	if err := os.WriteFile(path, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader("v1.0.0", path)
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("override not loaded: %+v", cfg)
	}
}

func TestLoaderNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	l := NewLoader("v1.0.0", "")
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "" || cfg.Themes == nil {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
