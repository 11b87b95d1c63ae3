package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# comment
Name: midnight
Background: #101010
DefaultStroke: #eeeeee80
Palette: #f00, #00ff00
Unknown: #123456
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "midnight" {
		t.Errorf("unexpected name %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x10, 0x10, 0xff}) {
		t.Errorf("unexpected background %+v", th.Background)
	}
	if th.DefaultStroke != (color.RGBA{0xee, 0xee, 0xee, 0x80}) {
		t.Errorf("unexpected stroke %+v", th.DefaultStroke)
	}
	if len(th.Palette) != 2 || th.Palette[0] != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("unexpected palette %+v", th.Palette)
	}
	if th.EraserCursor != Default().EraserCursor {
		t.Error("missing keys should keep defaults")
	}
}

func TestParseInvalidColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: red")); err == nil {
		t.Fatal("expected error for colour without #")
	}
}

func TestEmbeddedThemesMatchDefaults(t *testing.T) {
	l := &Loader{ConfigDir: t.TempDir(), SystemDir: t.TempDir()}
	for name, want := range map[string]*Theme{"light": Default(), "dark": Dark()} {
		got, err := l.Load(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if got.Background != want.Background || got.DefaultStroke != want.DefaultStroke {
			t.Errorf("%s: embedded theme differs from built in one: %+v", name, got)
		}
		if strings.Join(got.PaletteHex(), ",") != strings.Join(want.PaletteHex(), ",") {
			t.Errorf("%s: palette %v, want %v", name, got.PaletteHex(), want.PaletteHex())
		}
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "paper.theme"), []byte("Background: #fffff0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir, SystemDir: t.TempDir()}
	th, err := l.Load("paper")
	if err != nil {
		t.Fatal(err)
	}
	if ToHex(th.Background) != "#fffff0" {
		t.Fatalf("got %s", ToHex(th.Background))
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestStroke(t *testing.T) {
	dark := Dark()
	if dark.Stroke(DefaultStrokeLight) != dark.DefaultStroke {
		t.Error("light sentinel should follow the dark theme")
	}
	if dark.Stroke("#FFFFFF") != dark.DefaultStroke {
		t.Error("sentinels are case insensitive")
	}
	if got := dark.Stroke("#fd5865"); got != (color.RGBA{0xfd, 0x58, 0x65, 0xff}) {
		t.Errorf("palette colour changed: %+v", got)
	}
	if Default().DefaultStrokeHex() != DefaultStrokeLight {
		t.Error("light default stroke should be the light sentinel")
	}
}
