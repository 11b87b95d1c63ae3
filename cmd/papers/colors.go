package main

import (
	"flag"
	"fmt"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/papers/internal/theme"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *colorsCmd) Program() string { return c.root.program + " colors" }
func (c *colorsCmd) Template() string { return "colors.txt" }

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	t := c.activeTheme
	if t == nil {
		t = theme.Default()
	}
	fmt.Fprintf(c.stdout, "%s theme palette:\n", t.Name)
	for i, hex := range t.PaletteHex() {
		note := ""
		if t.Palette[i] == t.DefaultStroke {
			note = "  (default stroke)"
		}
		fmt.Fprintf(c.stdout, "  %d  %s%s\n", i+1, hex, note)
	}
	return nil
}

// parseColor accepts an SVG colour name or a #rgb, #rrggbb or #rrggbbaa
// value and returns it as #rrggbb.
func parseColor(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return "", fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[v]; ok {
		return theme.ToHex(c), nil
	}
	c, err := theme.ParseColor(v)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return theme.ToHex(c), nil
}
