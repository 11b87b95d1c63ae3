package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/example/papers/internal/clipboard"
	"github.com/example/papers/internal/export"
	"github.com/example/papers/internal/shape"
	"github.com/example/papers/internal/theme"
)

type exportCmd struct {
	*root
	fs          *flag.FlagSet
	paper       string
	output      string
	typ         string
	themeName   string
	transparent bool
	force       bool
	toClipboard bool
}

func (c *exportCmd) Program() string { return c.root.program + " export" }

func (c *exportCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	c := &exportCmd{root: r, fs: fs}
	names := make([]string, len(export.Types))
	for i, t := range export.Types {
		names[i] = string(t)
	}
	fs.StringVar(&c.output, "o", "", "output file; defaults to the paper name in the export directory")
	fs.StringVar(&c.typ, "type", "", "format: "+strings.Join(names, ", ")+"; defaults to the output extension or png")
	fs.StringVar(&c.themeName, "export-theme", "", "theme for the background and default strokes; defaults to the active theme")
	fs.BoolVar(&c.transparent, "transparent", false, "leave the background of png exports transparent")
	fs.BoolVar(&c.force, "force", false, "overwrite an existing file")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the export to the clipboard instead of writing a file")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.paper = fs.Arg(0)
	if c.toClipboard && c.output != "" {
		return nil, fmt.Errorf("-o cannot be used with -to-clipboard")
	}
	return c, nil
}

// exportType picks the format from -type, then the output extension.
func (c *exportCmd) exportType() (export.Type, error) {
	if c.typ != "" {
		return export.ParseType(c.typ)
	}
	if ext := filepath.Ext(c.output); ext != "" {
		return export.ParseType(ext)
	}
	return export.PNG, nil
}

func (c *exportCmd) exportTheme() (*theme.Theme, error) {
	if c.themeName == "" {
		return c.activeTheme, nil
	}
	if t, ok := c.config.Themes[c.themeName]; ok {
		return t, nil
	}
	t, err := theme.NewLoader().Load(c.themeName)
	if err != nil {
		return nil, fmt.Errorf("failed to load theme %q: %w", c.themeName, err)
	}
	return t, nil
}

func (c *exportCmd) Run() error {
	typ, err := c.exportType()
	if err != nil {
		return err
	}
	th, err := c.exportTheme()
	if err != nil {
		return err
	}
	ctx := context.Background()
	lib, closeLib, err := c.openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeLib()
	p, err := findPaper(lib, c.paper)
	if err != nil {
		return err
	}
	opts := export.Options{Type: typ, Theme: th, Transparent: c.transparent}

	if c.toClipboard {
		return c.copy(p.Name, p.Shapes, opts)
	}

	path := c.output
	if path == "" {
		path = filepath.Join(c.config.ExportDir, export.Filename(p.Name, typ))
	}
	if err := export.WriteFile(path, p.Shapes, opts, c.force); err != nil {
		if errors.Is(err, export.ErrExists) {
			return fmt.Errorf("%w; use -force to overwrite", err)
		}
		return fmt.Errorf("failed to export %q: %w", p.Name, err)
	}
	fmt.Fprintln(c.stdout, path)
	var preview image.Image
	if typ == export.PNG || typ == export.JPEG {
		if img, err := export.Render(p.Shapes, opts); err == nil {
			preview = img
		}
	}
	c.notifyExport(path, preview)
	return nil
}

// copy offers the paper on the clipboard. Raster formats are offered as
// PNG and everything else as SVG markup.
func (c *exportCmd) copy(name string, shapes []shape.Shape, opts export.Options) error {
	content := clipboard.Content{}
	var buf bytes.Buffer
	switch opts.Type {
	case export.SVG:
		if err := export.Export(&buf, shapes, opts); err != nil {
			return fmt.Errorf("failed to export %q: %w", name, err)
		}
		content.SVG = buf.Bytes()
	case export.PNG, export.JPEG:
		opts.Type = export.PNG
		if err := export.Export(&buf, shapes, opts); err != nil {
			return fmt.Errorf("failed to export %q: %w", name, err)
		}
		content.PNG = buf.Bytes()
	default:
		return fmt.Errorf("%s cannot be copied to the clipboard", opts.Type)
	}
	if err := clipboard.Write(content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	c.notifyCopy(name)
	return nil
}
