package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/example/papers/internal/config"
	"github.com/example/papers/internal/library"
	"github.com/example/papers/internal/notify"
	"github.com/example/papers/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	stdout      io.Writer
	exportAlert bool
	saveAlerts  bool
	copyAlerts  bool
	themeName   string
	libraryPath string
	activeTheme *theme.Theme

	// lib is shared by the commands of an interactive session.
	lib *library.Library
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return newRootWith(cfg, notify.New(prefs))
}

func newRootWith(cfg *config.Config, n *notify.Notifier) *root {
	r := &root{
		fs:       flag.NewFlagSet("papers", flag.ContinueOnError),
		program:  "papers",
		notifier: n,
		config:   cfg,
		stdout:   os.Stdout,
	}
	r.fs.BoolVar(&r.exportAlert, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting a paper")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after the library is saved")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.StringVar(&r.libraryPath, "library", "", "sqlite file holding the library")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventExport, r.exportAlert)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "open":
		cmd, err = parseOpenCmd(subArgs, r)
	case "folders":
		cmd, err = parseFoldersCmd(subArgs, r)
	case "papers":
		cmd, err = parsePapersCmd(subArgs, r)
	case "new-folder":
		cmd, err = parseNewFolderCmd(subArgs, r)
	case "new-paper":
		cmd, err = parseNewPaperCmd(subArgs, r)
	case "rename":
		cmd, err = parseRenameCmd(subArgs, r)
	case "delete":
		cmd, err = parseDeleteCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "browse":
		cmd, err = parseBrowseCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "interactive":
		cmd = &interactiveCmd{r: r, in: os.Stdin}
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the theme from the flag, PAPERS_THEME, the config file
// and finally the light default.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("PAPERS_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "light" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// openLibrary loads the library from its sqlite file. Inside an interactive
// session the library stays open between commands and the returned close
// function does nothing.
func (r *root) openLibrary(ctx context.Context) (*library.Library, func() error, error) {
	if r.lib != nil {
		return r.lib, func() error { return nil }, nil
	}
	path := r.libraryPath
	if path == "" {
		path = r.config.Library
	}
	if path == "" {
		path = config.DefaultLibraryPath()
	}
	db, err := library.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open library %s: %w", path, err)
	}
	lib := library.New(db)
	if err := lib.Load(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load library: %w", err)
	}
	return lib, db.Close, nil
}

// saveLibrary writes pending changes and announces the save.
func (r *root) saveLibrary(ctx context.Context, lib *library.Library) error {
	if dirty, _ := lib.Dirty(); !dirty {
		return nil
	}
	if err := lib.Save(ctx); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}
	r.notifySave("")
	return nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifyExport(path string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(path, img)
}

func (r *root) notifySave(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(detail)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
