package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/example/papers/internal/appstate"
	"github.com/example/papers/internal/canvas"
	"github.com/example/papers/internal/config"
	"github.com/example/papers/internal/library"
	"github.com/example/papers/internal/share"
)

type openCmd struct {
	*root
	fs        *flag.FlagSet
	paper     string
	view      bool
	width     int
	height    int
	tool      string
	color     string
	linewidth string
	shareAddr string
	advertise bool
}

func (c *openCmd) Program() string { return c.root.program + " open" }

func (c *openCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	c := &openCmd{root: r, fs: fs}
	fs.BoolVar(&c.view, "view", false, "open read-only; every button pans")
	fs.IntVar(&c.width, "width", 1024, "window width in pixels")
	fs.IntVar(&c.height, "height", 768, "window height in pixels")
	fs.StringVar(&c.tool, "tool", string(canvas.ModeFreehand), "initial tool")
	fs.StringVar(&c.color, "color", "", "initial stroke colour, a name or #rrggbb")
	fs.StringVar(&c.linewidth, "linewidth", "", "initial linewidth: small, medium, large or pixels")
	fs.StringVar(&c.shareAddr, "share", "", "also serve the paper to viewers on this address, e.g. :8080")
	fs.BoolVar(&c.advertise, "advertise", false, "announce the shared paper with mDNS")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.paper = fs.Arg(0)
	if _, ok := canvas.ParseMode(c.tool); !ok {
		return nil, fmt.Errorf("unknown tool %q", c.tool)
	}
	return c, nil
}

// engineOptions applies the [canvas] config section, overridden by flags.
func (c *openCmd) engineOptions(lib *library.Library) ([]canvas.Option, error) {
	cfg := c.config.Canvas
	goos := cfg.Platform
	if goos == "" {
		goos = runtime.GOOS
	}
	mode, _ := canvas.ParseMode(c.tool)
	opts := []canvas.Option{
		canvas.WithStore(lib),
		canvas.WithPlatform(goos),
		canvas.WithMode(mode),
		canvas.WithLinewidth(cfg.Linewidth),
	}
	if cfg.EraserSize > 0 {
		opts = append(opts, canvas.WithEraserSize(cfg.EraserSize))
	}
	color := c.color
	if color == "" {
		color = cfg.Color
	}
	if color != "" {
		hex, err := parseColor(color)
		if err != nil {
			return nil, err
		}
		opts = append(opts, canvas.WithColor(hex))
	}
	if c.linewidth != "" {
		w, err := config.ParseLinewidth(c.linewidth)
		if err != nil {
			return nil, err
		}
		opts = append(opts, canvas.WithLinewidth(w))
	}
	return opts, nil
}

func (c *openCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lib, closeLib, err := c.openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeLib()
	p, err := findPaper(lib, c.paper)
	if err != nil {
		return err
	}
	engineOpts, err := c.engineOptions(lib)
	if err != nil {
		return err
	}

	saver := library.NewIdleSaver(lib)
	saver.OnSave = func(err error) {
		if err == nil {
			c.notifySave(p.Name)
		}
	}
	saved := make(chan struct{})
	go func() {
		defer close(saved)
		saver.Run(ctx)
	}()

	if c.shareAddr != "" {
		stop, err := c.startShare(lib, p)
		if err != nil {
			cancel()
			<-saved
			return err
		}
		defer stop()
	}

	mode := appstate.ModeEdit
	if c.view {
		mode = appstate.ModeReadOnly
	}
	a := appstate.New(p.ID, p.Shapes,
		appstate.WithTheme(c.activeTheme),
		appstate.WithTitle(p.Name),
		appstate.WithMode(mode),
		appstate.WithSize(c.width, c.height),
		appstate.WithEngineOptions(engineOpts...),
		appstate.WithOnClose(cancel),
	)
	stopWatch := lib.Watch(func(changed library.Paper) {
		if changed.ID == p.ID {
			a.NotifyChanged()
		}
	})
	defer stopWatch()
	a.Run()

	cancel()
	<-saved
	return nil
}

// startShare serves the paper next to the window. The returned function
// stops serving.
func (c *openCmd) startShare(lib *library.Library, p library.Paper) (func(), error) {
	ln, err := net.Listen("tcp", c.shareAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", c.shareAddr, err)
	}
	srv := share.New(lib, p.ID)
	httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("share: %v", err)
		}
	}()
	fmt.Fprintf(os.Stderr, "sharing %q on http://%s/paper.svg\n", p.Name, ln.Addr())

	var stopAdvert func()
	if c.advertise {
		adv, err := share.Advertise(p.Name, ln.Addr().(*net.TCPAddr).Port)
		if err != nil {
			log.Printf("advertise: %v", err)
		} else {
			stopAdvert = func() { adv.Shutdown() }
		}
	}
	return func() {
		if stopAdvert != nil {
			stopAdvert()
		}
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		httpSrv.Shutdown(ctx)
	}, nil
}
