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
	"os/signal"
	"time"

	"github.com/example/papers/internal/library"
	"github.com/example/papers/internal/share"
)

// reloadInterval is how often serve looks for changes saved by a drawing
// window in another process.
const reloadInterval = time.Second

type serveCmd struct {
	*root
	fs        *flag.FlagSet
	paper     string
	addr      string
	advertise bool
}

func (c *serveCmd) Program() string { return c.root.program + " serve" }

func (c *serveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	c := &serveCmd{root: r, fs: fs}
	fs.StringVar(&c.addr, "addr", ":8080", "address to listen on")
	fs.BoolVar(&c.advertise, "advertise", false, "announce the paper with mDNS")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.paper = fs.Arg(0)
	return c, nil
}

func (c *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lib, closeLib, err := c.openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeLib()
	p, err := findPaper(lib, c.paper)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.addr, err)
	}
	srv := share.New(lib, p.ID)
	defer srv.Close()
	httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	fmt.Fprintf(c.stdout, "serving %q on http://%s/paper.svg\n", p.Name, ln.Addr())

	if c.advertise {
		adv, err := share.Advertise(p.Name, ln.Addr().(*net.TCPAddr).Port)
		if err != nil {
			log.Printf("advertise: %v", err)
		} else {
			defer adv.Shutdown()
		}
	}

	go reload(ctx, lib)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("share: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// reload keeps lib in step with the database until ctx is done.
func reload(ctx context.Context, lib *library.Library) {
	t := time.NewTicker(reloadInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := lib.Reload(ctx); err != nil && !errors.Is(err, library.ErrUnsaved) && ctx.Err() == nil {
				log.Printf("reload: %v", err)
			}
		}
	}
}

type browseCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *browseCmd) Program() string { return c.root.program + " browse" }
func (c *browseCmd) Template() string { return "browse.txt" }

func (c *browseCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseBrowseCmd(args []string, r *root) (*browseCmd, error) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	c := &browseCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *browseCmd) Run() error {
	found := 0
	err := share.Browse(func(name, addr string) {
		found++
		fmt.Fprintf(c.stdout, "%s  http://%s/paper.svg\n", name, addr)
	})
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if found == 0 {
		fmt.Fprintln(c.stdout, "no shared papers found")
	}
	return nil
}
