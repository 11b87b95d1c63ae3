package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/example/papers/internal/library"
)

// errAmbiguous is returned when a reference matches more than one entry.
var errAmbiguous = errors.New("matches more than one entry")

// libraryCmd is a command that reads or edits the library and exits.
type libraryCmd struct {
	*root
	fs      *flag.FlagSet
	name    string
	usage   string
	summary string
	minArgs int
	maxArgs int
	run     func(ctx context.Context, lib *library.Library, args []string) error
}

func (c *libraryCmd) Program() string { return c.root.program + " " + c.name }

func (c *libraryCmd) Template() string { return "library.txt" }

func (c *libraryCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

// Args is the argument synopsis shown in the usage line.
func (c *libraryCmd) Args() string { return c.usage }

func (c *libraryCmd) Summary() string { return c.summary }

func newLibraryCmd(r *root, name, usage, summary string, minArgs, maxArgs int, args []string,
	run func(ctx context.Context, lib *library.Library, args []string) error) (*libraryCmd, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	c := &libraryCmd{root: r, fs: fs, name: name, usage: usage, summary: summary, minArgs: minArgs, maxArgs: maxArgs, run: run}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < minArgs || fs.NArg() > maxArgs {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *libraryCmd) Run() error {
	ctx := context.Background()
	lib, closeLib, err := c.openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeLib()
	if err := c.run(ctx, lib, c.fs.Args()); err != nil {
		return err
	}
	return c.saveLibrary(ctx, lib)
}

func parseFoldersCmd(args []string, r *root) (*libraryCmd, error) {
	return newLibraryCmd(r, "folders", "", "List folders, oldest first.", 0, 0, args,
		func(_ context.Context, lib *library.Library, _ []string) error {
			folders := lib.Folders()
			if len(folders) == 0 {
				fmt.Fprintln(r.stdout, "no folders")
				return nil
			}
			for _, f := range folders {
				fmt.Fprintf(r.stdout, "%s  %s  (%d papers)\n", shortID(f.ID), f.Name, len(lib.Papers(f.ID)))
			}
			return nil
		})
}

func parsePapersCmd(args []string, r *root) (*libraryCmd, error) {
	return newLibraryCmd(r, "papers", "[folder]", "List papers, most recently changed first. Without a folder every folder is listed.", 0, 1, args,
		func(_ context.Context, lib *library.Library, args []string) error {
			folders := lib.Folders()
			if len(args) == 1 {
				f, err := findFolder(lib, args[0])
				if err != nil {
					return err
				}
				folders = []library.Folder{f}
			}
			found := false
			for _, f := range folders {
				for _, p := range lib.Papers(f.ID) {
					found = true
					fmt.Fprintf(r.stdout, "%s  %s / %s  %d shapes  %s\n", shortID(p.ID), f.Name, p.Name, len(p.Shapes), p.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
			}
			if !found {
				fmt.Fprintln(r.stdout, "no papers")
			}
			return nil
		})
}

func parseNewFolderCmd(args []string, r *root) (*libraryCmd, error) {
	return newLibraryCmd(r, "new-folder", "[name]", "Create a folder and print its id.", 0, 1, args,
		func(_ context.Context, lib *library.Library, args []string) error {
			f := lib.NewFolder()
			if len(args) == 1 {
				if err := lib.RenameFolder(f.ID, args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintln(r.stdout, f.ID)
			return nil
		})
}

func parseNewPaperCmd(args []string, r *root) (*libraryCmd, error) {
	return newLibraryCmd(r, "new-paper", "<folder> [name]", "Create an empty paper in a folder and print its id.", 1, 2, args,
		func(_ context.Context, lib *library.Library, args []string) error {
			f, err := findFolder(lib, args[0])
			if err != nil {
				return err
			}
			p, err := lib.NewPaperInFolder(f.ID)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				if err := lib.RenamePaper(p.ID, args[1]); err != nil {
					return err
				}
			}
			fmt.Fprintln(r.stdout, p.ID)
			return nil
		})
}

func parseRenameCmd(args []string, r *root) (*libraryCmd, error) {
	return newLibraryCmd(r, "rename", "<folder|paper> <name>", "Rename a paper, or a folder when no paper matches.", 2, 2, args,
		func(_ context.Context, lib *library.Library, args []string) error {
			name := strings.TrimSpace(args[1])
			if name == "" {
				return fmt.Errorf("name cannot be empty")
			}
			if p, err := findPaper(lib, args[0]); err == nil {
				return lib.RenamePaper(p.ID, name)
			} else if !errors.Is(err, library.ErrNotFound) {
				return err
			}
			f, err := findFolder(lib, args[0])
			if err != nil {
				return err
			}
			return lib.RenameFolder(f.ID, name)
		})
}

func parseDeleteCmd(args []string, r *root) (*libraryCmd, error) {
	return newLibraryCmd(r, "delete", "<folder|paper>", "Delete a paper, or a folder with all of its papers when no paper matches.", 1, 1, args,
		func(_ context.Context, lib *library.Library, args []string) error {
			if p, err := findPaper(lib, args[0]); err == nil {
				return lib.DeletePaper(p.ID)
			} else if !errors.Is(err, library.ErrNotFound) {
				return err
			}
			f, err := findFolder(lib, args[0])
			if err != nil {
				return err
			}
			return lib.DeleteFolder(f.ID)
		})
}

// shortID is enough of an id to tell entries apart on screen.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func allPapers(lib *library.Library) []library.Paper {
	var out []library.Paper
	for _, f := range lib.Folders() {
		out = append(out, lib.Papers(f.ID)...)
	}
	return out
}

func findFolder(lib *library.Library, ref string) (library.Folder, error) {
	return find(lib.Folders(), ref, "folder", func(f library.Folder) (string, string) { return f.ID, f.Name })
}

func findPaper(lib *library.Library, ref string) (library.Paper, error) {
	return find(allPapers(lib), ref, "paper", func(p library.Paper) (string, string) { return p.ID, p.Name })
}

// find resolves ref as an exact id, then as an id prefix or exact name.
func find[T any](items []T, ref, kind string, key func(T) (id, name string)) (T, error) {
	var zero T
	if ref == "" {
		return zero, fmt.Errorf("%s %q: %w", kind, ref, library.ErrNotFound)
	}
	var matches []T
	for _, it := range items {
		id, name := key(it)
		if id == ref {
			return it, nil
		}
		if strings.HasPrefix(id, ref) || name == ref {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s %q: %w", kind, ref, library.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return zero, fmt.Errorf("%s %q: %w", kind, ref, errAmbiguous)
}
