package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/papers/internal/library"
)

// interactiveCmd runs commands read line by line against one open library.
type interactiveCmd struct {
	r  *root
	in io.Reader
}

func (i *interactiveCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lib, closeLib, err := i.r.openLibrary(ctx)
	if err != nil {
		return err
	}
	i.r.lib = lib
	defer func() {
		i.r.lib = nil
		closeLib()
	}()

	saver := library.NewIdleSaver(lib)
	saver.OnSave = func(err error) {
		if err == nil {
			i.r.notifySave("")
		}
	}
	saved := make(chan struct{})
	go func() {
		defer close(saved)
		saver.Run(ctx)
	}()
	defer func() {
		cancel()
		<-saved
	}()

	fmt.Fprintln(i.r.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(i.in)
	for {
		fmt.Fprint(i.r.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		args := strings.Fields(line)
		if args[0] == "interactive" {
			continue
		}
		if err := i.r.Run(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return scanner.Err()
}
