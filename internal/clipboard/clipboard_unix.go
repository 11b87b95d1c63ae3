//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"errors"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// Write publishes c on the system clipboard. This backend knows images and
// text only, so SVG goes out as text.
func Write(c Content) error {
	if err := ensureInit(); err != nil {
		return err
	}
	if len(c.PNG) > 0 {
		clipboard.Write(clipboard.FmtImage, c.PNG)
		return nil
	}
	if len(c.SVG) > 0 {
		clipboard.Write(clipboard.FmtText, c.SVG)
	}
	return nil
}
