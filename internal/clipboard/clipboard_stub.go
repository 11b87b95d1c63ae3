//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

// ErrUnsupported is returned where no clipboard backend exists.
var ErrUnsupported = errors.New("clipboard operations are not supported on this platform")

// Write publishes c on the system clipboard.
func Write(c Content) error {
	return ErrUnsupported
}
