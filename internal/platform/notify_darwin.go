//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify displays a desktop notification using macOS Notification Center.
// osascript cannot attach icons so IconPath is ignored.
func Notify(title, body string, opts Options) error {
	return exec.Command("osascript", "-e", appleScript(title, body, opts)).Run()
}

func appleScript(title, body string, opts Options) string {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	if opts.AppName != "" && opts.AppName != title {
		script += fmt.Sprintf(" subtitle %q", opts.AppName)
	}
	if !opts.Transient {
		script += ` sound name "Glass"`
	}
	return script
}
