// Package notify sends desktop notifications after exports, library saves
// and clipboard copies.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/papers/assets"
	"github.com/example/papers/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport emits a notification when a paper is exported.
	EventExport Event = "export"
	// EventSave emits a notification when the library is written to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when an export is copied to the clipboard.
	EventCopy Event = "copy"
)

// AppName is shown as the sender of every notification.
const AppName = "Papers"

// send is replaced in tests.
var send = platform.Notify

// iconSize is the pixel size of the program icon shown with notifications.
const iconSize = 64

var appIcon = func() (image.Image, error) { return assets.IconImage(iconSize) }

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: AppName,
		Events: map[Event]EventPreference{
			EventExport: {Template: "Exported %s"},
			EventSave:   {Template: "Saved %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PAPERS_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("PAPERS_NOTIFY_EXPORT_TEXT", EventExport)
	apply("PAPERS_NOTIFY_SAVE_TEXT", EventSave)
	apply("PAPERS_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Export announces a written export. Raster exports pass their image so it
// can be shown as the notification icon.
func (n *Notifier) Export(path string, img image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
	}
	opts := platform.Options{AppName: AppName, Category: "transfer.complete"}
	defer withIcon(&opts, img)()
	n.dispatch(EventExport, detail, opts)
}

// Save announces a library save.
func (n *Notifier) Save(detail string) {
	if !n.enabledFor(EventSave) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "library"
	}
	// Autosaves happen often; keep them out of the history.
	opts := platform.Options{AppName: AppName, Transient: true}
	defer withIcon(&opts, nil)()
	n.dispatch(EventSave, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "paper"
	}
	opts := platform.Options{AppName: AppName, Category: "transfer.complete", Transient: true}
	defer withIcon(&opts, nil)()
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	if n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

// withIcon writes img, or the program icon when img is nil, to a temporary
// file used as the notification icon. The returned function removes it.
func withIcon(opts *platform.Options, img image.Image) func() {
	if img == nil {
		icon, err := appIcon()
		if err != nil {
			log.Printf("notification icon: %v", err)
			return func() {}
		}
		img = icon
	}
	path, cleanup, err := createPreview(img)
	if err != nil {
		log.Printf("notification preview: %v", err)
		return func() {}
	}
	opts.IconPath = path
	return cleanup
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "papers-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
