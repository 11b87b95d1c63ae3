package notify

import (
	"image"
	"os"
	"testing"

	"github.com/example/papers/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExists  bool
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	orig := send
	send = func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExists = err == nil
		}
		got = append(got, s)
		return nil
	}
	t.Cleanup(func() { send = orig })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Export("cat.png", nil)
	n.Save("")
	n.Copy("")
	var nilNotifier *Notifier
	nilNotifier.Copy("x")
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %+v", *got)
	}
}

func TestMessages(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Enable(EventCopy, true)
	n.Save("")
	n.Copy("Cat.png")
	if len(*got) != 2 {
		t.Fatalf("expected 2 notifications, got %+v", *got)
	}
	if (*got)[0].body != "Saved library" || (*got)[0].title != AppName {
		t.Errorf("unexpected save notification %+v", (*got)[0])
	}
	if (*got)[1].body != "Copied Cat.png to clipboard" {
		t.Errorf("unexpected copy notification %+v", (*got)[1])
	}
}

func TestExportPreview(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	n.Export("cat.png", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(*got) != 1 {
		t.Fatalf("expected 1 notification, got %+v", *got)
	}
	s := (*got)[0]
	if !s.iconExists {
		t.Errorf("preview icon missing during dispatch: %+v", s)
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Errorf("preview not cleaned up: %v", err)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("PAPERS_NOTIFY_TITLE", "Sketchbook")
	t.Setenv("PAPERS_NOTIFY_EXPORT_TEXT", "Wrote %s")
	p := LoadPreferences()
	if p.Title != "Sketchbook" || p.Events[EventExport].Template != "Wrote %s" {
		t.Fatalf("unexpected preferences %+v", p)
	}
	if p.Events[EventSave].Template != "Saved %s" {
		t.Fatalf("untouched template changed: %+v", p.Events[EventSave])
	}
}

func TestSaveUsesProgramIcon(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save("Sketches")
	if len(*got) != 1 {
		t.Fatalf("expected 1 notification, got %+v", *got)
	}
	if s := (*got)[0]; !s.iconExists || s.body != "Saved Sketches" {
		t.Fatalf("unexpected notification %+v", s)
	}
}

func TestEventOptions(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	n.Enable(EventSave, true)
	n.Export("cat.svg", nil)
	n.Save("")
	if len(*got) != 2 {
		t.Fatalf("expected 2 notifications, got %+v", *got)
	}
	if o := (*got)[0].opts; o.Category != "transfer.complete" || o.Transient {
		t.Errorf("export options %+v", o)
	}
	if o := (*got)[1].opts; !o.Transient {
		t.Errorf("save should be transient: %+v", o)
	}
}
