package library

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/papers/internal/geom"
	"github.com/example/papers/internal/shape"
)

type memPersister struct {
	snap  Snapshot
	saves int
	err   error
}

func (m *memPersister) Load(ctx context.Context) (Snapshot, error) { return m.snap, m.err }

func (m *memPersister) Save(ctx context.Context, s Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.snap = s
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

var stroke = []shape.Shape{{Type: shape.Freehand, Color: "#000000", Linewidth: 2, Points: []geom.Point{{X: 1, Y: 2}}}}

func TestFolderAndPaperLifecycle(t *testing.T) {
	clock := newClock()
	l := New(nil, WithClock(clock.now))

	f := l.NewFolder()
	if f.Name != DefaultName || f.ID == "" {
		t.Fatalf("unexpected folder %+v", f)
	}
	if _, err := l.NewPaperInFolder("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p, err := l.NewPaperInFolder(f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.FolderID != f.ID || p.Shapes == nil || len(p.Shapes) != 0 {
		t.Fatalf("unexpected paper %+v", p)
	}

	clock.advance(time.Minute)
	if err := l.RenameFolder(f.ID, "Sketches"); err != nil {
		t.Fatal(err)
	}
	if err := l.RenamePaper(p.ID, "Cat"); err != nil {
		t.Fatal(err)
	}
	if err := l.SetPaperShapes(p.ID, stroke); err != nil {
		t.Fatal(err)
	}
	got, _ := l.Paper(p.ID)
	if got.Name != "Cat" || !shape.EqualList(got.Shapes, stroke) {
		t.Fatalf("paper not updated: %+v", got)
	}
	if !got.UpdatedAt.Equal(clock.t) || got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("timestamps not maintained: %+v", got)
	}
	if ff, _ := l.Folder(f.ID); ff.Name != "Sketches" {
		t.Fatalf("folder not renamed: %+v", ff)
	}

	got.Shapes[0].Color = "#ffffff"
	if again, _ := l.Paper(p.ID); again.Shapes[0].Color != "#000000" {
		t.Fatal("Paper returned shared state")
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	l := New(nil)
	a, b := l.NewFolder(), l.NewFolder()
	pa, _ := l.NewPaperInFolder(a.ID)
	pb, _ := l.NewPaperInFolder(b.ID)

	if err := l.DeleteFolder(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Paper(pa.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("paper of deleted folder survived")
	}
	if _, err := l.Paper(pb.ID); err != nil {
		t.Fatal("paper of other folder deleted")
	}
	if len(l.Folders()) != 1 {
		t.Fatalf("expected 1 folder, got %d", len(l.Folders()))
	}
	if err := l.DeletePaper(pb.ID); err != nil {
		t.Fatal(err)
	}
	if len(l.Papers(b.ID)) != 0 {
		t.Fatal("paper not deleted")
	}
	if err := l.DeletePaper(pb.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveOnlyWhenDirty(t *testing.T) {
	m := &memPersister{}
	l := New(m)
	ctx := context.Background()
	if err := l.Save(ctx); err != nil || m.saves != 0 {
		t.Fatalf("clean library saved: %v %d", err, m.saves)
	}
	f := l.NewFolder()
	if dirty, _ := l.Dirty(); !dirty {
		t.Fatal("expected dirty library")
	}
	if err := l.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if m.saves != 1 || len(m.snap.Folders) != 1 || m.snap.Folders[0].ID != f.ID {
		t.Fatalf("unexpected persisted snapshot %+v", m.snap)
	}
	if dirty, _ := l.Dirty(); dirty {
		t.Fatal("library still dirty after save")
	}
	l.Save(ctx)
	if m.saves != 1 {
		t.Fatal("saved twice without changes")
	}

	m.err = errors.New("disk full")
	l.NewFolder()
	if err := l.Save(ctx); !errors.Is(err, m.err) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if dirty, _ := l.Dirty(); !dirty {
		t.Fatal("failed save cleared dirty flag")
	}
}

func TestWatch(t *testing.T) {
	l := New(nil)
	f := l.NewFolder()
	p, _ := l.NewPaperInFolder(f.ID)
	var seen []Paper
	cancel := l.Watch(func(p Paper) { seen = append(seen, p) })
	l.SetPaperShapes(p.ID, stroke)
	cancel()
	l.SetPaperShapes(p.ID, nil)
	if len(seen) != 1 || len(seen[0].Shapes) != 1 {
		t.Fatalf("unexpected notifications %+v", seen)
	}
}

func TestIdleSaver(t *testing.T) {
	clock := newClock()
	m := &memPersister{}
	l := New(m, WithClock(clock.now))
	s := NewIdleSaver(l)
	s.now = clock.now
	var results []error
	s.OnSave = func(err error) { results = append(results, err) }
	ctx := context.Background()

	if s.Tick(ctx) {
		t.Fatal("clean library should not be saved")
	}
	l.NewFolder()
	clock.advance(time.Second)
	if s.Tick(ctx) {
		t.Fatal("saved while the user is still active")
	}
	clock.advance(IdleThreshold)
	if !s.Tick(ctx) || m.saves != 1 {
		t.Fatalf("expected a save after going idle, saves=%d", m.saves)
	}
	if len(results) != 1 || results[0] != nil {
		t.Fatalf("OnSave not called: %v", results)
	}
	if s.Tick(ctx) {
		t.Fatal("saved again without changes")
	}
}

func TestIdleSaverRunFlushesOnCancel(t *testing.T) {
	m := &memPersister{}
	l := New(m)
	l.NewFolder()
	s := NewIdleSaver(l)
	s.Interval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if m.saves != 1 {
		t.Fatalf("pending change not flushed on shutdown, saves=%d", m.saves)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "papers.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	l := New(db)
	f := l.NewFolder()
	p, _ := l.NewPaperInFolder(f.ID)
	l.SetPaperShapes(p.ID, stroke)
	other, _ := l.NewPaperInFolder(f.ID)
	ctx := context.Background()
	if err := l.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := New(db)
	if err := loaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := loaded.Paper(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !shape.EqualList(got.Shapes, stroke) || got.FolderID != f.ID {
		t.Fatalf("paper did not survive: %+v", got)
	}
	want, _ := l.Paper(p.ID)
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("timestamp changed: %v vs %v", got.UpdatedAt, want.UpdatedAt)
	}
	if e, _ := loaded.Paper(other.ID); e.Shapes == nil {
		t.Fatal("empty paper loaded with nil shapes")
	}

	if err := loaded.DeleteFolder(f.ID); err != nil {
		t.Fatal(err)
	}
	if err := loaded.Save(ctx); err != nil {
		t.Fatal(err)
	}
	snap, err := db.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Folders) != 0 || len(snap.Papers) != 0 {
		t.Fatalf("delete not persisted: %+v", snap)
	}
}

func TestReloadNotifiesChangedPapers(t *testing.T) {
	ctx := context.Background()
	m := &memPersister{}
	writer := New(m)
	f := writer.NewFolder()
	p, err := writer.NewPaperInFolder(f.ID)
	if err != nil {
		t.Fatalf("new paper: %v", err)
	}
	if err := writer.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	reader := New(m)
	if err := reader.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	var seen []Paper
	stop := reader.Watch(func(p Paper) { seen = append(seen, p) })
	defer stop()

	if err := reader.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("unchanged reload notified %d papers", len(seen))
	}

	if err := writer.SetPaperShapes(p.ID, stroke); err != nil {
		t.Fatalf("set shapes: %v", err)
	}
	if err := writer.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := reader.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(seen) != 1 || seen[0].ID != p.ID || len(seen[0].Shapes) != 1 {
		t.Fatalf("unexpected notifications %+v", seen)
	}
	if got, _ := reader.Paper(p.ID); len(got.Shapes) != 1 {
		t.Fatalf("reader still has %d shapes", len(got.Shapes))
	}
}

func TestReloadKeepsUnsavedChanges(t *testing.T) {
	ctx := context.Background()
	m := &memPersister{}
	l := New(m)
	l.NewFolder()
	if err := l.Reload(ctx); !errors.Is(err, ErrUnsaved) {
		t.Fatalf("expected ErrUnsaved, got %v", err)
	}
	if len(l.Folders()) != 1 {
		t.Fatal("reload dropped a pending folder")
	}
}
