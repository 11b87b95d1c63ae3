// Package library keeps the folders and papers of the user and persists
// them through a Persister.
package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/papers/internal/shape"
)

// DefaultName is given to new folders and papers.
const DefaultName = "Untitled"

// ErrNotFound is returned for unknown folder or paper ids.
var ErrNotFound = errors.New("not found")

// Folder groups papers.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Paper is one drawing.
type Paper struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	FolderID  string        `json:"folderId"`
	Shapes    []shape.Shape `json:"shapes"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Snapshot is the whole library at one point in time.
type Snapshot struct {
	Folders []Folder `json:"folders"`
	Papers  []Paper  `json:"papers"`
}

// Persister stores snapshots durably.
type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// Library is safe for use from several goroutines: the canvas writes shapes
// while the idle saver reads snapshots.
type Library struct {
	mu       sync.Mutex
	folders  []Folder
	papers   []Paper
	version  uint64
	saved    uint64
	changed  time.Time
	persist  Persister
	now      func() time.Time
	watchers map[int]func(Paper)
	nextW    int
}

// Option configures a Library.
type Option func(*Library)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// New returns an empty library backed by p. p may be nil for a library that
// only lives in memory.
func New(p Persister, opts ...Option) *Library {
	l := &Library{persist: p, now: time.Now, watchers: map[int]func(Paper){}}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load replaces the contents with what the persister holds.
func (l *Library) Load(ctx context.Context) error {
	if l.persist == nil {
		return nil
	}
	s, err := l.persist.Load(ctx)
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.folders, l.papers = s.Folders, s.Papers
	l.version, l.saved = 0, 0
	return nil
}

// ErrUnsaved is returned by Reload while local changes are pending.
var ErrUnsaved = errors.New("library has unsaved changes")

// Reload reads the persister again, for libraries shared with another
// process, and notifies watchers of every paper whose name or shapes
// changed. Pending local changes are never discarded.
func (l *Library) Reload(ctx context.Context) error {
	if l.persist == nil {
		return nil
	}
	if dirty, _ := l.Dirty(); dirty {
		return ErrUnsaved
	}
	s, err := l.persist.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload library: %w", err)
	}
	l.mu.Lock()
	if l.version != l.saved {
		l.mu.Unlock()
		return ErrUnsaved
	}
	old := make(map[string]Paper, len(l.papers))
	for _, p := range l.papers {
		old[p.ID] = p
	}
	var changed []Paper
	for _, p := range s.Papers {
		prev, ok := old[p.ID]
		if ok && prev.Name == p.Name && shape.EqualList(prev.Shapes, p.Shapes) {
			continue
		}
		changed = append(changed, clonePaper(p))
	}
	l.folders, l.papers = s.Folders, s.Papers
	watchers := l.watchersLocked()
	l.mu.Unlock()
	for _, p := range changed {
		notify(watchers, p)
	}
	return nil
}

// Save writes a snapshot if anything changed since the last save.
func (l *Library) Save(ctx context.Context) error {
	l.mu.Lock()
	if l.version == l.saved || l.persist == nil {
		l.mu.Unlock()
		return nil
	}
	snap := l.snapshotLocked()
	version := l.version
	l.mu.Unlock()

	if err := l.persist.Save(ctx, snap); err != nil {
		return fmt.Errorf("save library: %w", err)
	}

	l.mu.Lock()
	if version > l.saved {
		l.saved = version
	}
	l.mu.Unlock()
	return nil
}

// Dirty reports whether there are unsaved changes and when the last one
// happened.
func (l *Library) Dirty() (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version != l.saved, l.changed
}

// Snapshot copies the library.
func (l *Library) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Library) snapshotLocked() Snapshot {
	s := Snapshot{
		Folders: append([]Folder(nil), l.folders...),
		Papers:  make([]Paper, len(l.papers)),
	}
	for i, p := range l.papers {
		s.Papers[i] = clonePaper(p)
	}
	return s
}

func clonePaper(p Paper) Paper {
	p.Shapes = shape.CloneList(p.Shapes)
	return p
}

// touch marks a change; callers hold the lock.
func (l *Library) touch() time.Time {
	now := l.now().UTC()
	l.version++
	l.changed = now
	return now
}

// NewFolder adds an untitled folder.
func (l *Library) NewFolder() Folder {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.touch()
	f := Folder{ID: uuid.NewString(), Name: DefaultName, CreatedAt: now, UpdatedAt: now}
	l.folders = append(l.folders, f)
	return f
}

// NewPaperInFolder adds an empty untitled paper to a folder.
func (l *Library) NewPaperInFolder(folderID string) (Paper, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.folderIndex(folderID) < 0 {
		return Paper{}, fmt.Errorf("folder %s: %w", folderID, ErrNotFound)
	}
	now := l.touch()
	p := Paper{
		ID:        uuid.NewString(),
		Name:      DefaultName,
		FolderID:  folderID,
		Shapes:    []shape.Shape{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.papers = append(l.papers, p)
	return clonePaper(p), nil
}

// RenameFolder changes a folder's name.
func (l *Library) RenameFolder(id, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.folderIndex(id)
	if i < 0 {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	l.folders[i].Name = name
	l.folders[i].UpdatedAt = l.touch()
	return nil
}

// RenamePaper changes a paper's name.
func (l *Library) RenamePaper(id, name string) error {
	l.mu.Lock()
	i := l.paperIndex(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	l.papers[i].Name = name
	l.papers[i].UpdatedAt = l.touch()
	p := clonePaper(l.papers[i])
	watchers := l.watchersLocked()
	l.mu.Unlock()
	notify(watchers, p)
	return nil
}

// SetPaperShapes replaces the shapes of a paper.
func (l *Library) SetPaperShapes(id string, shapes []shape.Shape) error {
	l.mu.Lock()
	i := l.paperIndex(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	l.papers[i].Shapes = shape.CloneList(shapes)
	l.papers[i].UpdatedAt = l.touch()
	p := clonePaper(l.papers[i])
	watchers := l.watchersLocked()
	l.mu.Unlock()
	notify(watchers, p)
	return nil
}

// DeleteFolder removes a folder and every paper in it.
func (l *Library) DeleteFolder(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.folderIndex(id)
	if i < 0 {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	l.folders = append(l.folders[:i:i], l.folders[i+1:]...)
	kept := l.papers[:0:0]
	for _, p := range l.papers {
		if p.FolderID != id {
			kept = append(kept, p)
		}
	}
	l.papers = kept
	l.touch()
	return nil
}

// DeletePaper removes a paper.
func (l *Library) DeletePaper(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.paperIndex(id)
	if i < 0 {
		return fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	l.papers = append(l.papers[:i:i], l.papers[i+1:]...)
	l.touch()
	return nil
}

// Folders lists folders, oldest first.
func (l *Library) Folders() []Folder {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := append([]Folder(nil), l.folders...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Folder returns one folder.
func (l *Library) Folder(id string) (Folder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.folderIndex(id)
	if i < 0 {
		return Folder{}, fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	return l.folders[i], nil
}

// Papers lists the papers of a folder, most recently updated first.
func (l *Library) Papers(folderID string) []Paper {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Paper
	for _, p := range l.papers {
		if p.FolderID == folderID {
			out = append(out, clonePaper(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// Paper returns one paper.
func (l *Library) Paper(id string) (Paper, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.paperIndex(id)
	if i < 0 {
		return Paper{}, fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	return clonePaper(l.papers[i]), nil
}

// Watch calls fn with a copy of every paper whose shapes or name change.
// The returned function stops the calls.
func (l *Library) Watch(fn func(Paper)) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextW
	l.nextW++
	l.watchers[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.watchers, id)
	}
}

func (l *Library) watchersLocked() []func(Paper) {
	out := make([]func(Paper), 0, len(l.watchers))
	for _, w := range l.watchers {
		out = append(out, w)
	}
	return out
}

func notify(watchers []func(Paper), p Paper) {
	for _, w := range watchers {
		w(p)
	}
}

func (l *Library) folderIndex(id string) int {
	for i, f := range l.folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (l *Library) paperIndex(id string) int {
	for i, p := range l.papers {
		if p.ID == id {
			return i
		}
	}
	return -1
}
