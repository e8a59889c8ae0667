package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Op is the kind of a journaled mutation.
type Op string

const (
	OpMove   Op = "move"
	OpCopy   Op = "copy"
	OpRemove Op = "remove"
	OpMkdir  Op = "mkdir"
	OpWrite  Op = "write"
)

// Entry is one journaled mutation.
type Entry struct {
	Op   Op
	Path string
	Dest string
}

func (e Entry) String() string {
	if e.Dest != "" {
		return fmt.Sprintf("%s %s -> %s", e.Op, e.Path, e.Dest)
	}
	return fmt.Sprintf("%s %s", e.Op, e.Path)
}

type move struct{ from, to string }

// DryRun records mutations instead of performing them. Reads see the
// journaled state: moved paths resolve to their original location on disk
// and written files return the journaled content.
type DryRun struct {
	mu      sync.Mutex
	journal []Entry
	moves   []move
	written map[string][]byte
	removed map[string]bool
	dirs    map[string]bool
}

// NewDryRun returns an empty DryRun.
func NewDryRun() *DryRun {
	return &DryRun{
		written: make(map[string][]byte),
		removed: make(map[string]bool),
		dirs:    make(map[string]bool),
	}
}

// Journal returns the recorded mutations in call order.
func (d *DryRun) Journal() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Entry, len(d.journal))
	copy(out, d.journal)
	return out
}

func (d *DryRun) record(e Entry) {
	d.journal = append(d.journal, e)
}

// source maps a path in the simulated tree back to where it lives on disk.
// Caller holds d.mu.
func (d *DryRun) source(p string) string {
	p = filepath.Clean(p)
	for i := len(d.moves) - 1; i >= 0; i-- {
		m := d.moves[i]
		if p == m.to {
			p = m.from
			continue
		}
		if rest, ok := strings.CutPrefix(p, m.to+string(filepath.Separator)); ok {
			p = filepath.Join(m.from, rest)
		}
	}
	return p
}

// Caller holds d.mu.
func (d *DryRun) isRemoved(p string) bool {
	p = filepath.Clean(p)
	for r := range d.removed {
		if p == r || strings.HasPrefix(p, r+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Caller holds d.mu.
func (d *DryRun) exists(p string) bool {
	p = filepath.Clean(p)
	if _, ok := d.written[p]; ok {
		return true
	}
	if d.dirs[p] {
		return true
	}
	if d.isRemoved(p) {
		return false
	}
	for _, m := range d.moves {
		if p == m.from || strings.HasPrefix(p, m.from+string(filepath.Separator)) {
			// Moved away, unless something moved back into place later.
			if d.source(p) == p {
				return false
			}
		}
	}
	_, err := os.Stat(d.source(p))
	return err == nil
}

func (d *DryRun) Move(src, dst string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if !d.exists(src) {
		return fmt.Errorf("move %s: %w", src, os.ErrNotExist)
	}
	if d.exists(dst) {
		return fmt.Errorf("move %s: %w: %s", src, ErrDestinationExists, dst)
	}
	d.moves = append(d.moves, move{from: src, to: dst})
	if data, ok := d.written[src]; ok {
		d.written[dst] = data
		delete(d.written, src)
	}
	d.record(Entry{Op: OpMove, Path: src, Dest: dst})
	return nil
}

func (d *DryRun) CopyRecursive(src, dst string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.exists(src) {
		return fmt.Errorf("copy %s: %w", src, os.ErrNotExist)
	}
	d.record(Entry{Op: OpCopy, Path: filepath.Clean(src), Dest: filepath.Clean(dst)})
	return nil
}

func (d *DryRun) RemoveRecursive(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	path = filepath.Clean(path)
	d.removed[path] = true
	for p := range d.written {
		if p == path || strings.HasPrefix(p, path+string(filepath.Separator)) {
			delete(d.written, p)
		}
	}
	d.record(Entry{Op: OpRemove, Path: path})
	return nil
}

func (d *DryRun) MakeDir(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	path = filepath.Clean(path)
	for p := path; p != filepath.Dir(p); p = filepath.Dir(p) {
		d.dirs[p] = true
	}
	d.record(Entry{Op: OpMkdir, Path: path})
	return nil
}

func (d *DryRun) WriteFile(path string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	path = filepath.Clean(path)
	buf := make([]byte, len(data))
	copy(buf, data)
	d.written[path] = buf
	d.record(Entry{Op: OpWrite, Path: path})
	return nil
}

func (d *DryRun) ReadFile(path string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	path = filepath.Clean(path)
	if data, ok := d.written[path]; ok {
		return data, nil
	}
	if !d.exists(path) {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return os.ReadFile(d.source(path))
}

func (d *DryRun) Exists(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exists(path)
}

// ReadDir lists entries as they would appear after the journaled moves.
func (d *DryRun) ReadDir(dir string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dir = filepath.Clean(dir)
	if !d.exists(dir) {
		return nil, fmt.Errorf("read dir %s: %w", dir, os.ErrNotExist)
	}

	seen := make(map[string]bool)
	if entries, err := os.ReadDir(d.source(dir)); err == nil {
		for _, e := range entries {
			if d.exists(filepath.Join(dir, e.Name())) {
				seen[e.Name()] = true
			}
		}
	}
	for _, m := range d.moves {
		if filepath.Dir(m.to) == dir && d.exists(m.to) {
			seen[filepath.Base(m.to)] = true
		}
	}
	for p := range d.written {
		if filepath.Dir(p) == dir {
			seen[filepath.Base(p)] = true
		}
	}
	for p := range d.dirs {
		if filepath.Dir(p) == dir {
			seen[filepath.Base(p)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
