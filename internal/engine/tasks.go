package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/mobrename/internal/catalog"
	"github.com/aidanlsb/mobrename/internal/fileops"
	"github.com/aidanlsb/mobrename/internal/flavor"
	"github.com/aidanlsb/mobrename/internal/paths"
	"github.com/aidanlsb/mobrename/internal/report"
	"github.com/aidanlsb/mobrename/internal/ui"
	"github.com/aidanlsb/mobrename/internal/xmldoc"
)

// runner carries what tasks need at run time. Paths handed to tasks are
// project-relative; runner converts them for fileops.
type runner struct {
	root  string
	files fileops.FileOps
	repo  RepoStatus
}

func (r *runner) abs(rel string) string { return paths.Abs(r.root, rel) }

// pathTasks groups each folder rename with the later entries nested under
// its new name, so a group runs in order while groups run concurrently.
func pathTasks(entries []catalog.PathEntry) []task {
	type group struct {
		dir     string
		entries []catalog.PathEntry
	}
	var groups []*group
	for _, en := range entries {
		var g *group
		for _, cand := range groups {
			if strings.HasPrefix(en.Current, cand.dir+"/") {
				g = cand
				break
			}
		}
		if g == nil {
			g = &group{dir: en.New}
			groups = append(groups, g)
		}
		g.entries = append(g.entries, en)
	}

	tasks := make([]task, 0, len(groups))
	for _, g := range groups {
		g := g
		tasks = append(tasks, task{
			path: g.entries[0].Current,
			run: func(r *runner, rep reporter) error {
				for _, en := range g.entries {
					if err := r.rename(en, rep); err != nil {
						rep(en.Current, report.Error, err.Error())
					}
				}
				return nil
			},
		})
	}
	return tasks
}

func (r *runner) rename(en catalog.PathEntry, rep reporter) error {
	if en.Unchanged() {
		rep(en.Current, report.NotRenamed, "")
		return nil
	}
	src, dst := r.abs(en.Current), r.abs(en.New)
	if !r.files.Exists(src) {
		rep(en.Current, report.NotFound, "")
		return nil
	}

	if en.MoveChildren {
		n, err := r.moveChildren(src, dst)
		if err != nil {
			return err
		}
		rep(en.Current, report.Renamed, fmt.Sprintf("%s (%s)", en.New, ui.Count(n, "entry", "entries")))
		return nil
	}

	if en.CreateDestFirst {
		if err := r.files.MakeDir(filepath.Dir(dst)); err != nil {
			return err
		}
	}
	if err := r.files.Move(src, dst); err != nil {
		return err
	}
	rep(en.Current, report.Renamed, en.New)
	return nil
}

// moveChildren moves everything in src into dst, then removes the emptied
// folders between src and the closest folder that also holds dst. A child
// that is dst or contains it stays where it is.
func (r *runner) moveChildren(src, dst string) (int, error) {
	if err := r.files.MakeDir(dst); err != nil {
		return 0, err
	}
	names, err := r.files.ReadDir(src)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, name := range names {
		from := filepath.Join(src, name)
		if from == dst || within(dst, from) {
			continue
		}
		if err := r.files.Move(from, filepath.Join(dst, name)); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, r.prune(src, dst)
}

func (r *runner) prune(dir, keep string) error {
	for within(dir, r.root) && dir != keep && !within(keep, dir) {
		names, err := r.files.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(names) > 0 {
			return nil
		}
		if err := r.files.RemoveRecursive(dir); err != nil {
			return err
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

// within reports whether p lies strictly inside dir.
func within(p, dir string) bool {
	return strings.HasPrefix(p, dir+string(filepath.Separator))
}

type contentTarget struct {
	candidates []string
	rules      []catalog.Rule
}

// contentTasks turns content entries into one task per target file. Rules
// from different entries naming the same file are applied together.
func contentTasks(entries []catalog.ContentEntry) []task {
	var targets []*contentTarget
	byPath := make(map[string]*contentTarget)
	for _, en := range entries {
		if len(en.Paths) == 0 {
			continue
		}
		if en.FirstExisting {
			targets = append(targets, &contentTarget{candidates: en.Paths, rules: en.Rules})
			continue
		}
		for _, p := range en.Paths {
			if t, ok := byPath[p]; ok {
				t.rules = append(t.rules, en.Rules...)
				continue
			}
			t := &contentTarget{candidates: []string{p}, rules: append([]catalog.Rule(nil), en.Rules...)}
			byPath[p] = t
			targets = append(targets, t)
		}
	}

	tasks := make([]task, 0, len(targets))
	for _, t := range targets {
		t := t
		tasks = append(tasks, task{
			path: t.candidates[0],
			run: func(r *runner, rep reporter) error {
				for _, p := range t.candidates {
					if r.files.Exists(r.abs(p)) {
						return r.rewrite(p, t.rules, rep)
					}
				}
				rep(t.candidates[0], report.NotFound, "")
				return nil
			},
		})
	}
	return tasks
}

func (r *runner) rewrite(rel string, rules []catalog.Rule, rep reporter) error {
	data, err := r.files.ReadFile(r.abs(rel))
	if errors.Is(err, fs.ErrNotExist) {
		rep(rel, report.NotFound, "")
		return nil
	}
	if err != nil {
		return err
	}

	content := string(data)
	out, n := catalog.ApplyAll(content, rules)
	switch {
	case n == 0:
		rep(rel, report.NotUpdated, "no matches")
		return nil
	case out == content:
		rep(rel, report.NotUpdated, "already up to date")
		return nil
	}
	if err := r.files.WriteFile(r.abs(rel), []byte(out)); err != nil {
		return err
	}
	rep(rel, report.Updated, ui.Count(n, "match", "matches"))
	return nil
}

func xmlTasks(entries ...catalog.XMLEntry) []task {
	tasks := make([]task, 0, len(entries))
	for _, en := range entries {
		en := en
		tasks = append(tasks, task{
			path: en.Path,
			run:  func(r *runner, rep reporter) error { return r.rewriteXML(en, rep) },
		})
	}
	return tasks
}

// rewriteXML loads the document, applies every edit to a copy, and writes
// the whole copy back when a value changed.
func (r *runner) rewriteXML(en catalog.XMLEntry, rep reporter) error {
	data, err := r.files.ReadFile(r.abs(en.Path))
	if errors.Is(err, fs.ErrNotExist) {
		rep(en.Path, report.NotFound, "")
		return nil
	}
	if err != nil {
		return err
	}
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", en.Path, err)
	}

	next, edit := doc.With(func(m *xmldoc.Mutator) {
		for _, ed := range en.Edits {
			for _, sel := range ed.Selectors {
				if m.SetFunc(sel, ed.Value) > 0 {
					break
				}
			}
		}
	})
	switch {
	case edit.Matched == 0:
		rep(en.Path, report.NotFound, "no matching element")
		return nil
	case edit.Changed == 0:
		rep(en.Path, report.NotUpdated, "already up to date")
		return nil
	}

	out, err := next.Bytes()
	if err != nil {
		return err
	}
	if err := r.files.WriteFile(r.abs(en.Path), out); err != nil {
		return err
	}
	rep(en.Path, report.Updated, ui.Count(edit.Changed, "value", "values"))
	return nil
}

// copyTasks copies the flavor's files. Sources are relative to the files
// folder, which is relative to the project root unless absolute.
func copyTasks(spec *flavor.Spec) []task {
	tasks := make([]task, 0, len(spec.Files))
	for _, f := range spec.Files {
		f := f
		dest := paths.NormalizeRel(f.Dest)
		tasks = append(tasks, task{
			path: dest,
			run: func(r *runner, rep reporter) error {
				src := r.flavorSource(spec.FilesFolder, f.Src)
				if !r.files.Exists(src) {
					rep(dest, report.NotFound, "source "+paths.Rel(r.root, src)+" is missing")
					return nil
				}
				to := r.abs(dest)
				if err := r.files.MakeDir(filepath.Dir(to)); err != nil {
					return err
				}
				if err := r.files.CopyRecursive(src, to); err != nil {
					return err
				}
				rep(dest, report.Copied, "from "+paths.Rel(r.root, src))
				return nil
			},
		})
	}
	return tasks
}

func (r *runner) flavorSource(folder, src string) string {
	if filepath.IsAbs(src) {
		return src
	}
	if filepath.IsAbs(folder) {
		return filepath.Join(folder, filepath.FromSlash(src))
	}
	return r.abs(paths.Join(folder, src))
}

func removeTasks(rels []string) []task {
	tasks := make([]task, 0, len(rels))
	for _, rel := range rels {
		rel := rel
		tasks = append(tasks, task{
			path: rel,
			run: func(r *runner, rep reporter) error {
				p := r.abs(rel)
				if !r.files.Exists(p) {
					rep(rel, report.NotFound, "")
					return nil
				}
				if err := r.files.RemoveRecursive(p); err != nil {
					return err
				}
				rep(rel, report.Removed, "")
				return nil
			},
		})
	}
	return tasks
}

func stageTask() task {
	return task{
		path: ".",
		run: func(r *runner, rep reporter) error {
			if err := r.repo.StageAll(); err != nil {
				return err
			}
			rep(".", report.Updated, "staged all changes")
			return nil
		},
	}
}
