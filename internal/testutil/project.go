// Package testutil provides reusable fixtures for mobrename tests: a
// builder for on-disk mobile projects and file assertions over them.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestProject represents a temporary mobile project for testing.
type TestProject struct {
	Path  string
	t     *testing.T
	files map[string]string
	dirs  []string
	git   bool
}

// NewTestProject creates a new test project builder.
// Call Build() to create the actual project directory.
func NewTestProject(t *testing.T) *TestProject {
	t.Helper()
	return &TestProject{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the project. The path is slash-separated and
// relative to the project root.
func (p *TestProject) WithFile(path, content string) *TestProject {
	p.files[path] = content
	return p
}

// WithoutFile drops a file added earlier, e.g. one from a fixture.
func (p *TestProject) WithoutFile(path string) *TestProject {
	delete(p.files, path)
	return p
}

// WithDir adds an empty directory.
func (p *TestProject) WithDir(path string) *TestProject {
	p.dirs = append(p.dirs, path)
	return p
}

// WithReactNative adds a complete React Native project named name with the
// given bundle identifier on both platforms.
func (p *TestProject) WithReactNative(name, bundleID string) *TestProject {
	for path, content := range ReactNativeFiles(name, bundleID) {
		p.files[path] = content
	}
	return p
}

// WithGit initialises a git repository and commits every file at Build time.
func (p *TestProject) WithGit() *TestProject {
	p.git = true
	return p
}

// Build creates the project directory and all configured files.
func (p *TestProject) Build() *TestProject {
	p.t.Helper()

	p.Path = p.t.TempDir()

	for _, dir := range p.dirs {
		if err := os.MkdirAll(p.Abs(dir), 0o755); err != nil {
			p.t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}
	for path, content := range p.files {
		p.writeFile(path, content)
	}
	if p.git {
		p.commitAll()
	}
	return p
}

// Abs returns the OS path of a project-relative path.
func (p *TestProject) Abs(relPath string) string {
	return filepath.Join(p.Path, filepath.FromSlash(relPath))
}

func (p *TestProject) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := p.Abs(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		p.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}

// WriteFile writes a file into an already built project.
func (p *TestProject) WriteFile(relPath, content string) {
	p.t.Helper()
	p.writeFile(relPath, content)
}

// ReadFile reads a file from the project.
func (p *TestProject) ReadFile(relPath string) string {
	p.t.Helper()
	content, err := os.ReadFile(p.Abs(relPath))
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file or directory exists in the project.
func (p *TestProject) FileExists(relPath string) bool {
	p.t.Helper()
	_, err := os.Stat(p.Abs(relPath))
	return err == nil
}

// Snapshot returns the content of every regular file under the project,
// keyed by slash-separated relative path. The .git directory is skipped.
func (p *TestProject) Snapshot() map[string]string {
	p.t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(p.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(p.Path, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		p.t.Fatalf("snapshot: %v", err)
	}
	return out
}

func (p *TestProject) commitAll() {
	p.t.Helper()
	r, err := git.PlainInit(p.Path, false)
	if err != nil {
		p.t.Fatalf("git init: %v", err)
	}
	wt, err := r.Worktree()
	if err != nil {
		p.t.Fatalf("git worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		p.t.Fatalf("git add: %v", err)
	}
	_, err = wt.Commit("fixture", &git.CommitOptions{
		Author: &object.Signature{Name: "fixture", Email: "fixture@example.com", When: time.Now()},
	})
	if err != nil {
		p.t.Fatalf("git commit: %v", err)
	}
}
