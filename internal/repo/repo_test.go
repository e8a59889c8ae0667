package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() error = %v", err)
	}
	return dir, r
}

func commitAll(t *testing.T, r *git.Repository) {
	t.Helper()
	wt, err := r.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatal(err)
	}
	_, err = wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func TestOpenNotRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("Open() = %v, want ErrNotRepository", err)
	}
}

func TestOpenFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "ios")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(sub); err != nil {
		t.Fatalf("Open(subdir) error = %v", err)
	}
}

func TestCleanDirtyAndStage(t *testing.T) {
	dir, r := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"myapp"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	commitAll(t, r)

	rp, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	clean, err := rp.IsClean()
	if err != nil || !clean {
		t.Fatalf("IsClean() = %v, %v; want clean", clean, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"newapp"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	dirty, err := rp.Dirty()
	if err != nil {
		t.Fatal(err)
	}
	if len(dirty) != 1 || dirty[0] != "package.json" {
		t.Fatalf("Dirty() = %v", dirty)
	}

	if err := rp.StageAll(); err != nil {
		t.Fatalf("StageAll() error = %v", err)
	}
	wt, _ := r.Worktree()
	status, err := wt.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st := status.File("package.json"); st.Staging != git.Modified {
		t.Fatalf("package.json staging = %q, want modified", st.Staging)
	}
}
