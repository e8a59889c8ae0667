package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeRel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"ios/App", "ios/App"},
		{"./ios/App/", "ios/App"},
		{"/ios//App", "ios/App"},
	}
	for _, tc := range tests {
		if got := NormalizeRel(tc.in); got != tc.want {
			t.Fatalf("NormalizeRel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReplaceToken(t *testing.T) {
	tests := []struct {
		rel, current, next, want string
	}{
		{"ios/MyApp.xcodeproj", "MyApp", "NewApp", "ios/NewApp.xcodeproj"},
		{"ios/MyAppTests/MyAppTests.m", "MyApp", "NewApp", "ios/NewAppTests/NewAppTests.m"},
		{"ios/Other", "MyApp", "NewApp", "ios/Other"},
		{"ios/MyApp", "", "NewApp", "ios/MyApp"},
	}
	for _, tc := range tests {
		if got := ReplaceToken(tc.rel, tc.current, tc.next); got != tc.want {
			t.Fatalf("ReplaceToken(%q) = %q, want %q", tc.rel, got, tc.want)
		}
	}
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "ios/MyApp.xcodeproj", "ios/MyApp")

	got, err := ResolveDir(root, "ios/*.xcodeproj")
	if err != nil {
		t.Fatalf("ResolveDir unexpected error: %v", err)
	}
	if got != "ios/MyApp.xcodeproj" {
		t.Fatalf("ResolveDir = %q", got)
	}

	t.Run("missing", func(t *testing.T) {
		_, err := Resolve(root, "android/*.gradle")
		var rErr *ResolveError
		if !errors.As(err, &rErr) || !rErr.Missing() {
			t.Fatalf("expected missing ResolveError, got %v", err)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		mkdirs(t, root, "ios/Other.xcodeproj")
		_, err := ResolveDir(root, "ios/*.xcodeproj")
		var rErr *ResolveError
		if !errors.As(err, &rErr) {
			t.Fatalf("expected ResolveError, got %v", err)
		}
		if rErr.Missing() || len(rErr.Matches) != 2 {
			t.Fatalf("expected two matches, got %v", rErr.Matches)
		}
	})
}

func TestGlobDirsSkipsFiles(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "android/app/src/main/java/com/old/app", "android/app/src/debug/java/com/old/app")
	if err := os.WriteFile(filepath.Join(root, "android", "app", "src", "main", "java", "com", "old", "file"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := GlobDirs(root, "android/app/src/*/java/com/old/*")
	if err != nil {
		t.Fatalf("GlobDirs unexpected error: %v", err)
	}
	want := []string{"android/app/src/debug/java/com/old/app", "android/app/src/main/java/com/old/app"}
	if len(got) != len(want) {
		t.Fatalf("GlobDirs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GlobDirs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
