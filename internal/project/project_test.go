package project

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/mobrename/internal/paths"
	"github.com/aidanlsb/mobrename/internal/testutil"
)

func TestOpenAndReadIdentity(t *testing.T) {
	tp := testutil.NewTestProject(t).WithReactNative("MyApp", "com.old.app").Build()

	p, err := Open(tp.Path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if p.XcodeProject != "ios/MyApp.xcodeproj" {
		t.Fatalf("XcodeProject = %q", p.XcodeProject)
	}

	id, err := p.ReadIdentity()
	if err != nil {
		t.Fatalf("ReadIdentity() error = %v", err)
	}
	want := Identity{
		IOSDisplayName:     "MyApp",
		IOSProjectPathName: "MyApp",
		IOSBundleID:        "com.old.app",
		AndroidAppName:     "MyApp",
		AndroidBundleID:    "com.old.app",
		ModuleName:         "MyApp",
		AppJSONDisplayName: "MyApp",
		PackageJSONName:    "myapp",
	}
	if diff := cmp.Diff(want, id); diff != "" {
		t.Fatalf("identity mismatch (-want +got):\n%s", diff)
	}
}

func TestReadIdentityDecodesDisplayName(t *testing.T) {
	tp := testutil.NewTestProject(t).WithReactNative("MyApp", "com.old.app").Build()
	plist := tp.ReadFile("ios/MyApp/Info.plist")
	tp.WriteFile("ios/MyApp/Info.plist", strings.Replace(plist, "<string>MyApp</string>", "<string>Caf&#xE9; App</string>", 1))

	p, err := Open(tp.Path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := p.ReadIdentity()
	if err != nil {
		t.Fatal(err)
	}
	if id.IOSDisplayName != "Café App" {
		t.Fatalf("IOSDisplayName = %q, want Café App", id.IOSDisplayName)
	}
}

func TestAndroidBundleIDFallsBackToManifest(t *testing.T) {
	tp := testutil.NewTestProject(t).
		WithReactNative("MyApp", "com.old.app").
		WithFile("android/app/build.gradle", "android {}\n").
		Build()

	p, err := Open(tp.Path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := p.ReadIdentity()
	if err != nil {
		t.Fatal(err)
	}
	if id.AndroidBundleID != "com.old.app" {
		t.Fatalf("AndroidBundleID = %q", id.AndroidBundleID)
	}
}

func TestOpenRejectsInvalidStructure(t *testing.T) {
	t.Run("missing android", func(t *testing.T) {
		tp := testutil.NewTestProject(t).
			WithFile("package.json", "{}").
			WithDir("ios/MyApp.xcodeproj").
			Build()
		_, err := Open(tp.Path)
		if !errors.Is(err, ErrInvalidStructure) {
			t.Fatalf("Open() = %v, want ErrInvalidStructure", err)
		}
	})

	t.Run("two xcode projects", func(t *testing.T) {
		tp := testutil.NewTestProject(t).
			WithReactNative("MyApp", "com.old.app").
			WithDir("ios/Other.xcodeproj").
			Build()
		_, err := Open(tp.Path)
		if !errors.Is(err, ErrInvalidStructure) {
			t.Fatalf("Open() = %v, want ErrInvalidStructure", err)
		}
		var rErr *paths.ResolveError
		if !errors.As(err, &rErr) || len(rErr.Matches) != 2 {
			t.Fatalf("expected ambiguous ResolveError, got %v", err)
		}
	})
}

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()
	got, err := ResolveRoot(dir)
	if err != nil || got != dir {
		t.Fatalf("ResolveRoot(flag) = %q, %v", got, err)
	}

	t.Setenv(EnvProject, dir)
	got, err = ResolveRoot("")
	if err != nil || got != dir {
		t.Fatalf("ResolveRoot(env) = %q, %v", got, err)
	}

	t.Setenv(EnvProject, "")
	wd, _ := os.Getwd()
	got, err = ResolveRoot("")
	if err != nil || got != wd {
		t.Fatalf("ResolveRoot(cwd) = %q, %v; want %q", got, err, wd)
	}
}
