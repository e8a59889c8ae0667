// Package project locates a two-platform mobile project on disk and reads
// its current identity: display names, the Xcode project name, and the
// platform bundle identifiers.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/mobrename/internal/paths"
)

// EnvProject overrides the working directory when no --project flag is given.
const EnvProject = "MOBRENAME_PROJECT"

// Well-known project-relative paths.
const (
	IOSDir          = "ios"
	AndroidDir      = "android"
	PackageJSON     = "package.json"
	AppJSON         = "app.json"
	StringsXML      = "android/app/src/main/res/values/strings.xml"
	AndroidManifest = "android/app/src/main/AndroidManifest.xml"
	SettingsGradle  = "android/settings.gradle"
	AppBuildGradle  = "android/app/build.gradle"
)

// ErrInvalidStructure is returned when the directory is not a mobile project.
var ErrInvalidStructure = errors.New("invalid project structure")

// Project is an opened project directory. It is the explicit root value
// threaded through every component of a run.
type Project struct {
	// Root is the absolute project directory.
	Root string
	// XcodeProject is the project-relative path of the single *.xcodeproj.
	XcodeProject string
}

// ResolveRoot picks the project directory: explicit flag, then the
// MOBRENAME_PROJECT environment variable, then the current directory.
func ResolveRoot(flag string) (string, error) {
	dir := strings.TrimSpace(flag)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(EnvProject))
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project directory: %w", err)
	}
	return abs, nil
}

// Open checks that root looks like a mobile project and resolves its Xcode
// project. Zero or several *.xcodeproj folders are an error.
func Open(root string) (*Project, error) {
	for _, rel := range []string{IOSDir, AndroidDir, PackageJSON} {
		if _, err := os.Stat(paths.Abs(root, rel)); err != nil {
			return nil, fmt.Errorf("%w: %s is missing in %s", ErrInvalidStructure, rel, root)
		}
	}

	xcodeproj, err := paths.ResolveDir(root, "ios/*.xcodeproj")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStructure, err)
	}
	return &Project{Root: root, XcodeProject: xcodeproj}, nil
}

// Abs returns the OS path of a project-relative path.
func (p *Project) Abs(rel string) string {
	return paths.Abs(p.Root, rel)
}

// PathName is the Xcode project name ("MyApp" for ios/MyApp.xcodeproj).
// It is the path-content string currently embedded in iOS file names.
func (p *Project) PathName() string {
	return strings.TrimSuffix(filepath.Base(p.XcodeProject), ".xcodeproj")
}

// InfoPlist is the project-relative path of the app's Info.plist.
func (p *Project) InfoPlist() string {
	return paths.Join(IOSDir, p.PathName(), "Info.plist")
}

// PBXProj is the project-relative path of project.pbxproj.
func (p *Project) PBXProj() string {
	return paths.Join(p.XcodeProject, "project.pbxproj")
}
