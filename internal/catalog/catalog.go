// Package catalog is the declarative table of everything a rename touches:
// the folders and files whose names embed the app's path-content token,
// the Android package folders that mirror the bundle identifier, and the
// files whose contents carry names, identifiers, and SDK keys.
//
// Apart from the glob lookups in the Android bundle tables, every function
// here is pure: given the current and new identity it returns the same
// entries.
package catalog

import (
	"strings"

	"github.com/aidanlsb/mobrename/internal/identifier"
	"github.com/aidanlsb/mobrename/internal/paths"
	"github.com/aidanlsb/mobrename/internal/xmldoc"
)

// Names are the current and new name tokens of a run.
type Names struct {
	CurrentName string
	NewName     string

	// CurrentPathContent is the token currently embedded in iOS paths (the
	// Xcode project name); NewPathContent replaces it.
	CurrentPathContent string
	NewPathContent     string

	// CurrentModuleName is the JS component name native entry points load.
	CurrentModuleName string
	NewModuleName     string
}

// Renamed reports whether the path-content token changes.
func (n Names) Renamed() bool { return n.CurrentPathContent != n.NewPathContent }

// BundleIDs are the current and new bundle identifiers per platform. A new
// value that is empty or equal to the current one means "unchanged".
type BundleIDs struct {
	CurrentAndroid string
	NewAndroid     string
	CurrentIOS     string
	NewIOS         string
}

// AndroidChanged reports whether the Android bundle identifier changes.
func (b BundleIDs) AndroidChanged() bool {
	return b.NewAndroid != "" && b.CurrentAndroid != "" && b.NewAndroid != b.CurrentAndroid
}

// IOSChanged reports whether the iOS bundle identifier changes.
func (b BundleIDs) IOSChanged() bool {
	return b.NewIOS != "" && b.CurrentIOS != "" && b.NewIOS != b.CurrentIOS
}

// Android returns the identifier Android sources use after the run.
func (b BundleIDs) Android() string {
	if b.AndroidChanged() {
		return b.NewAndroid
	}
	return b.CurrentAndroid
}

// PathEntry is one folder or file rename. Paths are project-relative.
type PathEntry struct {
	Current string
	New     string
	Dir     bool

	// CreateDestFirst makes the destination before moving into it.
	CreateDestFirst bool
	// MoveChildren moves the children of Current into New rather than the
	// folder itself, then prunes emptied parents.
	MoveChildren bool
}

// Unchanged reports whether the entry renames nothing.
func (e PathEntry) Unchanged() bool { return e.Current == e.New }

// ContentEntry pairs target files with the rules rewritten in them.
type ContentEntry struct {
	Paths []string
	// FirstExisting targets only the first of Paths that exists; when none
	// does, the entry is reported against Paths[0].
	FirstExisting bool
	Rules         []Rule
}

// XMLEdit sets the nodes picked by its selectors; later selectors are
// fallbacks, tried only while earlier ones accepted nothing. Value
// receives the node's decoded current value and returns the new one, or
// false to leave the node alone.
type XMLEdit struct {
	Selectors []xmldoc.Selector
	Value     func(current string) (string, bool)
}

// XMLEntry is a set of edits applied to one document.
type XMLEntry struct {
	Path  string
	Edits []XMLEdit
}

// set returns an edit that writes value unconditionally.
func set(value string, sels ...xmldoc.Selector) XMLEdit {
	return XMLEdit{
		Selectors: sels,
		Value:     func(string) (string, bool) { return value, true },
	}
}

// Layout is where the iOS sources live after path renames.
type Layout struct {
	// PathContent is the iOS path token after renames.
	PathContent string
}

// IOSAppDir is the app source folder ("ios/MyApp").
func (l Layout) IOSAppDir() string { return paths.Join("ios", l.PathContent) }

// InfoPlist is the app's Info.plist.
func (l Layout) InfoPlist() string { return paths.Join(l.IOSAppDir(), "Info.plist") }

// Entitlements are the app's entitlement files, debug first.
func (l Layout) Entitlements() []string {
	return []string{
		paths.Join(l.IOSAppDir(), l.PathContent+".entitlements"),
		paths.Join(l.IOSAppDir(), l.PathContent+"Release.entitlements"),
	}
}

// XcodeProject is the renamed .xcodeproj folder.
func (l Layout) XcodeProject() string { return paths.Join("ios", l.PathContent+".xcodeproj") }

// PBXProj is project.pbxproj inside the renamed Xcode project.
func (l Layout) PBXProj() string { return paths.Join(l.XcodeProject(), "project.pbxproj") }

// Android resource and manifest paths. They do not move during a rename.
const (
	AndroidManifest = "android/app/src/main/AndroidManifest.xml"
	StringsXML      = "android/app/src/main/res/values/strings.xml"
)

// androidSourceRoots are the source-set relative roots package folders
// live under.
var androidSourceRoots = []string{"java", "kotlin"}

// mapBundlePath rewrites rel, which lies under oldPath inside some source
// root, to the matching location under newPath.
func mapBundlePath(rel, oldPath, newPath string) string {
	marker := "/" + oldPath
	i := strings.Index(rel, marker+"/")
	if i < 0 {
		if strings.HasSuffix(rel, marker) {
			return strings.TrimSuffix(rel, oldPath) + newPath
		}
		return rel
	}
	return rel[:i+1] + newPath + rel[i+len(marker):]
}

func bundlePath(id string) string {
	return paths.NormalizeRel(identifier.BundleIDToPath(id))
}
