package catalog

import (
	"github.com/aidanlsb/mobrename/internal/paths"
	"github.com/aidanlsb/mobrename/internal/xmldoc"
)

// AndroidBundlePaths finds every android/app/src/<set>/{java,kotlin}
// folder for the current bundle path and pairs it with the new nested
// path. It returns nothing when the Android identifier does not change.
func AndroidBundlePaths(root string, ids BundleIDs) ([]PathEntry, error) {
	if !ids.AndroidChanged() {
		return nil, nil
	}
	oldPath, newPath := bundlePath(ids.CurrentAndroid), bundlePath(ids.NewAndroid)
	dirs, err := paths.GlobDirs(root, "android/app/src/*/{java,kotlin}/"+oldPath)
	if err != nil {
		return nil, err
	}

	entries := make([]PathEntry, 0, len(dirs))
	for _, d := range dirs {
		entries = append(entries, PathEntry{
			Current:         d,
			New:             mapBundlePath(d, oldPath, newPath),
			Dir:             true,
			CreateDestFirst: true,
			MoveChildren:    true,
		})
	}
	return entries, nil
}

// AndroidContent lists the Android files that carry the project or module
// name. MainActivity is looked up under the bundle path in effect after
// the run.
func AndroidContent(n Names, ids BundleIDs) []ContentEntry {
	pkg := bundlePath(ids.Android())
	var activities []string
	for _, src := range androidSourceRoots {
		for _, ext := range []string{".kt", ".java"} {
			activities = append(activities, paths.Join("android/app/src/main", src, pkg, "MainActivity"+ext))
		}
	}

	return []ContentEntry{
		{
			Paths:         []string{"android/settings.gradle", "android/settings.gradle.kts"},
			FirstExisting: true,
			Rules: []Rule{Regex(
				`(rootProject\.name\s*=\s*['"])[^'"]*(['"])`,
				"${1}"+literal(n.NewPathContent)+"${2}",
			)},
		},
		{
			Paths:         activities,
			FirstExisting: true,
			Rules: []Rule{Regex(
				`(getMainComponentName\(\)[^"]*?")`+quote(n.CurrentModuleName)+`(")`,
				"${1}"+literal(n.NewModuleName)+"${2}",
			)},
		},
	}
}

// AndroidBundleIDContent lists the files that spell out the Android bundle
// identifier. Source files are found under the current bundle path and
// returned at the location the folder move gives them, so the table must
// be built before the move runs.
func AndroidBundleIDContent(root string, ids BundleIDs) ([]ContentEntry, error) {
	if !ids.AndroidChanged() {
		return nil, nil
	}
	cur, next := ids.CurrentAndroid, ids.NewAndroid
	oldPath, newPath := bundlePath(cur), bundlePath(next)

	entries := []ContentEntry{{
		Paths:         []string{"android/app/build.gradle", "android/app/build.gradle.kts"},
		FirstExisting: true,
		Rules: []Rule{
			Regex(`(applicationId\s*=?\s*["'])`+quote(cur)+`(["'])`, "${1}"+literal(next)+"${2}"),
			Regex(`(namespace\s*=?\s*["'])`+quote(cur)+`(["'])`, "${1}"+literal(next)+"${2}"),
		},
	}}

	buck, err := paths.Glob(root, "android/app/{BUCK,_BUCK}")
	if err != nil {
		return nil, err
	}
	if len(buck) > 0 {
		entries = append(entries, ContentEntry{
			Paths: buck,
			Rules: []Rule{Regex(`(["'])`+quote(cur)+`(["'])`, "${1}"+literal(next)+"${2}")},
		})
	}

	manifests, err := paths.Glob(root, "android/app/src/*/AndroidManifest.xml")
	if err != nil {
		return nil, err
	}
	if len(manifests) > 0 {
		entries = append(entries, ContentEntry{
			Paths: manifests,
			Rules: []Rule{Regex(`(["'])`+quote(cur)+`([."'])`, "${1}"+literal(next)+"${2}")},
		})
	}

	sources, err := paths.Glob(root, "android/app/src/*/{java,kotlin}/"+oldPath+"/**/*.{java,kt}")
	if err != nil {
		return nil, err
	}
	if len(sources) > 0 {
		moved := make([]string, len(sources))
		for i, s := range sources {
			moved[i] = mapBundlePath(s, oldPath, newPath)
		}
		entries = append(entries, ContentEntry{
			Paths: moved,
			Rules: []Rule{
				Regex(`(?m)^(\s*package\s+)`+quote(cur)+`([.;\s]|$)`, "${1}"+literal(next)+"${2}"),
				Regex(`(?m)^(\s*import\s+(?:static\s+)?)`+quote(cur)+`([.;\s]|$)`, "${1}"+literal(next)+"${2}"),
				Regex(`([^A-Za-z0-9_.])`+quote(cur)+`\.(R|BuildConfig)\b`, "${1}"+literal(next)+".${2}"),
			},
		})
	}
	return entries, nil
}

// AndroidDisplayName sets the app_name string resource.
func AndroidDisplayName(n Names) XMLEntry {
	return XMLEntry{
		Path:  StringsXML,
		Edits: []XMLEdit{set(n.NewName, xmldoc.StringResource("app_name"))},
	}
}
