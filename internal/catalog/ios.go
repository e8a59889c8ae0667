package catalog

import (
	"strings"

	"github.com/aidanlsb/mobrename/internal/paths"
	"github.com/aidanlsb/mobrename/internal/xmldoc"
)

// IOSPaths lists the iOS folders and files whose names carry the path
// token. Folders come first; files nested in a renamed folder are listed
// under the folder's new name so the entries apply in order.
func IOSPaths(n Names) []PathEntry {
	c, next := n.CurrentPathContent, n.NewPathContent
	rename := func(parent, base string, dir bool) PathEntry {
		return PathEntry{
			Current: paths.Join(parent, base),
			New:     paths.Join(parent, paths.ReplaceToken(base, c, next)),
			Dir:     dir,
		}
	}

	entries := []PathEntry{
		rename("ios", c, true),
		rename("ios", c+"-tvOS", true),
		rename("ios", c+"-tvOSTests", true),
		rename("ios", c+"Tests", true),
		rename("ios", c+".xcworkspace", true),
		rename("ios", c+".xcodeproj", true),
	}

	schemes := paths.Join("ios", next+".xcodeproj", "xcshareddata", "xcschemes")
	appDir := paths.Join("ios", next)
	entries = append(entries,
		rename(schemes, c+".xcscheme", false),
		rename(schemes, c+"-tvOS.xcscheme", false),
		rename(paths.Join("ios", next+"Tests"), c+"Tests.m", false),
		rename(paths.Join("ios", next+"Tests"), c+"Tests.swift", false),
		rename(appDir, c+"-Bridging-Header.h", false),
		rename(appDir, c+".entitlements", false),
		rename(appDir, c+"Release.entitlements", false),
	)
	return entries
}

// IOSContent lists the iOS files that mention the path token or module
// name. Paths are the post-rename locations.
func IOSContent(n Names) []ContentEntry {
	c, next := n.CurrentPathContent, n.NewPathContent
	l := Layout{PathContent: next}
	token := []Rule{Token(c, next)}
	schemes := paths.Join(l.XcodeProject(), "xcshareddata", "xcschemes")

	entries := []ContentEntry{
		{Paths: []string{"ios/Podfile"}, Rules: []Rule{
			Regex(`(target\s+['"])`+quote(c)+`((?:-tvOS)?(?:Tests)?['"])`, "${1}"+literal(next)+"${2}"),
		}},
		{Paths: []string{l.PBXProj()}, Rules: token},
		{Paths: []string{paths.Join("ios", next+".xcworkspace", "contents.xcworkspacedata")}, Rules: token},
		{Paths: []string{paths.Join(schemes, next+".xcscheme")}, Rules: token},
		{Paths: []string{paths.Join(schemes, next+"-tvOS.xcscheme")}, Rules: token},
		{
			Paths: []string{
				paths.Join(l.IOSAppDir(), "AppDelegate.mm"),
				paths.Join(l.IOSAppDir(), "AppDelegate.m"),
				paths.Join(l.IOSAppDir(), "AppDelegate.swift"),
			},
			FirstExisting: true,
			Rules:         []Rule{moduleNameRule(n)},
		},
		{
			Paths: []string{
				paths.Join("ios", next+"Tests", next+"Tests.m"),
				paths.Join("ios", next+"Tests", next+"Tests.swift"),
			},
			FirstExisting: true,
			Rules:         token,
		},
	}
	return entries
}

// moduleNameRule rewrites the component name handed to the React root view:
// `self.moduleName = @"MyApp"`, `moduleName: "MyApp"`, `withModuleName: "MyApp"`.
func moduleNameRule(n Names) Rule {
	return Regex(
		`([Mm]oduleName\s*[:=]\s*@?")`+quote(n.CurrentModuleName)+`(")`,
		"${1}"+literal(n.NewModuleName)+"${2}",
	)
}

// IOSBundleIDContent rewrites PRODUCT_BUNDLE_IDENTIFIER values equal to,
// or suffixed from, the current iOS bundle identifier. Test target
// identifiers built from $(PRODUCT_NAME) are left alone.
//
// The pbxproj token rule runs first, so an identifier containing the path
// token is matched in its token-renamed form too.
func IOSBundleIDContent(ids BundleIDs, n Names) []ContentEntry {
	if !ids.IOSChanged() {
		return nil
	}
	l := Layout{PathContent: n.NewPathContent}
	current := quote(ids.CurrentIOS)
	if renamed, k := Token(n.CurrentPathContent, n.NewPathContent).Apply(ids.CurrentIOS); k > 0 && renamed != ids.CurrentIOS {
		current = `(?:` + current + `|` + quote(renamed) + `)`
	}
	return []ContentEntry{{
		Paths: []string{l.PBXProj()},
		Rules: []Rule{Regex(
			`(PRODUCT_BUNDLE_IDENTIFIER = "?)`+current+`((?:\.[A-Za-z0-9.\-]+)?"?;)`,
			"${1}"+literal(ids.NewIOS)+"${2}",
		)},
	}}
}

// IOSDisplayName sets CFBundleDisplayName in Info.plist. A value that is
// a build-setting reference is left for the pbxproj rule.
func IOSDisplayName(n Names) XMLEntry {
	l := Layout{PathContent: n.NewPathContent}
	return XMLEntry{
		Path: l.InfoPlist(),
		Edits: []XMLEdit{{
			Selectors: []xmldoc.Selector{xmldoc.PlistKey("CFBundleDisplayName")},
			Value: func(cur string) (string, bool) {
				if strings.Contains(cur, "$(") {
					return "", false
				}
				return n.NewName, true
			},
		}},
	}
}

// IOSDisplayNameSetting rewrites INFOPLIST_KEY_CFBundleDisplayName for
// projects that generate Info.plist entries from build settings.
func IOSDisplayNameSetting(n Names) ContentEntry {
	l := Layout{PathContent: n.NewPathContent}
	return ContentEntry{
		Paths: []string{l.PBXProj()},
		Rules: []Rule{Regex(
			`INFOPLIST_KEY_CFBundleDisplayName = (?:"(?:[^"\\]|\\.)*"|[^;"]*);`,
			"INFOPLIST_KEY_CFBundleDisplayName = "+literal(pbxValue(n.NewName))+";",
		)},
	}
}

// pbxValue quotes s when the pbxproj format requires it.
func pbxValue(s string) string {
	plain := s != ""
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '.' || r == '/') {
			plain = false
			break
		}
	}
	if plain {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
