package catalog

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/aidanlsb/mobrename/internal/project"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CrossPlatformContent rewrites the JS-side names: app.json "name" and
// "displayName", and package.json "name" (the lower-cased path token).
func CrossPlatformContent(n Names, id project.Identity) []ContentEntry {
	appJSON := []Rule{
		Regex(`("displayName"\s*:\s*")(?:[^"\\]|\\.)*(")`, "${1}"+literal(jsonEscape(n.NewName))+"${2}"),
	}
	if id.ModuleName != "" {
		appJSON = append([]Rule{Regex(
			`("name"\s*:\s*")`+quote(jsonEscape(id.ModuleName))+`(")`,
			"${1}"+literal(jsonEscape(n.NewModuleName))+"${2}",
		)}, appJSON...)
	}

	entries := []ContentEntry{{Paths: []string{project.AppJSON}, Rules: appJSON}}
	if id.PackageJSONName != "" {
		entries = append(entries, ContentEntry{
			Paths: []string{project.PackageJSON},
			Rules: []Rule{Regex(
				`("name"\s*:\s*")`+quote(jsonEscape(id.PackageJSONName))+`(")`,
				"${1}"+literal(jsonEscape(strings.ToLower(n.NewPathContent)))+"${2}",
			)},
		})
	}
	return entries
}

// jsonEscape returns s as it appears between the quotes of a JSON string.
func jsonEscape(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(string(b), `"`), `"`)
}

// BuildArtifacts are the generated folders removed after a rename. They
// embed old names and paths and are rebuilt by the platform tooling.
func BuildArtifacts() []string {
	return []string{
		"ios/build",
		"ios/Pods",
		"android/.gradle",
		"android/app/build",
		"android/build",
	}
}
