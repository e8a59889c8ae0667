package project

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/aidanlsb/mobrename/internal/xmldoc"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Identity is the snapshot of a project's current names and identifiers,
// read once before a run starts.
type Identity struct {
	IOSDisplayName     string
	IOSProjectPathName string
	IOSBundleID        string
	AndroidAppName     string
	AndroidBundleID    string

	// ModuleName is the JS component name registered by the app (app.json
	// "name"); native entry points refer to it.
	ModuleName         string
	AppJSONDisplayName string
	PackageJSONName    string
}

var (
	applicationIDPattern = regexp.MustCompile(`applicationId\s*=?\s*["']([^"']+)["']`)
	namespacePattern     = regexp.MustCompile(`namespace\s*=?\s*["']([^"']+)["']`)
	bundleIDPattern      = regexp.MustCompile(`PRODUCT_BUNDLE_IDENTIFIER = "?([^";]+)"?;`)
	displayNamePattern   = regexp.MustCompile(`INFOPLIST_KEY_CFBundleDisplayName = "?([^";]+)"?;`)
	plistDisplayPattern  = regexp.MustCompile(`<key>CFBundleDisplayName</key>\s*<string>([^<]*)</string>`)
)

// ReadIdentity reads the current identity of p.
func (p *Project) ReadIdentity() (Identity, error) {
	id := Identity{IOSProjectPathName: p.PathName()}

	var err error
	if id.AndroidAppName, err = p.androidAppName(); err != nil {
		return id, err
	}
	if id.AndroidBundleID, err = p.androidBundleID(); err != nil {
		return id, err
	}
	pbxproj, err := os.ReadFile(p.Abs(p.PBXProj()))
	if err != nil {
		return id, fmt.Errorf("%w: read %s: %w", ErrInvalidStructure, p.PBXProj(), err)
	}
	id.IOSBundleID = iosBundleID(string(pbxproj))
	id.IOSDisplayName = p.iosDisplayName(string(pbxproj))

	if err := p.readJSONNames(&id); err != nil {
		return id, err
	}
	if id.ModuleName == "" {
		id.ModuleName = id.IOSProjectPathName
	}
	return id, nil
}

func (p *Project) androidAppName() (string, error) {
	data, err := os.ReadFile(p.Abs(StringsXML))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrInvalidStructure, StringsXML, err)
	}
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", StringsXML, err)
	}
	name, ok := doc.Get(xmldoc.StringResource("app_name"))
	if !ok {
		return "", fmt.Errorf("%w: %s has no app_name string", ErrInvalidStructure, StringsXML)
	}
	return name, nil
}

// androidBundleID prefers applicationId, then the Gradle namespace, then
// the manifest package attribute.
func (p *Project) androidBundleID() (string, error) {
	for _, rel := range []string{AppBuildGradle, AppBuildGradle + ".kts"} {
		data, err := os.ReadFile(p.Abs(rel))
		if err != nil {
			continue
		}
		if m := applicationIDPattern.FindSubmatch(data); m != nil {
			return string(m[1]), nil
		}
		if m := namespacePattern.FindSubmatch(data); m != nil {
			return string(m[1]), nil
		}
	}

	data, err := os.ReadFile(p.Abs(AndroidManifest))
	if err != nil {
		return "", fmt.Errorf("%w: no applicationId in build.gradle and %s unreadable", ErrInvalidStructure, AndroidManifest)
	}
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", AndroidManifest, err)
	}
	if pkg, ok := doc.Get(xmldoc.RootAttr("package")); ok && pkg != "" {
		return pkg, nil
	}
	return "", fmt.Errorf("%w: cannot determine the Android application id", ErrInvalidStructure)
}

// iosBundleID returns the first app bundle identifier in project.pbxproj,
// skipping test targets and unresolved build-setting references.
func iosBundleID(pbxproj string) string {
	for _, m := range bundleIDPattern.FindAllStringSubmatch(pbxproj, -1) {
		v := m[1]
		if strings.HasSuffix(v, "Tests") || strings.Contains(v, "$(") {
			continue
		}
		return v
	}
	return ""
}

// iosDisplayName reads CFBundleDisplayName from Info.plist. Unresolved
// build-setting references fall back to the Xcode 14 build setting, then to
// the project name.
func (p *Project) iosDisplayName(pbxproj string) string {
	name := ""
	if data, err := os.ReadFile(p.Abs(p.InfoPlist())); err == nil {
		if doc, err := xmldoc.Parse(data); err == nil {
			name, _ = doc.Get(xmldoc.PlistKey("CFBundleDisplayName"))
		} else if m := plistDisplayPattern.FindSubmatch(data); m != nil {
			// Plists with entities the XML parser rejects.
			name = xmldoc.Decode(string(m[1]))
		}
	}
	if name == "" || strings.Contains(name, "$(") {
		if m := displayNamePattern.FindStringSubmatch(pbxproj); m != nil {
			name = m[1]
		}
	}
	if name == "" || strings.Contains(name, "$(") {
		name = p.PathName()
	}
	return name
}

func (p *Project) readJSONNames(id *Identity) error {
	var pkg struct {
		Name string `json:"name"`
	}
	data, err := os.ReadFile(p.Abs(PackageJSON))
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrInvalidStructure, PackageJSON, err)
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("parse %s: %w", PackageJSON, err)
	}
	id.PackageJSONName = pkg.Name

	data, err = os.ReadFile(p.Abs(AppJSON))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", AppJSON, err)
	}
	var app struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		Expo        *struct {
			Name string `json:"name"`
		} `json:"expo"`
	}
	if err := json.Unmarshal(data, &app); err != nil {
		return fmt.Errorf("parse %s: %w", AppJSON, err)
	}
	id.ModuleName = app.Name
	id.AppJSONDisplayName = app.DisplayName
	if id.ModuleName == "" && app.Expo != nil {
		id.ModuleName = app.Expo.Name
	}
	return nil
}
