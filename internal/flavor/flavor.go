// Package flavor loads named flavor definitions: per-environment bundle
// identifiers, SDK keys, and files to copy into the project.
//
// A flavor file maps flavor names to definitions:
//
//	{
//	  "staging": {
//	    "bundleID": "com.acme.app.staging",
//	    "branch": {"liveKey": "key_live_…", "testKey": "key_test_…", "domain": "acme.app.link"},
//	    "codePush": {"ios": "…", "android": "…"},
//	    "bugsnag": {"apiKey": "…"},
//	    "filesFolder": "flavors/staging",
//	    "files": [{"src": "GoogleService-Info.plist", "dest": "ios/Acme/GoogleService-Info.plist"}]
//	  }
//	}
//
// Files ending in .yaml or .yml are read as YAML with the same keys.
package flavor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	goslug "github.com/gosimple/slug"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/mobrename/internal/identifier"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrFlavorNotFound is returned when the requested flavor is not defined.
var ErrFlavorNotFound = errors.New("flavor not found")

// Branch holds deep-link settings.
type Branch struct {
	LiveKey             string `json:"liveKey" yaml:"liveKey"`
	TestKey             string `json:"testKey" yaml:"testKey"`
	Domain              string `json:"domain" yaml:"domain"`
	AlternateDomain     string `json:"alternateDomain" yaml:"alternateDomain"`
	TestDomain          string `json:"testDomain" yaml:"testDomain"`
	TestAlternateDomain string `json:"testAlternateDomain" yaml:"testAlternateDomain"`
	URIScheme           string `json:"uriScheme" yaml:"uriScheme"`
}

// CodePush holds update-service deployment keys per platform.
type CodePush struct {
	IOS     string `json:"ios" yaml:"ios"`
	Android string `json:"android" yaml:"android"`
}

// Bugsnag holds the crash-reporting key.
type Bugsnag struct {
	APIKey string `json:"apiKey" yaml:"apiKey"`
}

// File is a copy directive; Src is relative to Spec.FilesFolder and Dest to
// the project root.
type File struct {
	Src  string `json:"src" yaml:"src"`
	Dest string `json:"dest" yaml:"dest"`
}

// Spec is one flavor definition.
type Spec struct {
	Name string `json:"-" yaml:"-"`

	BundleID        string `json:"bundleID" yaml:"bundleID"`
	IOSBundleID     string `json:"iosBundleID" yaml:"iosBundleID"`
	AndroidBundleID string `json:"androidBundleID" yaml:"androidBundleID"`

	Branch   *Branch   `json:"branch" yaml:"branch"`
	CodePush *CodePush `json:"codePush" yaml:"codePush"`
	Bugsnag  *Bugsnag  `json:"bugsnag" yaml:"bugsnag"`

	FilesFolder string `json:"filesFolder" yaml:"filesFolder"`
	Files       []File `json:"files" yaml:"files"`
}

// BundleIDFor returns the flavor's bundle identifier for p, preferring the
// platform-specific value.
func (s *Spec) BundleIDFor(p identifier.Platform) string {
	if s == nil {
		return ""
	}
	switch p {
	case identifier.IOS:
		if s.IOSBundleID != "" {
			return s.IOSBundleID
		}
	case identifier.Android:
		if s.AndroidBundleID != "" {
			return s.AndroidBundleID
		}
	}
	return s.BundleID
}

// Key normalizes a flavor name for lookup: "Staging App", "staging-app" and
// "STAGING_APP" all match.
func Key(name string) string {
	return goslug.Make(strings.ReplaceAll(name, "_", "-"))
}

// Load reads path and returns the flavor called name.
func Load(path, name string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flavor file: %w", err)
	}
	all, err := Parse(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	want := Key(name)
	for flavorName, spec := range all {
		if Key(flavorName) == want {
			spec.Name = flavorName
			return spec, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrFlavorNotFound, name, strings.Join(Names(all), ", "))
}

// Parse decodes a flavor file. ext selects YAML for ".yaml" and ".yml";
// anything else is read as JSON.
func Parse(data []byte, ext string) (map[string]*Spec, error) {
	all := make(map[string]*Spec)
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &all); err != nil {
			return nil, fmt.Errorf("parse flavors: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &all); err != nil {
			return nil, fmt.Errorf("parse flavors: %w", err)
		}
	}
	for name, spec := range all {
		if spec == nil {
			all[name] = &Spec{}
		}
	}
	return all, nil
}

// Names returns the flavor names in a file, sorted.
func Names(all map[string]*Spec) []string {
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
