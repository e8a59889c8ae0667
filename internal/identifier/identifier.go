// Package identifier validates app names and bundle identifiers and converts
// between their dotted and path forms.
//
// There are two kinds of names in a project:
//   - Display names: what the user sees under the app icon ("My App!").
//   - Path-content strings: the cleaned token embedded in folder and file names
//     ("MyApp"), built from letters and digits only.
package identifier

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// MaxNameLength is the longest display name accepted.
const MaxNameLength = 30

// MinPathContentLength is the shortest cleaned name usable in file paths.
const MinPathContentLength = 3

var (
	ErrEmptyName          = errors.New("app name is empty")
	ErrNameTooLong        = fmt.Errorf("app name is longer than %d characters", MaxNameLength)
	ErrNameTooShort       = fmt.Errorf("app name has fewer than %d letters or digits; a path content string is required", MinPathContentLength)
	ErrInvalidPathContent = errors.New("path content string must contain only letters and digits")
)

// Platform names a mobile platform.
type Platform string

const (
	IOS     Platform = "ios"
	Android Platform = "android"
)

// Platforms is the default set checked by ValidateBundleID.
var Platforms = []Platform{IOS, Android}

var bundlePatterns = map[Platform]*regexp.Regexp{
	Android: regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._]+$`),
	IOS:     regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.\-]+$`),
}

// BundleIDError reports which platforms rejected a bundle identifier.
type BundleIDError struct {
	ID        string
	Platforms []Platform
}

func (e *BundleIDError) Error() string {
	names := make([]string, len(e.Platforms))
	for i, p := range e.Platforms {
		names[i] = string(p)
	}
	return fmt.Sprintf("invalid bundle identifier %q for %s", e.ID, strings.Join(names, ", "))
}

// Has reports whether p is one of the failing platforms.
func (e *BundleIDError) Has(p Platform) bool {
	for _, f := range e.Platforms {
		if f == p {
			return true
		}
	}
	return false
}

// CleanString keeps only Unicode letters and digits.
func CleanString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateName checks a new display name. pathContent is the explicit
// path-content override and may be empty.
func ValidateName(name, pathContent string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if len([]rune(name)) > MaxNameLength {
		return ErrNameTooLong
	}
	if pathContent != "" {
		if CleanString(pathContent) != pathContent || len([]rune(pathContent)) < MinPathContentLength {
			return ErrInvalidPathContent
		}
		return nil
	}
	if len([]rune(CleanString(name))) < MinPathContentLength {
		return ErrNameTooShort
	}
	return nil
}

// PathContent returns the token used in file and folder names for name.
func PathContent(name, override string) string {
	if override != "" {
		return override
	}
	return CleanString(name)
}

// ValidateBundleID checks id against the rules of each requested platform.
// With no platforms given, both are checked.
func ValidateBundleID(id string, platforms ...Platform) error {
	if len(platforms) == 0 {
		platforms = Platforms
	}
	segmentsOK := hasSegments(id)

	var failed []Platform
	for _, p := range platforms {
		re, ok := bundlePatterns[p]
		if !ok || !segmentsOK || !re.MatchString(id) {
			failed = append(failed, p)
		}
	}
	if len(failed) > 0 {
		return &BundleIDError{ID: id, Platforms: failed}
	}
	return nil
}

func hasSegments(id string) bool {
	parts := strings.Split(id, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// BundleIDToPath converts "com.example.app" to "com/example/app".
// The result always uses forward slashes.
func BundleIDToPath(id string) string {
	return strings.ReplaceAll(id, ".", "/")
}

// PathToBundleID converts a package folder path back to dotted form.
func PathToBundleID(p string) string {
	p = filepath.ToSlash(p)
	p = strings.Trim(p, "/")
	return strings.ReplaceAll(p, "/", ".")
}
