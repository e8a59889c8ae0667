// Package paths provides canonical helpers for project-relative paths:
// - normalising slash-separated relative paths
// - replacing a name token inside a relative path
// - resolving glob patterns against the project root, either to exactly one
//   match (Resolve) or to any number of matches (Glob)
//
// All relative paths handled here use forward slashes; Abs converts them to
// OS paths under the project root.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NormalizeRel normalizes a project-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
// - trims a trailing '/'
func NormalizeRel(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return strings.TrimSuffix(p, "/")
}

// Join joins slash-separated relative path elements.
func Join(elem ...string) string {
	return NormalizeRel(strings.Join(elem, "/"))
}

// Abs returns the OS path of rel under root.
func Abs(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(NormalizeRel(rel)))
}

// Rel returns the slash-separated path of abs relative to root.
func Rel(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return NormalizeRel(abs)
	}
	return NormalizeRel(rel)
}

// ReplaceToken replaces every occurrence of current with next in rel.
// An empty current token leaves the path untouched.
func ReplaceToken(rel, current, next string) string {
	if current == "" {
		return rel
	}
	return strings.ReplaceAll(rel, current, next)
}

// ResolveError reports a glob that was expected to match exactly one path.
type ResolveError struct {
	Pattern string
	Matches []string
}

func (e *ResolveError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("no path matches %s", e.Pattern)
	}
	return fmt.Sprintf("%d paths match %s (%s); expected exactly one",
		len(e.Matches), e.Pattern, strings.Join(e.Matches, ", "))
}

// Missing reports whether the pattern matched nothing.
func (e *ResolveError) Missing() bool { return len(e.Matches) == 0 }

// Glob returns the project-relative paths matching pattern, sorted.
// Patterns use doublestar syntax ("**", "{a,b}") and are matched against
// root as a directory filesystem, so metacharacters in root itself are inert.
func Glob(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), NormalizeRel(pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// GlobDirs is Glob restricted to directories.
func GlobDirs(root, pattern string) ([]string, error) {
	all, err := Glob(root, pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, m := range all {
		if info, err := os.Stat(Abs(root, m)); err == nil && info.IsDir() {
			out = append(out, m)
		}
	}
	return out, nil
}

// Resolve returns the single project-relative path matching pattern.
// Zero or several matches produce a *ResolveError.
func Resolve(root, pattern string) (string, error) {
	matches, err := Glob(root, pattern)
	if err != nil {
		return "", err
	}
	if len(matches) != 1 {
		return "", &ResolveError{Pattern: pattern, Matches: matches}
	}
	return matches[0], nil
}

// ResolveDir is Resolve restricted to directories.
func ResolveDir(root, pattern string) (string, error) {
	matches, err := GlobDirs(root, pattern)
	if err != nil {
		return "", err
	}
	if len(matches) != 1 {
		return "", &ResolveError{Pattern: pattern, Matches: matches}
	}
	return matches[0], nil
}
