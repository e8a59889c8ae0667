package flavor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/mobrename/internal/identifier"
)

// Policy controls what happens with validation problems.
type Policy string

const (
	// PolicyOff skips validation.
	PolicyOff Policy = "off"
	// PolicyWarn reports problems and continues.
	PolicyWarn Policy = "warn"
	// PolicyStrict turns problems into a failed precondition.
	PolicyStrict Policy = "strict"
)

// DefaultMinKeyLength is the shortest SDK key accepted by default.
const DefaultMinKeyLength = 8

// ParsePolicy parses a policy name; empty means PolicyWarn.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return PolicyWarn, nil
	case PolicyOff:
		return PolicyOff, nil
	case PolicyWarn:
		return PolicyWarn, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("unknown flavor validation policy %q (want off, warn, or strict)", s)
}

// Options selects which parts of a flavor a run will use.
type Options struct {
	Branch       bool
	CodePush     bool
	Bugsnag      bool
	MinKeyLength int
}

// Problem is one validation finding.
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string { return p.Field + ": " + p.Message }

// Validate checks the parts of s that opts enables. Bundle identifiers and
// copy directives are always checked.
func Validate(s *Spec, opts Options) []Problem {
	if s == nil {
		return nil
	}
	minLen := opts.MinKeyLength
	if minLen <= 0 {
		minLen = DefaultMinKeyLength
	}

	var out []Problem
	add := func(field, format string, args ...any) {
		out = append(out, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	checkKey := func(field, value, prefix string) {
		if value == "" {
			return
		}
		if len(value) < minLen {
			add(field, "key is shorter than %d characters", minLen)
		}
		if prefix != "" && !strings.HasPrefix(value, prefix) {
			add(field, "key should start with %q", prefix)
		}
	}

	bundles := []struct {
		field     string
		value     string
		platforms []identifier.Platform
	}{
		{"bundleID", s.BundleID, identifier.Platforms},
		{"iosBundleID", s.IOSBundleID, []identifier.Platform{identifier.IOS}},
		{"androidBundleID", s.AndroidBundleID, []identifier.Platform{identifier.Android}},
	}
	for _, b := range bundles {
		if b.value == "" {
			continue
		}
		if err := identifier.ValidateBundleID(b.value, b.platforms...); err != nil {
			add(b.field, "%v", err)
		}
	}

	if opts.Branch {
		switch {
		case s.Branch == nil:
			add("branch", "required when updating deep-link settings")
		case s.Branch.LiveKey == "" && s.Branch.TestKey == "":
			add("branch", "needs at least one of liveKey or testKey")
		default:
			checkKey("branch.liveKey", s.Branch.LiveKey, "key_live_")
			checkKey("branch.testKey", s.Branch.TestKey, "key_test_")
		}
		if s.Branch != nil {
			domains := []struct{ field, value string }{
				{"branch.domain", s.Branch.Domain},
				{"branch.alternateDomain", s.Branch.AlternateDomain},
				{"branch.testDomain", s.Branch.TestDomain},
				{"branch.testAlternateDomain", s.Branch.TestAlternateDomain},
			}
			for _, d := range domains {
				if strings.Contains(d.value, "/") {
					add(d.field, "must be a bare host name, got %q", d.value)
				}
			}
			if strings.Contains(s.Branch.URIScheme, ":") {
				add("branch.uriScheme", "must not include ':' or '://'")
			}
		}
	}

	if opts.CodePush {
		if s.CodePush == nil || (s.CodePush.IOS == "" && s.CodePush.Android == "") {
			add("codePush", "needs an ios or android deployment key")
		} else {
			checkKey("codePush.ios", s.CodePush.IOS, "")
			checkKey("codePush.android", s.CodePush.Android, "")
		}
	}

	if opts.Bugsnag {
		if s.Bugsnag == nil || s.Bugsnag.APIKey == "" {
			add("bugsnag.apiKey", "required when updating the crash-reporting key")
		} else {
			checkKey("bugsnag.apiKey", s.Bugsnag.APIKey, "")
		}
	}

	for i, f := range s.Files {
		field := fmt.Sprintf("files[%d]", i)
		if f.Src == "" || f.Dest == "" {
			add(field, "src and dest are required")
			continue
		}
		if escapesRoot(f.Dest) {
			add(field, "dest %q must stay inside the project", f.Dest)
		}
	}
	return out
}

func escapesRoot(rel string) bool {
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return true
	}
	clean := filepath.ToSlash(filepath.Clean(rel))
	return clean == ".." || strings.HasPrefix(clean, "../")
}
