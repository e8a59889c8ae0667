package catalog

import (
	"strings"

	"github.com/aidanlsb/mobrename/internal/flavor"
	"github.com/aidanlsb/mobrename/internal/xmldoc"
)

// KeyOptions selects which flavor keys are written.
type KeyOptions struct {
	Branch   bool
	CodePush bool
	Bugsnag  bool
}

// Any reports whether at least one key group is enabled.
func (o KeyOptions) Any() bool { return o.Branch || o.CodePush || o.Bugsnag }

// Branch link host suffixes, most specific first.
var branchHosts = []struct {
	suffix string
	pick   func(b *flavor.Branch) string
}{
	{"-alternate.test-app.link", func(b *flavor.Branch) string { return b.TestAlternateDomain }},
	{".test-app.link", func(b *flavor.Branch) string { return b.TestDomain }},
	{"-alternate.app.link", func(b *flavor.Branch) string { return b.AlternateDomain }},
	{".app.link", func(b *flavor.Branch) string { return b.Domain }},
}

// BranchHost maps an existing link host to the flavor's domain of the same
// kind. It returns false when the host is not a Branch host or the flavor
// leaves that domain empty.
func BranchHost(host string, b *flavor.Branch) (string, bool) {
	if b == nil {
		return "", false
	}
	for _, h := range branchHosts {
		if strings.HasSuffix(host, h.suffix) {
			d := h.pick(b)
			return d, d != ""
		}
	}
	return "", false
}

// FlavorKeys lists the XML edits that write the flavor's SDK keys. Files
// are grouped so each document is loaded and written once.
func FlavorKeys(spec *flavor.Spec, opts KeyOptions, l Layout) []XMLEntry {
	if spec == nil || !opts.Any() {
		return nil
	}
	edits := make(map[string][]XMLEdit)
	var order []string
	add := func(path string, e ...XMLEdit) {
		if len(e) == 0 {
			return
		}
		if _, ok := edits[path]; !ok {
			order = append(order, path)
		}
		edits[path] = append(edits[path], e...)
	}

	if opts.Branch && spec.Branch != nil {
		b := spec.Branch
		add(AndroidManifest, branchManifestEdits(b)...)
		add(l.InfoPlist(), branchPlistEdits(b)...)
		for _, ent := range l.Entitlements() {
			add(ent, XMLEdit{
				Selectors: []xmldoc.Selector{xmldoc.PlistArray("com.apple.developer.associated-domains")},
				Value: func(cur string) (string, bool) {
					host, ok := strings.CutPrefix(cur, "applinks:")
					if !ok {
						return "", false
					}
					d, ok := BranchHost(host, b)
					return "applinks:" + d, ok
				},
			})
		}
	}

	if opts.CodePush && spec.CodePush != nil {
		if spec.CodePush.IOS != "" {
			add(l.InfoPlist(), set(spec.CodePush.IOS, xmldoc.PlistKey("CodePushDeploymentKey")))
		}
		if spec.CodePush.Android != "" {
			add(StringsXML, set(spec.CodePush.Android, xmldoc.StringResource("CodePushDeploymentKey")))
		}
	}

	if opts.Bugsnag && spec.Bugsnag != nil && spec.Bugsnag.APIKey != "" {
		key := spec.Bugsnag.APIKey
		add(l.InfoPlist(), set(key, xmldoc.PlistKey("bugsnag", "apiKey"), xmldoc.PlistKey("BugsnagAPIKey")))
		add(AndroidManifest, set(key, xmldoc.MetaData("com.bugsnag.android.API_KEY")))
	}

	out := make([]XMLEntry, 0, len(order))
	for _, p := range order {
		out = append(out, XMLEntry{Path: p, Edits: edits[p]})
	}
	return out
}

func branchManifestEdits(b *flavor.Branch) []XMLEdit {
	var out []XMLEdit
	if b.LiveKey != "" {
		out = append(out, set(b.LiveKey, xmldoc.MetaData("io.branch.sdk.BranchKey")))
	}
	if b.TestKey != "" {
		out = append(out, set(b.TestKey, xmldoc.MetaData("io.branch.sdk.BranchKey.test")))
	}
	out = append(out, XMLEdit{
		Selectors: []xmldoc.Selector{xmldoc.IntentData("android:host")},
		Value:     func(cur string) (string, bool) { return BranchHost(cur, b) },
	})
	if b.URIScheme != "" {
		out = append(out, XMLEdit{
			Selectors: []xmldoc.Selector{xmldoc.IntentData("android:scheme")},
			Value: func(cur string) (string, bool) {
				if cur == "http" || cur == "https" {
					return "", false
				}
				return b.URIScheme, true
			},
		})
	}
	return out
}

func branchPlistEdits(b *flavor.Branch) []XMLEdit {
	var out []XMLEdit
	if b.LiveKey != "" {
		out = append(out, set(b.LiveKey, xmldoc.PlistKey("branch_key", "live")))
	}
	if b.TestKey != "" {
		out = append(out, set(b.TestKey, xmldoc.PlistKey("branch_key", "test")))
	}
	out = append(out, XMLEdit{
		Selectors: []xmldoc.Selector{xmldoc.PlistArray("branch_universal_link_domains")},
		Value:     func(cur string) (string, bool) { return BranchHost(cur, b) },
	})
	if b.URIScheme != "" {
		// Only the app's own scheme, the first entry, is replaced; other
		// schemes belong to third-party SDKs.
		out = append(out, XMLEdit{
			Selectors: []xmldoc.Selector{xmldoc.PlistArray("CFBundleURLTypes", "CFBundleURLSchemes")},
			Value:     firstOnly(b.URIScheme),
		})
	}
	return out
}

// firstOnly accepts the first node it is offered.
func firstOnly(value string) func(string) (string, bool) {
	done := false
	return func(string) (string, bool) {
		if done {
			return "", false
		}
		done = true
		return value, true
	}
}
