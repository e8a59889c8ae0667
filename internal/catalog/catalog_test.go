package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/mobrename/internal/flavor"
	"github.com/aidanlsb/mobrename/internal/project"
	"github.com/aidanlsb/mobrename/internal/testutil"
)

func TestTokenRule(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		matches int
	}{
		{"plain", "target 'MyApp'", "target 'NewApp'", 1},
		{"suffixes", "MyAppTests MyApp-tvOS MyApp.app", "NewAppTests NewApp-tvOS NewApp.app", 3},
		{"longer word", "MyApplication", "MyApplication", 0},
		{"prefixed", "NotMyApp", "NotMyApp", 0},
		{"path", "$(BUILT_PRODUCTS_DIR)/MyApp.app/MyApp", "$(BUILT_PRODUCTS_DIR)/NewApp.app/NewApp", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := Token("MyApp", "NewApp").Apply(tt.in)
			if got != tt.want || n != tt.matches {
				t.Fatalf("Apply(%q) = %q, %d; want %q, %d", tt.in, got, n, tt.want, tt.matches)
			}
		})
	}
}

func TestRegexRuleEscapesReplacement(t *testing.T) {
	got, n := Regex(`(name = ")old(")`, "${1}"+literal("$price")+"${2}").Apply(`name = "old"`)
	if got != `name = "$price"` || n != 1 {
		t.Fatalf("Apply() = %q, %d", got, n)
	}
}

func TestIOSPathsOrderAndNesting(t *testing.T) {
	entries := IOSPaths(Names{CurrentPathContent: "App", NewPathContent: "MyApp"})

	byCurrent := make(map[string]PathEntry)
	seenFile := false
	for _, e := range entries {
		byCurrent[e.Current] = e
		if !e.Dir {
			seenFile = true
		} else if seenFile {
			t.Fatalf("folder %s listed after a file", e.Current)
		}
	}

	want := [][2]string{
		{"ios/App", "ios/MyApp"},
		{"ios/AppTests", "ios/MyAppTests"},
		{"ios/App.xcodeproj", "ios/MyApp.xcodeproj"},
		{"ios/MyApp/App.entitlements", "ios/MyApp/MyApp.entitlements"},
		{"ios/MyAppTests/AppTests.m", "ios/MyAppTests/MyAppTests.m"},
		{"ios/MyApp.xcodeproj/xcshareddata/xcschemes/App.xcscheme", "ios/MyApp.xcodeproj/xcshareddata/xcschemes/MyApp.xcscheme"},
	}
	for _, w := range want {
		e, ok := byCurrent[w[0]]
		if !ok {
			t.Fatalf("missing entry for %s", w[0])
		}
		if e.New != w[1] {
			t.Fatalf("%s -> %s, want %s", w[0], e.New, w[1])
		}
	}
}

func TestIOSPathsUnchangedName(t *testing.T) {
	for _, e := range IOSPaths(Names{CurrentPathContent: "MyApp", NewPathContent: "MyApp"}) {
		if !e.Unchanged() {
			t.Fatalf("entry %s -> %s should be unchanged", e.Current, e.New)
		}
	}
}

func TestIOSContentModuleName(t *testing.T) {
	n := Names{CurrentPathContent: "MyApp", NewPathContent: "NewApp", CurrentModuleName: "MyApp", NewModuleName: "NewApp"}
	var delegate ContentEntry
	for _, e := range IOSContent(n) {
		if strings.HasSuffix(e.Paths[0], "AppDelegate.mm") {
			delegate = e
		}
	}
	if !delegate.FirstExisting || len(delegate.Paths) != 3 {
		t.Fatalf("unexpected AppDelegate entry: %+v", delegate)
	}

	for _, src := range []string{`self.moduleName = @"MyApp";`, `withModuleName: "MyApp"`} {
		got, count := ApplyAll(src, delegate.Rules)
		if count != 1 || !strings.Contains(got, `"NewApp"`) {
			t.Fatalf("ApplyAll(%q) = %q, %d", src, got, count)
		}
	}
}

func TestIOSBundleIDContent(t *testing.T) {
	ids := BundleIDs{CurrentIOS: "com.old.app", NewIOS: "com.new.app"}
	entries := IOSBundleIDContent(ids, Names{NewPathContent: "MyApp"})
	if len(entries) != 1 || entries[0].Paths[0] != "ios/MyApp.xcodeproj/project.pbxproj" {
		t.Fatalf("entries = %+v", entries)
	}

	src := strings.Join([]string{
		`PRODUCT_BUNDLE_IDENTIFIER = com.old.app;`,
		`PRODUCT_BUNDLE_IDENTIFIER = "com.old.app.widget";`,
		`PRODUCT_BUNDLE_IDENTIFIER = "org.reactjs.native.example.$(PRODUCT_NAME:rfc1034identifier)";`,
		`PRODUCT_BUNDLE_IDENTIFIER = com.old.application;`,
	}, "\n")
	got, n := ApplyAll(src, entries[0].Rules)
	if n != 2 {
		t.Fatalf("matches = %d, want 2:\n%s", n, got)
	}
	if !strings.Contains(got, `"com.new.app.widget"`) || !strings.Contains(got, "com.old.application") {
		t.Fatalf("unexpected rewrite:\n%s", got)
	}

	if IOSBundleIDContent(BundleIDs{CurrentIOS: "com.old.app", NewIOS: "com.old.app"}, Names{}) != nil {
		t.Fatal("unchanged identifier should produce no entries")
	}
}

func TestIOSBundleIDContentAfterTokenRename(t *testing.T) {
	ids := BundleIDs{CurrentIOS: "com.example.MyApp", NewIOS: "com.new.app"}
	n := Names{CurrentPathContent: "MyApp", NewPathContent: "NewApp"}
	entries := IOSBundleIDContent(ids, n)
	if len(entries) != 1 {
		t.Fatalf("entries = %+v", entries)
	}

	// What the pbxproj looks like once the token rule has run.
	src := strings.Join([]string{
		`PRODUCT_BUNDLE_IDENTIFIER = com.example.NewApp;`,
		`PRODUCT_BUNDLE_IDENTIFIER = "com.example.NewApp.widget";`,
		`PRODUCT_BUNDLE_IDENTIFIER = com.example.MyApp;`,
	}, "\n")
	got, count := ApplyAll(src, entries[0].Rules)
	want := strings.Join([]string{
		`PRODUCT_BUNDLE_IDENTIFIER = com.new.app;`,
		`PRODUCT_BUNDLE_IDENTIFIER = "com.new.app.widget";`,
		`PRODUCT_BUNDLE_IDENTIFIER = com.new.app;`,
	}, "\n")
	if count != 3 || got != want {
		t.Fatalf("ApplyAll() = %d\n%s\nwant:\n%s", count, got, want)
	}
}

func TestIOSDisplayNameSetting(t *testing.T) {
	tests := []struct {
		name, in, newName, want string
	}{
		{"quoted", `INFOPLIST_KEY_CFBundleDisplayName = "My App";`, "New App", `INFOPLIST_KEY_CFBundleDisplayName = "New App";`},
		{"plain", `INFOPLIST_KEY_CFBundleDisplayName = MyApp;`, "NewApp", `INFOPLIST_KEY_CFBundleDisplayName = NewApp;`},
		{"needs quoting", `INFOPLIST_KEY_CFBundleDisplayName = MyApp;`, `Say "hi"`, `INFOPLIST_KEY_CFBundleDisplayName = "Say \"hi\"";`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := IOSDisplayNameSetting(Names{NewName: tt.newName, NewPathContent: "X"})
			got, _ := ApplyAll(tt.in, e.Rules)
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAndroidBundlePaths(t *testing.T) {
	tp := testutil.NewTestProject(t).
		WithReactNative("MyApp", "com.old.app").
		WithFile("android/app/src/release/kotlin/com/old/app/Release.kt", "package com.old.app\n").
		Build()

	entries, err := AndroidBundlePaths(tp.Path, BundleIDs{CurrentAndroid: "com.old.app", NewAndroid: "com.new.app"})
	if err != nil {
		t.Fatal(err)
	}
	want := []PathEntry{
		{Current: "android/app/src/debug/java/com/old/app", New: "android/app/src/debug/java/com/new/app", Dir: true, CreateDestFirst: true, MoveChildren: true},
		{Current: "android/app/src/main/java/com/old/app", New: "android/app/src/main/java/com/new/app", Dir: true, CreateDestFirst: true, MoveChildren: true},
		{Current: "android/app/src/release/kotlin/com/old/app", New: "android/app/src/release/kotlin/com/new/app", Dir: true, CreateDestFirst: true, MoveChildren: true},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("AndroidBundlePaths mismatch (-want +got):\n%s", diff)
	}

	none, err := AndroidBundlePaths(tp.Path, BundleIDs{CurrentAndroid: "com.old.app"})
	if err != nil || none != nil {
		t.Fatalf("unchanged identifier: %v, %v", none, err)
	}
}

func TestAndroidBundleIDContentMapsSources(t *testing.T) {
	tp := testutil.NewTestProject(t).WithReactNative("MyApp", "com.old.app").Build()

	entries, err := AndroidBundleIDContent(tp.Path, BundleIDs{CurrentAndroid: "com.old.app", NewAndroid: "com.new.app"})
	if err != nil {
		t.Fatal(err)
	}

	var sources ContentEntry
	for _, e := range entries {
		if strings.HasSuffix(e.Paths[0], ".kt") || strings.HasSuffix(e.Paths[0], ".java") {
			sources = e
		}
	}
	want := []string{
		"android/app/src/debug/java/com/new/app/ReactNativeFlipper.java",
		"android/app/src/main/java/com/new/app/MainActivity.kt",
		"android/app/src/main/java/com/new/app/MainApplication.kt",
		"android/app/src/main/java/com/new/app/util/Helper.kt",
	}
	if diff := cmp.Diff(want, sources.Paths); diff != "" {
		t.Fatalf("source paths mismatch (-want +got):\n%s", diff)
	}

	src := "package com.old.app.util\n\nimport com.old.app.BuildConfig\nimport com.old.application.Other\n\nval r = com.old.app.R.string.app_name\n"
	got, n := ApplyAll(src, sources.Rules)
	wantSrc := "package com.new.app.util\n\nimport com.new.app.BuildConfig\nimport com.old.application.Other\n\nval r = com.new.app.R.string.app_name\n"
	if got != wantSrc || n != 3 {
		t.Fatalf("rewrite = %d matches:\n%s", n, got)
	}
}

func TestAndroidGradleAndManifestRules(t *testing.T) {
	tp := testutil.NewTestProject(t).WithReactNative("MyApp", "com.old.app").Build()
	entries, err := AndroidBundleIDContent(tp.Path, BundleIDs{CurrentAndroid: "com.old.app", NewAndroid: "com.new.app"})
	if err != nil {
		t.Fatal(err)
	}

	gradle, n := ApplyAll(tp.ReadFile("android/app/build.gradle"), entries[0].Rules)
	if n != 2 || strings.Contains(gradle, "com.old.app") {
		t.Fatalf("gradle rewrite = %d:\n%s", n, gradle)
	}

	var manifest ContentEntry
	for _, e := range entries {
		if strings.HasSuffix(e.Paths[0], "AndroidManifest.xml") {
			manifest = e
		}
	}
	got, n := ApplyAll(tp.ReadFile(project.AndroidManifest), manifest.Rules)
	if n != 1 || !strings.Contains(got, `package="com.new.app"`) {
		t.Fatalf("manifest rewrite = %d:\n%s", n, got)
	}
}

func TestAndroidContent(t *testing.T) {
	n := Names{NewPathContent: "NewApp", CurrentModuleName: "MyApp", NewModuleName: "NewApp"}
	entries := AndroidContent(n, BundleIDs{CurrentAndroid: "com.old.app", NewAndroid: "com.new.app"})
	if len(entries) != 2 {
		t.Fatalf("len = %d", len(entries))
	}
	if entries[1].Paths[0] != "android/app/src/main/java/com/new/app/MainActivity.kt" {
		t.Fatalf("activity path = %s", entries[1].Paths[0])
	}

	got, count := ApplyAll("rootProject.name = 'MyApp'\n", entries[0].Rules)
	if got != "rootProject.name = 'NewApp'\n" || count != 1 {
		t.Fatalf("settings = %q, %d", got, count)
	}

	java := "  @Override\n  protected String getMainComponentName() {\n    return \"MyApp\";\n  }\n"
	got, count = ApplyAll(java, entries[1].Rules)
	if !strings.Contains(got, `return "NewApp";`) || count != 1 {
		t.Fatalf("activity = %q, %d", got, count)
	}
}

func TestCrossPlatformContent(t *testing.T) {
	n := Names{NewName: `New "App"`, NewPathContent: "NewApp", NewModuleName: "NewApp"}
	id := project.Identity{ModuleName: "MyApp", PackageJSONName: "myapp"}
	entries := CrossPlatformContent(n, id)
	if len(entries) != 2 {
		t.Fatalf("len = %d", len(entries))
	}

	app, count := ApplyAll("{\n  \"name\": \"MyApp\",\n  \"displayName\": \"MyApp\"\n}\n", entries[0].Rules)
	want := "{\n  \"name\": \"NewApp\",\n  \"displayName\": \"New \\\"App\\\"\"\n}\n"
	if app != want || count != 2 {
		t.Fatalf("app.json = %q, %d", app, count)
	}

	pkg, count := ApplyAll("{\n  \"name\": \"myapp\",\n  \"author\": {\"name\": \"someone\"}\n}\n", entries[1].Rules)
	if !strings.Contains(pkg, `"name": "newapp"`) || !strings.Contains(pkg, `"someone"`) || count != 1 {
		t.Fatalf("package.json = %q, %d", pkg, count)
	}
}

func TestBranchHost(t *testing.T) {
	b := &flavor.Branch{
		Domain:              "acme.app.link",
		AlternateDomain:     "acme-alternate.app.link",
		TestDomain:          "acme.test-app.link",
		TestAlternateDomain: "",
	}
	tests := []struct {
		host   string
		want   string
		wantOK bool
	}{
		{"old.app.link", "acme.app.link", true},
		{"old-alternate.app.link", "acme-alternate.app.link", true},
		{"old.test-app.link", "acme.test-app.link", true},
		{"old-alternate.test-app.link", "", false},
		{"example.com", "", false},
	}
	for _, tt := range tests {
		got, ok := BranchHost(tt.host, b)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("BranchHost(%q) = %q, %v; want %q, %v", tt.host, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFlavorKeysGroupsByFile(t *testing.T) {
	spec := &flavor.Spec{
		Branch:   &flavor.Branch{LiveKey: "key_live_abcdefgh", TestKey: "key_test_abcdefgh"},
		CodePush: &flavor.CodePush{IOS: "ios-key", Android: "android-key"},
		Bugsnag:  &flavor.Bugsnag{APIKey: "0123456789abcdef"},
	}
	l := Layout{PathContent: "MyApp"}

	if FlavorKeys(spec, KeyOptions{}, l) != nil {
		t.Fatal("no options should produce no entries")
	}

	entries := FlavorKeys(spec, KeyOptions{Branch: true, CodePush: true, Bugsnag: true}, l)
	var got []string
	for _, e := range entries {
		got = append(got, e.Path)
	}
	want := []string{
		AndroidManifest,
		"ios/MyApp/Info.plist",
		"ios/MyApp/MyApp.entitlements",
		"ios/MyApp/MyAppRelease.entitlements",
		StringsXML,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	codePushOnly := FlavorKeys(spec, KeyOptions{CodePush: true}, l)
	if len(codePushOnly) != 2 {
		t.Fatalf("codepush entries = %d, want 2", len(codePushOnly))
	}
}
