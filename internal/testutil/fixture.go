package testutil

import (
	"strings"
)

// Branch keys and CodePush/Bugsnag keys used by ReactNativeFiles.
const (
	FixtureBranchLive   = "key_live_fixture000000000000"
	FixtureBranchTest   = "key_test_fixture000000000000"
	FixtureCodePushIOS  = "ios-codepush-fixture"
	FixtureCodePushAndr = "android-codepush-fixture"
	FixtureBugsnag      = "0123456789abcdef0123456789abcdef"
)

// ReactNativeFiles returns the files of a minimal React Native project whose
// display name, Xcode project, and JS module are all name, with bundleID on
// both platforms. Paths are slash-separated and project-relative.
func ReactNativeFiles(name, bundleID string) map[string]string {
	lower := strings.ToLower(name)
	bundlePath := strings.ReplaceAll(bundleID, ".", "/")

	r := strings.NewReplacer(
		"{{NAME}}", name,
		"{{LOWER}}", lower,
		"{{BUNDLE}}", bundleID,
		"{{BRANCH_LIVE}}", FixtureBranchLive,
		"{{BRANCH_TEST}}", FixtureBranchTest,
		"{{CODEPUSH_IOS}}", FixtureCodePushIOS,
		"{{CODEPUSH_ANDROID}}", FixtureCodePushAndr,
		"{{BUGSNAG}}", FixtureBugsnag,
	)

	templates := map[string]string{
		"package.json":                                "{\n  \"name\": \"{{LOWER}}\",\n  \"version\": \"0.0.1\",\n  \"private\": true\n}\n",
		"app.json":                                    "{\n  \"name\": \"{{NAME}}\",\n  \"displayName\": \"{{NAME}}\"\n}\n",
		"ios/Podfile":                                 podfile,
		"ios/{{NAME}}.xcodeproj/project.pbxproj":      pbxproj,
		"ios/{{NAME}}.xcodeproj/xcshareddata/xcschemes/{{NAME}}.xcscheme": scheme,
		"ios/{{NAME}}.xcworkspace/contents.xcworkspacedata":               workspace,
		"ios/{{NAME}}/Info.plist":                                         infoPlist,
		"ios/{{NAME}}/AppDelegate.mm":                                     appDelegate,
		"ios/{{NAME}}/{{NAME}}.entitlements":                              entitlements,
		"ios/{{NAME}}Tests/{{NAME}}Tests.m":                               iosTests,
		"android/settings.gradle":                                         "rootProject.name = '{{NAME}}'\ninclude ':app'\n",
		"android/app/build.gradle":                                        buildGradle,
		"android/app/src/main/AndroidManifest.xml":                        manifest,
		"android/app/src/main/res/values/strings.xml":                     stringsXML,
		"android/app/src/main/java/" + bundlePath + "/MainActivity.kt":    mainActivity,
		"android/app/src/main/java/" + bundlePath + "/MainApplication.kt": mainApplication,
		"android/app/src/main/java/" + bundlePath + "/util/Helper.kt":     helper,
		"android/app/src/debug/java/" + bundlePath + "/ReactNativeFlipper.java": flipper,
	}

	files := make(map[string]string, len(templates))
	for path, content := range templates {
		files[r.Replace(path)] = r.Replace(content)
	}
	return files
}

const podfile = `platform :ios, min_ios_version_supported

target '{{NAME}}' do
  config = use_native_modules!

  target '{{NAME}}Tests' do
    inherit! :complete
  end
end
`

const pbxproj = `// !$*UTF8*$!
{
	objects = {
		13B07F961A680F5B00A75B9A /* {{NAME}}.app */ = {isa = PBXFileReference; path = {{NAME}}.app; };
		13B07FB61A68108700A75B9A /* Info.plist */ = {isa = PBXFileReference; name = Info.plist; path = {{NAME}}/Info.plist; };
		00E356EE1AD99517003FC87E /* {{NAME}}Tests */ = {isa = PBXGroup; path = {{NAME}}Tests; };
		13B07F861A680F5B00A75B9A /* {{NAME}} */ = {
			isa = PBXNativeTarget;
			buildSettings = {
				CODE_SIGN_ENTITLEMENTS = {{NAME}}/{{NAME}}.entitlements;
				INFOPLIST_FILE = {{NAME}}/Info.plist;
				PRODUCT_BUNDLE_IDENTIFIER = {{BUNDLE}};
				PRODUCT_NAME = {{NAME}};
			};
		};
		00E356F61AD99517003FC87E /* {{NAME}}Tests */ = {
			buildSettings = {
				PRODUCT_BUNDLE_IDENTIFIER = "org.reactjs.native.example.$(PRODUCT_NAME:rfc1034identifier)";
				TEST_HOST = "$(BUILT_PRODUCTS_DIR)/{{NAME}}.app/{{NAME}}";
			};
		};
	};
}
`

const scheme = `<?xml version="1.0" encoding="UTF-8"?>
<Scheme LastUpgradeVersion = "1210" version = "1.3">
   <BuildAction>
      <BuildableReference BuildableName = "{{NAME}}.app" BlueprintName = "{{NAME}}" ReferencedContainer = "container:{{NAME}}.xcodeproj">
      </BuildableReference>
   </BuildAction>
</Scheme>
`

const workspace = `<?xml version="1.0" encoding="UTF-8"?>
<Workspace version = "1.0">
   <FileRef location = "group:{{NAME}}.xcodeproj">
   </FileRef>
   <FileRef location = "group:Pods/Pods.xcodeproj">
   </FileRef>
</Workspace>
`

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleDisplayName</key>
	<string>{{NAME}}</string>
	<key>CFBundleExecutable</key>
	<string>$(EXECUTABLE_NAME)</string>
	<key>CFBundleURLTypes</key>
	<array>
		<dict>
			<key>CFBundleURLSchemes</key>
			<array>
				<string>{{LOWER}}</string>
			</array>
		</dict>
	</array>
	<key>branch_key</key>
	<dict>
		<key>live</key>
		<string>{{BRANCH_LIVE}}</string>
		<key>test</key>
		<string>{{BRANCH_TEST}}</string>
	</dict>
	<key>branch_universal_link_domains</key>
	<array>
		<string>{{LOWER}}.app.link</string>
		<string>{{LOWER}}-alternate.app.link</string>
		<string>{{LOWER}}.test-app.link</string>
		<string>{{LOWER}}-alternate.test-app.link</string>
	</array>
	<key>CodePushDeploymentKey</key>
	<string>{{CODEPUSH_IOS}}</string>
	<key>bugsnag</key>
	<dict>
		<key>apiKey</key>
		<string>{{BUGSNAG}}</string>
	</dict>
</dict>
</plist>
`

const appDelegate = `#import "AppDelegate.h"

#import <React/RCTBundleURLProvider.h>

@implementation AppDelegate

- (BOOL)application:(UIApplication *)application didFinishLaunchingWithOptions:(NSDictionary *)launchOptions
{
  self.moduleName = @"{{NAME}}";
  self.initialProps = @{};
  return [super application:application didFinishLaunchingWithOptions:launchOptions];
}

@end
`

const entitlements = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>com.apple.developer.associated-domains</key>
	<array>
		<string>applinks:{{LOWER}}.app.link</string>
		<string>applinks:{{LOWER}}-alternate.app.link</string>
		<string>applinks:{{LOWER}}.test-app.link</string>
		<string>applinks:{{LOWER}}-alternate.test-app.link</string>
	</array>
</dict>
</plist>
`

const iosTests = `#import <UIKit/UIKit.h>
#import <XCTest/XCTest.h>

@interface {{NAME}}Tests : XCTestCase

@end

@implementation {{NAME}}Tests

@end
`

const buildGradle = `apply plugin: "com.android.application"

android {
    namespace "{{BUNDLE}}"
    defaultConfig {
        applicationId "{{BUNDLE}}"
        versionCode 1
        versionName "1.0"
    }
}
`

const manifest = `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="{{BUNDLE}}">
    <application android:name=".MainApplication" android:label="@string/app_name">
        <meta-data android:name="io.branch.sdk.BranchKey" android:value="{{BRANCH_LIVE}}"/>
        <meta-data android:name="io.branch.sdk.BranchKey.test" android:value="{{BRANCH_TEST}}"/>
        <meta-data android:name="com.bugsnag.android.API_KEY" android:value="{{BUGSNAG}}"/>
        <activity android:name=".MainActivity" android:exported="true">
            <intent-filter>
                <action android:name="android.intent.action.VIEW"/>
                <data android:scheme="{{LOWER}}"/>
            </intent-filter>
            <intent-filter android:autoVerify="true">
                <action android:name="android.intent.action.VIEW"/>
                <data android:scheme="https" android:host="{{LOWER}}.app.link"/>
                <data android:scheme="https" android:host="{{LOWER}}-alternate.app.link"/>
                <data android:scheme="https" android:host="{{LOWER}}.test-app.link"/>
                <data android:scheme="https" android:host="{{LOWER}}-alternate.test-app.link"/>
            </intent-filter>
        </activity>
    </application>
</manifest>
`

const stringsXML = `<resources>
    <string name="app_name">{{NAME}}</string>
    <string moduleConfig="true" name="CodePushDeploymentKey">{{CODEPUSH_ANDROID}}</string>
</resources>
`

const mainActivity = `package {{BUNDLE}}

import com.facebook.react.ReactActivity

class MainActivity : ReactActivity() {
  override fun getMainComponentName(): String = "{{NAME}}"
}
`

const mainApplication = `package {{BUNDLE}}

import android.app.Application
import {{BUNDLE}}.util.Helper

class MainApplication : Application() {
  override fun onCreate() {
    super.onCreate()
    Helper.init(this)
  }
}
`

const helper = `package {{BUNDLE}}.util

object Helper {
  fun init(app: Any) {}
}
`

const flipper = `package {{BUNDLE}};

public class ReactNativeFlipper {
  public static void initializeFlipper() {}
}
`
