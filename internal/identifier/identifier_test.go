package identifier

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		override string
		wantErr  error
	}{
		{name: "simple", input: "NewApp"},
		{name: "spaces and punctuation", input: "My App!"},
		{name: "exactly thirty", input: strings.Repeat("a", 30)},
		{name: "unicode letters", input: "Café Noël"},
		{name: "too long", input: strings.Repeat("a", 31), wantErr: ErrNameTooLong},
		{name: "too short", input: "A!", wantErr: ErrNameTooShort},
		{name: "emoji only", input: "🚀🚀🚀", wantErr: ErrNameTooShort},
		{name: "short with override", input: "A!", override: "AppA"},
		{name: "bad override", input: "A!", override: "a-b", wantErr: ErrInvalidPathContent},
		{name: "empty", input: "  ", wantErr: ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input, tt.override)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNameAcceptsAllShortEnoughNames(t *testing.T) {
	for n := MinPathContentLength; n <= MaxNameLength; n++ {
		name := strings.Repeat("x", n)
		if err := ValidateName(name, ""); err != nil {
			t.Fatalf("ValidateName(%d chars) unexpected error: %v", n, err)
		}
	}
	for n := MaxNameLength + 1; n < MaxNameLength+10; n++ {
		if err := ValidateName(strings.Repeat("x", n), ""); !errors.Is(err, ErrNameTooLong) {
			t.Fatalf("ValidateName(%d chars) = %v, want ErrNameTooLong", n, err)
		}
	}
}

func TestValidateBundleID(t *testing.T) {
	tests := []struct {
		id         string
		wantFailed []Platform
	}{
		{id: "com.example.app"},
		{id: "com.example_app", wantFailed: []Platform{IOS}},
		{id: "com.example-app", wantFailed: []Platform{Android}},
		{id: "comexampleapp", wantFailed: []Platform{IOS, Android}},
		{id: "com..app", wantFailed: []Platform{IOS, Android}},
		{id: "1com.example", wantFailed: []Platform{IOS, Android}},
		{id: "com.example.", wantFailed: []Platform{IOS, Android}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateBundleID(tt.id)
			if len(tt.wantFailed) == 0 {
				if err != nil {
					t.Fatalf("ValidateBundleID(%q) unexpected error: %v", tt.id, err)
				}
				return
			}
			var bErr *BundleIDError
			if !errors.As(err, &bErr) {
				t.Fatalf("ValidateBundleID(%q) = %v, want *BundleIDError", tt.id, err)
			}
			for _, p := range tt.wantFailed {
				if !bErr.Has(p) {
					t.Errorf("expected %s to fail for %q", p, tt.id)
				}
			}
			if len(bErr.Platforms) != len(tt.wantFailed) {
				t.Errorf("failed platforms = %v, want %v", bErr.Platforms, tt.wantFailed)
			}
		})
	}
}

func TestValidateBundleIDSinglePlatform(t *testing.T) {
	if err := ValidateBundleID("com.example_app", Android); err != nil {
		t.Fatalf("android-only check unexpected error: %v", err)
	}
	if err := ValidateBundleID("single", Android); err == nil {
		t.Fatalf("expected single segment id to fail")
	}
}

func TestBundleIDPathRoundTrip(t *testing.T) {
	if got := BundleIDToPath("com.example.app"); got != "com/example/app" {
		t.Fatalf("BundleIDToPath = %q, want com/example/app", got)
	}
	for _, id := range []string{"com.example.app", "io.a.b.c.d", "org.x"} {
		if got := PathToBundleID(BundleIDToPath(id)); got != id {
			t.Errorf("round trip %q -> %q", id, got)
		}
	}
	if got := PathToBundleID("/com/old/app/"); got != "com.old.app" {
		t.Errorf("PathToBundleID trims slashes, got %q", got)
	}
}

func TestCleanString(t *testing.T) {
	tests := map[string]string{
		"My App!":    "MyApp",
		"Café Noël":  "CaféNoël",
		"app-2 beta": "app2beta",
		"":           "",
	}
	for in, want := range tests {
		if got := CleanString(in); got != want {
			t.Errorf("CleanString(%q) = %q, want %q", in, got, want)
		}
	}
	if got := PathContent("My App", "Override"); got != "Override" {
		t.Errorf("PathContent override ignored: %q", got)
	}
}
