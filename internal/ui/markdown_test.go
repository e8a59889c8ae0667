package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	out, err := RenderMarkdown("## Next steps\n\n- run `pod install`\n", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected a single trailing newline, got %q", out)
	}
	if !strings.Contains(out, "pod install") {
		t.Fatalf("rendered output lost list text: %q", out)
	}
}
