package generator

import (
	"strings"
	"testing"
)

func TestBuildTitlePrompt(t *testing.T) {
	p := BuildTitlePrompt("sourdough bread")
	if !strings.Contains(p.User, "sourdough bread") {
		t.Errorf("prompt does not embed keyword: %q", p.User)
	}
	if !strings.Contains(p.User, "numbered list") {
		t.Errorf("prompt does not ask for a numbered list: %q", p.User)
	}
	if p.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", p.Temperature)
	}
	if p.MaxTokens != 200 {
		t.Errorf("MaxTokens = %d, want 200", p.MaxTokens)
	}
}

func TestBuildContentPrompt(t *testing.T) {
	title := "Essential Sourdough Bread Guide"
	p := BuildContentPrompt(title)
	if !strings.Contains(p.User, "\n# "+title+"\n") {
		t.Errorf("prompt has no heading instruction for %q: %q", title, p.User)
	}
	if !strings.Contains(p.User, `titled "`+title+`"`) {
		t.Errorf("prompt does not quote the title: %q", p.User)
	}
	for _, section := range []string{"## Introduction", "## Main Content (3-5 sections)", "### Subsections", "## Conclusion"} {
		if !strings.Contains(p.User, section) {
			t.Errorf("prompt missing %q", section)
		}
	}
	if p.Temperature != 0.8 {
		t.Errorf("Temperature = %v, want 0.8", p.Temperature)
	}
	if p.MaxTokens != 3000 {
		t.Errorf("MaxTokens = %d, want 3000", p.MaxTokens)
	}
}

func TestBuildContentPromptKeepsTitleVerbatim(t *testing.T) {
	title := `Bread "Hacks" & Ünïcode`
	p := BuildContentPrompt(title)
	if !strings.Contains(p.User, "# "+title) {
		t.Errorf("title altered in prompt: %q", p.User)
	}
}
