package tools

import (
	"strings"
	"testing"
)

func TestCatalog_Complete(t *testing.T) {
	kinds := map[Kind]bool{}
	for _, d := range Catalog() {
		if kinds[d.Kind] {
			t.Fatalf("duplicate kind %q", d.Kind)
		}
		kinds[d.Kind] = true
		if d.Title == "" || d.InputLabel == "" || d.InputPlaceholder == "" {
			t.Fatalf("tool %q is missing display text", d.Kind)
		}
		if d.Render == "" {
			t.Fatalf("tool %q has no render policy", d.Kind)
		}
	}
	for _, want := range []Kind{
		KindOptimizer, KindHashtags, KindScript, KindIdeas,
		KindImage, KindStore, KindCode, KindLanding,
	} {
		if !kinds[want] {
			t.Fatalf("catalog is missing %q", want)
		}
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(KindHashtags)
	if !ok {
		t.Fatalf("hashtags tool not found")
	}
	if d.Render != RenderHashtags {
		t.Fatalf("render=%q, want %q", d.Render, RenderHashtags)
	}
	if _, ok := Lookup(Kind("nope")); ok {
		t.Fatalf("unknown kind should not resolve")
	}
}

func TestPrompt_TemplateEmbedsInput(t *testing.T) {
	for _, d := range Catalog() {
		if d.Kind == KindImage {
			continue
		}
		prompt := d.Prompt("روتين صباحي")
		if !strings.Contains(prompt, "روتين صباحي") {
			t.Fatalf("tool %q prompt does not embed the input", d.Kind)
		}
		if prompt == "روتين صباحي" {
			t.Fatalf("tool %q should wrap the input in a template", d.Kind)
		}
	}
}

func TestPrompt_ImagePassthrough(t *testing.T) {
	d, _ := Lookup(KindImage)
	if got := d.Prompt("رائد فضاء"); got != "رائد فضاء" {
		t.Fatalf("image prompt=%q, want passthrough", got)
	}
}

func TestModelOverride(t *testing.T) {
	d, _ := Lookup(KindCode)
	if d.Model == "" {
		t.Fatalf("code tool should override the default model")
	}
	d, _ = Lookup(KindOptimizer)
	if d.Model != "" {
		t.Fatalf("optimizer should use the dispatcher default model")
	}
}
