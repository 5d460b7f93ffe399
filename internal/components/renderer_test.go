package components

import (
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

func newTestRenderer(t *testing.T) (*Registry, *Renderer) {
	t.Helper()
	registry, err := NewDefaultRegistry(nil, "")
	if err != nil {
		t.Fatalf("NewDefaultRegistry: %v", err)
	}
	return registry, NewRenderer(registry, NewValidator())
}

func TestRenderer_RenderTemplate(t *testing.T) {
	_, renderer := newTestRenderer(t)

	html, err := renderer.Render(interfaces.ComponentContext{}, "youtube", map[string]any{"id": "dQw4w9WgXcQ", "start": "30"}, "")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.Contains(string(html), "youtube.com/embed/dQw4w9WgXcQ?start=30") {
		t.Fatalf("expected iframe embed, got %s", html)
	}
}

func TestRenderer_CalloutAliasAndInner(t *testing.T) {
	_, renderer := newTestRenderer(t)

	html, err := renderer.Render(interfaces.ComponentContext{}, "alert", map[string]any{"type": "warning", "title": "Heads up"}, "<p>Body <strong>text</strong></p>")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "callout-warning") || !strings.Contains(out, "Heads up") {
		t.Fatalf("unexpected callout output: %s", out)
	}
	if !strings.Contains(out, "<p>Body <strong>text</strong></p>") {
		t.Fatalf("compiled inner markup should be kept unescaped, got %s", out)
	}
}

func TestRenderer_ScopeAvailableToTemplates(t *testing.T) {
	registry := NewRegistry(NewValidator())
	if err := registry.Register(interfaces.ComponentDefinition{
		Name:     "byline",
		Template: `<span class="byline">{{ .Scope.author }}</span>`,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	renderer := NewRenderer(registry, NewValidator())

	html, err := renderer.Render(interfaces.ComponentContext{Scope: map[string]any{"author": "Ada"}}, "byline", nil, "")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(html) != `<span class="byline">Ada</span>` {
		t.Fatalf("unexpected output %s", html)
	}
}

func TestRenderer_SanitizerBlocksScript(t *testing.T) {
	registry := NewRegistry(NewValidator())
	malicious := interfaces.ComponentDefinition{
		Name: "bad",
		Handler: func(interfaces.ComponentContext, map[string]any, string) (template.HTML, error) {
			return `<script>alert('xss')</script>`, nil
		},
	}
	if err := registry.Register(malicious); err != nil {
		t.Fatalf("register: %v", err)
	}

	renderer := NewRenderer(registry, NewValidator())
	if _, err := renderer.Render(interfaces.ComponentContext{}, "bad", nil, ""); !errors.Is(err, ErrUnsafeOutput) {
		t.Fatalf("expected ErrUnsafeOutput, got %v", err)
	}
}

func TestRenderer_RejectsScriptURLs(t *testing.T) {
	_, renderer := newTestRenderer(t)

	if _, err := renderer.Render(interfaces.ComponentContext{}, "figure", map[string]any{"src": "javascript:alert(1)"}, ""); err == nil {
		t.Fatal("expected javascript: figure source to be rejected")
	}
	if _, err := renderer.Render(interfaces.ComponentContext{}, "figure", map[string]any{"src": "/img/cat.png", "onload": "x()"}, ""); err == nil {
		t.Fatal("expected event handler attribute to be rejected")
	}
}

func TestRenderer_UnknownComponent(t *testing.T) {
	_, renderer := newTestRenderer(t)

	if _, err := renderer.Render(interfaces.ComponentContext{}, "chart", nil, ""); !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("expected ErrUnknownComponent, got %v", err)
	}
}
