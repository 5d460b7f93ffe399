package components

import (
	"errors"
	"testing"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

type noopValidator struct{}

func (noopValidator) ValidateDefinition(interfaces.ComponentDefinition) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry(noopValidator{})

	def := interfaces.ComponentDefinition{
		Name:    "Demo",
		Aliases: []string{"example"},
		Schema: interfaces.ComponentSchema{
			Params: []interfaces.ComponentParam{
				{Name: "id", Type: interfaces.ComponentParamString, Required: true},
			},
		},
	}

	if err := registry.Register(def); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	got, ok := registry.Get("demo")
	if !ok {
		t.Fatalf("Get() expected definition")
	}
	if got.Name != "demo" {
		t.Fatalf("Get() expected lower-cased name, got %s", got.Name)
	}

	viaAlias, ok := registry.Get("EXAMPLE")
	if !ok || viaAlias.Name != "demo" {
		t.Fatalf("Get() expected alias to resolve to demo, got %+v (%v)", viaAlias, ok)
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	registry := NewRegistry(noopValidator{})

	if err := registry.Register(interfaces.ComponentDefinition{Name: "demo", Aliases: []string{"sample"}}); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if err := registry.Register(interfaces.ComponentDefinition{Name: "demo"}); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("Register() expected ErrDuplicateDefinition, got %v", err)
	}
	if err := registry.Register(interfaces.ComponentDefinition{Name: "sample"}); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("Register() expected alias clash to be rejected, got %v", err)
	}
}

func TestRegistry_ListSortedAndRemove(t *testing.T) {
	registry := NewRegistry(noopValidator{})
	for _, name := range []string{"beta", "alpha", "gamma"} {
		if err := registry.Register(interfaces.ComponentDefinition{Name: name, Aliases: []string{name + "-alias"}}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	got := registry.List()
	expectOrder := []string{"alpha", "beta", "gamma"}
	if len(got) != len(expectOrder) {
		t.Fatalf("List() expected %d definitions, got %d", len(expectOrder), len(got))
	}
	for i, want := range expectOrder {
		if got[i].Name != want {
			t.Fatalf("List() order mismatch at %d: got %s, want %s", i, got[i].Name, want)
		}
	}

	registry.Remove("beta-alias")
	if registry.Has("beta") || registry.Has("beta-alias") {
		t.Fatal("Remove() via alias should drop the definition and its aliases")
	}
	registry.Remove("missing")
}

func TestRegistry_Rules(t *testing.T) {
	registry := NewRegistry(noopValidator{})

	rules := registry.Rules()
	for _, kind := range []interfaces.ElementKind{
		interfaces.ElementLink,
		interfaces.ElementImage,
		interfaces.ElementHeading,
		interfaces.ElementBlockquote,
		interfaces.ElementTable,
		interfaces.ElementCodeBlock,
	} {
		if rules[kind] == nil {
			t.Fatalf("expected default rule for %s", kind)
		}
	}

	delete(rules, interfaces.ElementLink)
	if registry.Rules()[interfaces.ElementLink] == nil {
		t.Fatal("Rules() should return a copy")
	}

	registry.SetRule(interfaces.ElementLink, nil)
	if registry.Rules()[interfaces.ElementLink] != nil {
		t.Fatal("SetRule(nil) should remove the rule")
	}

	custom := NewRegistry(noopValidator{}, WithRules(interfaces.RenderRules{}))
	if len(custom.Rules()) != 0 {
		t.Fatalf("WithRules should replace defaults, got %d rules", len(custom.Rules()))
	}
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	external := rules[interfaces.ElementLink](interfaces.Element{Kind: interfaces.ElementLink, Destination: "https://example.com"})
	if external["target"] != "_blank" || external["rel"] != "noopener noreferrer" {
		t.Fatalf("unexpected external link attrs: %v", external)
	}
	if internal := rules[interfaces.ElementLink](interfaces.Element{Kind: interfaces.ElementLink, Destination: "/blog/other"}); len(internal) != 0 {
		t.Fatalf("internal links should be untouched, got %v", internal)
	}
	if attrs := rules[interfaces.ElementImage](interfaces.Element{Kind: interfaces.ElementImage}); attrs["loading"] != "lazy" {
		t.Fatalf("expected lazy images, got %v", attrs)
	}
	code := rules[interfaces.ElementCodeBlock](interfaces.Element{Kind: interfaces.ElementCodeBlock, Language: "go"})
	if code["class"] != "code-block" || code["data-lang"] != "go" {
		t.Fatalf("unexpected code block attrs: %v", code)
	}
}

func TestIsExternalURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/a": true,
		"http://example.com":    true,
		"//cdn.example.com/x":   true,
		"/blog/post":            false,
		"#section":              false,
		"mailto:me@example.com": false,
		"":                      false,
	}
	for raw, want := range cases {
		if got := IsExternalURL(raw); got != want {
			t.Fatalf("IsExternalURL(%q) = %v, want %v", raw, got, want)
		}
	}
}
