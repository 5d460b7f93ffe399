package components

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DefaultRules returns the element rules applied to compiled posts:
// external links open in a new tab, images load lazily and headings,
// blockquotes, tables and code blocks receive the classes the page layer styles.
func DefaultRules() interfaces.RenderRules {
	return interfaces.RenderRules{
		interfaces.ElementLink:       linkRule,
		interfaces.ElementImage:      imageRule,
		interfaces.ElementHeading:    headingRule,
		interfaces.ElementBlockquote: classRule("callout"),
		interfaces.ElementTable:      classRule("table"),
		interfaces.ElementCodeBlock:  codeBlockRule,
	}
}

func linkRule(el interfaces.Element) map[string]string {
	if !IsExternalURL(el.Destination) {
		return nil
	}
	return map[string]string{
		"target": "_blank",
		"rel":    "noopener noreferrer",
	}
}

func imageRule(interfaces.Element) map[string]string {
	return map[string]string{
		"loading":  "lazy",
		"decoding": "async",
	}
}

func headingRule(interfaces.Element) map[string]string {
	return map[string]string{"class": "heading"}
}

func codeBlockRule(el interfaces.Element) map[string]string {
	attrs := map[string]string{"class": "code-block"}
	if el.Language != "" {
		attrs["data-lang"] = el.Language
	}
	return attrs
}

func classRule(class string) interfaces.RenderRule {
	return func(interfaces.Element) map[string]string {
		return map[string]string{"class": class}
	}
}

// IsExternalURL reports whether raw points at another host over http(s).
func IsExternalURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return parsed.Host != ""
	case "":
		return strings.HasPrefix(raw, "//")
	default:
		return false
	}
}
