package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	jsxTagPattern      = regexp.MustCompile(`<(/)?([A-Z][A-Za-z0-9]*)((?:"[^"]*"|'[^']*'|\{[^}]*\}|[^<>"'{}/]|/[^>])*)(/)?>`)
	jsxDanglingPattern = regexp.MustCompile(`</?([A-Z][A-Za-z0-9]*)(?:[\s/>]|$)`)

	lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ")
)

// JSXPreprocessor rewrites PascalCase component tags (<Callout type="tip">,
// </Callout>, <YouTube id="x" />) into bracket syntax so a single parser
// handles both notations.
type JSXPreprocessor struct {
	known func(name string) bool
}

// NewJSXPreprocessor constructs a preprocessor. known reports whether a
// lower-cased component name is registered; nil accepts every name.
func NewJSXPreprocessor(known func(name string) bool) *JSXPreprocessor {
	return &JSXPreprocessor{known: known}
}

// Process rewrites known component tags. Tags naming unregistered
// components, such as List<String> in prose, are left as they are. A
// registered tag left over after rewriting is cut off and reported as
// ErrMalformedComponent.
func (p *JSXPreprocessor) Process(content string) (string, error) {
	if !strings.Contains(content, "<") {
		return content, nil
	}

	output := jsxTagPattern.ReplaceAllStringFunc(content, func(tag string) string {
		matches := jsxTagPattern.FindStringSubmatch(tag)
		if len(matches) < 5 {
			return tag
		}
		name := strings.ToLower(matches[2])
		if p.known != nil && !p.known(name) {
			return tag
		}
		attrs := strings.TrimSpace(lineBreaks.Replace(matches[3]))
		if attrs != "" {
			attrs = " " + attrs
		}

		switch {
		case matches[1] == "/":
			return fmt.Sprintf("{{< /%s >}}", name)
		case matches[4] == "/":
			return fmt.Sprintf("{{< %s%s />}}", name, attrs)
		default:
			return fmt.Sprintf("{{< %s%s >}}", name, attrs)
		}
	})

	for _, loc := range jsxDanglingPattern.FindAllStringSubmatchIndex(output, -1) {
		name := strings.ToLower(output[loc[2]:loc[3]])
		if p.known != nil && !p.known(name) {
			continue
		}
		tag := strings.TrimRight(output[loc[0]:loc[1]], " \t\r\n/>")
		return "", fmt.Errorf("%w: unresolved tag %s at offset %d", ErrMalformedComponent, tag, loc[0])
	}
	return output, nil
}
