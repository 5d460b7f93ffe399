// Package parser extracts embedded component invocations from markdown
// bodies. Components are written either in bracket form
// ({{< name key="value" >}}inner{{< /name >}}, or {{< name />}} when
// self-closing) or as PascalCase JSX tags that the JSX preprocessor rewrites
// into bracket form.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// ErrMalformedComponent reports unterminated, mismatched or dangling component tags.
var ErrMalformedComponent = errors.New("components: malformed component syntax")

// PlaceholderFormat is the marker left in the body for each extracted component.
const PlaceholderFormat = "%%%%component-%d%%%%"

var tagPattern = regexp.MustCompile(`\{\{<\s*(/)?\s*([A-Za-z][A-Za-z0-9_-]*)(.*?)(/)?\s*>\}\}`)

// Placeholder returns the marker for the component at index.
func Placeholder(index int) string {
	return fmt.Sprintf(PlaceholderFormat, index)
}

// BracketParser parses {{< name >}} component tags strictly: every opening
// tag must be closed or self-closing, and closing tags must match the
// innermost open tag.
type BracketParser struct {
	nonce string
}

// BracketOption customises a BracketParser.
type BracketOption func(*BracketParser)

// WithPlaceholderNonce mixes nonce into every placeholder so text that
// already looks like a placeholder is never mistaken for one.
func WithPlaceholderNonce(nonce string) BracketOption {
	return func(p *BracketParser) {
		p.nonce = strings.TrimSpace(nonce)
	}
}

// NewBracketParser creates a parser instance.
func NewBracketParser(opts ...BracketOption) *BracketParser {
	p := &BracketParser{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Placeholder returns the marker this parser leaves for the component at
// index.
func (p *BracketParser) Placeholder(index int) string {
	if p.nonce == "" {
		return Placeholder(index)
	}
	return fmt.Sprintf("%%%%component-%s-%d%%%%", p.nonce, index)
}

// Extract replaces component tags with placeholders and returns the
// transformed content with the invocations in completion order. Nested
// components complete before their parent, so a parent's Inner only refers
// to placeholders with lower indexes.
func (p *BracketParser) Extract(content string) (string, []interfaces.ParsedComponent, error) {
	type stackEntry struct {
		name   string
		start  int
		params map[string]any
	}

	var (
		out        bytes.Buffer
		components []interfaces.ParsedComponent
		stack      []stackEntry
		last       int
	)

	for _, m := range tagPattern.FindAllStringSubmatchIndex(content, -1) {
		out.WriteString(content[last:m[0]])
		last = m[1]

		closing := m[2] >= 0
		name := strings.ToLower(content[m[4]:m[5]])
		rawParams := strings.TrimSpace(content[m[6]:m[7]])
		selfClosing := m[8] >= 0

		switch {
		case closing:
			if len(stack) == 0 {
				return "", nil, fmt.Errorf("%w: unexpected closing tag %s at offset %d", ErrMalformedComponent, name, m[0])
			}
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if entry.name != name {
				return "", nil, fmt.Errorf("%w: closing tag %s does not match %s", ErrMalformedComponent, name, entry.name)
			}

			inner := string(out.Bytes()[entry.start:])
			out.Truncate(entry.start)
			out.WriteString(p.Placeholder(len(components)))
			components = append(components, interfaces.ParsedComponent{
				Name:   name,
				Params: entry.params,
				Inner:  inner,
			})
		case selfClosing:
			out.WriteString(p.Placeholder(len(components)))
			components = append(components, interfaces.ParsedComponent{
				Name:   name,
				Params: ParseParams(rawParams),
			})
		default:
			stack = append(stack, stackEntry{
				name:   name,
				start:  out.Len(),
				params: ParseParams(rawParams),
			})
		}
	}
	out.WriteString(content[last:])

	if len(stack) > 0 {
		return "", nil, fmt.Errorf("%w: unterminated %s", ErrMalformedComponent, stack[len(stack)-1].name)
	}

	return out.String(), components, nil
}

var _ interfaces.ComponentParser = (*BracketParser)(nil)
