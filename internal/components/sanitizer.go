package components

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

var scriptURLAttr = regexp.MustCompile(`(?i)\b(?:href|src|action)\s*=\s*["']?\s*javascript:`)

// Sanitizer is a conservative check that rejects inline script content and
// enforces URL schemes on component output.
type Sanitizer struct {
	allowedSchemes map[string]struct{}
}

// NewSanitizer returns a sanitizer allowing http, https, mailto and relative URLs.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		allowedSchemes: map[string]struct{}{
			"http":   {},
			"https":  {},
			"mailto": {},
			"":       {},
		},
	}
}

// Sanitize rejects obvious script injections while preserving safe markup.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	lower := strings.ToLower(html)
	if strings.Contains(lower, "<script") {
		return "", fmt.Errorf("%w: script tags are not allowed", ErrUnsafeOutput)
	}
	if scriptURLAttr.MatchString(html) {
		return "", fmt.Errorf("%w: javascript urls are not allowed", ErrUnsafeOutput)
	}
	return html, nil
}

// ValidateURL ensures the URL has an allowed scheme.
func (s *Sanitizer) ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}

	if _, ok := s.allowedSchemes[strings.ToLower(parsed.Scheme)]; !ok {
		return fmt.Errorf("components: url scheme %q not permitted", parsed.Scheme)
	}
	return nil
}

// ValidateAttributes rejects inline event handlers like onload/onerror.
func (s *Sanitizer) ValidateAttributes(attrs map[string]any) error {
	for key := range attrs {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "on") {
			return fmt.Errorf("components: attribute %q not permitted", key)
		}
	}
	return nil
}

var _ interfaces.ComponentSanitizer = (*Sanitizer)(nil)
