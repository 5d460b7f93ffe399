package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	fallbackHeading = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)
	fallbackBullet  = regexp.MustCompile(`^[-*+]\s+(.+)$`)
	fallbackOrdered = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
	fallbackCode    = regexp.MustCompile("`([^`]+)`")
	fallbackBold    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	fallbackItalic  = regexp.MustCompile(`\*([^*\s][^*]*)\*`)
	fallbackLink    = regexp.MustCompile(`\[([^\]]+)\]\(((?:https?://|/|\./|\.\./|#)[^\s)]*)\)`)
	fallbackToken   = regexp.MustCompile(`\x00(\d+)\x00`)
)

// FallbackHTML converts body to HTML with plain pattern substitution. It
// handles headings, bold, italic, inline and fenced code, links with http,
// https or relative targets, and bullet or numbered lists. The body is
// escaped first, so embedded components and raw HTML come out as text and
// are never executed. The output is deterministic.
func FallbackHTML(body string) string {
	escaped := html.EscapeString(strings.ReplaceAll(body, "\r\n", "\n"))
	lines := strings.Split(escaped, "\n")

	var (
		out       strings.Builder
		paragraph []string
		items     []string
		listTag   string
		code      []string
		inCode    bool
	)

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		fmt.Fprintf(&out, "<p>%s</p>\n", fallbackInline(strings.Join(paragraph, " ")))
		paragraph = nil
	}
	flushList := func() {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&out, "<%s>\n", listTag)
		for _, item := range items {
			fmt.Fprintf(&out, "<li>%s</li>\n", fallbackInline(item))
		}
		fmt.Fprintf(&out, "</%s>\n", listTag)
		items = nil
		listTag = ""
	}
	flush := func() {
		flushParagraph()
		flushList()
	}
	addItem := func(tag, item string) {
		if listTag != tag {
			flushList()
			listTag = tag
		}
		items = append(items, item)
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inCode {
			if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
				fmt.Fprintf(&out, "<pre><code>%s</code></pre>\n", strings.Join(code, "\n"))
				code = nil
				inCode = false
				continue
			}
			code = append(code, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~"):
			flush()
			inCode = true
		case trimmed == "":
			flush()
		case fallbackHeading.MatchString(trimmed):
			flush()
			m := fallbackHeading.FindStringSubmatch(trimmed)
			level := len(m[1])
			fmt.Fprintf(&out, "<h%d>%s</h%d>\n", level, fallbackInline(m[2]), level)
		case fallbackBullet.MatchString(trimmed):
			flushParagraph()
			addItem("ul", fallbackBullet.FindStringSubmatch(trimmed)[1])
		case fallbackOrdered.MatchString(trimmed):
			flushParagraph()
			addItem("ol", fallbackOrdered.FindStringSubmatch(trimmed)[1])
		default:
			flushList()
			paragraph = append(paragraph, trimmed)
		}
	}

	if inCode {
		fmt.Fprintf(&out, "<pre><code>%s</code></pre>\n", strings.Join(code, "\n"))
	}
	flush()
	return out.String()
}

// fallbackInline applies inline substitutions to already escaped text.
// Code spans and link targets are set aside first so emphasis never
// rewrites their content.
func fallbackInline(s string) string {
	var aside []string
	setAside := func(fragment string) string {
		aside = append(aside, fragment)
		return fmt.Sprintf("\x00%d\x00", len(aside)-1)
	}

	s = fallbackCode.ReplaceAllStringFunc(s, func(m string) string {
		return setAside("<code>" + fallbackCode.FindStringSubmatch(m)[1] + "</code>")
	})
	s = fallbackLink.ReplaceAllStringFunc(s, func(m string) string {
		parts := fallbackLink.FindStringSubmatch(m)
		return `<a href="` + setAside(parts[2]) + `">` + parts[1] + `</a>`
	})

	s = fallbackBold.ReplaceAllString(s, `<strong>$1</strong>`)
	s = fallbackItalic.ReplaceAllString(s, `<em>$1</em>`)

	return fallbackToken.ReplaceAllStringFunc(s, func(m string) string {
		var idx int
		if _, err := fmt.Sscanf(fallbackToken.FindStringSubmatch(m)[1], "%d", &idx); err != nil || idx >= len(aside) {
			return m
		}
		return aside[idx]
	})
}
