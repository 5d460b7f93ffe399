package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	codeTokenPattern = regexp.MustCompile(`@@FOLIO-CODE-(\d+)@@`)
	codeSpanPattern  = regexp.MustCompile("``[^`]+``|`[^`\n]+`")
)

// codeVault swaps fenced blocks and inline code spans for opaque tokens so
// the component parsers never see tag-like text inside code. Tokens are
// restored before markdown conversion.
type codeVault struct {
	items []string
}

func (v *codeVault) token(raw string) string {
	v.items = append(v.items, raw)
	return fmt.Sprintf("@@FOLIO-CODE-%d@@", len(v.items)-1)
}

func (v *codeVault) protect(src string) string {
	if !strings.ContainsAny(src, "`~") {
		return src
	}

	lines := strings.SplitAfter(src, "\n")
	var (
		out    strings.Builder
		prose  strings.Builder
		fence  strings.Builder
		marker string
	)
	flushProse := func() {
		out.WriteString(codeSpanPattern.ReplaceAllStringFunc(prose.String(), v.token))
		prose.Reset()
	}

	for _, line := range lines {
		if marker == "" {
			if open := fenceMarker(line); open != "" {
				flushProse()
				marker = open
				fence.WriteString(line)
				continue
			}
			prose.WriteString(line)
			continue
		}

		fence.WriteString(line)
		if closesFence(line, marker) {
			out.WriteString(v.closeFence(fence.String()))
			fence.Reset()
			marker = ""
		}
	}
	flushProse()
	if fence.Len() > 0 {
		out.WriteString(v.closeFence(fence.String()))
	}
	return out.String()
}

func (v *codeVault) closeFence(block string) string {
	trailing := ""
	if strings.HasSuffix(block, "\n") {
		trailing = "\n"
		block = strings.TrimSuffix(block, "\n")
	}
	return v.token(block) + trailing
}

func (v *codeVault) restore(s string) string {
	if len(v.items) == 0 || !strings.Contains(s, "@@FOLIO-CODE-") {
		return s
	}
	return codeTokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		match := codeTokenPattern.FindStringSubmatch(token)
		idx, err := strconv.Atoi(match[1])
		if err != nil || idx < 0 || idx >= len(v.items) {
			return token
		}
		return v.items[idx]
	})
}

// fenceMarker returns the opening fence run when line starts a fenced code
// block (up to three spaces of indentation, then three or more ` or ~).
func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return ""
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	if n < 3 {
		return ""
	}
	if ch == '`' && strings.ContainsRune(trimmed[n:], '`') {
		return ""
	}
	return trimmed[:n]
}

func closesFence(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(marker) {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != marker[0] {
			return false
		}
	}
	return true
}
