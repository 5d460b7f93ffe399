package markdown

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// headingIDs generates heading anchors with go-slug so ids match the slugs
// used elsewhere for URLs. Collisions get -1, -2 suffixes in document order.
// A fresh instance is used per compiled document.
type headingIDs struct {
	used map[string]struct{}
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{used: map[string]struct{}{}}
}

func (s *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base, err := slug.Normalize(strings.TrimSpace(string(value)))
	if err != nil || base == "" {
		if kind == ast.KindHeading {
			base = "heading"
		} else {
			base = "id"
		}
	}

	candidate := base
	for i := 1; ; i++ {
		if _, taken := s.used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	s.used[candidate] = struct{}{}
	return []byte(candidate)
}

func (s *headingIDs) Put(value []byte) {
	s.used[string(value)] = struct{}{}
}

var _ parser.IDs = (*headingIDs)(nil)
