package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	elementRulesPriority   = 100
	headingAnchorsPriority = 200
)

var tocKey = parser.NewContextKey()

// elementRuleTransformer applies the registry's render rules to links,
// images, headings, blockquotes and tables. Code blocks are handled by the
// highlighting wrapper because they are rendered by the highlighter.
type elementRuleTransformer struct {
	rules func() interfaces.RenderRules
}

func (t *elementRuleTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	if t.rules == nil {
		return
	}
	rules := t.rules()
	if len(rules) == 0 {
		return
	}
	source := reader.Source()

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var el interfaces.Element
		switch node := n.(type) {
		case *ast.Link:
			el = interfaces.Element{Kind: interfaces.ElementLink, Destination: string(node.Destination)}
		case *ast.AutoLink:
			el = interfaces.Element{Kind: interfaces.ElementLink, Destination: string(node.URL(source))}
		case *ast.Image:
			el = interfaces.Element{Kind: interfaces.ElementImage, Destination: string(node.Destination)}
		case *ast.Heading:
			el = interfaces.Element{Kind: interfaces.ElementHeading, Level: node.Level}
		case *ast.Blockquote:
			el = interfaces.Element{Kind: interfaces.ElementBlockquote}
		case *east.Table:
			el = interfaces.Element{Kind: interfaces.ElementTable}
		default:
			return ast.WalkContinue, nil
		}

		applyRule(n, rules[el.Kind], el)
		return ast.WalkContinue, nil
	})
}

func applyRule(n ast.Node, rule interfaces.RenderRule, el interfaces.Element) {
	if rule == nil {
		return
	}
	for name, value := range rule(el) {
		if name == "" {
			continue
		}
		n.SetAttributeString(name, []byte(value))
	}
}

// headingAnchorTransformer runs after heading ids exist. It records the
// table of contents in the parser context and prepends a self link to each
// heading.
type headingAnchorTransformer struct{}

func (headingAnchorTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var headings []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if heading, ok := n.(*ast.Heading); ok && entering {
			headings = append(headings, heading)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	toc := make([]interfaces.Heading, 0, len(headings))
	for _, heading := range headings {
		id := attributeString(heading, "id")
		if id == "" {
			continue
		}
		toc = append(toc, interfaces.Heading{
			Level: heading.Level,
			ID:    id,
			Text:  strings.TrimSpace(nodeText(heading, source)),
		})

		anchor := ast.NewLink()
		anchor.Destination = []byte("#" + id)
		anchor.SetAttributeString("class", []byte("anchor"))
		anchor.AppendChild(anchor, ast.NewString([]byte("#")))
		if first := heading.FirstChild(); first != nil {
			heading.InsertBefore(heading, first, anchor)
		} else {
			heading.AppendChild(heading, anchor)
		}
	}
	pc.Set(tocKey, toc)
}

func attributeString(n ast.Node, name string) string {
	value, ok := n.AttributeString(name)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := child.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func tocFromContext(pc parser.Context) []interfaces.Heading {
	toc, _ := pc.Get(tocKey).([]interfaces.Heading)
	return toc
}
