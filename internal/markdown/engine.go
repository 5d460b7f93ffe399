package markdown

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DefaultHighlightStyle is the chroma style used when ParseOptions does not name one.
const DefaultHighlightStyle = "github"

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// KnownExtensions lists the extension names accepted in ParseOptions.
func KnownExtensions() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// engine wraps a configured goldmark instance. The instance is shared
// across documents; per document state (heading ids, table of contents)
// lives in the parser context created for each conversion.
type engine struct {
	md goldmark.Markdown
}

type conversion struct {
	HTML string
	TOC  []interfaces.Heading
}

// newEngine builds goldmark with the fixed plugin chain: heading ids during
// parsing, element rules, heading anchors, syntax highlighting and the
// configured extensions.
func newEngine(opts interfaces.ParseOptions, rules func() interfaces.RenderRules) *engine {
	style := strings.TrimSpace(opts.HighlightStyle)
	if style == "" {
		style = DefaultHighlightStyle
	}

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(
			util.Prioritized(&elementRuleTransformer{rules: rules}, elementRulesPriority),
			util.Prioritized(headingAnchorTransformer{}, headingAnchorsPriority),
		),
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, goldmarkhtml.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, goldmarkhtml.WithUnsafe())
	}

	extenders := collectExtensions(opts.Extensions)
	extenders = append(extenders, highlighting.NewHighlighting(
		highlighting.WithStyle(style),
		highlighting.WithGuessLanguage(false),
		highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		highlighting.WithWrapperRenderer(codeBlockWrapper(rules)),
	))

	return &engine{
		md: goldmark.New(
			goldmark.WithParserOptions(parserOptions...),
			goldmark.WithRendererOptions(rendererOptions...),
			goldmark.WithExtensions(extenders...),
		),
	}
}

func (e *engine) convert(source string) (conversion, error) {
	src := []byte(source)
	pc := parser.NewContext(parser.WithIDs(newHeadingIDs()))

	doc := e.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, src, doc); err != nil {
		return conversion{}, fmt.Errorf("markdown render: %w", err)
	}
	return conversion{HTML: buf.String(), TOC: tocFromContext(pc)}, nil
}

// codeBlockWrapper wraps highlighted fenced code in an element carrying the
// code block rule attributes.
func codeBlockWrapper(rules func() interfaces.RenderRules) highlighting.WrapperRenderer {
	return func(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
		if !entering {
			_, _ = w.WriteString("</div>\n")
			return
		}

		el := interfaces.Element{Kind: interfaces.ElementCodeBlock}
		if lang, ok := c.Language(); ok {
			el.Language = string(lang)
		}
		var attrs map[string]string
		if rules != nil {
			if rule := rules()[interfaces.ElementCodeBlock]; rule != nil {
				attrs = rule(el)
			}
		}

		_, _ = w.WriteString("<div")
		names := make([]string, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, ` %s="%s"`, html.EscapeString(name), html.EscapeString(attrs[name]))
		}
		_, _ = w.WriteString(">")
	}
}

// collectExtensions resolves extension names. An empty list selects GFM
// and footnotes; unknown names are ignored here and rejected by config
// validation.
func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Footnote,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		id := fmt.Sprintf("%p", ext)
		if _, dup := seen[id]; dup {
			continue
		}

		extenders = append(extenders, ext)
		seen[id] = struct{}{}
	}

	return extenders
}
