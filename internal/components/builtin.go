package components

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DefaultCodeStyle is the chroma style used by the code component when none is configured.
const DefaultCodeStyle = "github"

var youTubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)

// BuiltInDefinitions returns the component catalogue shipped with folio.
// codeStyle names the chroma style used by the code component.
func BuiltInDefinitions(codeStyle string) []interfaces.ComponentDefinition {
	return []interfaces.ComponentDefinition{
		calloutDefinition(),
		figureDefinition(),
		youTubeDefinition(),
		galleryDefinition(),
		codeDefinition(codeStyle),
	}
}

func calloutDefinition() interfaces.ComponentDefinition {
	validateType := func(value any) error {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("callout type must be string")
		}
		switch str {
		case "info", "note", "tip", "success", "warning", "danger":
			return nil
		default:
			return fmt.Errorf("callout type %q not supported", str)
		}
	}

	return interfaces.ComponentDefinition{
		Name:        "callout",
		Aliases:     []string{"alert"},
		Description: "Highlighted aside with an optional title",
		AllowInner:  true,
		Schema: interfaces.ComponentSchema{
			Params: []interfaces.ComponentParam{
				{
					Name:     "type",
					Type:     interfaces.ComponentParamString,
					Default:  "info",
					Validate: validateType,
				},
				{
					Name: "title",
					Type: interfaces.ComponentParamString,
				},
			},
		},
		Template: `<aside class="component component--callout callout-{{ .type }}">
{{ if .title }}<p class="callout__title">{{ .title }}</p>
{{ end }}<div class="callout__body">{{ .Inner }}</div>
</aside>`,
	}
}

func figureDefinition() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Name:        "figure",
		Description: "Image with caption",
		Schema: interfaces.ComponentSchema{
			Params: []interfaces.ComponentParam{
				{
					Name:     "src",
					Type:     interfaces.ComponentParamURL,
					Required: true,
				},
				{
					Name:    "alt",
					Type:    interfaces.ComponentParamString,
					Default: "",
				},
				{
					Name: "caption",
					Type: interfaces.ComponentParamString,
				},
			},
		},
		Template: `<figure class="component component--figure">
<img src="{{ .src }}" alt="{{ .alt }}" loading="lazy" decoding="async">
{{ if .caption }}<figcaption>{{ .caption }}</figcaption>
{{ end }}</figure>`,
	}
}

func youTubeDefinition() interfaces.ComponentDefinition {
	validateID := func(value any) error {
		str, _ := value.(string)
		if !youTubeIDPattern.MatchString(str) {
			return fmt.Errorf("youtube id %q is not valid", str)
		}
		return nil
	}

	return interfaces.ComponentDefinition{
		Name:        "youtube",
		Description: "Responsive YouTube embed",
		Schema: interfaces.ComponentSchema{
			Params: []interfaces.ComponentParam{
				{
					Name:     "id",
					Type:     interfaces.ComponentParamString,
					Required: true,
					Validate: validateID,
				},
				{
					Name:    "start",
					Type:    interfaces.ComponentParamInt,
					Default: 0,
				},
				{
					Name:    "title",
					Type:    interfaces.ComponentParamString,
					Default: "YouTube video",
				},
			},
		},
		Template: `<div class="component component--youtube">
<iframe src="https://www.youtube.com/embed/{{ .id }}{{ if gt .start 0 }}?start={{ .start }}{{ end }}" title="{{ .title }}" loading="lazy" allowfullscreen></iframe>
</div>`,
	}
}

func galleryDefinition() interfaces.ComponentDefinition {
	return interfaces.ComponentDefinition{
		Name:        "gallery",
		Description: "Grid of images",
		Schema: interfaces.ComponentSchema{
			Params: []interfaces.ComponentParam{
				{
					Name:     "images",
					Type:     interfaces.ComponentParamArray,
					Required: true,
				},
				{
					Name:    "columns",
					Type:    interfaces.ComponentParamInt,
					Default: 3,
				},
			},
		},
		Template: `<div class="component component--gallery columns-{{ .columns }}">
{{ range .images }}<figure class="gallery__item"><img src="{{ . }}" loading="lazy" decoding="async"></figure>
{{ end }}</div>`,
	}
}

// codeDefinition highlights its raw inner text with chroma. Fenced code in
// the body goes through the markdown highlighter instead; this component
// exists for titled snippets and explicit line numbers.
func codeDefinition(style string) interfaces.ComponentDefinition {
	if strings.TrimSpace(style) == "" {
		style = DefaultCodeStyle
	}
	return interfaces.ComponentDefinition{
		Name:        "code",
		Description: "Syntax highlighted snippet",
		AllowInner:  true,
		RawInner:    true,
		Schema: interfaces.ComponentSchema{
			Params: []interfaces.ComponentParam{
				{
					Name:    "lang",
					Type:    interfaces.ComponentParamString,
					Default: "text",
				},
				{
					Name: "title",
					Type: interfaces.ComponentParamString,
				},
				{
					Name:    "lineNumbers",
					Type:    interfaces.ComponentParamBool,
					Default: false,
				},
			},
		},
		Handler: highlightHandler(style),
	}
}

func highlightHandler(styleName string) interfaces.ComponentHandler {
	return func(_ interfaces.ComponentContext, params map[string]any, inner string) (template.HTML, error) {
		lang, _ := params["lang"].(string)
		title, _ := params["title"].(string)
		lineNumbers, _ := params["lineNumbers"].(bool)

		lexer := lexers.Get(lang)
		if lexer == nil {
			lexer = lexers.Fallback
		}
		lexer = chroma.Coalesce(lexer)

		iterator, err := lexer.Tokenise(nil, strings.Trim(inner, "\n"))
		if err != nil {
			return "", fmt.Errorf("components: tokenise %s: %w", lang, err)
		}

		formatter := chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithLineNumbers(lineNumbers),
		)

		var buf bytes.Buffer
		fmt.Fprintf(&buf, `<div class="component component--code" data-lang="%s">`, html.EscapeString(lang))
		if title != "" {
			fmt.Fprintf(&buf, `<div class="code__title">%s</div>`, html.EscapeString(title))
		}
		if err := formatter.Format(&buf, styles.Get(styleName), iterator); err != nil {
			return "", fmt.Errorf("components: format %s: %w", lang, err)
		}
		buf.WriteString(`</div>`)
		return template.HTML(buf.String()), nil
	}
}
