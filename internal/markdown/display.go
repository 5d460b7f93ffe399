package markdown

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// ErrorPlaceholder is shown in place of content that cannot be displayed.
const ErrorPlaceholder = `<div class="content-error">Error rendering content</div>`

// Display validates a compiled value before it reaches a template. It
// accepts CompiledContent and RenderedPost values produced by Compile, a
// non-empty template.HTML, and a non-empty string, which is escaped.
// Anything else yields ErrorPlaceholder together with an ErrRender error.
func Display(v any) (template.HTML, error) {
	switch value := v.(type) {
	case interfaces.CompiledContent:
		return displayCompiled(value)
	case *interfaces.CompiledContent:
		if value == nil {
			return ErrorPlaceholder, fmt.Errorf("%w: nil compiled content", ErrRender)
		}
		return displayCompiled(*value)
	case interfaces.RenderedPost:
		return displayCompiled(value.Compiled)
	case *interfaces.RenderedPost:
		if value == nil {
			return ErrorPlaceholder, fmt.Errorf("%w: nil rendered post", ErrRender)
		}
		return displayCompiled(value.Compiled)
	case template.HTML:
		if strings.TrimSpace(string(value)) == "" {
			return ErrorPlaceholder, fmt.Errorf("%w: empty html", ErrRender)
		}
		return value, nil
	case string:
		if strings.TrimSpace(value) == "" {
			return ErrorPlaceholder, fmt.Errorf("%w: empty string", ErrRender)
		}
		return template.HTML(html.EscapeString(value)), nil
	case nil:
		return ErrorPlaceholder, fmt.Errorf("%w: nil value", ErrRender)
	default:
		return ErrorPlaceholder, fmt.Errorf("%w: unsupported type %T", ErrRender, v)
	}
}

func displayCompiled(c interfaces.CompiledContent) (template.HTML, error) {
	if !c.Compiled {
		return ErrorPlaceholder, fmt.Errorf("%w: content was not compiled", ErrRender)
	}
	if strings.TrimSpace(c.HTML) == "" {
		return ErrorPlaceholder, fmt.Errorf("%w: compiled html is empty", ErrRender)
	}
	return template.HTML(c.HTML), nil
}

// Display runs the display guard and logs rejected values. It never fails.
func (r *Renderer) Display(ctx context.Context, v any) template.HTML {
	out, err := Display(v)
	if err != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		logging.WithFields(r.logger.WithContext(ctx), map[string]any{
			"error": err,
		}).Error("render.display_failed")
	}
	return out
}
