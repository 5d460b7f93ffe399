package logging

import (
	"errors"
	"maps"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	fieldContentDir = "content_dir"
	fieldSlug       = "slug"
	fieldOperation  = "operation"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}

	return logger
}

// WithPostContext enriches the logger with the content directory, slug and
// operation being served. Empty values are ignored.
func WithPostContext(logger interfaces.Logger, dir, slug, operation string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(dir); trimmed != "" {
		fields[fieldContentDir] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(operation); trimmed != "" {
		fields[fieldOperation] = trimmed
	}
	return WithFields(logger, fields)
}

// ErrorDetails returns the text code and category carried by a go-errors
// value anywhere in err's chain. Plain errors report empty strings.
func ErrorDetails(err error) (code, category string) {
	var typed *goerrors.Error
	if err == nil || !errors.As(err, &typed) {
		return "", ""
	}
	return typed.TextCode, string(typed.Category)
}

// ExpandErrorArgs appends <key>_code and <key>_category pairs for every
// go-errors value found in a key/value argument list.
func ExpandErrorArgs(args []any) []any {
	var extra []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		err, ok := args[i+1].(error)
		if !ok {
			continue
		}
		code, category := ErrorDetails(err)
		if code != "" {
			extra = append(extra, key+"_code", code)
		}
		if category != "" {
			extra = append(extra, key+"_category", category)
		}
	}
	if len(extra) == 0 {
		return args
	}
	out := make([]any, 0, len(args)+len(extra))
	out = append(out, args...)
	return append(out, extra...)
}
