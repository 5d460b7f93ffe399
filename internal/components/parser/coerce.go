package parser

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// ErrAttributeType reports an attribute value that cannot take the type a
// component schema asks for.
var ErrAttributeType = errors.New("components: attribute type mismatch")

// Coerce converts an attribute value produced by ParseParams into the Go
// type a component parameter expects: quoted and bare values arrive as
// strings, {expr} values as decoded JSON and valueless attributes as true.
func Coerce(kind interfaces.ComponentParamType, value any) (any, error) {
	switch kind {
	case interfaces.ComponentParamString:
		return attributeText(value), nil
	case interfaces.ComponentParamURL:
		raw := strings.TrimSpace(attributeText(value))
		if _, err := url.Parse(raw); err != nil {
			return nil, fmt.Errorf("%w: %q is not a url", ErrAttributeType, raw)
		}
		return raw, nil
	case interfaces.ComponentParamInt:
		return attributeInt(value)
	case interfaces.ComponentParamBool:
		return attributeBool(value)
	case interfaces.ComponentParamArray:
		return attributeList(value)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrAttributeType, kind)
	}
}

func attributeText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func attributeInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v is not a whole number", ErrAttributeType, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrAttributeType, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %T is not a number", ErrAttributeType, value)
	}
}

func attributeBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %v is not a flag", ErrAttributeType, value)
}

// attributeList accepts a JSON array ({["a","b"]}) or a comma separated
// string ("a, b").
func attributeList(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, nil
	case string:
		var out []any
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if out == nil {
			out = []any{}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a list", ErrAttributeType, value)
	}
}
