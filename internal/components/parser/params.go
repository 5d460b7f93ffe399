package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

var paramPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_:-]*)(?:\s*=\s*(?:"((?:[^"\\]|\\.)*)"|'([^']*)'|(\{[^}]*\}|\[[^\]]*\])|([^\s"'=]+)))?`)

// ParseParams decodes a tag attribute list. Values may be double or single
// quoted strings, JSON literals wrapped in braces ({3}, {["a","b"]},
// {"k":1}) or brackets, or bare words. An attribute without a value is a
// true flag.
func ParseParams(raw string) map[string]any {
	params := map[string]any{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return params
	}

	for _, m := range paramPattern.FindAllStringSubmatchIndex(raw, -1) {
		key := raw[m[2]:m[3]]
		switch {
		case m[4] >= 0:
			params[key] = unescapeQuoted(raw[m[4]:m[5]])
		case m[6] >= 0:
			params[key] = raw[m[6]:m[7]]
		case m[8] >= 0:
			params[key] = decodeExpression(raw[m[8]:m[9]])
		case m[10] >= 0:
			params[key] = raw[m[10]:m[11]]
		default:
			params[key] = true
		}
	}
	return params
}

func decodeExpression(expr string) any {
	var value any
	if err := json.Unmarshal([]byte(expr), &value); err == nil {
		return value
	}
	inner := strings.TrimSpace(expr[1 : len(expr)-1])
	if err := json.Unmarshal([]byte(inner), &value); err == nil {
		return value
	}
	return strings.Trim(inner, `"'`)
}

func unescapeQuoted(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	replacer := strings.NewReplacer(`\"`, `"`, `\\`, `\`)
	return replacer.Replace(value)
}
