package markdown

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

var frontMatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat(yamlDelimiter, yamlDelimiter, yaml.Unmarshal),
	frontmatter.NewFormat(tomlDelimiter, tomlDelimiter, toml.Unmarshal),
}

// ParseFrontMatter splits source into its metadata block and markdown body.
// YAML (---) and TOML (+++) blocks are recognised. A source without a block
// yields empty metadata and the whole source as body. Parsing is strict: an
// opening delimiter without a matching closing line, or a block that fails
// to decode, is reported as ErrMalformedFrontMatter.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	if err := checkTerminated(source); err != nil {
		return nil, nil, err
	}

	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, frontMatterFormats...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// checkTerminated rejects sources whose first non-blank line opens a
// metadata block that is never closed. The frontmatter decoder would
// otherwise treat the whole file as body.
func checkTerminated(source []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), len(source)+1)

	delimiter := ""
	for scanner.Scan() {
		line := string(bytes.TrimSpace(scanner.Bytes()))
		if delimiter == "" {
			if line == "" {
				continue
			}
			if line != yamlDelimiter && line != tomlDelimiter {
				return nil
			}
			delimiter = line
			continue
		}
		if line == delimiter {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	if delimiter != "" {
		return fmt.Errorf("%w: unterminated %s block", ErrMalformedFrontMatter, delimiter)
	}
	return nil
}
