package interfaces

import (
	"context"
	"maps"
	"time"
)

// AnonymousAuthor is assigned to posts whose metadata omits the author.
const AnonymousAuthor = "Anonymous"

// RawDocument is a content file split into its metadata block and body.
// Metadata values keep the loose types produced by the frontmatter decoder.
type RawDocument struct {
	Slug     string
	Path     string
	Metadata map[string]any
	Body     string
	// Checksum is the hex encoded SHA-256 of the file bytes.
	Checksum string
}

// ContentSource enumerates and reads raw documents from a content directory.
type ContentSource interface {
	ListSlugs(ctx context.Context, dir string) ([]string, error)
	ReadOne(ctx context.Context, dir, slug string) (RawDocument, error)
}

// Post is the canonical, normalised unit of content.
//
// Content holds the raw markdown body when the post was loaded through a
// single-post lookup and is empty on listing paths. Compiled output travels
// separately in RenderedPost.
type Post struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Category    string         `json:"category"`
	Author      string         `json:"author"`
	AuthorImage string         `json:"authorImage,omitempty"`
	AuthorBio   string         `json:"authorBio,omitempty"`
	Date        string         `json:"date"`
	PublishedAt time.Time      `json:"-"`
	Tags        []string       `json:"tags"`
	Excerpt     string         `json:"excerpt"`
	Description string         `json:"description"`
	ReadingTime int            `json:"readingTime"`
	Image       string         `json:"image,omitempty"`
	Draft       bool           `json:"draft,omitempty"`
	Content     string         `json:"content,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Clone returns a deep copy so cached posts cannot be mutated through
// returned values.
func (p Post) Clone() Post {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	if p.Extra != nil {
		out.Extra = maps.Clone(p.Extra)
	}
	return out
}

// HasTag reports whether the post carries tag, using exact matching.
func (p Post) HasTag(tag string) bool {
	for _, candidate := range p.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

// Heading is a table of contents entry collected while compiling a body.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// CompiledContent is the renderable output of the content renderer.
//
// The zero value is not displayable: Compiled is only set by the renderer,
// so a CompiledContent that never went through compilation is rejected by
// the display guard.
type CompiledContent struct {
	HTML     string    `json:"html"`
	TOC      []Heading `json:"toc,omitempty"`
	Fallback bool      `json:"fallback,omitempty"`
	Compiled bool      `json:"-"`
	Err      error     `json:"-"`
}

// ContentCompiler turns a markdown-with-components body into HTML. Compile
// never fails; broken input degrades to fallback output.
type ContentCompiler interface {
	Compile(ctx context.Context, body string, scope map[string]any) CompiledContent
}

// RenderedPost pairs a post with its compiled body.
type RenderedPost struct {
	Post     Post            `json:"post"`
	Compiled CompiledContent `json:"compiled"`
}
