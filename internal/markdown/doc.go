// Package markdown reads content files and compiles their bodies.
//
// Loader is the source reader: it enumerates slugs in a content directory
// of an fs.FS and splits each file into its frontmatter metadata and
// markdown body. Renderer is the content compiler: it turns a body with
// embedded components into HTML through goldmark, and degrades to
// FallbackHTML when compilation fails so callers always get something
// displayable.
package markdown
