package interfaces

// ParseOptions customises markdown rendering. Sanitize runs compiled HTML
// through a UGC policy, SafeMode drops raw HTML from the body and
// HighlightStyle names the chroma style used for fenced code.
type ParseOptions struct {
	Extensions     []string
	Sanitize       bool
	HardWraps      bool
	SafeMode       bool
	HighlightStyle string
}

// ElementKind identifies a markdown element that a render rule targets.
type ElementKind string

const (
	ElementLink       ElementKind = "link"
	ElementImage      ElementKind = "image"
	ElementHeading    ElementKind = "heading"
	ElementCodeBlock  ElementKind = "code_block"
	ElementBlockquote ElementKind = "blockquote"
	ElementTable      ElementKind = "table"
)

// Element describes the node a render rule is applied to.
// Level is set for headings, Destination for links and images, Language for
// fenced code blocks.
type Element struct {
	Kind        ElementKind
	Level       int
	Destination string
	Language    string
}

// RenderRule returns the attributes to set on an element. A nil or empty
// map leaves the element untouched.
type RenderRule func(el Element) map[string]string

// RenderRules maps element kinds to the rule the renderer applies to them.
type RenderRules map[ElementKind]RenderRule
