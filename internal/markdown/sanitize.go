package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var youTubeEmbed = regexp.MustCompile(`^https://www\.youtube(?:-nocookie)?\.com/embed/[A-Za-z0-9_-]+(?:\?[A-Za-z0-9=&_-]*)?$`)

// newSanitizePolicy extends the bluemonday UGC policy so compiled posts keep
// the markup the pipeline emits: classes and data attributes for
// highlighting and components, heading ids for anchors, lazy image hints,
// link targets, and YouTube embeds.
func newSanitizePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowDataAttributes()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup", "div")
	policy.AllowAttrs("loading", "decoding").OnElements("img", "iframe")
	policy.AllowAttrs("target", "rel").OnElements("a")
	policy.AllowElements("aside", "figure", "figcaption", "iframe")
	policy.AllowAttrs("src").Matching(youTubeEmbed).OnElements("iframe")
	policy.AllowAttrs("title", "allowfullscreen").OnElements("iframe")
	return policy
}
