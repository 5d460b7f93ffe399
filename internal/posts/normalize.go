package posts

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/karlseguin/typed"
	stripmd "github.com/writeas/go-strip-markdown"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	// DefaultExcerptLength is the rune budget for derived excerpts.
	DefaultExcerptLength = 150
	// DefaultWordsPerMinute is the reading speed used for ReadingTime.
	DefaultWordsPerMinute = 200
	// EllipsisMarker is appended to truncated excerpts.
	EllipsisMarker = "..."
)

var errUnparseableDate = errors.New("must be a valid date")

// metadata keys with a dedicated Post field. Everything else lands in Extra.
var knownKeys = map[string]struct{}{
	"title": {}, "category": {}, "author": {}, "authorimage": {}, "author_image": {},
	"authorbio": {}, "author_bio": {}, "date": {}, "tags": {}, "excerpt": {},
	"description": {}, "image": {}, "draft": {}, "slug": {},
}

// Normalizer converts raw documents into posts. It is stateless and safe for
// concurrent use.
type Normalizer struct {
	excerptLength  int
	wordsPerMinute int
}

// NewNormalizer builds a normalizer. Non-positive values select the defaults.
func NewNormalizer(excerptLength, wordsPerMinute int) *Normalizer {
	if excerptLength <= 0 {
		excerptLength = DefaultExcerptLength
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	return &Normalizer{excerptLength: excerptLength, wordsPerMinute: wordsPerMinute}
}

type postMetadata struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     any    `json:"date"`
}

// Normalize validates doc's metadata and builds the canonical post. The
// returned post carries the raw body in Content. title, category and date
// are required; a failure is a validation error with text code
// INVALID_METADATA.
func (n *Normalizer) Normalize(doc interfaces.RawDocument) (interfaces.Post, error) {
	meta := typed.New(lowerKeys(doc.Metadata))

	raw := postMetadata{
		Title:    stringField(meta, "title"),
		Category: stringField(meta, "category"),
		Date:     meta["date"],
	}

	var published time.Time
	err := validation.ValidateStruct(&raw,
		validation.Field(&raw.Title, validation.Required),
		validation.Field(&raw.Category, validation.Required),
		validation.Field(&raw.Date, validation.Required, validation.By(func(value any) error {
			t, err := parseDate(value)
			if err != nil {
				return err
			}
			published = t
			return nil
		})),
	)
	if err != nil {
		return interfaces.Post{}, invalidMetadataError(err, doc.Slug, doc.Path)
	}

	post := interfaces.Post{
		Slug:        doc.Slug,
		Title:       raw.Title,
		Category:    raw.Category,
		Author:      stringField(meta, "author"),
		AuthorImage: firstString(meta, "authorimage", "author_image"),
		AuthorBio:   firstString(meta, "authorbio", "author_bio"),
		Date:        published.UTC().Format(time.RFC3339),
		PublishedAt: published.UTC(),
		Tags:        NormalizeTags(meta["tags"]),
		Image:       stringField(meta, "image"),
		Draft:       boolField(meta, "draft"),
		ReadingTime: n.ReadingTime(doc.Body),
		Content:     doc.Body,
		Extra:       extraFields(meta),
	}
	if post.Author == "" {
		post.Author = interfaces.AnonymousAuthor
	}

	post.Excerpt = stringField(meta, "excerpt")
	post.Description = stringField(meta, "description")
	switch {
	case post.Excerpt == "" && post.Description == "":
		derived := n.Excerpt(doc.Body)
		post.Excerpt = derived
		post.Description = derived
	case post.Excerpt == "":
		post.Excerpt = post.Description
	case post.Description == "":
		post.Description = post.Excerpt
	}

	return post, nil
}

// Excerpt strips markdown from body, collapses whitespace and truncates the
// result to the configured rune budget followed by EllipsisMarker. Shorter
// text is returned whole without a marker.
func (n *Normalizer) Excerpt(body string) string {
	text := strings.Join(strings.Fields(stripmd.Strip(body)), " ")
	if utf8.RuneCountInString(text) <= n.excerptLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:n.excerptLength]) + EllipsisMarker
}

// ReadingTime returns the minutes needed to read body, rounded up. An empty
// body reads in zero minutes.
func (n *Normalizer) ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / float64(n.wordsPerMinute)))
}

// NormalizeTags accepts a list or a comma separated string and returns the
// trimmed tags in their original order with duplicates and empty entries
// removed. Anything else yields an empty slice.
func NormalizeTags(value any) []string {
	var candidates []string
	switch v := value.(type) {
	case nil:
	case string:
		candidates = strings.Split(v, ",")
	case []string:
		candidates = v
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			candidates = append(candidates, fmt.Sprint(item))
		}
	}

	tags := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		tag := strings.TrimSpace(candidate)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

func parseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v != nil {
			return *v, nil
		}
	case string:
		t, err := dateparse.ParseIn(strings.TrimSpace(v), time.UTC)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnparseableDate
}

func lowerKeys(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for key, value := range meta {
		out[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return out
}

func stringField(meta typed.Typed, key string) string {
	if value, ok := meta.StringIf(key); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func firstString(meta typed.Typed, keys ...string) string {
	for _, key := range keys {
		if value := stringField(meta, key); value != "" {
			return value
		}
	}
	return ""
}

func boolField(meta typed.Typed, key string) bool {
	if value, ok := meta.BoolIf(key); ok {
		return value
	}
	return strings.EqualFold(stringField(meta, key), "true")
}

func extraFields(meta typed.Typed) map[string]any {
	extra := map[string]any{}
	for key, value := range meta {
		if _, known := knownKeys[key]; known {
			continue
		}
		extra[key] = value
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}
