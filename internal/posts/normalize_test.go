package posts

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

func rawDoc(meta map[string]any, body string) interfaces.RawDocument {
	base := map[string]any{
		"title":    "Title",
		"category": "notes",
		"date":     "2023-01-01",
	}
	for key, value := range meta {
		base[key] = value
	}
	return interfaces.RawDocument{Slug: "slug", Path: "posts/slug.mdx", Metadata: base, Body: body}
}

func TestNormalizeTags_RoundTrip(t *testing.T) {
	n := NewNormalizer(0, 0)

	fromList, err := n.Normalize(rawDoc(map[string]any{"tags": []any{"a", "b"}}, "body"))
	if err != nil {
		t.Fatalf("Normalize list: %v", err)
	}
	fromString, err := n.Normalize(rawDoc(map[string]any{"tags": "a, b"}, "body"))
	if err != nil {
		t.Fatalf("Normalize string: %v", err)
	}

	want := []string{"a", "b"}
	if diff := cmp.Diff(want, fromList.Tags); diff != "" {
		t.Fatalf("list tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fromList.Tags, fromString.Tags); diff != "" {
		t.Fatalf("string tags should match list tags (-list +string):\n%s", diff)
	}
}

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "absent", value: nil, want: []string{}},
		{name: "string list", value: []string{" go ", "go", ""}, want: []string{"go"}},
		{name: "mixed list", value: []any{"x", 2, nil, "x"}, want: []string{"x", "2"}},
		{name: "comma string", value: "b, a,, b", want: []string{"b", "a"}},
		{name: "unsupported", value: 42, want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, NormalizeTags(tc.value)); diff != "" {
				t.Fatalf("tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_ExcerptDerivation(t *testing.T) {
	n := NewNormalizer(0, 0)
	body := strings.Repeat("x", 500)

	post, err := n.Normalize(rawDoc(nil, body))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := strings.Repeat("x", 150) + EllipsisMarker
	if post.Excerpt != want {
		t.Fatalf("expected excerpt %q, got %q", want, post.Excerpt)
	}
	if post.Description != want {
		t.Fatalf("expected derived description to match excerpt, got %q", post.Description)
	}
}

func TestNormalize_ExcerptStripsMarkdown(t *testing.T) {
	n := NewNormalizer(0, 0)

	got := n.Excerpt("# Heading\n\nSome **bold**   text.")
	if strings.ContainsAny(got, "#*") || strings.Contains(got, "  ") {
		t.Fatalf("expected plain collapsed text, got %q", got)
	}
	if !strings.Contains(got, "bold") {
		t.Fatalf("expected text content to be kept, got %q", got)
	}
}

func TestNormalize_ExplicitExcerptAndDescription(t *testing.T) {
	n := NewNormalizer(0, 0)

	onlyDescription, err := n.Normalize(rawDoc(map[string]any{"description": "Described"}, "body"))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if onlyDescription.Excerpt != "Described" || onlyDescription.Description != "Described" {
		t.Fatalf("expected excerpt to fall back to description, got %+v", onlyDescription)
	}

	both, err := n.Normalize(rawDoc(map[string]any{"excerpt": "E", "description": "D"}, "body"))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if both.Excerpt != "E" || both.Description != "D" {
		t.Fatalf("explicit values must be kept, got %+v", both)
	}
}

func TestNormalize_ReadingTime(t *testing.T) {
	n := NewNormalizer(0, 0)

	cases := []struct {
		words int
		want  int
	}{
		{words: 0, want: 0},
		{words: 1, want: 1},
		{words: 200, want: 1},
		{words: 201, want: 2},
		{words: 400, want: 2},
	}
	for _, tc := range cases {
		body := strings.TrimSpace(strings.Repeat("word ", tc.words))
		if got := n.ReadingTime(body); got != tc.want {
			t.Fatalf("%d words: expected %d minutes, got %d", tc.words, tc.want, got)
		}
	}
}

func TestNormalize_Dates(t *testing.T) {
	n := NewNormalizer(0, 0)

	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "iso date", value: "2023-06-01", want: "2023-06-01T00:00:00Z"},
		{name: "long form", value: "oct 7, 1970", want: "1970-10-07T00:00:00Z"},
		{name: "slashes", value: "2023/06/01", want: "2023-06-01T00:00:00Z"},
		{name: "offset", value: "2023-06-01T10:00:00+02:00", want: "2023-06-01T08:00:00Z"},
		{name: "time value", value: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC), want: "2023-06-01T12:00:00Z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post, err := n.Normalize(rawDoc(map[string]any{"date": tc.value}, "body"))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if post.Date != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, post.Date)
			}
		})
	}
}

func TestNormalize_RequiredFields(t *testing.T) {
	n := NewNormalizer(0, 0)

	cases := map[string]map[string]any{
		"missing title":    {"title": ""},
		"missing category": {"category": nil},
		"missing date":     {"date": nil},
		"bad date":         {"date": "not a date"},
		"numeric title":    {"title": 12},
	}
	for name, meta := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := n.Normalize(rawDoc(meta, "body"))
			if !IsInvalidMetadata(err) {
				t.Fatalf("expected invalid metadata error, got %v", err)
			}
		})
	}
}

func TestNormalize_DefaultsAndExtras(t *testing.T) {
	n := NewNormalizer(0, 0)

	post, err := n.Normalize(rawDoc(map[string]any{
		"Author_Image": "/me.png",
		"image":        "/cover.png",
		"series":       "intro",
	}, "body"))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if post.Author != interfaces.AnonymousAuthor {
		t.Fatalf("expected anonymous author, got %q", post.Author)
	}
	if post.AuthorImage != "/me.png" || post.Image != "/cover.png" {
		t.Fatalf("expected image fields, got %+v", post)
	}
	if diff := cmp.Diff(map[string]any{"series": "intro"}, post.Extra); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}
}
