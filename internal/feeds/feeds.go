// Package feeds renders RSS 2.0, Atom 1.0 and sitemap documents for a
// content directory.
package feeds

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/identity"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	// DefaultLimit caps feed items when Config.Limit is not set.
	DefaultLimit = 20
	maxFeedItems = 100

	fallbackBaseURL = "http://localhost"
)

// Lister supplies date ordered posts.
type Lister interface {
	GetAll(ctx context.Context, dir string) ([]interfaces.Post, error)
}

// Config describes the site the feeds belong to.
type Config struct {
	Title          string
	Description    string
	BaseURL        string
	Language       string
	Author         string
	PostPathPrefix string
	Routes         Routes
	Limit          int
}

// Option customises a Generator.
type Option func(*Generator)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock overrides the time used when a listing has no posts.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator builds feed documents from a post listing.
type Generator struct {
	lister Lister
	cfg    Config
	routes *router
	logger interfaces.Logger
	now    func() time.Time
}

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	Author      string
	Categories  []string
	PublishedAt time.Time
}

// NewGenerator returns a generator reading posts from lister. It fails when
// the route templates in cfg cannot be registered.
func NewGenerator(lister Lister, cfg Config, opts ...Option) (*Generator, error) {
	routes, err := newRouter(cfg.PostPathPrefix, cfg.Routes)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		lister: lister,
		cfg:    cfg,
		routes: routes,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// PostURL returns the absolute URL of a post page.
func (g *Generator) PostURL(slug string) (string, error) {
	route, err := g.routes.post(slug)
	if err != nil {
		return "", err
	}
	return absoluteURL(g.cfg.BaseURL, route), nil
}

// TagURL returns the absolute URL of the page listing posts tagged tag.
func (g *Generator) TagURL(tag string) (string, error) {
	route, err := g.routes.tag(tag)
	if err != nil {
		return "", err
	}
	return absoluteURL(g.cfg.BaseURL, route), nil
}

// RSS renders the RSS 2.0 feed for dir.
func (g *Generator) RSS(ctx context.Context, dir string) (string, error) {
	items, updated, err := g.items(ctx, dir)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(g.title())))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseURLWithFallback(g.cfg.BaseURL))))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(g.description())))
	if lang := strings.TrimSpace(g.cfg.Language); lang != "" {
		builder.WriteString(fmt.Sprintf("    <language>%s</language>\n", escapeXML(lang)))
	}
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", updated.UTC().Format(time.RFC1123Z)))
	for _, item := range items {
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf(`      <guid isPermaLink="false">%s</guid>`+"\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", item.PublishedAt.UTC().Format(time.RFC1123Z)))
		for _, category := range item.Categories {
			builder.WriteString(fmt.Sprintf("      <category>%s</category>\n", escapeXML(category)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String(), nil
}

// Atom renders the Atom 1.0 feed for dir.
func (g *Generator) Atom(ctx context.Context, dir string) (string, error) {
	items, updated, err := g.items(ctx, dir)
	if err != nil {
		return "", err
	}

	baseLink := baseURLWithFallback(g.cfg.BaseURL)
	selfLink := baseLink + "/atom.xml"

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if lang := strings.TrimSpace(g.cfg.Language); lang != "" {
		builder.WriteString(fmt.Sprintf(`<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="%s">`+"\n", escapeXMLAttr(lang)))
	} else {
		builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	}
	builder.WriteString(fmt.Sprintf("  <id>urn:uuid:%s</id>\n", identity.SiteUUID(baseLink)))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(g.title())))
	if desc := g.description(); desc != "" {
		builder.WriteString(fmt.Sprintf("  <subtitle>%s</subtitle>\n", escapeXML(desc)))
	}
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(baseLink)))
	builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXMLAttr(selfLink)))
	if author := strings.TrimSpace(g.cfg.Author); author != "" {
		builder.WriteString(fmt.Sprintf("  <author><name>%s</name></author>\n", escapeXML(author)))
	}
	for _, item := range items {
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>urn:uuid:%s</id>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf(`    <link href="%s" />`+"\n", escapeXMLAttr(item.Link)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", item.PublishedAt.UTC().Format(time.RFC3339)))
		builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", item.PublishedAt.UTC().Format(time.RFC3339)))
		if item.Author != "" {
			builder.WriteString(fmt.Sprintf("    <author><name>%s</name></author>\n", escapeXML(item.Author)))
		}
		for _, category := range item.Categories {
			builder.WriteString(fmt.Sprintf(`    <category term="%s" />`+"\n", escapeXMLAttr(category)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return builder.String(), nil
}

// Sitemap renders sitemap.xml covering the post index, every post and one
// page per tag.
func (g *Generator) Sitemap(ctx context.Context, dir string) (string, error) {
	posts, err := g.lister.GetAll(ctx, dir)
	if err != nil {
		return "", err
	}
	return g.buildSitemap(posts)
}

func (g *Generator) items(ctx context.Context, dir string) ([]feedItem, time.Time, error) {
	posts, err := g.lister.GetAll(ctx, dir)
	if err != nil {
		return nil, time.Time{}, err
	}

	limit := g.cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxFeedItems {
		limit = maxFeedItems
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}

	items := make([]feedItem, 0, len(posts))
	for _, post := range posts {
		link, err := g.PostURL(post.Slug)
		if err != nil {
			return nil, time.Time{}, err
		}
		categories := make([]string, 0, len(post.Tags)+1)
		if post.Category != "" {
			categories = append(categories, post.Category)
		}
		categories = append(categories, post.Tags...)

		items = append(items, feedItem{
			Title:       post.Title,
			Summary:     post.Description,
			Link:        link,
			GUID:        identity.PostUUID(dir, post.Slug).String(),
			Author:      post.Author,
			Categories:  categories,
			PublishedAt: post.PublishedAt,
		})
	}

	updated := g.now()
	if len(items) > 0 {
		updated = items[0].PublishedAt
	}

	logging.WithFields(g.logger.WithContext(ctx), map[string]any{
		"content_dir": dir,
		"items":       len(items),
	}).Debug("feeds.items.built")
	return items, updated, nil
}

func (g *Generator) title() string {
	if title := strings.TrimSpace(g.cfg.Title); title != "" {
		return title
	}
	return baseURLWithFallback(g.cfg.BaseURL)
}

func (g *Generator) description() string {
	return strings.TrimSpace(g.cfg.Description)
}

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

func (g *Generator) buildSitemap(posts []interfaces.Post) (string, error) {
	entries := make([]sitemapEntry, 0, len(posts)+1)
	seen := map[string]struct{}{}
	add := func(route string, lastMod time.Time) {
		location := absoluteURL(g.cfg.BaseURL, route)
		if _, ok := seen[location]; ok {
			return
		}
		seen[location] = struct{}{}
		entries = append(entries, sitemapEntry{Location: location, LastMod: lastMod})
	}

	var newest time.Time
	if len(posts) > 0 {
		newest = posts[0].PublishedAt
	}
	index, err := g.routes.index()
	if err != nil {
		return "", err
	}
	add(index, newest)

	tagLastMod := map[string]time.Time{}
	for _, post := range posts {
		route, err := g.routes.post(post.Slug)
		if err != nil {
			return "", err
		}
		add(route, post.PublishedAt)
		for _, tag := range post.Tags {
			if post.PublishedAt.After(tagLastMod[tag]) {
				tagLastMod[tag] = post.PublishedAt
			}
		}
	}
	for tag, lastMod := range tagLastMod {
		route, err := g.routes.tag(tag)
		if err != nil {
			return "", err
		}
		add(route, lastMod)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Location < entries[j].Location
	})

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeXML(entry.Location)))
		if !entry.LastMod.IsZero() {
			builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.RFC3339)))
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String(), nil
}

func joinRoute(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.Trim(strings.TrimSpace(part), "/"); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return "/" + strings.Join(segments, "/")
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return fallbackBaseURL
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" || normalized == "/" {
		return targetBase + "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}

func escapeXMLAttr(value string) string {
	return html.EscapeString(value)
}
