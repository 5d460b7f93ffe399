// Package http exposes posts and feeds over net/http.
//
// Routes mount under a configurable base path (default /api):
//   - Posts: /posts, /posts/{slug}, /posts/{slug}/related
//   - Tags: /tags, /tags/{tag}
//   - Categories: /categories, /categories/{category}
//
// Feeds are served from the site root: /feed.xml, /atom.xml, /sitemap.xml.
// A missing post is a 404; unreadable content is a 500. Pages, layouts and
// styling belong to the host application.
package http
