package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// PostService is the read side of the posts service used by the API.
type PostService interface {
	GetAll(ctx context.Context, dir string) ([]interfaces.Post, error)
	GetByTag(ctx context.Context, dir, tag string) ([]interfaces.Post, error)
	GetByCategory(ctx context.Context, dir, category string) ([]interfaces.Post, error)
	GetAllTags(ctx context.Context, dir string) ([]string, error)
	GetAllCategories(ctx context.Context, dir string) ([]string, error)
	GetRelated(ctx context.Context, dir, slug, category string) ([]interfaces.Post, error)
	GetAdjacent(ctx context.Context, dir, slug string) (newer, older *interfaces.Post, err error)
	Render(ctx context.Context, dir, slug string) (*interfaces.RenderedPost, error)
}

// FeedGenerator produces the XML documents served at the site root.
type FeedGenerator interface {
	RSS(ctx context.Context, dir string) (string, error)
	Atom(ctx context.Context, dir string) (string, error)
	Sitemap(ctx context.Context, dir string) (string, error)
}

// API serves posts as JSON and feeds as XML.
type API struct {
	basePath   string
	contentDir string
	posts      PostService
	feeds      FeedGenerator
	logger     interfaces.Logger
}

// APIOption customises the API.
type APIOption func(*API)

// WithBasePath sets the prefix for JSON routes. Defaults to /api.
func WithBasePath(base string) APIOption {
	return func(api *API) {
		if strings.TrimSpace(base) != "" {
			api.basePath = base
		}
	}
}

// WithContentDir selects the content directory passed to the posts service.
func WithContentDir(dir string) APIOption {
	return func(api *API) {
		if strings.TrimSpace(dir) != "" {
			api.contentDir = dir
		}
	}
}

// WithPostService wires the posts service.
func WithPostService(svc PostService) APIOption {
	return func(api *API) {
		api.posts = svc
	}
}

// WithFeeds wires the feed generator. Without it the feed routes are not
// registered.
func WithFeeds(gen FeedGenerator) APIOption {
	return func(api *API) {
		api.feeds = gen
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) APIOption {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// NewAPI constructs the API.
func NewAPI(opts ...APIOption) *API {
	api := &API{
		basePath:   "/api",
		contentDir: "posts",
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register mounts the routes on mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return errors.New("http: mux is nil")
	}
	if api.posts == nil {
		return errors.New("http: post service is required")
	}

	mux.HandleFunc("GET "+joinPath(api.basePath, "posts"), api.listPosts)
	mux.HandleFunc("GET "+joinPath(api.basePath, "posts/{slug}"), api.getPost)
	mux.HandleFunc("GET "+joinPath(api.basePath, "posts/{slug}/related"), api.relatedPosts)
	mux.HandleFunc("GET "+joinPath(api.basePath, "tags"), api.listTags)
	mux.HandleFunc("GET "+joinPath(api.basePath, "tags/{tag}"), api.postsByTag)
	mux.HandleFunc("GET "+joinPath(api.basePath, "categories"), api.listCategories)
	mux.HandleFunc("GET "+joinPath(api.basePath, "categories/{category}"), api.postsByCategory)

	if api.feeds != nil {
		mux.HandleFunc("GET /feed.xml", api.serveFeed("application/rss+xml", api.feeds.RSS))
		mux.HandleFunc("GET /atom.xml", api.serveFeed("application/atom+xml", api.feeds.Atom))
		mux.HandleFunc("GET /sitemap.xml", api.serveFeed("application/xml", api.feeds.Sitemap))
	}
	return nil
}

// Handler returns a mux with the API registered.
func (api *API) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

type postListResponse struct {
	Posts []interfaces.Post `json:"posts"`
	Total int               `json:"total"`
}

type postResponse struct {
	Post     interfaces.Post      `json:"post"`
	HTML     string               `json:"html"`
	TOC      []interfaces.Heading `json:"toc,omitempty"`
	Fallback bool                 `json:"fallback,omitempty"`
	Newer    *postLink            `json:"newer,omitempty"`
	Older    *postLink            `json:"older,omitempty"`
}

type postLink struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type termsResponse struct {
	Items []string `json:"items"`
}

func (api *API) listPosts(w http.ResponseWriter, r *http.Request) {
	api.writePosts(w, r, func(ctx context.Context) ([]interfaces.Post, error) {
		return api.posts.GetAll(ctx, api.contentDir)
	})
}

func (api *API) postsByTag(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	api.writePosts(w, r, func(ctx context.Context) ([]interfaces.Post, error) {
		return api.posts.GetByTag(ctx, api.contentDir, tag)
	})
}

func (api *API) postsByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	api.writePosts(w, r, func(ctx context.Context) ([]interfaces.Post, error) {
		return api.posts.GetByCategory(ctx, api.contentDir, category)
	})
}

func (api *API) writePosts(w http.ResponseWriter, r *http.Request, load func(context.Context) ([]interfaces.Post, error)) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	posts, err := load(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	total := len(posts)
	if limit > 0 && limit < total {
		posts = posts[:limit]
	}
	if posts == nil {
		posts = []interfaces.Post{}
	}
	writeJSON(w, http.StatusOK, postListResponse{Posts: posts, Total: total})
}

func (api *API) getPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	rendered, err := api.posts.Render(ctx, api.contentDir, slug)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	if rendered == nil {
		writeNotFound(w)
		return
	}

	html, displayErr := markdown.Display(rendered.Compiled)
	if displayErr != nil {
		api.requestLogger(r).Error("http.post.display_failed", "slug", slug, "error", displayErr)
	}

	resp := postResponse{
		Post:     rendered.Post,
		HTML:     string(html),
		TOC:      rendered.Compiled.TOC,
		Fallback: rendered.Compiled.Fallback,
	}
	resp.Post.Content = ""

	newer, older, err := api.posts.GetAdjacent(ctx, api.contentDir, slug)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	resp.Newer = linkTo(newer)
	resp.Older = linkTo(older)

	writeJSON(w, http.StatusOK, resp)
}

func (api *API) relatedPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	// Related posts are resolved against the listing so drafts and skipped
	// files never leak in.
	all, err := api.posts.GetAll(ctx, api.contentDir)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	var category string
	found := false
	for _, post := range all {
		if post.Slug == slug {
			category = post.Category
			found = true
			break
		}
	}
	if !found {
		writeNotFound(w)
		return
	}

	api.writePosts(w, r, func(ctx context.Context) ([]interfaces.Post, error) {
		return api.posts.GetRelated(ctx, api.contentDir, slug, category)
	})
}

func (api *API) listTags(w http.ResponseWriter, r *http.Request) {
	api.writeTerms(w, r, api.posts.GetAllTags)
}

func (api *API) listCategories(w http.ResponseWriter, r *http.Request) {
	api.writeTerms(w, r, api.posts.GetAllCategories)
}

func (api *API) writeTerms(w http.ResponseWriter, r *http.Request, load func(context.Context, string) ([]string, error)) {
	items, err := load(r.Context(), api.contentDir)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, termsResponse{Items: items})
}

func (api *API) serveFeed(contentType string, build func(context.Context, string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := build(r.Context(), api.contentDir)
		if err != nil {
			api.fail(w, r, err)
			return
		}
		writeXML(w, contentType, body)
	}
}

func (api *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		api.requestLogger(r).Error("http.request_failed", "status", status, "error", err)
	}
	writeJSON(w, status, payload)
}

func (api *API) requestLogger(r *http.Request) interfaces.Logger {
	return logging.WithFields(api.logger.WithContext(r.Context()), map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
	})
}

func linkTo(post *interfaces.Post) *postLink {
	if post == nil {
		return nil
	}
	return &postLink{Slug: post.Slug, Title: post.Title}
}
