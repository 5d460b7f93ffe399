package posts

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// MaxRelated caps the number of posts returned by GetRelated.
const MaxRelated = 2

// Config tunes the service.
type Config struct {
	// ReadConcurrency bounds parallel reads during listings. Zero or less
	// means unbounded.
	ReadConcurrency int
	// IncludeDrafts keeps draft posts in listings.
	IncludeDrafts  bool
	ExcerptLength  int
	WordsPerMinute int
}

// SkippedPost records a content file left out of a listing.
type SkippedPost struct {
	Slug string `json:"slug"`
	Err  error  `json:"-"`
}

// LoadReport describes how a listing was built. Listed counts the files
// found, Loaded the posts returned, Drafts the drafts filtered out and
// Skipped the files that could not be read or normalised.
type LoadReport struct {
	Dir     string        `json:"dir"`
	Listed  int           `json:"listed"`
	Loaded  int           `json:"loaded"`
	Drafts  int           `json:"drafts"`
	Skipped []SkippedPost `json:"skipped,omitempty"`
}

func (r LoadReport) clone() LoadReport {
	r.Skipped = slices.Clone(r.Skipped)
	return r
}

// Option customises a Service.
type Option func(*Service)

// WithLogger attaches the logger used for load diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache shares an existing cache with the service.
func WithCache(cache *Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithCompiler sets the compiler used by Render.
func WithCompiler(compiler interfaces.ContentCompiler) Option {
	return func(s *Service) {
		s.compiler = compiler
	}
}

// Service is the post read API.
type Service struct {
	source     interfaces.ContentSource
	cache      *Cache
	normalizer *Normalizer
	compiler   interfaces.ContentCompiler
	logger     interfaces.Logger
	cfg        Config
	group      singleflight.Group
}

// NewService builds a service reading documents from source.
func NewService(source interfaces.ContentSource, cfg Config, opts ...Option) *Service {
	s := &Service{
		source:     source,
		cache:      NewCache(),
		normalizer: NewNormalizer(cfg.ExcerptLength, cfg.WordsPerMinute),
		logger:     logging.NoOp(),
		cfg:        cfg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Cache exposes the service cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

// GetOne returns the post for slug, or nil when no such post exists. Broken
// content (unreadable file, malformed or invalid metadata) and a missing
// directory are returned as errors. The post carries its raw body in
// Content.
func (s *Service) GetOne(ctx context.Context, dir, slug string) (*interfaces.Post, error) {
	dir = cleanDir(dir)
	if post, ok := s.cache.Post(dir, slug); ok {
		return &post, nil
	}

	value, err := s.shared(ctx, "one\x00"+dir+"\x00"+slug, func(ctx context.Context) (any, error) {
		if post, ok := s.cache.Post(dir, slug); ok {
			return &post, nil
		}

		doc, err := s.source.ReadOne(ctx, dir, slug)
		if err != nil {
			if markdown.IsNotFound(err) {
				return (*interfaces.Post)(nil), nil
			}
			return nil, err
		}

		post, err := s.normalizer.Normalize(doc)
		if err != nil {
			return nil, err
		}
		s.cache.StorePost(dir, slug, post)

		logging.WithPostContext(s.logger.WithContext(ctx), dir, slug, "getone").Debug("posts.getone.loaded")
		return &post, nil
	})
	if err != nil {
		return nil, err
	}

	post, _ := value.(*interfaces.Post)
	if post == nil {
		return nil, nil
	}
	clone := post.Clone()
	return &clone, nil
}

// GetAll returns the posts of dir sorted by date, newest first. Posts with
// equal dates keep their enumeration order. Files that cannot be read or
// normalised are skipped and logged; GetAllWithReport exposes them. Content
// is empty on listed posts.
func (s *Service) GetAll(ctx context.Context, dir string) ([]interfaces.Post, error) {
	posts, _, err := s.GetAllWithReport(ctx, dir)
	return posts, err
}

// GetAllWithReport is GetAll plus the report describing skipped files.
func (s *Service) GetAllWithReport(ctx context.Context, dir string) ([]interfaces.Post, LoadReport, error) {
	dir = cleanDir(dir)
	if posts, report, ok := s.cache.Listing(dir); ok {
		return posts, report, nil
	}

	_, err := s.shared(ctx, "all\x00"+dir, func(ctx context.Context) (any, error) {
		if _, _, ok := s.cache.Listing(dir); ok {
			return nil, nil
		}
		posts, report, err := s.load(ctx, dir)
		if err != nil {
			return nil, err
		}
		s.cache.StoreListing(dir, posts, report)
		return nil, nil
	})
	if err != nil {
		return nil, LoadReport{}, err
	}

	posts, report, _ := s.cache.Listing(dir)
	return posts, report, nil
}

// shared runs fn once per key for concurrent callers. fn gets a context
// that outlives any single caller, so one caller giving up does not fail
// the others; each caller still returns as soon as its own ctx is done.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (s *Service) load(ctx context.Context, dir string) ([]interfaces.Post, LoadReport, error) {
	logger := logging.WithPostContext(s.logger.WithContext(ctx), dir, "", "getall")

	slugs, err := s.source.ListSlugs(ctx, dir)
	if err != nil {
		return nil, LoadReport{}, err
	}

	results := make([]interfaces.Post, len(slugs))
	failures := make([]error, len(slugs))

	group, groupCtx := errgroup.WithContext(ctx)
	if s.cfg.ReadConcurrency > 0 {
		group.SetLimit(s.cfg.ReadConcurrency)
	}
	for i, slug := range slugs {
		group.Go(func() error {
			doc, err := s.source.ReadOne(groupCtx, dir, slug)
			if err == nil {
				results[i], err = s.normalizer.Normalize(doc)
			}
			if err != nil {
				if isContextError(err) {
					return err
				}
				failures[i] = err
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, LoadReport{}, err
	}

	report := LoadReport{Dir: dir, Listed: len(slugs)}
	posts := make([]interfaces.Post, 0, len(slugs))
	for i, slug := range slugs {
		if failures[i] != nil {
			report.Skipped = append(report.Skipped, SkippedPost{Slug: slug, Err: failures[i]})
			logging.WithFields(logger, map[string]any{
				"slug":  slug,
				"error": failures[i],
			}).Warn("posts.getall.skip")
			continue
		}
		post := results[i]
		if post.Draft && !s.cfg.IncludeDrafts {
			report.Drafts++
			continue
		}
		post.Content = ""
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	report.Loaded = len(posts)

	logging.WithFields(logger, map[string]any{
		"listed":  report.Listed,
		"loaded":  report.Loaded,
		"skipped": len(report.Skipped),
	}).Debug("posts.getall.loaded")
	return posts, report, nil
}

// GetByTag returns the listed posts carrying tag, matched exactly.
func (s *Service) GetByTag(ctx context.Context, dir, tag string) ([]interfaces.Post, error) {
	return s.filter(ctx, dir, func(post interfaces.Post) bool {
		return post.HasTag(tag)
	})
}

// GetByCategory returns the listed posts in category, matched exactly.
func (s *Service) GetByCategory(ctx context.Context, dir, category string) ([]interfaces.Post, error) {
	return s.filter(ctx, dir, func(post interfaces.Post) bool {
		return post.Category == category
	})
}

// GetAllTags returns every tag used in dir, deduplicated and sorted.
func (s *Service) GetAllTags(ctx context.Context, dir string) ([]string, error) {
	posts, err := s.GetAll(ctx, dir)
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, post := range posts {
		tags = append(tags, post.Tags...)
	}
	return sortedUnique(tags), nil
}

// GetAllCategories returns every category used in dir, deduplicated and sorted.
func (s *Service) GetAllCategories(ctx context.Context, dir string) ([]string, error) {
	posts, err := s.GetAll(ctx, dir)
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(posts))
	for _, post := range posts {
		categories = append(categories, post.Category)
	}
	return sortedUnique(categories), nil
}

// GetRelated returns up to MaxRelated other posts sharing category, in
// listing order.
func (s *Service) GetRelated(ctx context.Context, dir, slug, category string) ([]interfaces.Post, error) {
	posts, err := s.GetAll(ctx, dir)
	if err != nil {
		return nil, err
	}
	related := make([]interfaces.Post, 0, MaxRelated)
	for _, post := range posts {
		if post.Slug == slug || post.Category != category {
			continue
		}
		related = append(related, post)
		if len(related) == MaxRelated {
			break
		}
	}
	return related, nil
}

// GetAdjacent returns the posts published right after (newer) and right
// before (older) slug in listing order. Either may be nil, and both are nil
// when slug is not listed.
func (s *Service) GetAdjacent(ctx context.Context, dir, slug string) (newer, older *interfaces.Post, err error) {
	posts, err := s.GetAll(ctx, dir)
	if err != nil {
		return nil, nil, err
	}
	for i, post := range posts {
		if post.Slug != slug {
			continue
		}
		if i > 0 {
			newer = &posts[i-1]
		}
		if i+1 < len(posts) {
			older = &posts[i+1]
		}
		return newer, older, nil
	}
	return nil, nil, nil
}

// Render loads slug and compiles its body. It returns nil when the post
// does not exist. Compilation never fails; broken bodies come back as
// fallback output.
func (s *Service) Render(ctx context.Context, dir, slug string) (*interfaces.RenderedPost, error) {
	if s.compiler == nil {
		return nil, ErrNoCompiler
	}
	post, err := s.GetOne(ctx, dir, slug)
	if err != nil || post == nil {
		return nil, err
	}

	scope := map[string]any{
		"slug":     post.Slug,
		"title":    post.Title,
		"category": post.Category,
		"author":   post.Author,
		"date":     post.Date,
		"tags":     post.Tags,
	}
	compiled := s.compiler.Compile(ctx, post.Content, scope)
	if compiled.Fallback {
		logging.WithFields(logging.WithPostContext(s.logger.WithContext(ctx), cleanDir(dir), slug, "render"), map[string]any{
			"error": compiled.Err,
		}).Warn("posts.render.fallback")
	}
	return &interfaces.RenderedPost{Post: *post, Compiled: compiled}, nil
}

func (s *Service) filter(ctx context.Context, dir string, keep func(interfaces.Post) bool) ([]interfaces.Post, error) {
	posts, err := s.GetAll(ctx, dir)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.Post, 0, len(posts))
	for _, post := range posts {
		if keep(post) {
			out = append(out, post)
		}
	}
	return out, nil
}

func sortedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

func cleanDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "."
	}
	return path.Clean(strings.TrimPrefix(dir, "./"))
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// String renders the report for CLI output.
func (r LoadReport) String() string {
	return fmt.Sprintf("%s: %d listed, %d loaded, %d drafts, %d skipped", r.Dir, r.Listed, r.Loaded, r.Drafts, len(r.Skipped))
}
