package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

func TestService_ExampleScenario(t *testing.T) {
	svc := newTestService(t, exampleFS(), Config{ReadConcurrency: 2})
	ctx := context.Background()

	all, err := svc.GetAll(ctx, "posts")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, slugsOf(all)); diff != "" {
		t.Fatalf("GetAll order mismatch (-want +got):\n%s", diff)
	}

	tags, err := svc.GetAllTags(ctx, "posts")
	if err != nil {
		t.Fatalf("GetAllTags: %v", err)
	}
	if diff := cmp.Diff([]string{"go", "infra"}, tags); diff != "" {
		t.Fatalf("GetAllTags mismatch (-want +got):\n%s", diff)
	}

	tagged, err := svc.GetByTag(ctx, "posts", "go")
	if err != nil {
		t.Fatalf("GetByTag: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, slugsOf(tagged)); diff != "" {
		t.Fatalf("GetByTag mismatch (-want +got):\n%s", diff)
	}

	related, err := svc.GetRelated(ctx, "posts", "b", "x")
	if err != nil {
		t.Fatalf("GetRelated: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, slugsOf(related)); diff != "" {
		t.Fatalf("GetRelated mismatch (-want +got):\n%s", diff)
	}

	categories, err := svc.GetAllCategories(ctx, "posts")
	if err != nil {
		t.Fatalf("GetAllCategories: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y"}, categories); diff != "" {
		t.Fatalf("GetAllCategories mismatch (-want +got):\n%s", diff)
	}

	inX, err := svc.GetByCategory(ctx, "posts", "x")
	if err != nil {
		t.Fatalf("GetByCategory: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, slugsOf(inX)); diff != "" {
		t.Fatalf("GetByCategory mismatch (-want +got):\n%s", diff)
	}
}

func TestService_GetAllSortedDescending(t *testing.T) {
	fsys := exampleFS()
	for i := 0; i < 20; i++ {
		fsys[fmt.Sprintf("posts/extra-%02d.mdx", i)] = post(
			fmt.Sprintf("title: Extra %d\ndate: 2022-%02d-15\ncategory: z", i, i%12+1), "body")
	}
	svc := newTestService(t, fsys, Config{ReadConcurrency: 4})

	all, err := svc.GetAll(context.Background(), "posts")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 23 {
		t.Fatalf("expected 23 posts, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].PublishedAt.Before(all[i].PublishedAt) {
			t.Fatalf("posts out of order at %d: %s before %s", i, all[i-1].Date, all[i].Date)
		}
		if all[i-1].Date < all[i].Date {
			t.Fatalf("canonical dates out of order at %d: %s before %s", i, all[i-1].Date, all[i].Date)
		}
	}
}

func TestService_GetAllStableForEqualDates(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/one.mdx":   post("title: One\ndate: 2024-01-01\ncategory: x", "1"),
		"posts/three.mdx": post("title: Three\ndate: 2024-01-01\ncategory: x", "3"),
		"posts/two.mdx":   post("title: Two\ndate: 2024-01-01\ncategory: x", "2"),
	}
	svc := newTestService(t, fsys, Config{})

	all, err := svc.GetAll(context.Background(), "posts")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "three", "two"}, slugsOf(all)); diff != "" {
		t.Fatalf("tie order should follow enumeration (-want +got):\n%s", diff)
	}
}

func TestService_GetOneCacheIdempotence(t *testing.T) {
	counting := &countingFS{fsys: exampleFS()}
	svc := newTestService(t, counting, Config{})
	ctx := context.Background()

	first, err := svc.GetOne(ctx, "posts", "a")
	if err != nil || first == nil {
		t.Fatalf("GetOne: %v (%v)", first, err)
	}
	reads := counting.Reads()
	if reads != 1 {
		t.Fatalf("expected one file read, got %d", reads)
	}

	second, err := svc.GetOne(ctx, "posts", "a")
	if err != nil || second == nil {
		t.Fatalf("GetOne second call: %v (%v)", second, err)
	}
	if counting.Reads() != reads {
		t.Fatalf("second GetOne should be served from cache, reads went from %d to %d", reads, counting.Reads())
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached post differs (-first +second):\n%s", diff)
	}
	if first.Content != "Alpha body" {
		t.Fatalf("expected raw body on single lookups, got %q", first.Content)
	}

	first.Tags[0] = "mutated"
	third, _ := svc.GetOne(ctx, "posts", "a")
	if third.Tags[0] != "go" {
		t.Fatalf("cached post must not be mutable through returned values")
	}
}

func TestService_GetAllCached(t *testing.T) {
	counting := &countingFS{fsys: exampleFS()}
	svc := newTestService(t, counting, Config{})
	ctx := context.Background()

	if _, err := svc.GetAll(ctx, "posts"); err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	reads := counting.Reads()
	if reads != 3 {
		t.Fatalf("expected three file reads, got %d", reads)
	}
	if _, err := svc.GetByTag(ctx, "posts", "go"); err != nil {
		t.Fatalf("GetByTag: %v", err)
	}
	if counting.Reads() != reads {
		t.Fatalf("derived listings should reuse the cached listing")
	}
	if stats := svc.Cache().Stats(); stats.Listings != 1 {
		t.Fatalf("expected one cached listing, got %+v", stats)
	}
}

func TestService_ListingsClearContent(t *testing.T) {
	svc := newTestService(t, exampleFS(), Config{})

	all, err := svc.GetAll(context.Background(), "posts")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	for _, p := range all {
		if p.Content != "" {
			t.Fatalf("listing should not carry content, %s has %q", p.Slug, p.Content)
		}
	}
}

func TestService_NotFoundDistinctFromIOError(t *testing.T) {
	svc := newTestService(t, exampleFS(), Config{})
	ctx := context.Background()

	missing, err := svc.GetOne(ctx, "posts", "nonexistent-slug")
	if err != nil {
		t.Fatalf("expected no error for missing post, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil post, got %+v", missing)
	}

	_, err = svc.GetOne(ctx, "does-not-exist", "a")
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if !markdown.IsIOError(err) {
		t.Fatalf("expected IO error, got %v", err)
	}

	_, err = svc.GetAll(ctx, "does-not-exist")
	if !markdown.IsIOError(err) {
		t.Fatalf("expected IO error from GetAll, got %v", err)
	}
}

func TestService_GetOneInvalidMetadata(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/bad.mdx": post("title: Missing date\ncategory: x", "body"),
	}
	svc := newTestService(t, fsys, Config{})

	_, err := svc.GetOne(context.Background(), "posts", "bad")
	if !IsInvalidMetadata(err) {
		t.Fatalf("expected invalid metadata error, got %v", err)
	}
}

func TestService_GetAllSkipsBrokenFiles(t *testing.T) {
	fsys := exampleFS()
	fsys["posts/broken.mdx"] = &fstest.MapFile{Data: []byte("---\ntitle: never closed\n")}
	fsys["posts/invalid.mdx"] = post("title: No category\ndate: 2023-02-02", "body")
	svc := newTestService(t, fsys, Config{})

	all, report, err := svc.GetAllWithReport(context.Background(), "posts")
	if err != nil {
		t.Fatalf("GetAllWithReport: %v", err)
	}
	if report.Listed != 5 || report.Loaded != 3 || len(report.Skipped) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Listed-len(report.Skipped) != len(all) {
		t.Fatalf("listing count mismatch: %d listed, %d skipped, %d returned", report.Listed, len(report.Skipped), len(all))
	}

	skipped := []string{report.Skipped[0].Slug, report.Skipped[1].Slug}
	if diff := cmp.Diff([]string{"broken", "invalid"}, skipped); diff != "" {
		t.Fatalf("skipped slugs mismatch (-want +got):\n%s", diff)
	}
	if !markdown.IsIOError(report.Skipped[0].Err) {
		t.Fatalf("expected IO error for broken file, got %v", report.Skipped[0].Err)
	}
	if !IsInvalidMetadata(report.Skipped[1].Err) {
		t.Fatalf("expected validation error for invalid file, got %v", report.Skipped[1].Err)
	}

	_, cached, _ := svc.GetAllWithReport(context.Background(), "posts")
	if len(cached.Skipped) != 2 {
		t.Fatalf("cached report should keep skipped entries, got %+v", cached)
	}
}

func TestService_GetRelatedBound(t *testing.T) {
	fsys := fstest.MapFS{}
	for i := 0; i < 6; i++ {
		fsys[fmt.Sprintf("posts/p%d.mdx", i)] = post(fmt.Sprintf("title: P%d\ndate: 2023-01-0%d\ncategory: shared", i, i+1), "body")
	}
	svc := newTestService(t, fsys, Config{})

	related, err := svc.GetRelated(context.Background(), "posts", "p5", "shared")
	if err != nil {
		t.Fatalf("GetRelated: %v", err)
	}
	if len(related) != MaxRelated {
		t.Fatalf("expected %d related posts, got %d", MaxRelated, len(related))
	}
	if diff := cmp.Diff([]string{"p4", "p3"}, slugsOf(related)); diff != "" {
		t.Fatalf("related mismatch (-want +got):\n%s", diff)
	}
}

func TestService_GetAdjacent(t *testing.T) {
	svc := newTestService(t, exampleFS(), Config{})
	ctx := context.Background()

	newer, older, err := svc.GetAdjacent(ctx, "posts", "c")
	if err != nil {
		t.Fatalf("GetAdjacent: %v", err)
	}
	if newer == nil || newer.Slug != "b" || older == nil || older.Slug != "a" {
		t.Fatalf("unexpected neighbours: newer=%v older=%v", newer, older)
	}

	newer, older, err = svc.GetAdjacent(ctx, "posts", "b")
	if err != nil || newer != nil || older == nil || older.Slug != "c" {
		t.Fatalf("unexpected neighbours for newest post: newer=%v older=%v err=%v", newer, older, err)
	}

	newer, older, err = svc.GetAdjacent(ctx, "posts", "zzz")
	if err != nil || newer != nil || older != nil {
		t.Fatalf("expected no neighbours for unknown slug")
	}
}

func TestService_Drafts(t *testing.T) {
	fsys := exampleFS()
	fsys["posts/wip.mdx"] = post("title: WIP\ndate: 2024-01-01\ncategory: x\ndraft: true", "draft body")
	ctx := context.Background()

	svc := newTestService(t, fsys, Config{})
	all, report, err := svc.GetAllWithReport(ctx, "posts")
	if err != nil {
		t.Fatalf("GetAllWithReport: %v", err)
	}
	if len(all) != 3 || report.Drafts != 1 {
		t.Fatalf("expected draft to be filtered, got %d posts and report %+v", len(all), report)
	}
	draft, err := svc.GetOne(ctx, "posts", "wip")
	if err != nil || draft == nil || !draft.Draft {
		t.Fatalf("GetOne should still return drafts: %v (%v)", draft, err)
	}

	withDrafts := newTestService(t, fsys, Config{IncludeDrafts: true})
	all, err = withDrafts.GetAll(ctx, "posts")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 4 || all[0].Slug != "wip" {
		t.Fatalf("expected draft first when included, got %v", slugsOf(all))
	}
}

func TestService_CancelledListing(t *testing.T) {
	svc := newTestService(t, exampleFS(), Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetAll(ctx, "posts")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats := svc.Cache().Stats(); stats.Listings != 0 {
		t.Fatalf("failed listings must not be cached, got %+v", stats)
	}
}

func TestService_CallerCancelDoesNotFailSharedListing(t *testing.T) {
	gated := newGatedFS(exampleFS(), "posts/a.mdx")
	svc := newTestService(t, gated, Config{})

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	errA := make(chan error, 1)
	go func() {
		_, err := svc.GetAll(ctxA, "posts")
		errA <- err
	}()
	<-gated.entered

	type result struct {
		posts []interfaces.Post
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		posts, err := svc.GetAll(context.Background(), "posts")
		resB <- result{posts: posts, err: err}
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller to get context.Canceled, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	close(gated.release)

	got := <-resB
	if got.err != nil {
		t.Fatalf("caller with a live context failed: %v", got.err)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, slugsOf(got.posts)); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
	if stats := svc.Cache().Stats(); stats.Listings != 1 {
		t.Fatalf("expected shared listing to be cached, got %+v", stats)
	}
}

type stubCompiler struct {
	calls int
	scope map[string]any
}

func (s *stubCompiler) Compile(_ context.Context, body string, scope map[string]any) interfaces.CompiledContent {
	s.calls++
	s.scope = scope
	return interfaces.CompiledContent{HTML: "<p>" + strings.ToUpper(body) + "</p>", Compiled: true}
}

func TestService_Render(t *testing.T) {
	compiler := &stubCompiler{}
	loader := markdown.NewLoader(exampleFS(), markdown.LoaderConfig{})
	svc := NewService(loader, Config{}, WithCompiler(compiler))
	ctx := context.Background()

	rendered, err := svc.Render(ctx, "posts", "a")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rendered.Compiled.HTML != "<p>ALPHA BODY</p>" {
		t.Fatalf("unexpected compiled html %q", rendered.Compiled.HTML)
	}
	if rendered.Post.Slug != "a" || compiler.scope["title"] != "A" {
		t.Fatalf("unexpected render result %+v scope %v", rendered.Post, compiler.scope)
	}

	missing, err := svc.Render(ctx, "posts", "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing post, got %v (%v)", missing, err)
	}

	if _, err := NewService(loader, Config{}).Render(ctx, "posts", "a"); !errors.Is(err, ErrNoCompiler) {
		t.Fatalf("expected ErrNoCompiler, got %v", err)
	}
}

func TestService_RenderWithMarkdownRenderer(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/broken.mdx": post("title: Broken\ndate: 2024-02-02\ncategory: x", "# Title\n\n{{< callout >}}\nunterminated"),
	}
	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{})
	svc := NewService(loader, Config{}, WithCompiler(markdown.NewRenderer(interfaces.ParseOptions{})))

	rendered, err := svc.Render(context.Background(), "posts", "broken")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html, err := markdown.Display(rendered)
	if err != nil || strings.TrimSpace(string(html)) == "" {
		t.Fatalf("rendered post should always be displayable: %q (%v)", html, err)
	}
}

func TestService_PostShape(t *testing.T) {
	svc := newTestService(t, exampleFS(), Config{})

	got, err := svc.GetOne(context.Background(), "posts", "b")
	if err != nil {
		t.Fatalf("GetOne: %v", err)
	}

	want := &interfaces.Post{
		Slug:        "b",
		Title:       "B",
		Category:    "x",
		Author:      interfaces.AnonymousAuthor,
		Date:        "2023-06-01T00:00:00Z",
		Tags:        []string{"go", "infra"},
		Excerpt:     "Bravo body",
		Description: "Bravo body",
		ReadingTime: 1,
		Content:     "Bravo body",
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(interfaces.Post{}, "PublishedAt")); diff != "" {
		t.Fatalf("post mismatch (-want +got):\n%s", diff)
	}
}
