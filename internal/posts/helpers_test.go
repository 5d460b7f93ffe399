package posts

import (
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// countingFS counts opens of content files so tests can observe cache hits.
type countingFS struct {
	fsys  fs.FS
	reads atomic.Int64
}

func (c *countingFS) Open(name string) (fs.File, error) {
	if strings.HasSuffix(name, markdown.DefaultExtension) {
		c.reads.Add(1)
	}
	return c.fsys.Open(name)
}

func (c *countingFS) Reads() int64 {
	return c.reads.Load()
}

func post(front string, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + strings.TrimSpace(front) + "\n---\n" + body)}
}

// exampleFS is the a/b/c directory used across listing tests.
func exampleFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/a.mdx": post("title: A\ndate: 2023-01-01\ncategory: x\ntags: [go]", "Alpha body"),
		"posts/b.mdx": post("title: B\ndate: 2023-06-01\ncategory: x\ntags: [go, infra]", "Bravo body"),
		"posts/c.mdx": post("title: C\ndate: 2023-03-01\ncategory: y", "Charlie body"),
	}
}

func newTestService(tb testing.TB, fsys fs.FS, cfg Config) *Service {
	tb.Helper()
	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{})
	return NewService(loader, cfg)
}

func slugsOf(posts []interfaces.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

// gatedFS blocks the first open of path until release is closed.
type gatedFS struct {
	fsys    fs.FS
	path    string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedFS(fsys fs.FS, path string) *gatedFS {
	return &gatedFS{
		fsys:    fsys,
		path:    path,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedFS) Open(name string) (fs.File, error) {
	if name == g.path {
		g.once.Do(func() { close(g.entered) })
		<-g.release
	}
	return g.fsys.Open(name)
}
