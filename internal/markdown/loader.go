package markdown

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DefaultExtension is the content file extension used when none is configured.
const DefaultExtension = ".mdx"

// LoaderConfig configures how content files are discovered.
type LoaderConfig struct {
	// Extension is the single file extension recognised as content (defaults to ".mdx").
	Extension string
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger attaches a logger used for read diagnostics.
func WithLoaderLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader turns files of an fs.FS into raw documents. It is safe for
// concurrent use as long as the underlying filesystem is.
type Loader struct {
	fs        fs.FS
	extension string
	logger    interfaces.Logger
}

// NewLoader constructs a Loader over the provided filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig, opts ...LoaderOption) *Loader {
	ext := strings.TrimSpace(cfg.Extension)
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	l := &Loader{
		fs:        filesystem,
		extension: ext,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Extension returns the content file extension the loader recognises.
func (l *Loader) Extension() string {
	return l.extension
}

// ListSlugs enumerates the content files directly inside dir and returns
// their slugs in filename order. A missing or unreadable directory is an
// IO error.
func (l *Loader) ListSlugs(ctx context.Context, dir string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dir = cleanDir(dir)
	if err := l.statDir(dir); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(l.fs, dir)
	if err != nil {
		return nil, directoryError(dir, err)
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, l.extension) || strings.HasPrefix(name, ".") {
			continue
		}
		if entry.Type()&fs.ModeType != 0 && entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		slug := strings.TrimSuffix(name, l.extension)
		if slug == "" {
			continue
		}
		slugs = append(slugs, slug)
	}

	l.logger.Debug("content.list", "content_dir", dir, "count", len(slugs))
	return slugs, nil
}

// ReadOne reads the content file for slug and splits it into metadata and
// body. A slug without a file is reported as not found; any other failure,
// including a malformed metadata block, is an IO error.
func (l *Loader) ReadOne(ctx context.Context, dir, slug string) (interfaces.RawDocument, error) {
	select {
	case <-ctx.Done():
		return interfaces.RawDocument{}, ctx.Err()
	default:
	}

	dir = cleanDir(dir)
	if !validSlug(slug) {
		return interfaces.RawDocument{}, invalidSlugError(dir, slug)
	}
	if err := l.statDir(dir); err != nil {
		return interfaces.RawDocument{}, err
	}

	filePath := path.Join(dir, slug+l.extension)
	data, err := fs.ReadFile(l.fs, filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return interfaces.RawDocument{}, notFoundError(dir, slug)
		}
		return interfaces.RawDocument{}, fileError(filePath, err)
	}

	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return interfaces.RawDocument{}, frontMatterError(filePath, err)
	}

	sum := sha256.Sum256(data)
	return interfaces.RawDocument{
		Slug:     slug,
		Path:     filePath,
		Metadata: meta,
		Body:     string(body),
		Checksum: hex.EncodeToString(sum[:]),
	}, nil
}

func (l *Loader) statDir(dir string) error {
	info, err := fs.Stat(l.fs, dir)
	if err != nil {
		return directoryError(dir, err)
	}
	if !info.IsDir() {
		return directoryError(dir, &fs.PathError{Op: "stat", Path: dir, Err: errors.New("not a directory")})
	}
	return nil
}

func cleanDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "."
	}
	return path.Clean(strings.TrimPrefix(dir, "./"))
}

func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	if strings.ContainsAny(slug, `/\`) {
		return false
	}
	return fs.ValidPath(slug)
}

var _ interfaces.ContentSource = (*Loader)(nil)
