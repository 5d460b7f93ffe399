package markdown

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to loader errors.
const (
	TextCodePostNotFound         = "POST_NOT_FOUND"
	TextCodeInvalidSlug          = "INVALID_SLUG"
	TextCodeDirectoryUnreadable  = "CONTENT_DIR_UNREADABLE"
	TextCodeFileUnreadable       = "CONTENT_FILE_UNREADABLE"
	TextCodeFrontMatterMalformed = "FRONTMATTER_MALFORMED"
)

var (
	// ErrNotFound is the root cause of every not-found error returned by the loader.
	ErrNotFound = errors.New("markdown: post not found")
	// ErrMalformedFrontMatter marks a metadata block that is unterminated or cannot be decoded.
	ErrMalformedFrontMatter = errors.New("markdown: malformed frontmatter")
	// ErrCompile is the root cause recorded on fallback output.
	ErrCompile = errors.New("markdown: compile failed")
	// ErrRender marks a value that cannot be displayed.
	ErrRender = errors.New("markdown: invalid compiled content")
)

func notFoundError(dir, slug string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s/%s", ErrNotFound, dir, slug), goerrors.CategoryNotFound, "post not found").
		WithTextCode(TextCodePostNotFound).
		WithMetadata(map[string]any{"content_dir": dir, "slug": slug})
}

func invalidSlugError(dir, slug string) error {
	return goerrors.Wrap(fmt.Errorf("%w: invalid slug %q", ErrNotFound, slug), goerrors.CategoryNotFound, "post not found").
		WithTextCode(TextCodeInvalidSlug).
		WithMetadata(map[string]any{"content_dir": dir, "slug": slug})
}

func directoryError(dir string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "content directory unreadable").
		WithTextCode(TextCodeDirectoryUnreadable).
		WithMetadata(map[string]any{"content_dir": dir})
}

func fileError(path string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "content file unreadable").
		WithTextCode(TextCodeFileUnreadable).
		WithMetadata(map[string]any{"path": path})
}

func frontMatterError(path string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "content metadata malformed").
		WithTextCode(TextCodeFrontMatterMalformed).
		WithMetadata(map[string]any{"path": path})
}

// IsNotFound reports whether err means the requested post does not exist.
// Slugs that could never name a file are reported the same way.
func IsNotFound(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

// IsIOError reports whether err means content exists but could not be read:
// an unreadable directory or file, or a malformed metadata block.
func IsIOError(err error) bool {
	var target *goerrors.Error
	if !goerrors.As(err, &target) {
		return false
	}
	switch target.TextCode {
	case TextCodeDirectoryUnreadable, TextCodeFileUnreadable, TextCodeFrontMatterMalformed:
		return true
	default:
		return false
	}
}
