package posts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeInvalidMetadata marks posts whose metadata fails validation.
const TextCodeInvalidMetadata = "INVALID_METADATA"

var (
	// ErrNoCompiler is returned by Render when the service has no compiler.
	ErrNoCompiler = errors.New("posts: content compiler not configured")
)

func invalidMetadataError(err error, slug, path string) error {
	return goerrors.FromOzzoValidation(err, "invalid post metadata").
		WithTextCode(TextCodeInvalidMetadata).
		WithMetadata(map[string]any{"slug": slug, "path": path})
}

// IsInvalidMetadata reports whether err came from metadata validation.
func IsInvalidMetadata(err error) bool {
	var target *goerrors.Error
	if !goerrors.As(err, &target) {
		return false
	}
	return target.TextCode == TextCodeInvalidMetadata
}
