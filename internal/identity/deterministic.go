// Package identity derives stable ids for feed entries so readers do not
// see reposts when the site is rebuilt.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "folio"

// Key joins the trimmed parts under the folio namespace. Blank parts make
// the whole key blank.
func Key(kind string, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, namespace, kind)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return ""
		}
		segments = append(segments, part)
	}
	return strings.Join(segments, ":")
}

// UUID hashes key into a UUID with go-hashid, falling back to a SHA-1 name
// based UUID when hashing fails. A blank key yields uuid.Nil.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err == nil && id != uuid.Nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
}

// PostUUID identifies a post across feed rebuilds. The id only changes when
// the post moves to another directory or slug.
func PostUUID(dir, slug string) uuid.UUID {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	if dir == "" {
		dir = "."
	}
	return UUID(Key("post", dir, slug))
}

// SiteUUID identifies a site feed by its base URL.
func SiteUUID(baseURL string) uuid.UUID {
	return UUID(Key("site", strings.ToLower(strings.TrimRight(strings.TrimSpace(baseURL), "/"))))
}
