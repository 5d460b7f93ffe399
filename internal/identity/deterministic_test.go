package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestPostUUIDIsStable(t *testing.T) {
	first := PostUUID("posts", "hello")
	second := PostUUID("/posts/", " hello ")
	if first == uuid.Nil {
		t.Fatalf("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected equal ids for equivalent keys, got %s and %s", first, second)
	}
	if PostUUID("posts", "other") == first {
		t.Fatalf("expected different slugs to produce different ids")
	}
	if PostUUID("drafts", "hello") == first {
		t.Fatalf("expected different directories to produce different ids")
	}
}

func TestSiteUUID(t *testing.T) {
	if SiteUUID("https://example.com/") != SiteUUID("https://EXAMPLE.com") {
		t.Fatalf("expected base url normalisation")
	}
	if UUID("   ") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key")
	}
}

func TestKey(t *testing.T) {
	if got := Key("post", "posts", "hello"); got != "folio:post:posts:hello" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Key("post", "posts", " "); got != "" {
		t.Fatalf("expected blank key for blank part, got %q", got)
	}
	if PostUUID("posts", "") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank slug")
	}
}
