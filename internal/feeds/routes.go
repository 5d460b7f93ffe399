package feeds

import (
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	routeGroup = "site"
	routeIndex = "index"
	routePost  = "post"
	routeTag   = "tag"
)

// Routes holds the page templates the feeds link to, relative to
// Config.PostPathPrefix. Post must contain :slug and Tag must contain :tag.
type Routes struct {
	Index string
	Post  string
	Tag   string
}

// DefaultRoutes returns the index, post and tag page layout served by the
// site: /, /:slug and /tags/:tag.
func DefaultRoutes() Routes {
	return Routes{Index: "/", Post: "/:slug", Tag: "/tags/:tag"}
}

func (r Routes) withDefaults() Routes {
	defaults := DefaultRoutes()
	if strings.TrimSpace(r.Index) == "" {
		r.Index = defaults.Index
	}
	if strings.TrimSpace(r.Post) == "" {
		r.Post = defaults.Post
	}
	if strings.TrimSpace(r.Tag) == "" {
		r.Tag = defaults.Tag
	}
	return r
}

// router renders site paths through a go-urlkit route group. Parameter
// values are path escaped, so a tag such as "Go Lang" maps to
// /tags/Go%20Lang and round trips through the tag endpoint unchanged.
type router struct {
	group *urlkit.Group
}

func newRouter(prefix string, routes Routes) (*router, error) {
	routes = routes.withDefaults()
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name: routeGroup,
				Paths: map[string]string{
					routeIndex: joinRoute(prefix, routes.Index),
					routePost:  joinRoute(prefix, routes.Post),
					routeTag:   joinRoute(prefix, routes.Tag),
				},
			},
		},
	})

	group, err := lookupGroup(manager, routeGroup)
	if err != nil {
		return nil, err
	}
	return &router{group: group}, nil
}

func (r *router) index() (string, error) {
	return r.build(routeIndex, nil)
}

func (r *router) post(slug string) (string, error) {
	return r.build(routePost, map[string]string{"slug": slug})
}

func (r *router) tag(tag string) (string, error) {
	return r.build(routeTag, map[string]string{"tag": tag})
}

func (r *router) build(route string, params map[string]string) (path string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("feeds: build route %q: %v", route, rec)
		}
	}()

	builder := r.group.Builder(route)
	for key, value := range params {
		value = strings.TrimSpace(value)
		if value == "" {
			return "", fmt.Errorf("feeds: route %q: empty %s", route, key)
		}
		builder.WithParam(key, url.PathEscape(value))
	}
	path, err = builder.Build()
	if err != nil {
		return "", fmt.Errorf("feeds: build route %q: %w", route, err)
	}
	return path, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("feeds: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	if group == nil {
		return nil, fmt.Errorf("feeds: route group %q not found", name)
	}
	return group, nil
}
