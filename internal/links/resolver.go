// Package links recognizes catalog URLs so commands can take a pasted link
// wherever they take a wallpaper id.
package links

import (
	"net/url"
	"path"
	"strings"
)

// Link is what a resolver learned from a URL.
type Link struct {
	// Original URL that was given
	Original string
	// WallpaperID is the catalog id the URL points at
	WallpaperID string
	// Resolver names the resolver that handled the URL
	Resolver string
}

// Resolver handles one family of URLs.
type Resolver interface {
	// Name returns the resolver name for identification
	Name() string

	// CanHandle returns true if this resolver understands the URL
	CanHandle(u *url.URL) bool

	// Resolve extracts the wallpaper id. ok is false when the URL has the
	// right host but no id.
	Resolve(u *url.URL) (id string, ok bool)

	// Priority returns the priority of this resolver (higher = higher priority)
	// Useful when multiple resolvers can handle the same URL
	Priority() int
}

// Registry manages all registered resolvers
type Registry struct {
	resolvers []Resolver
}

// NewRegistry creates a registry with the given resolvers.
func NewRegistry(resolvers ...Resolver) *Registry {
	r := &Registry{}
	for _, res := range resolvers {
		r.Register(res)
	}
	return r
}

// Default knows the page, short link and image URLs of wallhaven.cc.
func Default() *Registry {
	return NewRegistry(pageResolver{}, shortLinkResolver{}, imageResolver{})
}

// Register adds a resolver to the registry
func (r *Registry) Register(res Resolver) {
	r.resolvers = append(r.resolvers, res)
}

// Find returns the resolver with the highest priority that can handle u.
func (r *Registry) Find(u *url.URL) Resolver {
	var best Resolver
	highest := -1

	for _, res := range r.resolvers {
		if res.CanHandle(u) && res.Priority() > highest {
			best = res
			highest = res.Priority()
		}
	}
	return best
}

// Resolve parses raw and hands it to the best resolver. ok is false for
// anything that is not a recognized catalog link.
func (r *Registry) Resolve(raw string) (Link, bool) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Link{}, false
	}
	u.Host = strings.ToLower(u.Host)

	res := r.Find(u)
	if res == nil {
		return Link{}, false
	}
	id, ok := res.Resolve(u)
	if !ok {
		return Link{}, false
	}
	return Link{Original: raw, WallpaperID: id, Resolver: res.Name()}, true
}

// Resolvers returns all registered resolvers
func (r *Registry) Resolvers() []Resolver {
	return append([]Resolver(nil), r.resolvers...)
}

// validID accepts the lower-case alphanumeric ids the catalog hands out.
func validID(id string) bool {
	if id == "" || len(id) > 16 {
		return false
	}
	for _, c := range id {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func hostIs(u *url.URL, hosts ...string) bool {
	h := u.Hostname()
	for _, want := range hosts {
		if h == want {
			return true
		}
	}
	return false
}

// pageResolver handles https://wallhaven.cc/w/<id>.
type pageResolver struct{}

func (pageResolver) Name() string  { return "page" }
func (pageResolver) Priority() int { return 50 }

func (pageResolver) CanHandle(u *url.URL) bool {
	return hostIs(u, "wallhaven.cc", "www.wallhaven.cc")
}

func (pageResolver) Resolve(u *url.URL) (string, bool) {
	rest, ok := strings.CutPrefix(u.Path, "/w/")
	if !ok {
		return "", false
	}
	id := strings.Trim(rest, "/")
	return id, validID(id)
}

// shortLinkResolver handles https://whvn.cc/<id>.
type shortLinkResolver struct{}

func (shortLinkResolver) Name() string  { return "short" }
func (shortLinkResolver) Priority() int { return 50 }

func (shortLinkResolver) CanHandle(u *url.URL) bool {
	return hostIs(u, "whvn.cc")
}

func (shortLinkResolver) Resolve(u *url.URL) (string, bool) {
	id := strings.Trim(u.Path, "/")
	return id, validID(id)
}

// imageResolver handles full images such as
// https://w.wallhaven.cc/full/94/wallhaven-94x38z.jpg and thumbnails such as
// https://th.wallhaven.cc/small/94/94x38z.jpg.
type imageResolver struct{}

func (imageResolver) Name() string  { return "image" }
func (imageResolver) Priority() int { return 40 }

func (imageResolver) CanHandle(u *url.URL) bool {
	return hostIs(u, "w.wallhaven.cc", "th.wallhaven.cc")
}

func (imageResolver) Resolve(u *url.URL) (string, bool) {
	base := path.Base(u.Path)
	id := strings.TrimSuffix(base, path.Ext(base))
	id = strings.TrimPrefix(id, "wallhaven-")
	return id, validID(id)
}
