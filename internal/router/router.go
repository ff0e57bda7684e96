// Package router resolves navigation paths against the route table, running the route's guard
// on every attempt.
package router

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/guard"
)

// Paths of the routing surface.
const (
	RootPath     = "/"
	LoginPath    = guard.LoginPath
	RegisterPath = "/register"
	SessionsPath = guard.SessionsPath
	CreatePath   = "/sessions/create"
	DetailPath   = "/sessions/detail/:id"
	UpdatePath   = "/sessions/update/:id"
	MePath       = "/me"
	NotFoundPath = "/404"
)

// maxHops bounds the redirects followed by a single navigation.
const maxHops = 8

// Route is one entry of the route table.
type Route struct {
	Pattern string
	Guard   guard.Guard
	// RedirectTo, when set, forwards an admitted navigation to another path.
	RedirectTo string
}

// DefaultRoutes is the route table of the client.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: RootPath, Guard: guard.Unauth, RedirectTo: LoginPath},
		{Pattern: LoginPath, Guard: guard.Unauth},
		{Pattern: RegisterPath, Guard: guard.Unauth},
		{Pattern: SessionsPath, Guard: guard.Auth},
		{Pattern: CreatePath, Guard: guard.Auth},
		{Pattern: DetailPath, Guard: guard.Auth},
		{Pattern: UpdatePath, Guard: guard.Auth},
		{Pattern: MePath, Guard: guard.Auth},
		{Pattern: NotFoundPath, Guard: guard.None},
	}
}

// Resolution is the committed outcome of a navigation.
type Resolution struct {
	// Path is the concrete path finally shown.
	Path string
	// Route is the matched entry; nil only before the first navigation.
	Route *Route
	// Params holds the values of ":name" segments.
	Params map[string]string
	// Redirected is set when a guard or a forwarding route changed the destination.
	Redirected bool
	// NotFound is set when nothing matched the requested path.
	NotFound bool
}

// Param returns a path parameter by name.
func (r Resolution) Param(name string) string {
	return r.Params[name]
}

// Router owns the navigation history.
type Router struct {
	log    *log.Entry
	state  guard.Reader
	routes []Route

	mu      sync.Mutex
	history []Resolution
}

// New returns a router over the default table.
func New(state guard.Reader) *Router {
	return NewWithRoutes(state, DefaultRoutes())
}

// NewWithRoutes returns a router over a custom table. The table must contain NotFoundPath.
func NewWithRoutes(state guard.Reader, routes []Route) *Router {
	return &Router{
		log:    log.WithField("component", "router"),
		state:  state,
		routes: routes,
	}
}

// Navigate resolves path, following redirects, and commits the result to the history.
func (r *Router) Navigate(path string) Resolution {
	res := r.resolve(path)

	r.mu.Lock()
	r.history = append(r.history, res)
	r.mu.Unlock()

	r.log.WithFields(log.Fields{
		"requested":  path,
		"path":       res.Path,
		"redirected": res.Redirected,
		"not-found":  res.NotFound,
	}).Debug("navigated")
	return res
}

// Current returns the last committed resolution.
func (r *Router) Current() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return Resolution{}
	}
	return r.history[len(r.history)-1]
}

// Back re-navigates to the previous entry of the history; guards are evaluated again. It returns
// false when there is nowhere to go back to.
func (r *Router) Back() (Resolution, bool) {
	r.mu.Lock()
	if len(r.history) < 2 {
		r.mu.Unlock()
		return r.Current(), false
	}
	prev := r.history[len(r.history)-2]
	r.history = r.history[:len(r.history)-2]
	r.mu.Unlock()

	return r.Navigate(prev.Path), true
}

func (r *Router) resolve(path string) Resolution {
	redirected := false
	for hop := 0; hop < maxHops; hop++ {
		path = clean(path)
		route, params, ok := r.match(path)
		if !ok {
			route, _, _ = r.match(NotFoundPath)
			return Resolution{
				Path:       NotFoundPath,
				Route:      route,
				Params:     map[string]string{},
				Redirected: redirected,
				NotFound:   true,
			}
		}

		if d := route.Guard(guard.StateOf(r.state)); !d.Allowed() {
			path, redirected = d.RedirectTo, true
			continue
		}
		if route.RedirectTo != "" {
			path, redirected = route.RedirectTo, true
			continue
		}
		return Resolution{Path: path, Route: route, Params: params, Redirected: redirected}
	}

	r.log.WithField("path", path).Error("too many redirects")
	route, _, _ := r.match(NotFoundPath)
	return Resolution{
		Path: NotFoundPath, Route: route, Params: map[string]string{},
		Redirected: true, NotFound: true,
	}
}

func (r *Router) match(path string) (*Route, map[string]string, bool) {
	segments := split(path)
	for i := range r.routes {
		route := &r.routes[i]
		pattern := split(route.Pattern)
		if len(pattern) != len(segments) {
			continue
		}
		params := map[string]string{}
		matched := true
		for j, p := range pattern {
			switch {
			case strings.HasPrefix(p, ":"):
				params[p[1:]] = segments[j]
			case p != segments[j]:
				matched = false
			}
			if !matched {
				break
			}
		}
		if matched {
			return route, params, true
		}
	}
	return nil, nil, false
}

// Expand substitutes params into a pattern, e.g. Expand(DetailPath, "id", "3").
func Expand(pattern string, kv ...string) string {
	out := pattern
	for i := 0; i+1 < len(kv); i += 2 {
		out = strings.Replace(out, ":"+kv[i], kv[i+1], 1)
	}
	return out
}

func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	return path
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
