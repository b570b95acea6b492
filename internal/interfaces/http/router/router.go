package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts domain groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the API prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router for engine. The version defaults to v1.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware applied to every versioned API route
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register queues a registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registered group on the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Resource holds the handlers of a conventional REST collection. Nil
// handlers are not mounted.
type Resource struct {
	List   gin.HandlerFunc
	Create gin.HandlerFunc
	Get    gin.HandlerFunc
	Update gin.HandlerFunc
	Delete gin.HandlerFunc
}

// RouteInfo describes a mounted route relative to its group
type RouteInfo struct {
	Method string
	Path   string
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// DomainGroup collects the routes of one module under a common prefix and
// middleware chain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

// NewDomainGroup creates an empty group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, p string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: p, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, p, handlers)
}

func (dg *DomainGroup) POST(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, p, handlers)
}

func (dg *DomainGroup) PUT(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, p, handlers)
}

func (dg *DomainGroup) PATCH(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, p, handlers)
}

func (dg *DomainGroup) DELETE(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, p, handlers)
}

// CRUD mounts res at the group root and /:id. Updates are accepted as both
// PUT and PATCH since every update request is partial.
func (dg *DomainGroup) CRUD(res Resource) *DomainGroup {
	if res.List != nil {
		dg.GET("", res.List)
	}
	if res.Create != nil {
		dg.POST("", res.Create)
	}
	if res.Get != nil {
		dg.GET("/:id", res.Get)
	}
	if res.Update != nil {
		dg.PUT("/:id", res.Update)
		dg.PATCH("/:id", res.Update)
	}
	if res.Delete != nil {
		dg.DELETE("/:id", res.Delete)
	}
	return dg
}

// Group creates a sub-group that inherits this group's middleware
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	sub := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, sub := range dg.subgroups {
		sub.RegisterRoutes(group)
	}
}

// Routes lists the routes of the group and its sub-groups with paths
// relative to the parent the group is mounted on
func (dg *DomainGroup) Routes() []RouteInfo {
	var out []RouteInfo
	for _, route := range dg.routes {
		out = append(out, RouteInfo{Method: route.method, Path: joinPath(dg.prefix, route.path)})
	}
	for _, sub := range dg.subgroups {
		for _, r := range sub.Routes() {
			out = append(out, RouteInfo{Method: r.Method, Path: joinPath(dg.prefix, r.Path)})
		}
	}
	return out
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

func joinPath(prefix, p string) string {
	if p == "" {
		return prefix
	}
	joined := path.Join(prefix, p)
	if p[len(p)-1] == '/' && joined[len(joined)-1] != '/' {
		joined += "/"
	}
	return joined
}
