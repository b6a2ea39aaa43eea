package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiPrefix is where every versioned group is mounted.
const apiPrefix = "/api/v1"

// DomainGroup collects one domain's routes so they can be declared in a
// table and mounted later under a shared prefix.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (g *DomainGroup) Name() string   { return g.name }
func (g *DomainGroup) Prefix() string { return g.prefix }

// Use attaches middleware that runs only for this group and its children.
func (g *DomainGroup) Use(mw ...gin.HandlerFunc) *DomainGroup {
	g.middleware = append(g.middleware, mw...)
	return g
}

func (g *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

func (g *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodGet, path, handlers...)
}

func (g *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPost, path, handlers...)
}

func (g *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPatch, path, handlers...)
}

// Group nests a child group. An empty prefix shares the parent's path and is
// how a subset of routes gets extra middleware.
func (g *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

// RegisterRoutes mounts the group, then its children, beneath parent.
func (g *DomainGroup) RegisterRoutes(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, r := range g.routes {
		rg.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.children {
		child.RegisterRoutes(rg)
	}
}

// Mount registers groups under apiPrefix with the shared middleware.
func Mount(engine *gin.Engine, groups []*DomainGroup, mw ...gin.HandlerFunc) {
	api := engine.Group(apiPrefix, mw...)
	for _, g := range groups {
		g.RegisterRoutes(api)
	}
}
