package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/student-board/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/student-board/internal/middleware" // import middleware for sessions and the read cache
)

// RegisterRoutes registers the routes that carry no board or auth
// dependencies: the landing page and the health check used by load
// balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Home)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the registration, login and logout flows.
// None of these routes require an existing session: logout of an
// anonymous caller is a plain redirect, handled inside the handler.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.GET("/register", a.ShowRegister)
	e.POST("/register", a.Register)
	e.GET("/login", a.ShowLogin)
	e.POST("/login", a.Login)
	e.GET("/logout", a.Logout)
}

// RegisterBoard registers the board routes. Reads are public and go
// through the read cache; create/edit/delete require a session, and
// the handlers additionally enforce authorship on edit and delete.
func RegisterBoard(e *echo.Echo, b *handler.BoardHandler, cache *middleware.BoardCache) {
	cached := cache.Middleware()

	e.GET("/board", b.List, cached)
	e.GET("/board/read/:id", b.Read, cached)
	e.GET("/board/search", b.Search, cached)

	e.GET("/board/create", b.ShowCreate, middleware.RequireSession)
	e.POST("/board/create", b.Create, middleware.RequireSession)
	e.GET("/board/edit/:id", b.ShowEdit, middleware.RequireSession)
	e.POST("/board/edit/:id", b.Edit, middleware.RequireSession)
	e.GET("/board/delete/:id", b.Delete, middleware.RequireSession)
}
