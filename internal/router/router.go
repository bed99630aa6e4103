// Package router registers the full HTTP surface: JSON API under /api,
// auth under /auth, and the server-rendered pages at the root.  Route
// groups carry the middleware chain; handlers stay free of routing
// concerns.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rmarchan/cine-gestion/internal/handler"
	"github.com/rmarchan/cine-gestion/internal/middleware"
)

// Deps carries everything the routes need.
type Deps struct {
	Resolver *middleware.Resolver
	Limiter  echo.MiddlewareFunc // login rate limit (may be pass-through)
	API      *handler.Resources
	Web      *handler.WebResources
	Auth     *handler.AuthHandler
}

// Register wires every route onto the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/", handler.Index)

	registerAPI(e, d)
	registerAuth(e, d)
	registerWeb(e, d)
}

// mountCRUD registers the five standard API routes of one entity.  Reads
// require the user role, writes require admin.
func mountCRUD(e *echo.Echo, base string, auth echo.MiddlewareFunc,
	list, get, create, update, del echo.HandlerFunc) *echo.Group {

	read := middleware.RequireRole("user")
	write := middleware.RequireRole("admin")

	g := e.Group(base, auth)
	g.GET("", list, read)
	g.GET("/:id", get, read)
	g.POST("", create, write)
	g.PUT("/:id", update, write)
	g.DELETE("/:id", del, write)
	return g
}

func registerAPI(e *echo.Echo, d Deps) {
	auth := echo.MiddlewareFunc(d.Resolver.Authenticate)
	rs := d.API

	mountCRUD(e, "/api/peliculas", auth,
		rs.Movies.List, rs.Movies.Get, rs.Movies.Create, rs.Movies.Update, rs.Movies.Delete)
	mountCRUD(e, "/api/salas", auth,
		rs.Rooms.List, rs.Rooms.Get, rs.Rooms.Create, rs.Rooms.Update, rs.Rooms.Delete)
	mountCRUD(e, "/api/funciones", auth,
		rs.Showtimes.List, rs.Showtimes.Get, rs.Showtimes.Create, rs.Showtimes.Update, rs.Showtimes.Delete)
	mountCRUD(e, "/api/metodos-pago", auth,
		rs.Payments.List, rs.Payments.Get, rs.Payments.Create, rs.Payments.Update, rs.Payments.Delete)
	mountCRUD(e, "/api/productos", auth,
		rs.Products.List, rs.Products.Get, rs.Products.Create, rs.Products.Update, rs.Products.Delete)

	pedidos := mountCRUD(e, "/api/pedidos", auth,
		rs.Orders.List, rs.Orders.Get, rs.Orders.Create, rs.Orders.Update, rs.Orders.Delete)
	pedidos.GET("/ultimos", rs.LatestOrders, middleware.RequireRole("user"))
	pedidos.DELETE("/:pedidoId/producto/:productoId", rs.DeleteOrderRelation,
		middleware.RequireRole("admin"))
}

func registerAuth(e *echo.Echo, d Deps) {
	auth := echo.MiddlewareFunc(d.Resolver.Authenticate)
	admin := middleware.RequireRole("admin")
	a := d.Auth

	g := e.Group("/auth")
	g.POST("/login", a.Login, d.Limiter)
	g.POST("/register", a.Register)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, auth)

	// Admin user management shares the /auth prefix like the system this
	// replaces did.
	g.GET("/usuarios", a.ListUsers, auth, admin)
	g.GET("/usuarios/:id", a.GetUser, auth, admin)
	g.PUT("/usuarios/:id", a.UpdateUser, auth, admin)
	g.DELETE("/usuarios/:id", a.DeleteUser, auth, admin)
}

// mountWebCRUD registers the listing/create/edit pages of one entity.
func mountWebCRUD[F any, T any](e *echo.Echo, w *handler.WebResource[F, T], mws ...echo.MiddlewareFunc) {
	g := e.Group("/"+w.Slug, mws...)
	g.GET("", w.List)
	g.GET("/crear", w.NewForm)
	g.POST("", w.Create)
	g.GET("/:id/editar", w.EditForm)
	g.POST("/:id/editar", w.Edit)
}

func registerWeb(e *echo.Echo, d Deps) {
	webAuth := echo.MiddlewareFunc(d.Resolver.WebAuthenticate)
	userRole := middleware.RequireWebRole("user")
	a := d.Auth

	e.GET("/login", a.ShowLogin)
	e.POST("/login-web", a.LoginWeb, d.Limiter)
	e.POST("/logout-web", a.LogoutWeb)
	e.GET("/dashboard", a.Dashboard, webAuth)

	mountWebCRUD(e, d.Web.Movies, webAuth, userRole)
	mountWebCRUD(e, d.Web.Rooms, webAuth, userRole)
	mountWebCRUD(e, d.Web.Showtimes, webAuth, userRole)
	mountWebCRUD(e, d.Web.Payments, webAuth, userRole)
	mountWebCRUD(e, d.Web.Products, webAuth, userRole)
	mountWebCRUD(e, d.Web.Orders, webAuth, userRole)

	admin := e.Group("/admin", webAuth, middleware.RequireWebRole("admin"))
	admin.GET("/usuarios", a.ListUsersWeb)
	admin.GET("/usuarios/crear", a.NewUserFormWeb)
	admin.POST("/usuarios", a.CreateUserWeb)
	admin.GET("/usuarios/:id/editar", a.EditUserFormWeb)
	admin.POST("/usuarios/:id/editar", a.EditUserWeb)
	admin.POST("/usuarios/:id/desactivar", a.DeactivateUserWeb)
	admin.POST("/usuarios/:id/activar", a.ActivateUserWeb)
}
