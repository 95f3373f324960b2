package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/guard"
)

type Deps struct {
	Handler   *Handler
	Templates *Templates
}

func Register(e *echo.Echo, d *Deps) {
	e.Renderer = d.Templates
	h := d.Handler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusFound, "/products") })
	e.GET(guard.LoginPath, h.LoginPage)
	e.POST(guard.LoginPath, h.Login)
	e.POST("/logout", h.Logout)

	requireSession := guard.SessionMiddleware(h.resolveSession, guard.LoginPath)

	products := e.Group("/products", requireSession)
	products.GET("", h.ListProducts)
	products.GET("/:id", h.GetProduct)

	admin := e.Group("/admin/products", requireSession, guard.AdminMiddleware(h.Forbidden))
	admin.GET("/new", h.NewProductPage)
	admin.POST("/new", h.CreateProduct)
	admin.GET("/:id/edit", h.EditProductPage)
	admin.POST("/:id/edit", h.UpdateProduct)
	admin.GET("/:id/delete", h.DeleteProductPage)
	admin.POST("/:id/delete", h.DeleteProduct)
}
