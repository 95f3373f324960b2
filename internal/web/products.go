package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/filter"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func (h *Handler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.list_products")

	q := listQuery{
		Text:     c.QueryParam("q"),
		Category: c.QueryParam("category"),
		MaxPrice: c.QueryParam("max_price"),
		Size:     util.ParseIntDefault(c.QueryParam("size"), 0),
	}

	all, err := h.Catalog.ListAll(ctx)
	if err != nil {
		return h.fetchFailed(c, l, "list_products_failed", "Failed to load products", err)
	}

	matched := filter.Filter(all, filter.NewCriteria(q.Text, q.Category, q.MaxPrice))
	items, meta := util.Page(matched, util.ParseIntDefault(c.QueryParam("page"), 1), q.Size)

	l.Info("list_products_success", "total", len(all), "matched", len(matched))
	return h.render(c, http.StatusOK, tmplProducts, page{
		Title:      "Products",
		Query:      q,
		Categories: filter.DistinctCategories(all),
		Products:   items,
		Meta:       meta,
	})
}

func (h *Handler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.get_product")

	id, ok := productID(c)
	if !ok {
		l.Warn("get_product_failed", "status", 404, "reason", "id is not a positive integer")
		return h.message(c, http.StatusNotFound, "Not found", "Product not found")
	}

	p, err := h.Catalog.GetByID(ctx, id)
	if err != nil {
		return h.fetchFailed(c, l, "get_product_failed", "Failed to load product", err)
	}
	return h.render(c, http.StatusOK, tmplProduct, page{Title: p.Title, Product: p})
}
