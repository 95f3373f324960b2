package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func editAction(id int) string { return fmt.Sprintf("/admin/products/%d/edit", id) }

const newAction = "/admin/products/new"

func (h *Handler) NewProductPage(c echo.Context) error {
	return h.render(c, http.StatusOK, tmplProductForm, page{Title: "Add product", Action: newAction})
}

func (h *Handler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.create_product")
	p := page{Title: "Add product", Action: newAction}

	prod, ok, err := h.bindForm(c, l, &p)
	if !ok {
		return err
	}

	created, err := h.Catalog.Create(ctx, prod)
	if err != nil {
		return h.formFailed(c, l, "create_product_failed", "Failed to add product", err, p)
	}

	l.Info("create_product_success", "id", created.ID)
	h.Events.ProductCreated(ctx, guard.SessionFrom(c).Username, *created)
	return c.Redirect(http.StatusSeeOther, "/products")
}

func (h *Handler) EditProductPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.edit_product_page")

	id, ok := productID(c)
	if !ok {
		return h.message(c, http.StatusNotFound, "Not found", "Product not found")
	}
	prod, err := h.Catalog.GetByID(ctx, id)
	if err != nil {
		return h.fetchFailed(c, l, "edit_product_page_failed", "Failed to load product", err)
	}
	return h.render(c, http.StatusOK, tmplProductForm, page{
		Title:  "Edit product",
		Action: editAction(id),
		Form:   catalog.FormFromProduct(*prod),
	})
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.update_product")

	id, ok := productID(c)
	if !ok {
		return h.message(c, http.StatusNotFound, "Not found", "Product not found")
	}
	p := page{Title: "Edit product", Action: editAction(id)}

	prod, ok, err := h.bindForm(c, l, &p)
	if !ok {
		return err
	}

	updated, err := h.Catalog.Update(ctx, id, prod)
	if err != nil {
		return h.formFailed(c, l, "update_product_failed", "Failed to update product", err, p)
	}

	l.Info("update_product_success", "id", id)
	h.Events.ProductUpdated(ctx, guard.SessionFrom(c).Username, *updated)
	return c.Redirect(http.StatusSeeOther, "/products")
}

func (h *Handler) DeleteProductPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.delete_product_page")

	id, ok := productID(c)
	if !ok {
		return h.message(c, http.StatusNotFound, "Not found", "Product not found")
	}
	prod, err := h.Catalog.GetByID(ctx, id)
	if err != nil {
		return h.fetchFailed(c, l, "delete_product_page_failed", "Failed to load product", err)
	}
	return h.render(c, http.StatusOK, tmplProductDelete, page{Title: "Delete product", Product: prod})
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.delete_product")

	id, ok := productID(c)
	if !ok {
		return h.message(c, http.StatusNotFound, "Not found", "Product not found")
	}
	deleted, err := h.Catalog.Delete(ctx, id)
	if err != nil {
		return h.fetchFailed(c, l, "delete_product_failed", "Failed to delete product", err)
	}

	l.Info("delete_product_success", "id", id)
	h.Events.ProductDeleted(ctx, guard.SessionFrom(c).Username, *deleted)
	return c.Redirect(http.StatusSeeOther, "/products")
}

// bindForm reads and validates the product form into p.Form. When ok is false the response is already decided.
func (h *Handler) bindForm(c echo.Context, l *slog.Logger, p *page) (models.Product, bool, error) {
	if err := c.Bind(&p.Form); err != nil {
		l.Warn("bind_product_form_failed", "status", 400, "reason", "invalid body", "error", err)
		p.Error = "Invalid form"
		return models.Product{}, false, h.render(c, http.StatusBadRequest, tmplProductForm, *p)
	}
	prod, err := p.Form.ToProduct()
	if err != nil {
		l.Warn("validate_product_form_failed", "status", 400, "reason", "invalid form", "error", err)
		p.Error = err.Error()
		return models.Product{}, false, h.render(c, http.StatusBadRequest, tmplProductForm, *p)
	}
	return prod, true, nil
}

func (h *Handler) formFailed(c echo.Context, l *slog.Logger, event, msg string, err error, p page) error {
	if c.Request().Context().Err() != nil || errors.Is(err, catalog.ErrNotFound) {
		return h.fetchFailed(c, l, event, msg, err)
	}
	l.Error(event, "status", 502, "reason", msg, "error", err)
	p.Error = msg
	return h.render(c, http.StatusBadGateway, tmplProductForm, p)
}
