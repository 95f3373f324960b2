package web

import (
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/util"
)

const (
	tmplLogin         = "login.html"
	tmplProducts      = "products.html"
	tmplProduct       = "product.html"
	tmplProductForm   = "product_form.html"
	tmplProductDelete = "product_delete.html"
	tmplMessage       = "message.html"
)

type listQuery struct {
	Text     string
	Category string
	MaxPrice string
	Size     int
}

// page is the data of every template; each screen fills the fields it shows.
type page struct {
	Title   string
	Session models.Session
	Error   string
	Message string

	Username string

	Query      listQuery
	Categories []string
	Products   []models.Product
	Meta       util.Meta

	Product *models.Product
	Form    catalog.ProductForm
	Action  string
}
