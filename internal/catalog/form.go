package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

var ErrValidation = errors.New("invalid product form")

// ProductForm is the raw input of the add and edit screens.
type ProductForm struct {
	Title       string `form:"title"       validate:"required"`
	Price       string `form:"price"       validate:"required,numeric"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category"    validate:"required"`
	Image       string `form:"image"       validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get("form")
		})
	})
	return validate
}

// Validate trims the fields and checks that every one is filled in and that price is a number.
func (f *ProductForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Price = strings.TrimSpace(f.Price)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	f.Image = strings.TrimSpace(f.Image)

	err := formValidator().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, strings.Join(missing, ", ")+" required")
	}
	if len(invalid) > 0 {
		parts = append(parts, strings.Join(invalid, ", ")+" must be a number")
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, "; "))
}

// ToProduct validates the form and converts price to a number.
func (f ProductForm) ToProduct() (models.Product, error) {
	if err := f.Validate(); err != nil {
		return models.Product{}, err
	}
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: price must be a number", ErrValidation)
	}
	return models.Product{
		Title:       f.Title,
		Price:       price.InexactFloat64(),
		Description: f.Description,
		Category:    f.Category,
		Image:       f.Image,
	}, nil
}

func FormFromProduct(p models.Product) ProductForm {
	return ProductForm{
		Title:       p.Title,
		Price:       decimal.NewFromFloat(p.Price).String(),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
}
