package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/filter"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func productsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "Browse and manage products",
	}
	cmd.AddCommand(
		listCmd(app),
		categoriesCmd(app),
		getCmd(app),
		addCmd(app),
		editCmd(app),
		deleteCmd(app),
	)
	return cmd
}

func listCmd(app *App) *cobra.Command {
	var search, category, maxPrice string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := guard.RequireLogin(ctx, app.Auth.Store); err != nil {
				return err
			}
			all, err := app.Catalog.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to load products: %w", err)
			}
			printProducts(cmd.OutOrStdout(), filter.Filter(all, filter.NewCriteria(search, category, maxPrice)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive title substring")
	cmd.Flags().StringVarP(&category, "category", "c", "", "exact category")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "highest price to include")
	return cmd
}

func categoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories present in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := guard.RequireLogin(ctx, app.Auth.Store); err != nil {
				return err
			}
			all, err := app.Catalog.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to load products: %w", err)
			}
			for _, c := range filter.DistinctCategories(all) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func getCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := guard.RequireLogin(ctx, app.Auth.Store); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := app.Catalog.GetByID(ctx, id)
			if err != nil {
				return err
			}
			printProduct(cmd.OutOrStdout(), *p)
			return nil
		},
	}
}

func addFormFlags(cmd *cobra.Command, f *catalog.ProductForm) {
	cmd.Flags().StringVar(&f.Title, "title", "", "product title")
	cmd.Flags().StringVar(&f.Price, "price", "", "product price")
	cmd.Flags().StringVar(&f.Description, "description", "", "product description")
	cmd.Flags().StringVar(&f.Category, "category", "", "product category")
	cmd.Flags().StringVar(&f.Image, "image", "", "product image URL")
}

func addCmd(app *App) *cobra.Command {
	var form catalog.ProductForm
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := guard.RequireAdmin(ctx, app.Auth.Store)
			if err != nil {
				return err
			}
			p, err := form.ToProduct()
			if err != nil {
				return err
			}
			created, err := app.Catalog.Create(ctx, p)
			if err != nil {
				return fmt.Errorf("failed to add product: %w", err)
			}
			app.Events.ProductCreated(ctx, sess.Username, *created)
			fmt.Fprintf(cmd.OutOrStdout(), "Added product %d\n", created.ID)
			return nil
		},
	}
	addFormFlags(cmd, &form)
	return cmd
}

// editCmd starts from the current product; only the flags given on the command line change.
func editCmd(app *App) *cobra.Command {
	var changes catalog.ProductForm
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := guard.RequireAdmin(ctx, app.Auth.Store)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := app.Catalog.GetByID(ctx, id)
			if err != nil {
				return err
			}

			form := catalog.FormFromProduct(*current)
			flags := cmd.Flags()
			for name, dst := range map[string]*string{
				"title":       &form.Title,
				"price":       &form.Price,
				"description": &form.Description,
				"category":    &form.Category,
				"image":       &form.Image,
			} {
				if flags.Changed(name) {
					*dst, _ = flags.GetString(name)
				}
			}

			p, err := form.ToProduct()
			if err != nil {
				return err
			}
			updated, err := app.Catalog.Update(ctx, id, p)
			if err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
			app.Events.ProductUpdated(ctx, sess.Username, *updated)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated product %d\n", id)
			return nil
		},
	}
	addFormFlags(cmd, &changes)
	return cmd
}

func deleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := guard.RequireAdmin(ctx, app.Auth.Store)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			deleted, err := app.Catalog.Delete(ctx, id)
			if err != nil {
				return err
			}
			app.Events.ProductDeleted(ctx, sess.Username, *deleted)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %d\n", id)
			return nil
		},
	}
}

func printProducts(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "PRICE", "CATEGORY").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, p := range products {
		t.Row(strconv.Itoa(p.ID), p.Title, formatPrice(p.Price), p.Category)
	}
	fmt.Fprintln(w, t.Render())
}

func printProduct(w io.Writer, p models.Product) {
	fmt.Fprintln(w, headerStyle.Render(p.Title))
	fmt.Fprintf(w, "id:          %d\n", p.ID)
	fmt.Fprintf(w, "price:       %s\n", formatPrice(p.Price))
	fmt.Fprintf(w, "category:    %s\n", p.Category)
	fmt.Fprintf(w, "image:       %s\n", p.Image)
	fmt.Fprintf(w, "description: %s\n", p.Description)
}
