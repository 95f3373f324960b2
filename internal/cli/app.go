// Package cli is the terminal front end: the same screens as the web app, as commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/events"
)

type App struct {
	Auth    auth.Gateway
	Catalog *catalog.Client
	Events  events.Emitter
}

func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Browse and manage the product catalog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		loginCmd(app),
		logoutCmd(app),
		whoamiCmd(app),
		productsCmd(app),
	)
	return root
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("product id must be a positive integer, got %q", arg)
	}
	return id, nil
}

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return "Product not found"
	case errors.Is(err, catalog.ErrNetwork):
		return "Cannot reach the catalog, check your connection"
	}
	return err.Error()
}

// Execute runs the command and prints a failure to stderr. It returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", userMessage(err))
		return 1
	}
	return 0
}
