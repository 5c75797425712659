package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
)

// resolveFarm picks the farm named by --farm, or the only farm when the
// flag is empty.
func resolveFarm(ctx context.Context, cmd *cobra.Command, app *App) (*domain.Farm, error) {
	name, _ := cmd.Flags().GetString("farm")
	if name != "" {
		f, err := app.Farms.Resolve(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("farm not found: %q", name)
		}
		return f, err
	}
	farms, err := app.Farms.List(ctx)
	if err != nil {
		return nil, err
	}
	switch len(farms) {
	case 0:
		return nil, fmt.Errorf("no farms yet; create one with `trayflow farm add --name <name>`")
	case 1:
		return farms[0], nil
	default:
		return nil, fmt.Errorf("%d farms exist; pick one with --farm or TRAYFLOW_FARM", len(farms))
	}
}

type candidate struct {
	id   string
	name string
}

// matchID resolves user input against candidates: exact id, then exact
// name (case-insensitive), then a unique id prefix.
func matchID(kind, input string, cands []candidate) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	for _, c := range cands {
		if c.id == input {
			return c.id, nil
		}
	}
	for _, c := range cands {
		if c.name != "" && strings.EqualFold(c.name, input) {
			return c.id, nil
		}
	}
	var matches []string
	for _, c := range cands {
		if strings.HasPrefix(c.id, input) {
			matches = append(matches, c.id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s id prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveRecipe(ctx context.Context, app *App, farmID, input string) (*domain.Recipe, error) {
	recipes, err := app.Recipes.List(ctx, farmID, true)
	if err != nil {
		return nil, err
	}
	// Names match the latest version only.
	latest := make(map[string]bool)
	current, err := app.Recipes.List(ctx, farmID, false)
	if err != nil {
		return nil, err
	}
	for _, r := range current {
		latest[r.ID] = true
	}
	cands := make([]candidate, 0, len(recipes))
	for _, r := range recipes {
		c := candidate{id: r.ID}
		if latest[r.ID] {
			c.name = r.Name
		}
		cands = append(cands, c)
	}
	id, err := matchID("recipe", input, cands)
	if err != nil {
		return nil, err
	}
	for _, r := range recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("recipe not found: %q", input)
}

func resolveCustomer(ctx context.Context, app *App, farmID, input string) (string, error) {
	customers, err := app.Customers.List(ctx, farmID)
	if err != nil {
		return "", err
	}
	cands := make([]candidate, len(customers))
	for i, c := range customers {
		cands[i] = candidate{id: c.ID, name: c.Name}
	}
	return matchID("customer", input, cands)
}

func resolveProduct(ctx context.Context, app *App, farmID, input string) (string, error) {
	products, err := app.Products.List(ctx, farmID)
	if err != nil {
		return "", err
	}
	cands := make([]candidate, len(products))
	for i, p := range products {
		cands[i] = candidate{id: p.ID, name: p.Name}
	}
	return matchID("product", input, cands)
}

func resolveOrder(ctx context.Context, app *App, farmID, input string) (string, error) {
	orders, err := app.Orders.List(ctx, farmID)
	if err != nil {
		return "", err
	}
	cands := make([]candidate, len(orders))
	for i, o := range orders {
		cands[i] = candidate{id: o.ID}
	}
	return matchID("order", input, cands)
}

func resolveTray(ctx context.Context, app *App, farmID, input string) (string, error) {
	trays, err := app.Trays.List(ctx, farmID)
	if err != nil {
		return "", err
	}
	cands := make([]candidate, len(trays))
	for i, t := range trays {
		cands[i] = candidate{id: t.ID}
	}
	return matchID("tray", input, cands)
}

func resolveRequest(ctx context.Context, app *App, farmID, input string) (string, error) {
	reqs, err := app.Seedings.List(ctx, farmID, repository.SeedingFilter{})
	if err != nil {
		return "", err
	}
	cands := make([]candidate, len(reqs))
	for i, r := range reqs {
		cands[i] = candidate{id: r.ID}
	}
	return matchID("seeding request", input, cands)
}

// names collects display names for the recipes and customers of a farm.
func names(ctx context.Context, app *App, farmID string) (formatter.Names, error) {
	out := make(formatter.Names)
	recipes, err := app.Recipes.List(ctx, farmID, true)
	if err != nil {
		return nil, err
	}
	for _, r := range recipes {
		out[r.ID] = r.DisplayName()
	}
	customers, err := app.Customers.List(ctx, farmID)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		out[c.ID] = c.Name
	}
	return out, nil
}
