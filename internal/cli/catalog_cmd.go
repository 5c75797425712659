package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/domain"
)

func newCustomerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	var name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			c := &domain.Customer{
				ID:        uuid.New().String(),
				FarmID:    f.ID,
				Name:      strings.TrimSpace(name),
				CreatedAt: time.Now().UTC(),
			}
			if err := app.Customers.Create(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created customer %s %s\n", c.Name, formatter.TruncID(c.ID))
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Customer name")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			customers, err := app.Customers.List(ctx, f.ID)
			if err != nil {
				return err
			}
			rows := make([][]string, len(customers))
			for i, c := range customers {
				rows[i] = []string{c.Name, formatter.TruncID(c.ID)}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"NAME", "ID"}, rows))
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products and their recipe links",
	}

	var name, recipe string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			p := &domain.Product{
				ID:        uuid.New().String(),
				FarmID:    f.ID,
				Name:      strings.TrimSpace(name),
				CreatedAt: time.Now().UTC(),
			}
			if recipe != "" {
				r, err := resolveRecipe(ctx, app, f.ID, recipe)
				if err != nil {
					return err
				}
				p.RecipeID = &r.ID
			}
			if err := app.Products.Create(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created product %s %s\n", p.Name, formatter.TruncID(p.ID))
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Product name")
	add.Flags().StringVar(&recipe, "recipe", "", "Recipe that grows this product")
	_ = add.MarkFlagRequired("name")

	var linkRecipe string
	var unlink bool
	link := &cobra.Command{
		Use:   "link <product>",
		Short: "Map a product to a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			productID, err := resolveProduct(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			if unlink {
				if err := app.Products.LinkRecipe(ctx, productID, nil); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Unlinked recipe")
				return nil
			}
			if linkRecipe == "" {
				return fmt.Errorf("--recipe or --unlink is required")
			}
			r, err := resolveRecipe(ctx, app, f.ID, linkRecipe)
			if err != nil {
				return err
			}
			if err := app.Products.LinkRecipe(ctx, productID, &r.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked to %s\n", r.DisplayName())
			return nil
		},
	}
	link.Flags().StringVar(&linkRecipe, "recipe", "", "Recipe id or name")
	link.Flags().BoolVar(&unlink, "unlink", false, "Remove the recipe link")

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			products, err := app.Products.List(ctx, f.ID)
			if err != nil {
				return err
			}
			n, err := names(ctx, app, f.ID)
			if err != nil {
				return err
			}
			rows := make([][]string, len(products))
			for i, p := range products {
				recipe := formatter.StyleYellow.Render("not linked")
				if p.RecipeID != nil {
					recipe = n.Of(*p.RecipeID)
				}
				rows[i] = []string{p.Name, recipe, formatter.TruncID(p.ID)}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"NAME", "RECIPE", "ID"}, rows))
			return nil
		},
	}

	cmd.AddCommand(add, link, list)
	return cmd
}

func newOrderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage standing orders",
	}
	cmd.AddCommand(
		newOrderAddCmd(app),
		newOrderListCmd(app),
		newOrderEndCmd(app),
		newOrderRemoveCmd(app),
	)
	return cmd
}

func newOrderAddCmd(app *App) *cobra.Command {
	var customer, product string
	var qty int
	var days domain.WeekdaySet
	var start, end time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a standing order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			customerID, err := resolveCustomer(ctx, app, f.ID, customer)
			if err != nil {
				return err
			}
			productID, err := resolveProduct(ctx, app, f.ID, product)
			if err != nil {
				return err
			}
			o := &domain.StandingOrder{
				ID:           uuid.New().String(),
				FarmID:       f.ID,
				CustomerID:   customerID,
				ProductID:    productID,
				Quantity:     qty,
				DeliveryDays: days,
				StartDate:    orDate(start, app.today()),
				CreatedAt:    time.Now().UTC(),
			}
			if !end.IsZero() {
				o.EndDate = &end
			}
			if err := app.Orders.Create(ctx, o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created order %s: %s every %s from %s\n",
				formatter.TruncID(o.ID), formatter.Plural(o.Quantity, "tray"), o.DeliveryDays, domain.FormatDate(o.StartDate))
			return nil
		},
	}
	cmd.Flags().StringVar(&customer, "customer", "", "Customer id or name")
	cmd.Flags().StringVar(&product, "product", "", "Product id or name")
	cmd.Flags().IntVar(&qty, "qty", 1, "Trays per delivery")
	cmd.Flags().Var(newWeekdayFlag(&days), "days", "Delivery weekdays, e.g. tue,fri")
	cmd.Flags().Var(newDateFlag(&start), "start", "First day of the order (default today)")
	cmd.Flags().Var(newDateFlag(&end), "end", "Last day of the order")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

func newOrderListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List standing orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			orders, err := app.Orders.List(ctx, f.ID)
			if err != nil {
				return err
			}
			n, err := names(ctx, app, f.ID)
			if err != nil {
				return err
			}
			products, err := app.Products.List(ctx, f.ID)
			if err != nil {
				return err
			}
			for _, p := range products {
				n[p.ID] = p.Name
			}
			rows := make([][]string, len(orders))
			for i, o := range orders {
				end := "--"
				if o.EndDate != nil {
					end = domain.FormatDate(*o.EndDate)
				}
				rows[i] = []string{
					formatter.TruncID(o.ID),
					n.Of(o.CustomerID),
					n.Of(o.ProductID),
					fmt.Sprintf("%d", o.Quantity),
					o.DeliveryDays.String(),
					domain.FormatDate(o.StartDate),
					end,
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "CUSTOMER", "PRODUCT", "TRAYS", "DAYS", "START", "END"}, rows))
			return nil
		},
	}
}

func newOrderEndCmd(app *App) *cobra.Command {
	var on time.Time

	cmd := &cobra.Command{
		Use:   "end <order>",
		Short: "Stop a standing order after a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			id, err := resolveOrder(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			end := orDate(on, app.today())
			if err := app.Orders.End(ctx, id, end); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s ends %s\n", formatter.TruncID(id), domain.FormatDate(end))
			return nil
		},
	}
	cmd.Flags().Var(newDateFlag(&on), "date", "Last delivery day (default today)")
	return cmd
}

func newOrderRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <order>",
		Short: "Delete a standing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			id, err := resolveOrder(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.Orders.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted order %s\n", formatter.TruncID(id))
			return nil
		},
	}
}
