package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/importer"
)

func newRecipeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage grow recipes",
	}
	cmd.AddCommand(
		newRecipeImportCmd(app),
		newRecipeListCmd(app),
		newRecipeTimelineCmd(app),
		newRecipeReviseCmd(app),
	)
	return cmd
}

// loadRecipeFiles reads a single YAML file or every YAML file in a directory.
func loadRecipeFiles(path string) ([]*importer.RecipeFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return importer.LoadRecipeDir(path)
	}
	f, err := importer.LoadRecipeFile(path)
	if err != nil {
		return nil, err
	}
	return []*importer.RecipeFile{f}, nil
}

func validateFiles(files []*importer.RecipeFile) error {
	var problems []error
	for _, f := range files {
		problems = append(problems, importer.ValidateRecipeFile(f)...)
	}
	if len(problems) > 0 {
		return fmt.Errorf("recipe file has %d problem(s):\n%w", len(problems), errors.Join(problems...))
	}
	return nil
}

func newRecipeImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file-or-dir>",
		Short: "Import recipes from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			files, err := loadRecipeFiles(args[0])
			if err != nil {
				return err
			}
			if err := validateFiles(files); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, file := range files {
				for _, r := range importer.Convert(file, f.ID) {
					if err := app.Recipes.Save(ctx, r); err != nil {
						return fmt.Errorf("saving recipe %q: %w", r.Name, err)
					}
					fmt.Fprintf(out, "Imported %s %s\n", r.DisplayName(), formatter.TruncID(r.ID))
				}
			}
			return nil
		},
	}
}

func newRecipeListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			recipes, err := app.Recipes.List(ctx, f.ID, all)
			if err != nil {
				return err
			}
			days := make(map[string]int, len(recipes))
			for _, r := range recipes {
				if v, err := app.Recipes.Timeline(ctx, r.ID); err == nil {
					days[r.ID] = v.TotalDays
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecipeList(recipes, days))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include superseded versions")
	return cmd
}

func newRecipeTimelineCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "timeline <recipe>",
		Short: "Show the day-by-day schedule of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			r, err := resolveRecipe(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			view, err := app.Recipes.Timeline(ctx, r.ID)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeline(view))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newRecipeReviseCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "revise <recipe>",
		Short: "Store a new version of a recipe with the steps from a YAML file",
		Long: "Recipes are never edited in place. The file must hold exactly one recipe;\n" +
			"its steps replace the old ones and trays keep the version they were sown with.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFarm(ctx, cmd, app)
			if err != nil {
				return err
			}
			old, err := resolveRecipe(ctx, app, f.ID, args[0])
			if err != nil {
				return err
			}
			parsed, err := importer.LoadRecipeFile(file)
			if err != nil {
				return err
			}
			if len(parsed.Recipes) != 1 {
				return fmt.Errorf("%s: expected exactly one recipe, found %d", file, len(parsed.Recipes))
			}
			if err := validateFiles([]*importer.RecipeFile{parsed}); err != nil {
				return err
			}
			steps := importer.Convert(parsed, f.ID)[0].Steps
			next, err := app.Recipes.Revise(ctx, old.ID, steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s %s (supersedes %s)\n",
				next.DisplayName(), formatter.TruncID(next.ID), formatter.TruncID(old.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML file with the new steps")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
