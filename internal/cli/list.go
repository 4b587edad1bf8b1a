package cli

import (
	"fmt"
	"strconv"

	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/favorites"
	"github.com/spf13/cobra"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Name      string
	Species   string
	Page      int
	Favorites bool
	JSON      bool
}

// listOutput is the JSON shape of the list command.
type listOutput struct {
	Info       core.PageInfo    `json:"info"`
	Characters []core.Character `json:"results"`
}

// NewListCommand creates the list command.
func NewListCommand(root *RootOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List characters",
		Long:  "List one page of characters, optionally filtered by name and species on the server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&opts.Species, "species", "", "Filter by species")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().BoolVar(&opts.Favorites, "favorites", false, "Only show favorites from the page")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

func runList(cmd *cobra.Command, root *RootOptions, opts *ListOptions) error {
	if opts.Page < 1 {
		return fmt.Errorf("invalid page %d", opts.Page)
	}

	application, err := root.openApp(cmd)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()
	filter := core.Filter{Name: opts.Name, Species: opts.Species, Page: opts.Page}
	page, err := application.Gateway().ListCharacters(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list characters: %w", err)
	}

	ids, err := application.Favorites().IDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to read favorites: %w", err)
	}
	chars := favorites.Merge(page.Characters, ids)
	if opts.Favorites {
		only := chars[:0]
		for _, c := range chars {
			if c.IsFavorite {
				only = append(only, c)
			}
		}
		chars = only
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		return writeJSON(out, listOutput{Info: page.Info, Characters: chars})
	}

	t := newTable(out, "ID", "NAME", "SPECIES", "FAV")
	for _, c := range chars {
		t.row(strconv.Itoa(c.ID), c.Name, c.Species, favoriteMark(c.IsFavorite))
	}
	if err := t.flush(); err != nil {
		return err
	}
	if t.pretty {
		fmt.Fprintf(out, "\nPage %d of %d (%d characters)\n", opts.Page, page.Info.Pages, page.Info.Count)
	}
	return nil
}
