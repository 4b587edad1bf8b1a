package cli

import (
	"fmt"
	"strconv"

	"github.com/devspace/rickterm/internal/core"
	"github.com/spf13/cobra"
)

// NewFavCommand creates the fav command and its subcommands.
func NewFavCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav ID",
		Short: "Toggle a favorite character",
		Long:  "Toggle the favorite flag of a character. The character is fetched first so the favorite list works offline.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runFavToggle(cmd, root, id)
		},
	}

	cmd.AddCommand(newFavListCommand(root))
	cmd.AddCommand(newFavClearCommand(root))

	return cmd
}

func runFavToggle(cmd *cobra.Command, root *RootOptions, id int) error {
	application, err := root.openApp(cmd)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()
	detail, err := application.Gateway().GetCharacter(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch character %d: %w", id, err)
	}

	summary := detail.Summary()
	favorite, err := application.Favorites().Toggle(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	label := fmt.Sprintf("%s (%s)", summary.Name, core.FormatID(summary.ID))
	if favorite {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", label)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", label)
	}
	return nil
}

func newFavListCommand(root *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorite characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			records, err := application.Favorites().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list favorites: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No favorites yet")
				return nil
			}

			t := newTable(out, "ID", "NAME", "SPECIES", "ADDED")
			for _, r := range records {
				t.row(strconv.Itoa(r.CharacterID), r.Name, r.Species, r.FavoritedAt.Local().Format("2006-01-02 15:04"))
			}
			return t.flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newFavClearCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx := cmd.Context()
			store := application.Favorites()
			n, err := store.Count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count favorites: %w", err)
			}
			if err := store.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear favorites: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d favorites\n", n)
			return nil
		},
	}
}
