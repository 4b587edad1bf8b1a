package cli

import (
	"fmt"
	"strconv"

	"github.com/devspace/rickterm/internal/core"
	"github.com/spf13/cobra"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	JSON bool
}

type showOutput struct {
	core.CharacterDetail
	IsFavorite bool `json:"is_favorite"`
}

// NewShowCommand creates the show command.
func NewShowCommand(root *RootOptions) *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show character details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runShow(cmd, root, id, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidID, arg)
	}
	if err := core.ValidateID(id); err != nil {
		return 0, err
	}
	return id, nil
}

func runShow(cmd *cobra.Command, root *RootOptions, id int, opts *ShowOptions) error {
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
	favorite, err := application.Favorites().IsFavorite(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read favorites: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		return writeJSON(out, showOutput{CharacterDetail: detail, IsFavorite: favorite})
	}

	name := detail.Name
	if favorite {
		name += " " + favoriteMark(true)
	}
	fmt.Fprintf(out, "%s %s\n\n", name, core.FormatID(detail.ID))

	t := newTable(out)
	for _, row := range detail.Rows() {
		t.row(row.Label, row.Value)
	}
	t.row("Episodes:", strconv.Itoa(detail.Episodes))
	if !detail.Created.IsZero() {
		t.row("Created:", detail.Created.Format("2006-01-02"))
	}
	return t.flush()
}
