package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/devspace/rickterm/internal/app"
	"github.com/devspace/rickterm/internal/config"
	"github.com/devspace/rickterm/internal/logger"
	"github.com/devspace/rickterm/internal/tui/views"
	"github.com/spf13/cobra"
)

// RootOptions holds the persistent flags shared by every command.
type RootOptions struct {
	ConfigPath string
	BaseURL    string
	DataDir    string
	Timeout    time.Duration
	LogLevel   string
	NoCache    bool
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "rickterm",
		Short:         "rickterm - Rick and Morty characters in your terminal",
		Long:          "rickterm browses the Rick and Morty character API in a TUI and keeps your favorite characters locally.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "Config file path")
	flags.StringVar(&opts.BaseURL, "base-url", "", "API base URL")
	flags.StringVar(&opts.DataDir, "data-dir", "", "Directory for favorites, cache and logs")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "Request timeout")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	flags.BoolVar(&opts.NoCache, "no-cache", false, "Disable the response cache")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewFavCommand(opts))

	return cmd
}

// Config loads the config file and applies flag overrides.
func (o *RootOptions) Config() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.NoCache {
		cfg.NoCache = true
	}

	return cfg, cfg.Validate()
}

// openApp builds the application for a one-shot subcommand. Logs go to
// stderr at warn unless --log-level says otherwise.
func (o *RootOptions) openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}

	level := o.LogLevel
	if level == "" {
		level = "warn"
	}
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: true,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	return app.Open(cfg, app.WithLogger(log))
}

// tuiModel wraps the App view for bubbletea
type tuiModel struct {
	view *views.App
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.App)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application
func runTUI(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	dir, err := cfg.ResolvedDataDir()
	if err != nil {
		return err
	}
	log, closer, err := logger.OpenFile(filepath.Join(dir, app.LogFile), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	application, err := app.Open(cfg, app.WithLogger(log))
	if err != nil {
		return err
	}
	defer application.Close()

	view := views.NewApp(
		application.ListController(),
		application.DetailController(),
		views.WithImages(application.Gateway()),
		views.WithLogger(log),
		views.WithContext(cmd.Context()),
	)
	defer view.Close()

	log.With("base_url", cfg.BaseURL).Info("starting TUI")

	p := tea.NewProgram(tuiModel{view: view}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
