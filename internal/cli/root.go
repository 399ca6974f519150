package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/quadsql/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Store selection. Flags override values from ConfigPath.
	ConfigPath string
	DB         string
	Adapter    string
	Prefixes   []string // label=stem

	// Metrics dumps Prometheus metrics to stderr when the command ends.
	Metrics bool

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the quadsql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quadsql",
		Short: "quadsql - RDF statements in SQL databases",
		Long: `Store and query RDF statements in SQLite, PostgreSQL or MySQL.

The store is selected by --db, a locator such as
  sqlite3:/var/lib/quads.db
  sqlite::memory:
  postgres://user:pw@localhost/quads?sslmode=disable
  mysql://user:pw@tcp(localhost:3306)/quads
or by a --config file (.yaml, .toml or .cue).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "store configuration file (.yaml, .toml, .cue)")
	flags.StringVar(&opts.DB, "db", "", "store locator (default "+config.DefaultLocator+")")
	flags.StringVar(&opts.Adapter, "adapter", "", "dialect override (see 'quadsql dialects')")
	flags.StringArrayVar(&opts.Prefixes, "prefix", nil, "prefix as label=stem (repeatable, in lookup order)")
	flags.BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics to stderr on exit")

	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	for _, col := range columnCommands {
		cmd.AddCommand(newColumnCommand(opts, col))
	}
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewDialectsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Logger returns the logger configured by the root command.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

// StoreConfig merges the config file, if any, with the store flags.
func (o *RootOptions) StoreConfig() (config.Config, error) {
	var cfg config.Config
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := config.Config{DB: o.DB, Adapter: o.Adapter}
	for _, raw := range o.Prefixes {
		p, err := config.ParsePrefix(raw)
		if err != nil {
			return config.Config{}, err
		}
		flags.Prefixes = append(flags.Prefixes, p)
	}

	cfg = cfg.Merge(flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// formatter returns an output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
