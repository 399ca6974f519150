package cli

import (
	"context"
	"fmt"
	"iter"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/quadsql/internal/codec"
	"github.com/roach88/quadsql/internal/rdf"
	"github.com/roach88/quadsql/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Terms map[rdf.Column]*string
	Limit int
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts, Terms: make(map[rdf.Column]*string)}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List statements matching a pattern",
		Long: `List the statements that agree with every bound column. Unbound
columns match anything. Terms are N-Triples; --context nil matches
statements without a context.

Example:
  quadsql query --subject '<http://example.org/Alice>'
  quadsql query --predicate '<http://example.org/knows>' --context nil --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	for _, col := range rdf.Columns {
		opts.Terms[col] = cmd.Flags().String(string(col), "", fmt.Sprintf("bind %s to an N-Triples term", col))
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after this many statements (0 = no limit)")

	return cmd
}

// pattern builds the query pattern from the flags that were set.
func (o *QueryOptions) pattern(cmd *cobra.Command) (rdf.Pattern, error) {
	p := rdf.Pattern{}
	for _, col := range rdf.Columns {
		if !cmd.Flags().Changed(string(col)) {
			continue
		}
		value := *o.Terms[col]
		if col == rdf.Context && value == codec.NoValue {
			p[col] = nil
			continue
		}
		t, err := rdf.ParseTerm(value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", col, err)
		}
		p[col] = t
	}
	return p, nil
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	pattern, err := opts.pattern(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid pattern", err)
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	lines := []string{}
	for st, err := range s.repo.Query(commandContext(cmd), pattern) {
		if err != nil {
			return WrapExitError(ExitCommandError, "query failed", err)
		}
		lines = append(lines, st.String())
		if opts.Limit > 0 && len(lines) == opts.Limit {
			break
		}
	}
	s.logger.Debug("query complete", "bound", len(pattern), "matched", len(lines))

	return opts.formatter(cmd).Success(lines)
}

// CountResult reports the number of stored statements.
type CountResult struct {
	Count int64 `json:"count"`
}

func (r CountResult) String() string {
	return strconv.FormatInt(r.Count, 10)
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.repo.Count(commandContext(cmd))
			if err != nil {
				return WrapExitError(ExitCommandError, "count failed", err)
			}
			return rootOpts.formatter(cmd).Success(CountResult{Count: n})
		},
	}
}

// columnCommand describes one distinct-column listing command.
type columnCommand struct {
	name  string
	short string
	scan  func(*store.Store, context.Context) iter.Seq2[rdf.Term, error]
}

var columnCommands = []columnCommand{
	{"subjects", "List distinct subjects", (*store.Store).EachSubject},
	{"predicates", "List distinct predicates", (*store.Store).EachPredicate},
	{"objects", "List distinct objects", (*store.Store).EachObject},
	{"contexts", "List distinct contexts, excluding statements without one", (*store.Store).EachContext},
}

// newColumnCommand creates a distinct-column listing command.
func newColumnCommand(rootOpts *RootOptions, col columnCommand) *cobra.Command {
	return &cobra.Command{
		Use:   col.name,
		Short: col.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			terms := []string{}
			for t, err := range col.scan(s.store, commandContext(cmd)) {
				if err != nil {
					return WrapExitError(ExitCommandError, col.name+" failed", err)
				}
				terms = append(terms, rdf.Format(t))
			}
			return rootOpts.formatter(cmd).Success(terms)
		},
	}
}
