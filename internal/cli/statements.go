package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/quadsql/internal/codec"
	"github.com/roach88/quadsql/internal/rdf"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	BatchSize  int
	NFC        bool
	FreshBlank bool
}

// LoadResult reports the outcome of load.
type LoadResult struct {
	Loaded  int    `json:"loaded"`
	Dialect string `json:"dialect"`
}

func (r LoadResult) String() string {
	return fmt.Sprintf("loaded %d statements (%s)", r.Loaded, r.Dialect)
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Insert statements from an N-Quads file",
		Long: `Insert statements from an N-Quads file, or standard input when the file
is omitted or "-". Statements are inserted in batches.

Example:
  quadsql load --db sqlite3:quads.db data.nq
  cat data.nq | quadsql load --db sqlite3:quads.db --prefix ex=http://example.org/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.BatchSize, "batch", 500, "statements per insert call")
	cmd.Flags().BoolVar(&opts.NFC, "nfc", false, "normalize literals and IRIs to Unicode NFC")
	cmd.Flags().BoolVar(&opts.FreshBlank, "fresh-bnodes", false, "give the file's blank nodes labels unique to this load")

	return cmd
}

func runLoad(opts *LoadOptions, args []string, cmd *cobra.Command) error {
	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeIn()

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := rdf.Load(commandContext(cmd), s.repo, in, rdf.LoadOptions{
		BatchSize:       opts.BatchSize,
		NormalizeNFC:    opts.NFC,
		FreshBlankNodes: opts.FreshBlank,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("load failed after %d statements", n), err)
	}
	s.logger.Debug("loaded statements", "count", n)

	return opts.formatter(cmd).Success(LoadResult{Loaded: n, Dialect: s.store.Adapter().Dialect()})
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write every statement as N-Quads",
		Long: `Write every statement as N-Quads to standard output or --output.
The --format flag does not apply: the output is always N-Quads.

Example:
  quadsql dump --db sqlite3:quads.db > backup.nq`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := dumpTo(commandContext(cmd), cmd.OutOrStdout(), output, s.repo)
			if err != nil {
				return err
			}
			s.logger.Debug("dumped statements", "count", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// createFile opens dump output files.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// dumpTo writes repo as N-Quads to output, or to stdout when output is empty.
// A file that fails to close fails the dump.
func dumpTo(ctx context.Context, stdout io.Writer, output string, repo rdf.Enumerable) (int, error) {
	if output == "" {
		n, err := rdf.Dump(ctx, stdout, repo)
		if err != nil {
			return n, WrapExitError(ExitCommandError, "dump failed", err)
		}
		return n, nil
	}

	f, err := createFile(output)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "failed to create output file", err)
	}
	n, err := rdf.Dump(ctx, f, repo)
	if err != nil {
		f.Close()
		return n, WrapExitError(ExitCommandError, "dump failed", err)
	}
	if err := f.Close(); err != nil {
		return n, WrapExitError(ExitCommandError, "failed to close output file", err)
	}
	return n, nil
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <subject> <predicate> <object> [context]",
		Short: "Insert one statement",
		Long: `Insert one statement given as N-Triples terms.

Example:
  quadsql insert '<http://example.org/Alice>' '<http://example.org/knows>' '<http://example.org/Bob>'
  quadsql insert _:b0 '<http://example.org/name>' '"Bob"@en' '<http://example.org/g1>'`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(rootOpts, cmd, args, "inserted")
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <subject> <predicate> <object> [context]",
		Short: "Delete one statement",
		Long: `Delete every row equal to the statement. Deleting a statement that is
not stored succeeds.

Example:
  quadsql delete '<http://example.org/Alice>' '<http://example.org/knows>' '<http://example.org/Bob>'`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(rootOpts, cmd, args, "deleted")
		},
	}
}

// MutationResult reports the statement written or removed.
type MutationResult struct {
	Action    string `json:"action"`
	Statement string `json:"statement"`
}

func (r MutationResult) String() string {
	return r.Action + " " + r.Statement
}

func runMutation(opts *RootOptions, cmd *cobra.Command, args []string, action string) error {
	st, err := parseStatementArgs(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid statement", err)
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	if action == "inserted" {
		err = s.repo.Insert(ctx, st)
	} else {
		err = s.repo.Delete(ctx, st)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, action+" failed", err)
	}

	return opts.formatter(cmd).Success(MutationResult{Action: action, Statement: st.String()})
}

// parseStatementArgs builds a statement from three or four term arguments.
// A fourth argument of "nil" means no context.
func parseStatementArgs(args []string) (rdf.Statement, error) {
	terms := make([]rdf.Term, 4)
	for i, arg := range args {
		if i == 3 && arg == codec.NoValue {
			continue
		}
		t, err := rdf.ParseTerm(arg)
		if err != nil {
			return rdf.Statement{}, fmt.Errorf("argument %d: %w", i+1, err)
		}
		terms[i] = t
	}
	st := rdf.NewQuad(terms[0], terms[1], terms[2], terms[3])
	if err := st.Validate(); err != nil {
		return rdf.Statement{}, err
	}
	return st, nil
}

// openInput opens args[0], or stdin when there is no argument or it is "-".
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open input", err)
	}
	return f, func() { f.Close() }, nil
}
