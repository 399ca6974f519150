package harness

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"

	"github.com/roach88/quadsql/internal/rdf"
	"github.com/roach88/quadsql/internal/store"
)

// Harness applies scenario steps to one store.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// Option configures a run.
type Option func(*Harness)

// WithLogger logs each step at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// Run opens the scenario's store, executes every step, and disposes the
// store. Failed expectations are reported in the result; the error is
// reserved for steps that could not run at all.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.New(ctx, scenario.Config())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Dispose()

	h := &Harness{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		n := i + 1
		h.logger.Debug("running step", "scenario", scenario.Name, "step", n, "op", step.Op())
		if err := h.execute(ctx, n, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", n, step.Op(), err)
		}
	}
	return result, nil
}

func (h *Harness) execute(ctx context.Context, n int, step Step, result *Result) error {
	switch {
	case step.Insert != nil:
		statements, err := parseStatements(step.Insert)
		if err != nil {
			return err
		}
		if err := h.store.Insert(ctx, statements...); err != nil {
			return err
		}
		result.AddTrace(statementEvent(n, OpInsert, statements))

	case step.Delete != nil:
		statements, err := parseStatements(step.Delete)
		if err != nil {
			return err
		}
		if err := h.store.Delete(ctx, statements...); err != nil {
			return err
		}
		result.AddTrace(statementEvent(n, OpDelete, statements))

	case step.ExpectCount != nil:
		got, err := h.store.Count(ctx)
		if err != nil {
			return err
		}
		result.AddTrace(TraceEvent{Step: n, Op: OpExpectCount, Count: got})
		if got != *step.ExpectCount {
			result.AddError(fmt.Sprintf("step %d (%s): expected %d, got %d", n, OpExpectCount, *step.ExpectCount, got))
		}

	case step.ExpectQuery != nil:
		pattern, err := parsePattern(step.ExpectQuery.Pattern)
		if err != nil {
			return err
		}
		got, err := rdf.Collect(h.store.Query(ctx, pattern))
		if err != nil {
			return err
		}
		want, err := parseStatements(step.ExpectQuery.Statements)
		if err != nil {
			return err
		}
		event := statementEvent(n, OpExpectQuery, got)
		result.AddTrace(event)
		compareSets(result, n, OpExpectQuery, statementLines(want), event.Output)

	case step.ExpectSubjects != nil:
		return h.expectTerms(n, OpExpectSubjects, h.store.EachSubject(ctx), *step.ExpectSubjects, result)
	case step.ExpectPredicates != nil:
		return h.expectTerms(n, OpExpectPredicates, h.store.EachPredicate(ctx), *step.ExpectPredicates, result)
	case step.ExpectObjects != nil:
		return h.expectTerms(n, OpExpectObjects, h.store.EachObject(ctx), *step.ExpectObjects, result)
	case step.ExpectContexts != nil:
		return h.expectTerms(n, OpExpectContexts, h.store.EachContext(ctx), *step.ExpectContexts, result)

	default:
		return fmt.Errorf("step has no operation")
	}
	return nil
}

func (h *Harness) expectTerms(n int, op string, seq iter.Seq2[rdf.Term, error], want []string, result *Result) error {
	var got []string
	for t, err := range seq {
		if err != nil {
			return err
		}
		got = append(got, rdf.Format(t))
	}
	slices.Sort(got)
	result.AddTrace(TraceEvent{Step: n, Op: op, Count: int64(len(got)), Output: got})

	// Normalize expected terms through the parser so escapes compare equal.
	canonical := make([]string, 0, len(want))
	for _, w := range want {
		t, err := rdf.ParseTerm(w)
		if err != nil {
			return err
		}
		canonical = append(canonical, t.String())
	}
	compareSets(result, n, op, canonical, got)
	return nil
}

func statementEvent(n int, op string, statements []rdf.Statement) TraceEvent {
	return TraceEvent{
		Step:   n,
		Op:     op,
		Count:  int64(len(statements)),
		Output: statementLines(statements),
	}
}

// statementLines returns sorted N-Quads lines.
func statementLines(statements []rdf.Statement) []string {
	lines := make([]string, len(statements))
	for i, st := range statements {
		lines[i] = st.String()
	}
	slices.Sort(lines)
	return lines
}

// compareSets records an error unless want and got hold the same values.
// got must be sorted.
func compareSets(result *Result, n int, op string, want, got []string) {
	want = slices.Clone(want)
	slices.Sort(want)
	if slices.Equal(want, got) {
		return
	}
	result.AddError(fmt.Sprintf("step %d (%s): expected %q, got %q", n, op, want, got))
}
