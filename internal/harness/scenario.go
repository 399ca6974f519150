package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/quadsql/internal/codec"
	"github.com/roach88/quadsql/internal/config"
	"github.com/roach88/quadsql/internal/rdf"
)

// Scenario is a scripted run against a fresh store.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// DB is the store locator. Empty means a private in-memory store.
	DB string `yaml:"db,omitempty"`

	// Adapter overrides the dialect taken from DB.
	Adapter string `yaml:"adapter,omitempty"`

	// Prefixes is the store's prefix table, in lookup order.
	Prefixes []codec.Prefix `yaml:"prefixes,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Config returns the store configuration of the scenario.
func (s *Scenario) Config() config.Config {
	return config.Config{DB: s.DB, Adapter: s.Adapter, Prefixes: s.Prefixes}
}

// Step is one scenario step. Exactly one field is set.
type Step struct {
	Insert []string `yaml:"insert,omitempty"`
	Delete []string `yaml:"delete,omitempty"`

	ExpectCount *int64 `yaml:"expect_count,omitempty"`

	ExpectQuery *QueryExpectation `yaml:"expect_query,omitempty"`

	ExpectSubjects   *[]string `yaml:"expect_subjects,omitempty"`
	ExpectPredicates *[]string `yaml:"expect_predicates,omitempty"`
	ExpectObjects    *[]string `yaml:"expect_objects,omitempty"`
	ExpectContexts   *[]string `yaml:"expect_contexts,omitempty"`
}

// QueryExpectation is a pattern query and the statements it should yield.
type QueryExpectation struct {
	// Pattern maps column names to N-Triples terms, or "nil" for no context.
	Pattern map[string]string `yaml:"pattern"`

	Statements []string `yaml:"statements"`
}

// Step operation names, as used in traces.
const (
	OpInsert           = "insert"
	OpDelete           = "delete"
	OpExpectCount      = "expect_count"
	OpExpectQuery      = "expect_query"
	OpExpectSubjects   = "expect_subjects"
	OpExpectPredicates = "expect_predicates"
	OpExpectObjects    = "expect_objects"
	OpExpectContexts   = "expect_contexts"
)

// Op returns the operation name of the step, or "" if no field is set.
// When several fields are set the first in declaration order wins; Validate
// rejects such steps.
func (s Step) Op() string {
	ops := s.ops()
	if len(ops) == 0 {
		return ""
	}
	return ops[0]
}

func (s Step) ops() []string {
	var ops []string
	if s.Insert != nil {
		ops = append(ops, OpInsert)
	}
	if s.Delete != nil {
		ops = append(ops, OpDelete)
	}
	if s.ExpectCount != nil {
		ops = append(ops, OpExpectCount)
	}
	if s.ExpectQuery != nil {
		ops = append(ops, OpExpectQuery)
	}
	if s.ExpectSubjects != nil {
		ops = append(ops, OpExpectSubjects)
	}
	if s.ExpectPredicates != nil {
		ops = append(ops, OpExpectPredicates)
	}
	if s.ExpectObjects != nil {
		ops = append(ops, OpExpectObjects)
	}
	if s.ExpectContexts != nil {
		ops = append(ops, OpExpectContexts)
	}
	return ops
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos do not silently skip steps.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// Validate checks required fields and parses every statement and term the
// steps mention.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	if err := s.Config().Validate(); err != nil {
		return err
	}
	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch ops := step.ops(); len(ops) {
	case 0:
		return fmt.Errorf("step has no operation")
	case 1:
	default:
		return fmt.Errorf("step has several operations %v", ops)
	}

	switch {
	case step.Insert != nil:
		_, err := parseStatements(step.Insert)
		return err
	case step.Delete != nil:
		_, err := parseStatements(step.Delete)
		return err
	case step.ExpectCount != nil:
		if *step.ExpectCount < 0 {
			return fmt.Errorf("expect_count must be non-negative")
		}
	case step.ExpectQuery != nil:
		if _, err := parsePattern(step.ExpectQuery.Pattern); err != nil {
			return err
		}
		_, err := parseStatements(step.ExpectQuery.Statements)
		return err
	default:
		for _, values := range [][]string{
			deref(step.ExpectSubjects), deref(step.ExpectPredicates),
			deref(step.ExpectObjects), deref(step.ExpectContexts),
		} {
			for _, v := range values {
				if _, err := rdf.ParseTerm(v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func deref(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}

func parseStatements(lines []string) ([]rdf.Statement, error) {
	out := make([]rdf.Statement, 0, len(lines))
	for i, line := range lines {
		st, ok, err := rdf.ParseNQuad(line)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		if !ok {
			return nil, fmt.Errorf("statement %d: empty line", i)
		}
		out = append(out, st)
	}
	return out, nil
}

func parsePattern(raw map[string]string) (rdf.Pattern, error) {
	p := make(rdf.Pattern, len(raw))
	for name, value := range raw {
		col, err := rdf.ParseColumn(name)
		if err != nil {
			return nil, err
		}
		if value == codec.NoValue {
			p[col] = nil
			continue
		}
		t, err := rdf.ParseTerm(value)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", name, err)
		}
		p[col] = t
	}
	return p, nil
}
