package harness

// TraceEvent records what one step did or observed.
type TraceEvent struct {
	Step int    `json:"step"`
	Op   string `json:"op"`

	// Count is the number of statements written, the row count, or the
	// number of values observed.
	Count int64 `json:"count"`

	// Output lists statements or terms in sorted order.
	Output []string `json:"output,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	Trace []TraceEvent `json:"trace"`

	// Errors describes each failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
