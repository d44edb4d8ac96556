package reasoning

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
)

// Envelope is the response returned for every query.
type Envelope struct {
	Success       bool            `json:"success"`
	Result        any             `json:"result"`
	ExecutionPlan *ExecutionPlan  `json:"execution_plan"`
	ExecutionTime float64         `json:"execution_time"`
	SourcesUsed   []string        `json:"sources_used"`
	ProblemType   *Classification `json:"problem_type,omitempty"`
}

// ErrorResult is the result of a failed query.
type ErrorResult struct {
	Error string `json:"error"`
}

// Solution returns the solver output of a successful envelope.
func (e *Envelope) Solution() (Solution, bool) {
	s, ok := e.Result.(Solution)
	return s, ok
}

// Err returns the failure message, or "" on success.
func (e *Envelope) Err() string {
	if r, ok := e.Result.(ErrorResult); ok {
		return r.Error
	}
	return ""
}

// MarshalJSON renders a missing plan as {} and missing sources as [].
func (e Envelope) MarshalJSON() ([]byte, error) {
	type alias Envelope
	var plan any = struct{}{}
	if e.ExecutionPlan != nil {
		plan = e.ExecutionPlan
	}
	sources := e.SourcesUsed
	if sources == nil {
		sources = []string{}
	}
	return json.Marshal(struct {
		alias
		ExecutionPlan any      `json:"execution_plan"`
		SourcesUsed   []string `json:"sources_used"`
	}{
		alias:         alias(e),
		ExecutionPlan: plan,
		SourcesUsed:   sources,
	})
}

// Assemble builds the success envelope. Sources are copied only when
// includeSources is set.
func Assemble(sol Solution, plan *ExecutionPlan, c Classification, start time.Time, includeSources bool) (*Envelope, error) {
	if sol == nil {
		return nil, fmt.Errorf("%w: solver returned no solution", rerrors.ErrGeneration)
	}
	if plan == nil || len(plan.Tasks) == 0 {
		return nil, errors.New("execution plan has no tasks")
	}
	sources := []string{}
	if includeSources {
		sources = append(sources, sol.Sources()...)
	}
	snapshot := c.Clone()
	return &Envelope{
		Success:       true,
		Result:        sol,
		ExecutionPlan: plan,
		ExecutionTime: time.Since(start).Seconds(),
		SourcesUsed:   sources,
		ProblemType:   &snapshot,
	}, nil
}

// Failure builds the envelope for a query that could not be answered.
func Failure(err error, start time.Time) *Envelope {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Envelope{
		Success:       false,
		Result:        ErrorResult{Error: msg},
		ExecutionTime: time.Since(start).Seconds(),
		SourcesUsed:   []string{},
	}
}
