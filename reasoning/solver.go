package reasoning

import (
	"context"
)

// Solution is the output of a solver.
type Solution interface {
	// Kind is "direct_solution" or "research_based_answer".
	Kind() string
	// Answer is the extracted final answer.
	Answer() string
	// Sources lists canonical evidence URLs, in first-seen order.
	Sources() []string
}

// Solver answers a classified query.
type Solver interface {
	Solve(ctx context.Context, query string, c *Classification) (Solution, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, query string, c *Classification) (Solution, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, query string, c *Classification) (Solution, error) {
	return f(ctx, query, c)
}

// DirectSolution is produced by the direct solver.
type DirectSolution struct {
	Type             string           `json:"type"`
	Content          string           `json:"content"`
	FinalAnswer      string           `json:"final_answer"`
	ProblemType      string           `json:"problem_type"`
	Complexity       Complexity       `json:"complexity"`
	SolvedDirectly   bool             `json:"solved_directly"`
	ReasoningType    ReasoningType    `json:"reasoning_type"`
	ReasoningSubtype ReasoningSubtype `json:"reasoning_subtype"`
	CodingType       CodingType       `json:"coding_type"`
}

func (s *DirectSolution) Kind() string      { return s.Type }
func (s *DirectSolution) Answer() string    { return s.FinalAnswer }
func (s *DirectSolution) Sources() []string { return nil }

// ResearchQuality is high when at least one provider contributed.
type ResearchQuality string

const (
	QualityHigh    ResearchQuality = "high"
	QualityLimited ResearchQuality = "limited"
)

// ResearchSolution is produced by the research solver.
type ResearchSolution struct {
	Type            string          `json:"type"`
	Content         string          `json:"content"`
	FinalAnswer     string          `json:"final_answer"`
	SourcesUsed     int             `json:"sources_used"`
	ResearchQuality ResearchQuality `json:"research_quality"`

	sources []string
}

func (s *ResearchSolution) Kind() string   { return s.Type }
func (s *ResearchSolution) Answer() string { return s.FinalAnswer }

func (s *ResearchSolution) Sources() []string {
	out := make([]string, len(s.sources))
	copy(out, s.sources)
	return out
}

const (
	kindDirect   = "direct_solution"
	kindResearch = "research_based_answer"
)
