package reasoning

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sweetpotato0/ai-reasoner/llm"
)

// scriptedLLM answers by recognising which prompt it was given.
type scriptedLLM struct {
	mu sync.Mutex

	classification string
	classifyErr    error
	framework      string
	frameworkErr   error
	solution       string
	solutionErr    error
	research       string
	researchErr    error

	requests []*llm.Request
}

func (s *scriptedLLM) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	var text string
	var err error
	switch {
	case req.JSONMode:
		text, err = s.classification, s.classifyErr
	case strings.Contains(req.UserPrompt, "problem-solving framework"):
		text, err = s.framework, s.frameworkErr
	case strings.Contains(req.UserPrompt, "RESEARCH SUMMARY"):
		text, err = s.research, s.researchErr
	default:
		text, err = s.solution, s.solutionErr
	}
	if err != nil {
		return nil, err
	}
	return &llm.Response{Text: text, Model: "stub"}, nil
}

func (s *scriptedLLM) find(pred func(*llm.Request) bool) *llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if pred(r) {
			return r
		}
	}
	return nil
}

func isSolutionRequest(r *llm.Request) bool {
	return strings.Contains(r.UserPrompt, "PROBLEM ANALYSIS:")
}

func isFrameworkRequest(r *llm.Request) bool {
	return strings.Contains(r.UserPrompt, "problem-solving framework")
}

var errStub = errors.New("stub failure")

const mathClassification = `{
  "is_mathematical": true, "is_logical_reasoning": false, "is_analytical": false, "is_creative": false,
  "is_factual": false, "is_verbal_reasoning": false, "is_non_verbal_reasoning": false,
  "is_simple_solvable": true, "is_coding": false, "domain": "mathematics",
  "requires_calculation": true, "requires_research": false, "requires_multi_step_reasoning": false,
  "complexity": "simple", "calculation_type": "percentage", "reasoning_type": null,
  "reasoning_subtype": null, "coding_type": null, "parameters": {"value": 200, "percent": 15},
  "query_intent": "solve", "confidence_level": 0.95
}`

const factualClassification = `{
  "is_mathematical": false, "is_factual": true, "is_simple_solvable": true, "is_coding": false,
  "domain": "factual", "requires_research": true, "complexity": "simple",
  "calculation_type": null, "reasoning_type": null, "reasoning_subtype": null, "coding_type": null,
  "parameters": {}, "query_intent": "explain", "confidence_level": 0.9
}`
