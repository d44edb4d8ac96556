package reasoning

import (
	"context"
	"errors"
	"strings"
	"testing"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/pkg/logging"
)

func newTestDirect(stub *scriptedLLM) *directSolver {
	return newDirectSolver(applyOptions(stub, []Option{WithLogger(logging.Discard())}))
}

func TestDirectSolve(t *testing.T) {
	stub := &scriptedLLM{
		framework: "PERCENTAGE FRAMEWORK:\n1. IDENTIFY: find base",
		solution:  "SOLUTION:\nStep 1: ...\nFINAL ANSWER: 30\n\nDone.",
	}
	c, err := parseClassification(mathClassification)
	if err != nil {
		t.Fatal(err)
	}

	sol, err := newTestDirect(stub).Solve(context.Background(), "What is 15% of 200?", &c)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	direct, ok := sol.(*DirectSolution)
	if !ok {
		t.Fatalf("unexpected solution type %T", sol)
	}
	if direct.Type != "direct_solution" || direct.FinalAnswer != "30" || !direct.SolvedDirectly {
		t.Fatalf("unexpected solution %+v", direct)
	}
	if direct.ProblemType != "percentage" || direct.Complexity != ComplexitySimple {
		t.Fatalf("unexpected problem type %+v", direct)
	}
	if len(sol.Sources()) != 0 {
		t.Fatal("direct solutions carry no sources")
	}

	fw := stub.find(isFrameworkRequest)
	if fw == nil || fw.Temperature != frameworkTemperature || fw.MaxTokens != frameworkMaxTokens {
		t.Fatalf("unexpected framework request %+v", fw)
	}
	if !strings.Contains(fw.UserPrompt, "Calculation Type: percentage") || !strings.Contains(fw.UserPrompt, "Coding Type: general") {
		t.Fatalf("framework prompt missing type context:\n%s", fw.UserPrompt)
	}

	req := stub.find(isSolutionRequest)
	if req == nil {
		t.Fatal("no solution request recorded")
	}
	if req.Temperature != mathTemperature || req.MaxTokens != solutionMaxTokens {
		t.Fatalf("unexpected solution params %+v", req)
	}
	for _, want := range []string{"PROBLEM: What is 15% of 200?", "PERCENTAGE FRAMEWORK:", "FINAL ANSWER:", `"percent":15`} {
		if !strings.Contains(req.UserPrompt, want) {
			t.Fatalf("solution prompt missing %q", want)
		}
	}
}

func TestDirectSolveNonMathTemperature(t *testing.T) {
	stub := &scriptedLLM{framework: "F", solution: "FINAL ANSWER: ok"}
	c := HeuristicClassify("Write python code to reverse a string")
	if _, err := newTestDirect(stub).Solve(context.Background(), "Write python code to reverse a string", &c); err != nil {
		t.Fatal(err)
	}
	if req := stub.find(isSolutionRequest); req == nil || req.Temperature != solveTemperature {
		t.Fatalf("expected temperature %v, got %+v", solveTemperature, req)
	}
}

func TestDirectSolveFrameworkFallback(t *testing.T) {
	for name, stub := range map[string]*scriptedLLM{
		"error": {frameworkErr: errStub, solution: "no marker here"},
		"empty": {framework: "  ", solution: "no marker here"},
	} {
		t.Run(name, func(t *testing.T) {
			c := HeuristicClassify("How is Alice related to Bob's father?")
			sol, err := newTestDirect(stub).Solve(context.Background(), "How is Alice related to Bob's father?", &c)
			if err != nil {
				t.Fatalf("framework failure must not abort: %v", err)
			}
			if sol.Answer() != NoAnswer {
				t.Fatalf("expected sentinel answer, got %q", sol.Answer())
			}
			req := stub.find(isSolutionRequest)
			if req == nil || !strings.Contains(req.UserPrompt, "GENERAL PROBLEM SOLVING FRAMEWORK:") {
				t.Fatal("expected generic framework in solution prompt")
			}
			if !strings.Contains(req.UserPrompt, "Framework generated for verbal_reasoning domain with verbal reasoning.") {
				t.Fatal("generic framework should name the domain and reasoning type")
			}
			if sol.(*DirectSolution).ProblemType != "blood_relation" {
				t.Fatalf("unexpected problem type %q", sol.(*DirectSolution).ProblemType)
			}
		})
	}
}

func TestDirectSolveSolutionFailure(t *testing.T) {
	stub := &scriptedLLM{framework: "F", solutionErr: errStub}
	c := HeuristicClassify("Solve 2x + 3 = 7")
	_, err := newTestDirect(stub).Solve(context.Background(), "Solve 2x + 3 = 7", &c)
	if !errors.Is(err, rerrors.ErrGeneration) || !errors.Is(err, errStub) {
		t.Fatalf("expected wrapped generation error, got %v", err)
	}
}

func TestGenericFrameworkBuiltin(t *testing.T) {
	out := genericFramework(newTypeVars(&Classification{Domain: DomainLogic}))
	if !strings.Contains(out, "Framework generated for logic domain with general reasoning.") {
		t.Fatalf("unexpected generic framework:\n%s", out)
	}
}
