package reasoning

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFailureEnvelopeJSON(t *testing.T) {
	env := Failure(errors.New("model exploded"), time.Now().Add(-time.Second))
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["success"] != false {
		t.Fatalf("success = %v", decoded["success"])
	}
	result := decoded["result"].(map[string]any)
	if len(result) != 1 || result["error"] != "model exploded" {
		t.Fatalf("unexpected result %v", result)
	}
	if plan, ok := decoded["execution_plan"].(map[string]any); !ok || len(plan) != 0 {
		t.Fatalf("execution_plan = %v, want {}", decoded["execution_plan"])
	}
	if sources, ok := decoded["sources_used"].([]any); !ok || len(sources) != 0 {
		t.Fatalf("sources_used = %v, want []", decoded["sources_used"])
	}
	if _, ok := decoded["problem_type"]; ok {
		t.Fatal("problem_type should be omitted on failure")
	}
	if decoded["execution_time"].(float64) < 1 {
		t.Fatalf("execution time not reported: %v", decoded["execution_time"])
	}
	if env.Err() != "model exploded" {
		t.Fatalf("Err() = %q", env.Err())
	}
}

func TestFailureNilError(t *testing.T) {
	if got := Failure(nil, time.Now()).Err(); got == "" {
		t.Fatal("failure envelopes always carry a message")
	}
}

func TestAssemble(t *testing.T) {
	c := HeuristicClassify("Who is Ada Lovelace?")
	plan := BuildPlan("Who is Ada Lovelace?", c, 5)
	sol := &ResearchSolution{Type: kindResearch, FinalAnswer: "a mathematician", SourcesUsed: 1, ResearchQuality: QualityHigh, sources: []string{"https://a.io"}}

	env, err := Assemble(sol, plan, c, time.Now(), true)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !env.Success || len(env.SourcesUsed) != 1 || env.ProblemType == nil {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if s, ok := env.Solution(); !ok || s.Answer() != "a mathematician" {
		t.Fatal("Solution() should expose the solver output")
	}

	env, err = Assemble(sol, plan, c, time.Now(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(env.SourcesUsed) != 0 || env.SourcesUsed == nil {
		t.Fatalf("sources should be an empty list when excluded, got %#v", env.SourcesUsed)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	result := decoded["result"].(map[string]any)
	if result["type"] != "research_based_answer" || result["research_quality"] != "high" {
		t.Fatalf("unexpected result %v", result)
	}
	if plan := decoded["execution_plan"].(map[string]any); plan["goal"] != "Who is Ada Lovelace?" {
		t.Fatalf("unexpected plan %v", plan)
	}
}

func TestAssembleRejectsMissingParts(t *testing.T) {
	c := HeuristicClassify("q")
	if _, err := Assemble(nil, BuildPlan("q", c, 1), c, time.Now(), true); err == nil {
		t.Fatal("expected error for missing solution")
	}
	if _, err := Assemble(&DirectSolution{}, nil, c, time.Now(), true); err == nil {
		t.Fatal("expected error for missing plan")
	}
}
