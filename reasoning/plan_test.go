package reasoning

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
)

func TestRoute(t *testing.T) {
	for _, research := range []bool{false, true} {
		for _, math := range []bool{false, true} {
			for _, coding := range []bool{false, true} {
				c := Classification{RequiresResearch: research, IsMathematical: math, IsCoding: coding}
				want := ApproachDirect
				if research && !math && !coding {
					want = ApproachResearch
				}
				if got := Route(&c); got != want {
					t.Errorf("Route(research=%v math=%v coding=%v) = %q, want %q", research, math, coding, got, want)
				}
			}
		}
	}
}

func TestDirectTaskType(t *testing.T) {
	tests := []struct {
		c    Classification
		want TaskType
	}{
		{Classification{IsCoding: true, IsVerbalReasoning: true}, TaskCoding},
		{Classification{IsVerbalReasoning: true, IsNonVerbalReasoning: true}, TaskVerbalReasoning},
		{Classification{IsNonVerbalReasoning: true}, TaskNonVerbalReasoning},
		{Classification{IsMathematical: true}, TaskDirectSolve},
	}
	for _, tt := range tests {
		if got := DirectTaskType(&tt.c); got != tt.want {
			t.Errorf("DirectTaskType(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestBuildPlanDirect(t *testing.T) {
	c := Classification{
		Domain:           DomainProgramming,
		Complexity:       ComplexityMedium,
		IsCoding:         true,
		CodingType:       CodingDataStructures,
		Parameters:       map[string]any{"language": "go"},
		QueryIntent:      "code",
		IsFactual:        true,
		RequiresResearch: true,
	}
	plan := BuildPlan("Implement a stack", c, 5)

	if plan.Goal != "Implement a stack" || len(plan.Tasks) != 1 {
		t.Fatalf("unexpected plan %+v", plan)
	}
	task := plan.Tasks[0]
	if task.ID != DirectTaskID || task.Type != TaskCoding || task.State != TaskCompleted {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.Description != "Solve the data_structures: Implement a stack" {
		t.Fatalf("unexpected description %q", task.Description)
	}
	if plan.Approach() != ApproachDirect {
		t.Fatalf("approach = %q", plan.Approach())
	}
	if plan.Context["complexity"] != ComplexityMedium || plan.Context["max_depth"] != 5 {
		t.Fatalf("unexpected context %v", plan.Context)
	}
	if len(task.Dependencies) != 0 || task.MaxAttempts != DefaultMaxAttempts {
		t.Fatalf("unexpected task bookkeeping %+v", task)
	}

	// the plan keeps its own copy of the classification
	c.Parameters["language"] = "rust"
	snapshot := plan.Context["problem_type"].(Classification)
	if snapshot.Parameters["language"] != "go" || task.Parameters["language"] != "go" {
		t.Fatal("plan shares parameters with the caller")
	}
}

func TestBuildPlanDescriptions(t *testing.T) {
	c := Classification{Domain: DomainVerbalReasoning, IsVerbalReasoning: true, ReasoningSubtype: SubtypeBloodRelation}
	if got := BuildPlan("q", c, 1).Tasks[0].Description; got != "Solve the blood_relation: q" {
		t.Fatalf("unexpected description %q", got)
	}
	c = Classification{Domain: DomainMathematics, IsMathematical: true}
	if got := BuildPlan("q", c, 1).Tasks[0].Description; got != "Solve the problem: q" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestBuildPlanResearch(t *testing.T) {
	c := Classification{Domain: DomainFactual, Complexity: ComplexitySimple, RequiresResearch: true}
	plan := BuildPlan("Who wrote Dune?", c, 3)
	task := plan.Tasks[0]
	if task.ID != ResearchTaskID || task.Type != TaskResearch || task.State != TaskCompleted {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.Description != "Research and answer: Who wrote Dune?" {
		t.Fatalf("unexpected description %q", task.Description)
	}
	if plan.Approach() != ApproachResearch {
		t.Fatalf("approach = %q", plan.Approach())
	}
	if plan.CreatedAt <= 0 {
		t.Fatal("created_at not set")
	}
}

func TestPlanJSON(t *testing.T) {
	plan := BuildPlan("q", HeuristicClassify("q"), 5)
	data, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`"id":"direct_solve"`,
		`"type":"direct_solve"`,
		`"state":"completed"`,
		`"dependencies":[]`,
		`"parameters":{}`,
		`"error":null`,
		`"approach":"direct_solving"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
	if strings.Contains(out, "attempts") {
		t.Fatalf("attempt bookkeeping should not be serialised: %s", out)
	}
}

func TestTaskTransition(t *testing.T) {
	task := NewTask("t1", TaskCalculation, "compute")
	if task.State != TaskPending {
		t.Fatalf("new task state = %q", task.State)
	}
	if err := task.Transition(TaskCompleted); !errors.Is(err, rerrors.ErrInvalidTransition) {
		t.Fatalf("pending→completed should fail, got %v", err)
	}

	for attempt := 1; attempt <= DefaultMaxAttempts; attempt++ {
		if err := task.Transition(TaskInProgress); err != nil {
			t.Fatalf("attempt %d start: %v", attempt, err)
		}
		if err := task.Fail(errors.New("boom")); err != nil {
			t.Fatalf("attempt %d fail: %v", attempt, err)
		}
		if task.Error != "boom" || task.Attempts != attempt {
			t.Fatalf("unexpected task after failure %+v", task)
		}
		err := task.Transition(TaskPending)
		if attempt < DefaultMaxAttempts && err != nil {
			t.Fatalf("retry %d should be allowed: %v", attempt, err)
		}
		if attempt == DefaultMaxAttempts && !errors.Is(err, rerrors.ErrInvalidTransition) {
			t.Fatalf("budget exhausted, expected ErrInvalidTransition, got %v", err)
		}
	}
}

func TestTaskTransitionCompleted(t *testing.T) {
	task := NewTask("t1", TaskAnalysis, "analyse")
	if err := task.Transition(TaskInProgress); err != nil {
		t.Fatal(err)
	}
	if err := task.Transition(TaskCompleted); err != nil {
		t.Fatal(err)
	}
	if err := task.Transition(TaskInProgress); !errors.Is(err, rerrors.ErrInvalidTransition) {
		t.Fatalf("completed tasks are terminal, got %v", err)
	}
}
