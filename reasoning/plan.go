package reasoning

import (
	"encoding/json"
	"fmt"
	"time"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
)

// TaskType labels the kind of work a task records.
type TaskType string

const (
	TaskResearch           TaskType = "research"
	TaskAnalysis           TaskType = "analysis"
	TaskSynthesis          TaskType = "synthesis"
	TaskCreation           TaskType = "creation"
	TaskValidation         TaskType = "validation"
	TaskFormatting         TaskType = "formatting"
	TaskCalculation        TaskType = "calculation"
	TaskDirectSolve        TaskType = "direct_solve"
	TaskReasoning          TaskType = "reasoning"
	TaskVerbalReasoning    TaskType = "verbal_reasoning"
	TaskNonVerbalReasoning TaskType = "non_verbal_reasoning"
	TaskCoding             TaskType = "coding"
)

// TaskState is the lifecycle position of a task.
type TaskState string

const (
	TaskPending    TaskState = "pending"
	TaskInProgress TaskState = "in_progress"
	TaskCompleted  TaskState = "completed"
	TaskFailed     TaskState = "failed"
)

// DefaultMaxAttempts is the attempt budget given to new tasks.
const DefaultMaxAttempts = 3

// Approach is the route a plan takes.
type Approach string

const (
	ApproachDirect   Approach = "direct_solving"
	ApproachResearch Approach = "research_based"
)

// Task ids used by the planner.
const (
	DirectTaskID   = "direct_solve"
	ResearchTaskID = "research_and_answer"
)

// Task is one unit of a plan. Dependencies, attempts and the attempt budget
// are carried for multi-step plans; the planner currently emits a single
// completed task.
type Task struct {
	ID           string
	Type         TaskType
	Description  string
	Dependencies []string
	State        TaskState
	Result       any
	Error        string
	Attempts     int
	MaxAttempts  int
	Parameters   map[string]any
}

// NewTask creates a pending task with the default attempt budget.
func NewTask(id string, typ TaskType, description string) *Task {
	return &Task{
		ID:           id,
		Type:         typ,
		Description:  description,
		Dependencies: []string{},
		State:        TaskPending,
		MaxAttempts:  DefaultMaxAttempts,
		Parameters:   map[string]any{},
	}
}

// Transition moves the task to next. Allowed moves are pending→in_progress,
// in_progress→completed|failed, and failed→pending while attempts remain.
// Starting a task counts an attempt.
func (t *Task) Transition(next TaskState) error {
	ok := false
	switch t.State {
	case TaskPending:
		ok = next == TaskInProgress
	case TaskInProgress:
		ok = next == TaskCompleted || next == TaskFailed
	case TaskFailed:
		ok = next == TaskPending && t.Attempts < t.MaxAttempts
	}
	if !ok {
		return fmt.Errorf("%w: task %s cannot move from %s to %s", rerrors.ErrInvalidTransition, t.ID, t.State, next)
	}
	if next == TaskInProgress {
		t.Attempts++
	}
	if next != TaskFailed {
		t.Error = ""
	}
	t.State = next
	return nil
}

// Fail records err and moves an in-progress task to failed.
func (t *Task) Fail(err error) error {
	if transErr := t.Transition(TaskFailed); transErr != nil {
		return transErr
	}
	if err != nil {
		t.Error = err.Error()
	}
	return nil
}

type taskJSON struct {
	ID           string         `json:"id"`
	Type         TaskType       `json:"type"`
	Description  string         `json:"description"`
	State        TaskState      `json:"state"`
	Dependencies []string       `json:"dependencies"`
	Parameters   map[string]any `json:"parameters"`
	Error        *string        `json:"error"`
}

// MarshalJSON renders the task's public fields; an empty error is null.
func (t *Task) MarshalJSON() ([]byte, error) {
	out := taskJSON{
		ID:           t.ID,
		Type:         t.Type,
		Description:  t.Description,
		State:        t.State,
		Dependencies: t.Dependencies,
		Parameters:   t.Parameters,
	}
	if out.Dependencies == nil {
		out.Dependencies = []string{}
	}
	if out.Parameters == nil {
		out.Parameters = map[string]any{}
	}
	if t.Error != "" {
		out.Error = &t.Error
	}
	return json.Marshal(out)
}

// ExecutionPlan records how a query was routed.
type ExecutionPlan struct {
	Goal      string         `json:"goal"`
	Tasks     []*Task        `json:"tasks"`
	Context   map[string]any `json:"context"`
	CreatedAt float64        `json:"created_at"`
}

// Approach returns the route recorded in the plan context.
func (p *ExecutionPlan) Approach() Approach {
	if p == nil {
		return ""
	}
	a, _ := p.Context["approach"].(Approach)
	return a
}

// Route picks research only for non-mathematical, non-coding queries that
// need outside facts.
func Route(c *Classification) Approach {
	if c.RequiresResearch && !c.IsMathematical && !c.IsCoding {
		return ApproachResearch
	}
	return ApproachDirect
}

// DirectTaskType picks coding, verbal, non-verbal or plain direct solving,
// in that order.
func DirectTaskType(c *Classification) TaskType {
	switch {
	case c.IsCoding:
		return TaskCoding
	case c.IsVerbalReasoning:
		return TaskVerbalReasoning
	case c.IsNonVerbalReasoning:
		return TaskNonVerbalReasoning
	default:
		return TaskDirectSolve
	}
}

// BuildPlan creates the single-task plan for query. The task is created
// completed: the plan records a routing decision rather than pending work.
func BuildPlan(query string, c Classification, maxDepth int) *ExecutionPlan {
	snapshot := c.Clone()
	approach := Route(&snapshot)

	var task *Task
	switch approach {
	case ApproachResearch:
		task = NewTask(ResearchTaskID, TaskResearch, "Research and answer: "+query)
	default:
		subject := "problem"
		switch {
		case snapshot.CodingType != "":
			subject = string(snapshot.CodingType)
		case snapshot.ReasoningSubtype != "":
			subject = string(snapshot.ReasoningSubtype)
		}
		task = NewTask(DirectTaskID, DirectTaskType(&snapshot), fmt.Sprintf("Solve the %s: %s", subject, query))
	}
	task.State = TaskCompleted
	task.Parameters = snapshot.Clone().Parameters

	return &ExecutionPlan{
		Goal:  query,
		Tasks: []*Task{task},
		Context: map[string]any{
			"approach":     approach,
			"problem_type": snapshot,
			"complexity":   snapshot.Complexity,
			"max_depth":    maxDepth,
		},
		CreatedAt: unixSeconds(time.Now()),
	}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
