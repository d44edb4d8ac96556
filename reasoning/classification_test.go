package reasoning

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
)

func TestParseClassification(t *testing.T) {
	c, err := parseClassification(mathClassification)
	if err != nil {
		t.Fatalf("parseClassification error: %v", err)
	}
	if c.Domain != DomainMathematics || c.Complexity != ComplexitySimple {
		t.Fatalf("unexpected domain/complexity %q/%q", c.Domain, c.Complexity)
	}
	if c.CalculationType != CalcPercentage || c.ReasoningType != "" || c.CodingType != "" {
		t.Fatalf("unexpected tags %+v", c)
	}
	if c.Parameters["percent"] != float64(15) {
		t.Fatalf("unexpected parameters %v", c.Parameters)
	}
}

func TestParseClassificationDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Complexity
	}{
		{name: "missing complexity", raw: `{"domain":"general"}`, want: ComplexityMedium},
		{name: "empty complexity", raw: `{"domain":"general","complexity":""}`, want: ComplexityMedium},
		{name: "unknown complexity", raw: `{"domain":"general","complexity":"extreme"}`, want: ComplexityMedium},
		{name: "upper case", raw: `{"domain":"General","complexity":"COMPLEX"}`, want: ComplexityComplex},
		{name: "fenced", raw: "```json\n{\"domain\":\"logic\",\"complexity\":\"simple\"}\n```", want: ComplexitySimple},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parseClassification(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Complexity != tt.want {
				t.Fatalf("complexity = %q, want %q", c.Complexity, tt.want)
			}
			if c.Parameters == nil {
				t.Fatal("parameters must not be nil")
			}
		})
	}
}

func TestParseClassificationSchemaViolations(t *testing.T) {
	tests := map[string]string{
		"not json":         "I think this is maths",
		"missing domain":   `{"complexity":"simple"}`,
		"unknown domain":   `{"domain":"astrology"}`,
		"unknown subtype":  `{"domain":"verbal_reasoning","reasoning_subtype":"riddles"}`,
		"unknown calc":     `{"domain":"mathematics","calculation_type":"arithmetic_magic"}`,
		"wrong field type": `{"domain":"general","is_coding":"yes"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseClassification(raw)
			if !errors.Is(err, rerrors.ErrClassificationParse) {
				t.Fatalf("expected ErrClassificationParse, got %v", err)
			}
		})
	}
}

func TestParseClassificationNullSpellings(t *testing.T) {
	c, err := parseClassification(`{"domain":"programming","coding_type":"None","reasoning_type":"null"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.CodingType != "" || c.ReasoningType != "" {
		t.Fatalf("expected absent tags, got %+v", c)
	}
}

func TestClassificationMarshalsAbsentTagsAsNull(t *testing.T) {
	c := HeuristicClassify("hello there")
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"calculation_type":null`, `"coding_type":null`, `"domain":"general"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestProblemType(t *testing.T) {
	tests := []struct {
		c    Classification
		want string
	}{
		{Classification{Domain: DomainProgramming, CodingType: CodingAlgorithms, ReasoningSubtype: SubtypeAnalogy}, "algorithms"},
		{Classification{Domain: DomainVerbalReasoning, ReasoningSubtype: SubtypeAnalogy, CalculationType: CalcAlgebra}, "analogy"},
		{Classification{Domain: DomainMathematics, CalculationType: CalcAlgebra}, "algebra"},
		{Classification{Domain: DomainFactual}, "factual"},
	}
	for _, tt := range tests {
		if got := tt.c.ProblemType(); got != tt.want {
			t.Errorf("ProblemType() = %q, want %q", got, tt.want)
		}
	}
}

func TestClassificationClone(t *testing.T) {
	c := Classification{Domain: DomainGeneral, Parameters: map[string]any{"a": 1}}
	clone := c.Clone()
	clone.Parameters["a"] = 2
	if c.Parameters["a"] != 1 {
		t.Fatal("clone shares parameters with original")
	}
}
