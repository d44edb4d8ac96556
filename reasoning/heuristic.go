package reasoning

import (
	"strings"
	"unicode"
)

var (
	mathKeywords    = []string{"calculate", "solve", "find", "determine", "compute", "percentage", "percent", "%", "profit", "loss", "speed", "distance", "time", "interest", "mixture", "work", "efficiency"}
	verbalKeywords  = []string{"father", "mother", "son", "daughter", "brother", "sister", "relation", "related", "photograph", "pointing"}
	kinshipKeywords = []string{"father", "mother", "son", "daughter", "relation", "related"}
	codingKeywords  = []string{"code", "program", "implement", "algorithm", "python", "java", "javascript", "function", "class", "array", "list"}
	factualPhrases  = []string{"what is", "who is", "define", "explain", "describe", "tell me about"}
)

// HeuristicClassify classifies a query from keyword cues alone. It is the
// fallback when the model is unreachable or returns something unusable, and
// never fails.
func HeuristicClassify(query string) Classification {
	lower := strings.ToLower(query)

	hasMath := containsAny(lower, mathKeywords) && strings.IndexFunc(query, unicode.IsDigit) >= 0
	hasVerbal := containsAny(lower, verbalKeywords)
	hasCoding := containsAny(lower, codingKeywords)
	hasFactual := containsAny(lower, factualPhrases)

	c := Classification{
		IsMathematical:             hasMath,
		IsLogicalReasoning:         hasVerbal,
		IsFactual:                  hasFactual,
		IsVerbalReasoning:          hasVerbal,
		IsSimpleSolvable:           true,
		IsCoding:                   hasCoding,
		RequiresCalculation:        hasMath,
		RequiresResearch:           hasFactual,
		RequiresMultiStepReasoning: hasMath || hasVerbal,
		Parameters:                 map[string]any{},
		ConfidenceLevel:            0.5,
	}

	switch {
	case hasMath:
		c.Domain = DomainMathematics
		c.CalculationType = calculationTypeFor(lower)
		c.QueryIntent = "solve"
	case hasVerbal:
		c.Domain = DomainVerbalReasoning
		c.QueryIntent = "relate"
	case hasCoding:
		c.Domain = DomainProgramming
		c.QueryIntent = "code"
	case hasFactual:
		c.Domain = DomainFactual
		c.QueryIntent = "explain"
	default:
		c.Domain = DomainGeneral
		c.QueryIntent = "general"
	}

	if hasVerbal {
		c.ReasoningType = ReasoningVerbal
		if containsAny(lower, kinshipKeywords) {
			c.ReasoningSubtype = SubtypeBloodRelation
		}
	}
	if hasCoding {
		c.CodingType = CodingGeneralProgramming
	}

	c.Complexity = DetermineComplexity(query, &c)
	return c
}

func calculationTypeFor(lower string) CalculationType {
	switch {
	case containsAny(lower, []string{"percentage", "percent", "%"}):
		return CalcPercentage
	case strings.Contains(lower, "mixture"):
		return CalcMixture
	case containsAny(lower, []string{"profit", "loss"}):
		return CalcProfitLoss
	case containsAny(lower, []string{"speed", "distance", "time"}):
		return CalcSpeedDistanceTime
	case containsAny(lower, []string{"work", "efficiency"}):
		return CalcWorkTime
	case strings.Contains(lower, "interest"):
		if strings.Contains(lower, "simple") {
			return CalcSimpleInterest
		}
		return CalcCompoundInterest
	default:
		return CalcGeneralMath
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
