package reasoning

import "strings"

// DetermineComplexity grades a query from its word count and classification.
//
// Coding queries are complex when long or about system design or algorithms,
// medium for data structures and web development, simple otherwise. Verbal and
// non-verbal reasoning is medium when long or a syllogism/argument, simple
// otherwise. Everything else counts indicators (calculation, research,
// multi-step, more than 30 words): at most one is simple, four is complex.
func DetermineComplexity(query string, c *Classification) Complexity {
	words := len(strings.Fields(query))

	switch {
	case c.IsCoding:
		switch {
		case words > 50 || c.CodingType == CodingSystemDesign || c.CodingType == CodingAlgorithms:
			return ComplexityComplex
		case c.CodingType == CodingDataStructures || c.CodingType == CodingWebDevelopment:
			return ComplexityMedium
		default:
			return ComplexitySimple
		}
	case c.IsVerbalReasoning || c.IsNonVerbalReasoning:
		if words > 50 || c.ReasoningSubtype == SubtypeSyllogism || c.ReasoningSubtype == SubtypeStatementArgument {
			return ComplexityMedium
		}
		return ComplexitySimple
	}

	indicators := 0
	for _, on := range []bool{c.RequiresCalculation, c.RequiresResearch, c.RequiresMultiStepReasoning, words > 30} {
		if on {
			indicators++
		}
	}
	switch {
	case indicators <= 1:
		return ComplexitySimple
	case indicators <= 3:
		return ComplexityMedium
	default:
		return ComplexityComplex
	}
}
