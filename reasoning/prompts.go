package reasoning

import (
	"github.com/sweetpotato0/ai-reasoner/prompt"
)

// Template names registered by DefaultPrompts. Callers may replace any of
// them through WithPrompts; the solution and research templates must keep the
// FINAL ANSWER: line that ExtractFinalAnswer looks for.
const (
	PromptClassify  = "classify"
	PromptFramework = "framework"
	PromptSolution  = "solution"
	PromptResearch  = "research"

	// PromptGenericFramework is rendered when the framework call fails.
	PromptGenericFramework = "framework.generic"
)

const classifySystemPrompt = "You are a precise query classifier. Reply with a single JSON object and nothing else."

const classifyTemplate = `Analyze this query and classify it comprehensively. Return ONLY a valid JSON object with no markdown formatting.

Query: "{{.Query}}"

Return the JSON object in this exact structure:
{
  "is_mathematical": boolean,
  "is_logical_reasoning": boolean,
  "is_analytical": boolean,
  "is_creative": boolean,
  "is_factual": boolean,
  "is_verbal_reasoning": boolean,
  "is_non_verbal_reasoning": boolean,
  "is_simple_solvable": boolean,
  "is_coding": boolean,
  "domain": string,
  "requires_calculation": boolean,
  "requires_research": boolean,
  "requires_multi_step_reasoning": boolean,
  "complexity": string,
  "calculation_type": string or null,
  "reasoning_type": string or null,
  "reasoning_subtype": string or null,
  "coding_type": string or null,
  "parameters": object,
  "query_intent": string,
  "confidence_level": number
}

## INTENT
One of: solve, explain, analyze, create, research, debug, optimize, transform, identity, procedure.

## COMPLEXITY
- simple: 1-2 steps such as a single arithmetic operation, a definition or an elementary relation.
- medium: 3-5 steps such as multi-step word problems, algorithm implementations or debugging.
- complex: 6+ steps such as proofs, system design or multi-constraint optimisation.

## DOMAIN
{{join .Domains ", "}}

## RESEARCH
requires_research is true for real-world facts, current events, biographies, company or product
information, scientific, legal, medical or geographic data, and questions about the assistant itself.
It is false for calculations, logical deductions, code, creative writing, hypotheticals and pattern
or spatial reasoning.

## CALCULATION TYPES
{{join .CalculationTypes ", "}}

## REASONING
reasoning_type: {{join .ReasoningTypes ", "}}
reasoning_subtype: {{join .ReasoningSubtypes ", "}}
("blood_relation" covers family relationships and kinship, not age calculations.)

## CODING TYPES
{{join .CodingTypes ", "}}

## PARAMETERS
Extract only relevant entities: numbers and values, names, locations and directions, dates and times,
programming languages, units, constraints.

Use null for sub-types that do not apply. Return ONLY valid JSON.`

const frameworkTemplate = `Generate a comprehensive problem-solving framework for the following problem characteristics:

Domain: {{.Domain}}
Reasoning Type: {{.ReasoningType}}
Reasoning Subtype: {{.ReasoningSubtype}}
Calculation Type: {{.CalculationType}}
Coding Type: {{.CodingType}}

Provide a structured framework in this exact format:

[FRAMEWORK_NAME] FRAMEWORK:
1. STEP_NAME: Brief description of what to do in this step
2. STEP_NAME: Brief description of what to do in this step
3. STEP_NAME: Brief description of what to do in this step
4. STEP_NAME: Brief description of what to do in this step
5. STEP_NAME: Brief description of what to do in this step
6. STEP_NAME: Brief description of what to do in this step

SOLVING APPROACH:
- Specific guideline or technique
- Specific guideline or technique
- Specific guideline or technique
- Specific guideline or technique
- Specific guideline or technique

Tailor the framework to the problem type and domain. Make it practical and actionable.`

const genericFrameworkTemplate = `GENERAL PROBLEM SOLVING FRAMEWORK:
1. PROBLEM ANALYSIS: Understand the specific requirements and constraints
2. APPROACH SELECTION: Choose the most appropriate method for this problem type
3. SYSTEMATIC EXECUTION: Apply the chosen approach step by step
4. VERIFICATION: Check that the solution meets all requirements
5. OPTIMIZATION: Refine the solution for better performance or clarity
6. VALIDATION: Ensure the final answer is correct and complete

SOLVING APPROACH:
- Break down complex problems into manageable parts
- Apply domain-specific knowledge and techniques
- Verify each step before proceeding to the next
- Consider alternative approaches if needed
- Present the solution clearly and comprehensively

Note: Framework generated for {{.Domain}} domain with {{.ReasoningType}} reasoning.`

const solutionTemplate = `You are an expert problem solver with deep knowledge across all domains, especially programming, verbal and non-verbal reasoning. Solve this problem with clarity and precision.

PROBLEM: {{.Query}}

PROBLEM ANALYSIS:
- Domain: {{.Domain}}
- Reasoning Type: {{.ReasoningType}}
- Reasoning Subtype: {{.ReasoningSubtype}}
- Calculation Type: {{.CalculationType}}
- Coding Type: {{.CodingType}}
- Coding: {{.C.IsCoding}}
- Verbal Reasoning: {{.C.IsVerbalReasoning}}
- Non-Verbal Reasoning: {{.C.IsNonVerbalReasoning}}
- Mathematical: {{.C.IsMathematical}}
- Logical Reasoning: {{.C.IsLogicalReasoning}}
- Analytical: {{.C.IsAnalytical}}
- Creative: {{.C.IsCreative}}
- Factual: {{.C.IsFactual}}
- Parameters: {{.Parameters}}

{{.Framework}}

SOLUTION REQUIREMENTS:
1. Start with "SOLUTION:" as the header
2. Show your approach and reasoning clearly
3. For coding problems show complete, working code
4. For reasoning problems show step-by-step logical analysis
5. For mathematical problems show step-by-step calculations
6. For factual problems provide evidence for claims
7. If information is insufficient, state that clearly
8. End with "FINAL ANSWER:" followed by a direct, complete answer

SOLUTION FORMAT:
SOLUTION:

Step 1: Understanding the Problem
[Clearly state what needs to be solved and identify the type of problem]

Step 2: Approach/Method
[Explain your approach or method specific to this type of problem]

Step 3: Implementation/Analysis/Reasoning
[Show detailed work: code, reasoning steps, calculations or analysis]

Step 4: Verification
[Test your solution or answer if possible]

FINAL ANSWER: [Direct, complete answer to the original question]

Now solve the problem following this format:`

const researchTemplate = `You are an expert researcher and information synthesizer. Provide a comprehensive answer based on the available information.

QUESTION: {{.Query}}

AVAILABLE INFORMATION:
Knowledge Base Context: {{default "Not available" .Retrieved}}
Web Search Results: {{default "Not available" .WebSearch}}

RESEARCH REQUIREMENTS:
1. Provide accurate, comprehensive information
2. Organize the answer logically
3. Include specific details and examples
4. Cite sources when available
5. Indicate if information is limited or uncertain

ANSWER FORMAT:
RESEARCH SUMMARY:

Overview: [Brief overview of the topic]

Detailed Information:
[Comprehensive details organized logically]

Key Points:
[Important facts and highlights]

Additional Context:
[Relevant background or related information]

FINAL ANSWER: [Direct, complete answer to the original question]

Be thorough but concise, accurate, and well-organized.`

// DefaultPrompts returns a manager holding the built-in templates.
func DefaultPrompts() *prompt.Manager {
	m := prompt.NewManager()
	for name, content := range map[string]string{
		PromptClassify:         classifyTemplate,
		PromptFramework:        frameworkTemplate,
		PromptGenericFramework: genericFrameworkTemplate,
		PromptSolution:         solutionTemplate,
		PromptResearch:         researchTemplate,
	} {
		if err := m.RegisterString(name, content); err != nil {
			panic(err)
		}
	}
	return m
}

type classifyVars struct {
	Query             string
	Domains           []string
	CalculationTypes  []string
	ReasoningTypes    []string
	ReasoningSubtypes []string
	CodingTypes       []string
}

func newClassifyVars(query string) classifyVars {
	return classifyVars{
		Query:             query,
		Domains:           sortedValues(domains),
		CalculationTypes:  sortedValues(calculationTypes),
		ReasoningTypes:    sortedValues(reasoningTypes),
		ReasoningSubtypes: sortedValues(reasoningSubtypes),
		CodingTypes:       sortedValues(codingTypes),
	}
}

// typeVars carries the classification tags as prompt text; absent tags read
// "general".
type typeVars struct {
	Domain           string
	ReasoningType    string
	ReasoningSubtype string
	CalculationType  string
	CodingType       string
}

func newTypeVars(c *Classification) typeVars {
	return typeVars{
		Domain:           orGeneral(string(c.Domain)),
		ReasoningType:    orGeneral(string(c.ReasoningType)),
		ReasoningSubtype: orGeneral(string(c.ReasoningSubtype)),
		CalculationType:  orGeneral(string(c.CalculationType)),
		CodingType:       orGeneral(string(c.CodingType)),
	}
}

type solutionVars struct {
	typeVars
	Query      string
	C          *Classification
	Parameters string
	Framework  string
}

type researchVars struct {
	Query     string
	Retrieved string
	WebSearch string
}

func orGeneral(s string) string {
	if s == "" {
		return "general"
	}
	return s
}
