package reasoning

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
)

// Domain is the broad subject area of a query.
type Domain string

const (
	DomainMathematics        Domain = "mathematics"
	DomainVerbalReasoning    Domain = "verbal_reasoning"
	DomainNonVerbalReasoning Domain = "non_verbal_reasoning"
	DomainProgramming        Domain = "programming"
	DomainLogic              Domain = "logic"
	DomainAnalysis           Domain = "analysis"
	DomainCreative           Domain = "creative"
	DomainFactual            Domain = "factual"
	DomainConversational     Domain = "conversational"
	DomainProcedural         Domain = "procedural"
	DomainScientific         Domain = "scientific"
	DomainBusiness           Domain = "business"
	DomainGeneral            Domain = "general"
)

var domains = newVocabulary(
	DomainMathematics, DomainVerbalReasoning, DomainNonVerbalReasoning, DomainProgramming, DomainLogic,
	DomainAnalysis, DomainCreative, DomainFactual, DomainConversational, DomainProcedural, DomainScientific,
	DomainBusiness, DomainGeneral,
)

// Valid reports whether d belongs to the closed domain vocabulary.
func (d Domain) Valid() bool { return domains.has(d) }

// Complexity grades how much work a query needs.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

var complexities = newVocabulary(ComplexitySimple, ComplexityMedium, ComplexityComplex)

// Valid reports whether c is simple, medium or complex.
func (c Complexity) Valid() bool { return complexities.has(c) }

// CalculationType refines mathematical queries.
type CalculationType string

const (
	CalcBasicArithmetic   CalculationType = "basic_arithmetic"
	CalcPercentage        CalculationType = "percentage"
	CalcCompoundInterest  CalculationType = "compound_interest"
	CalcSimpleInterest    CalculationType = "simple_interest"
	CalcProfitLoss        CalculationType = "profit_loss"
	CalcSpeedDistanceTime CalculationType = "speed_distance_time"
	CalcWorkTime          CalculationType = "work_time"
	CalcProbability       CalculationType = "probability"
	CalcGeometry          CalculationType = "geometry"
	CalcAlgebra           CalculationType = "algebra"
	CalcCalculus          CalculationType = "calculus"
	CalcStatistics        CalculationType = "statistics"
	CalcTrigonometry      CalculationType = "trigonometry"
	CalcLogarithms        CalculationType = "logarithms"
	CalcMixture           CalculationType = "mixture"
	CalcAgeProblems       CalculationType = "age_problems"
	CalcGeneralMath       CalculationType = "general_math"
)

var calculationTypes = newVocabulary(
	CalcBasicArithmetic, CalcPercentage, CalcCompoundInterest, CalcSimpleInterest, CalcProfitLoss,
	CalcSpeedDistanceTime, CalcWorkTime, CalcProbability, CalcGeometry, CalcAlgebra, CalcCalculus,
	CalcStatistics, CalcTrigonometry, CalcLogarithms, CalcMixture, CalcAgeProblems, CalcGeneralMath,
)

// Valid reports whether t is empty or a known calculation type.
func (t CalculationType) Valid() bool { return t == "" || calculationTypes.has(t) }

// MarshalJSON encodes the absent tag as null.
func (t CalculationType) MarshalJSON() ([]byte, error) { return marshalTag(string(t)) }

// ReasoningType is verbal, non-verbal or logical.
type ReasoningType string

const (
	ReasoningVerbal    ReasoningType = "verbal"
	ReasoningNonVerbal ReasoningType = "non_verbal"
	ReasoningLogical   ReasoningType = "logical"
)

var reasoningTypes = newVocabulary(ReasoningVerbal, ReasoningNonVerbal, ReasoningLogical)

// Valid reports whether t is empty or a known reasoning type.
func (t ReasoningType) Valid() bool { return t == "" || reasoningTypes.has(t) }

// MarshalJSON encodes the absent tag as null.
func (t ReasoningType) MarshalJSON() ([]byte, error) { return marshalTag(string(t)) }

// ReasoningSubtype narrows verbal and non-verbal reasoning queries.
type ReasoningSubtype string

const (
	SubtypeBloodRelation      ReasoningSubtype = "blood_relation"
	SubtypeAnalogy            ReasoningSubtype = "analogy"
	SubtypeClassification     ReasoningSubtype = "classification"
	SubtypeCodingDecoding     ReasoningSubtype = "coding_decoding"
	SubtypeStatementArgument  ReasoningSubtype = "statement_argument"
	SubtypeSyllogism          ReasoningSubtype = "syllogism"
	SubtypeThemeDetection     ReasoningSubtype = "theme_detection"
	SubtypeLetterSeries       ReasoningSubtype = "letter_series"
	SubtypeInputOutput        ReasoningSubtype = "input_output"
	SubtypeVennDiagram        ReasoningSubtype = "venn_diagram"
	SubtypeCriticalReasoning  ReasoningSubtype = "critical_reasoning"
	SubtypeCalendarClock      ReasoningSubtype = "calendar_clock"
	SubtypeDirectionDistance  ReasoningSubtype = "direction_distance"
	SubtypePatternRecognition ReasoningSubtype = "pattern_recognition"
	SubtypeSpatialReasoning   ReasoningSubtype = "spatial_reasoning"
	SubtypeDataInterpretation ReasoningSubtype = "data_interpretation"
	SubtypeImageAnalysis      ReasoningSubtype = "image_analysis"
	SubtypeCubeFolding        ReasoningSubtype = "cube_folding"
	SubtypeMirrorImages       ReasoningSubtype = "mirror_images"
	SubtypeSeriesCompletion   ReasoningSubtype = "series_completion"
)

var reasoningSubtypes = newVocabulary(
	SubtypeBloodRelation, SubtypeAnalogy, SubtypeClassification, SubtypeCodingDecoding,
	SubtypeStatementArgument, SubtypeSyllogism, SubtypeThemeDetection, SubtypeLetterSeries,
	SubtypeInputOutput, SubtypeVennDiagram, SubtypeCriticalReasoning, SubtypeCalendarClock,
	SubtypeDirectionDistance, SubtypePatternRecognition, SubtypeSpatialReasoning, SubtypeDataInterpretation,
	SubtypeImageAnalysis, SubtypeCubeFolding, SubtypeMirrorImages, SubtypeSeriesCompletion,
)

// Valid reports whether t is empty or a known subtype.
func (t ReasoningSubtype) Valid() bool { return t == "" || reasoningSubtypes.has(t) }

// MarshalJSON encodes the absent tag as null.
func (t ReasoningSubtype) MarshalJSON() ([]byte, error) { return marshalTag(string(t)) }

// CodingType narrows programming queries.
type CodingType string

const (
	CodingDataStructures     CodingType = "data_structures"
	CodingAlgorithms         CodingType = "algorithms"
	CodingWebDevelopment     CodingType = "web_development"
	CodingSystemDesign       CodingType = "system_design"
	CodingDatabase           CodingType = "database"
	CodingMachineLearning    CodingType = "machine_learning"
	CodingDebugging          CodingType = "debugging"
	CodingOptimization       CodingType = "optimization"
	CodingAPIDevelopment     CodingType = "api_development"
	CodingMobileDevelopment  CodingType = "mobile_development"
	CodingDevOps             CodingType = "devops"
	CodingSecurity           CodingType = "security"
	CodingTesting            CodingType = "testing"
	CodingGeneralProgramming CodingType = "general_programming"
)

var codingTypes = newVocabulary(
	CodingDataStructures, CodingAlgorithms, CodingWebDevelopment, CodingSystemDesign, CodingDatabase,
	CodingMachineLearning, CodingDebugging, CodingOptimization, CodingAPIDevelopment, CodingMobileDevelopment,
	CodingDevOps, CodingSecurity, CodingTesting, CodingGeneralProgramming,
)

// Valid reports whether t is empty or a known coding type.
func (t CodingType) Valid() bool { return t == "" || codingTypes.has(t) }

// MarshalJSON encodes the absent tag as null.
func (t CodingType) MarshalJSON() ([]byte, error) { return marshalTag(string(t)) }

// Classification describes a query. Domain and Complexity are always set; the
// optional sub-type tags use the empty string for "absent".
type Classification struct {
	IsMathematical             bool `json:"is_mathematical"`
	IsLogicalReasoning         bool `json:"is_logical_reasoning"`
	IsAnalytical               bool `json:"is_analytical"`
	IsCreative                 bool `json:"is_creative"`
	IsFactual                  bool `json:"is_factual"`
	IsVerbalReasoning          bool `json:"is_verbal_reasoning"`
	IsNonVerbalReasoning       bool `json:"is_non_verbal_reasoning"`
	IsSimpleSolvable           bool `json:"is_simple_solvable"`
	IsCoding                   bool `json:"is_coding"`
	RequiresCalculation        bool `json:"requires_calculation"`
	RequiresResearch           bool `json:"requires_research"`
	RequiresMultiStepReasoning bool `json:"requires_multi_step_reasoning"`

	Domain     Domain     `json:"domain"`
	Complexity Complexity `json:"complexity"`

	CalculationType  CalculationType  `json:"calculation_type"`
	ReasoningType    ReasoningType    `json:"reasoning_type"`
	ReasoningSubtype ReasoningSubtype `json:"reasoning_subtype"`
	CodingType       CodingType       `json:"coding_type"`

	Parameters      map[string]any `json:"parameters"`
	QueryIntent     string         `json:"query_intent"`
	ConfidenceLevel float64        `json:"confidence_level"`
}

// Clone returns a copy that shares nothing mutable with c.
func (c Classification) Clone() Classification {
	out := c
	out.Parameters = make(map[string]any, len(c.Parameters))
	for k, v := range c.Parameters {
		out.Parameters[k] = v
	}
	return out
}

// Validate checks the closed vocabularies.
func (c *Classification) Validate() error {
	switch {
	case !c.Domain.Valid():
		return fmt.Errorf("%w: unknown domain %q", rerrors.ErrClassificationParse, c.Domain)
	case !c.Complexity.Valid():
		return fmt.Errorf("%w: unknown complexity %q", rerrors.ErrClassificationParse, c.Complexity)
	case !c.CalculationType.Valid():
		return fmt.Errorf("%w: unknown calculation_type %q", rerrors.ErrClassificationParse, c.CalculationType)
	case !c.ReasoningType.Valid():
		return fmt.Errorf("%w: unknown reasoning_type %q", rerrors.ErrClassificationParse, c.ReasoningType)
	case !c.ReasoningSubtype.Valid():
		return fmt.Errorf("%w: unknown reasoning_subtype %q", rerrors.ErrClassificationParse, c.ReasoningSubtype)
	case !c.CodingType.Valid():
		return fmt.Errorf("%w: unknown coding_type %q", rerrors.ErrClassificationParse, c.CodingType)
	}
	return nil
}

// ProblemType returns the most specific tag available: coding type, then
// reasoning subtype, then calculation type, then domain.
func (c *Classification) ProblemType() string {
	for _, tag := range []string{string(c.CodingType), string(c.ReasoningSubtype), string(c.CalculationType)} {
		if tag != "" {
			return tag
		}
	}
	return string(c.Domain)
}

// rawClassification mirrors the JSON the classifier model is asked for.
// Pointer fields distinguish "absent" from zero values.
type rawClassification struct {
	IsMathematical             bool `json:"is_mathematical"`
	IsLogicalReasoning         bool `json:"is_logical_reasoning"`
	IsAnalytical               bool `json:"is_analytical"`
	IsCreative                 bool `json:"is_creative"`
	IsFactual                  bool `json:"is_factual"`
	IsVerbalReasoning          bool `json:"is_verbal_reasoning"`
	IsNonVerbalReasoning       bool `json:"is_non_verbal_reasoning"`
	IsSimpleSolvable           bool `json:"is_simple_solvable"`
	IsCoding                   bool `json:"is_coding"`
	RequiresCalculation        bool `json:"requires_calculation"`
	RequiresResearch           bool `json:"requires_research"`
	RequiresMultiStepReasoning bool `json:"requires_multi_step_reasoning"`

	Domain     *string `json:"domain"`
	Complexity *string `json:"complexity"`

	CalculationType  *string `json:"calculation_type"`
	ReasoningType    *string `json:"reasoning_type"`
	ReasoningSubtype *string `json:"reasoning_subtype"`
	CodingType       *string `json:"coding_type"`

	Parameters      map[string]any `json:"parameters"`
	QueryIntent     string         `json:"query_intent"`
	ConfidenceLevel float64        `json:"confidence_level"`
}

// parseClassification decodes and validates classifier output. A missing or
// unknown complexity becomes medium; every other violation is an error
// wrapping ErrClassificationParse.
func parseClassification(text string) (Classification, error) {
	raw, err := decodeJSON[rawClassification](text)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %w", rerrors.ErrClassificationParse, err)
	}
	if raw.Domain == nil || strings.TrimSpace(*raw.Domain) == "" {
		return Classification{}, fmt.Errorf("%w: missing domain", rerrors.ErrClassificationParse)
	}

	c := Classification{
		IsMathematical:             raw.IsMathematical,
		IsLogicalReasoning:         raw.IsLogicalReasoning,
		IsAnalytical:               raw.IsAnalytical,
		IsCreative:                 raw.IsCreative,
		IsFactual:                  raw.IsFactual,
		IsVerbalReasoning:          raw.IsVerbalReasoning,
		IsNonVerbalReasoning:       raw.IsNonVerbalReasoning,
		IsSimpleSolvable:           raw.IsSimpleSolvable,
		IsCoding:                   raw.IsCoding,
		RequiresCalculation:        raw.RequiresCalculation,
		RequiresResearch:           raw.RequiresResearch,
		RequiresMultiStepReasoning: raw.RequiresMultiStepReasoning,
		Domain:                     Domain(normalizeTag(raw.Domain)),
		Complexity:                 Complexity(normalizeTag(raw.Complexity)),
		CalculationType:            CalculationType(normalizeTag(raw.CalculationType)),
		ReasoningType:              ReasoningType(normalizeTag(raw.ReasoningType)),
		ReasoningSubtype:           ReasoningSubtype(normalizeTag(raw.ReasoningSubtype)),
		CodingType:                 CodingType(normalizeTag(raw.CodingType)),
		Parameters:                 raw.Parameters,
		QueryIntent:                raw.QueryIntent,
		ConfidenceLevel:            raw.ConfidenceLevel,
	}
	if !c.Complexity.Valid() {
		c.Complexity = ComplexityMedium
	}
	if c.Parameters == nil {
		c.Parameters = map[string]any{}
	}
	if err := c.Validate(); err != nil {
		return Classification{}, err
	}
	return c, nil
}

// normalizeTag lower-cases a tag and maps the spellings models use for
// "nothing" to the empty string.
func normalizeTag(v *string) string {
	if v == nil {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(*v))
	switch s {
	case "null", "none", "n/a":
		return ""
	}
	return s
}

func marshalTag(s string) ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(s)
}

type vocabulary[T ~string] map[T]struct{}

func newVocabulary[T ~string](values ...T) vocabulary[T] {
	v := make(vocabulary[T], len(values))
	for _, value := range values {
		v[value] = struct{}{}
	}
	return v
}

func sortedValues[T ~string](v vocabulary[T]) []string {
	out := make([]string, 0, len(v))
	for value := range v {
		out = append(out, string(value))
	}
	sort.Strings(out)
	return out
}

func (v vocabulary[T]) has(value T) bool {
	_, ok := v[value]
	return ok
}
