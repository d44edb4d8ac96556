package reasoning

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	rerrors "github.com/sweetpotato0/ai-reasoner/errors"
	"github.com/sweetpotato0/ai-reasoner/llm"
	"github.com/sweetpotato0/ai-reasoner/pkg/logging"
	"github.com/sweetpotato0/ai-reasoner/retrieval"
	"github.com/sweetpotato0/ai-reasoner/search"
)

func newTestResearch(stub *scriptedLLM, opts ...Option) *researchSolver {
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	return newResearchSolver(applyOptions(stub, opts))
}

func researchRequest(stub *scriptedLLM) *llm.Request {
	return stub.find(func(r *llm.Request) bool { return strings.Contains(r.UserPrompt, "RESEARCH SUMMARY") })
}

func TestResearchWithWebSearch(t *testing.T) {
	stub := &scriptedLLM{research: "RESEARCH SUMMARY:\nOverview: ...\nFINAL ANSWER: Frank Herbert\n\nExtra"}
	searcher := search.SearcherFunc(func(ctx context.Context, q string) (string, error) {
		return "Dune was written by [Frank Herbert](https://en.wikipedia.org/wiki/Frank_Herbert?utm_source=openai) " +
			"and published in 1965 ([Britannica](https://britannica.com/dune)) , see [wiki](https://en.wikipedia.org/wiki/Frank_Herbert).", nil
	})
	c := HeuristicClassify("Who wrote Dune?")

	sol, err := newTestResearch(stub, WithSearcher(searcher)).Solve(context.Background(), "Who wrote Dune?", &c)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	res := sol.(*ResearchSolution)
	if res.Type != "research_based_answer" || res.FinalAnswer != "Frank Herbert" {
		t.Fatalf("unexpected solution %+v", res)
	}
	if res.ResearchQuality != QualityHigh {
		t.Fatalf("quality = %q, want high", res.ResearchQuality)
	}
	wantSources := []string{"https://en.wikipedia.org/wiki/Frank_Herbert", "https://britannica.com/dune"}
	if !reflect.DeepEqual(sol.Sources(), wantSources) || res.SourcesUsed != 2 {
		t.Fatalf("unexpected sources %v (%d)", sol.Sources(), res.SourcesUsed)
	}

	req := researchRequest(stub)
	if req == nil {
		t.Fatal("no synthesis request")
	}
	if req.Temperature != researchTemperature || req.MaxTokens != researchMaxTokens {
		t.Fatalf("unexpected synthesis params %+v", req)
	}
	if !strings.Contains(req.UserPrompt, "Web Search Results: Dune was written by Frank Herbert and published in 1965 (Britannica), see wiki.") {
		t.Fatalf("normalised search text missing from prompt:\n%s", req.UserPrompt)
	}
	if !strings.Contains(req.UserPrompt, "Knowledge Base Context: Not available") {
		t.Fatal("absent retrieval should read Not available")
	}
}

func TestResearchDegraded(t *testing.T) {
	stub := &scriptedLLM{research: "Nothing conclusive."}
	searcher := search.SearcherFunc(func(ctx context.Context, q string) (string, error) {
		return "", errors.New("search backend down")
	})
	retriever := retrieval.RetrieverFunc(func(ctx context.Context, q string) (string, error) {
		return "", retrieval.ErrUnavailable
	})
	c := HeuristicClassify("Who is the CEO of Acme?")

	sol, err := newTestResearch(stub, WithSearcher(searcher), WithRetriever(retriever)).Solve(context.Background(), "Who is the CEO of Acme?", &c)
	if err != nil {
		t.Fatalf("provider failures must not abort: %v", err)
	}
	res := sol.(*ResearchSolution)
	if res.ResearchQuality != QualityLimited || len(sol.Sources()) != 0 || res.SourcesUsed != 0 {
		t.Fatalf("unexpected degraded result %+v", res)
	}
	if res.FinalAnswer != NoAnswer {
		t.Fatalf("expected sentinel answer, got %q", res.FinalAnswer)
	}
}

func TestResearchNoProviders(t *testing.T) {
	stub := &scriptedLLM{research: "FINAL ANSWER: unsure"}
	c := HeuristicClassify("Describe the moon")
	sol, err := newTestResearch(stub).Solve(context.Background(), "Describe the moon", &c)
	if err != nil {
		t.Fatal(err)
	}
	if sol.(*ResearchSolution).ResearchQuality != QualityLimited {
		t.Fatal("expected limited quality without providers")
	}
}

func TestResearchRetrievalOnly(t *testing.T) {
	stub := &scriptedLLM{research: "FINAL ANSWER: 42"}
	retriever := retrieval.RetrieverFunc(func(ctx context.Context, q string) (string, error) {
		return "The answer to everything is 42.", nil
	})
	c := HeuristicClassify("Explain the answer to everything")
	sol, err := newTestResearch(stub, WithRetriever(retriever)).Solve(context.Background(), "Explain the answer to everything", &c)
	if err != nil {
		t.Fatal(err)
	}
	if sol.(*ResearchSolution).ResearchQuality != QualityHigh {
		t.Fatal("retrieval data should count as high quality")
	}
	if req := researchRequest(stub); req == nil || !strings.Contains(req.UserPrompt, "Knowledge Base Context: The answer to everything is 42.") {
		t.Fatal("retrieved context missing from prompt")
	}
}

func TestResearchMergesWebSourcesBeforeRetrieval(t *testing.T) {
	stub := &scriptedLLM{research: "FINAL ANSWER: both"}
	retriever := retrieval.RetrieverFunc(func(ctx context.Context, q string) (string, error) {
		return "Handbook says so ([handbook](https://docs.example.com/handbook)). See the [wiki](https://kb.example.com/oncall).", nil
	})
	searcher := search.SearcherFunc(func(ctx context.Context, q string) (string, error) {
		return "See [news](https://news.example.com/a?ref=x) and [handbook](https://docs.example.com/handbook).", nil
	})
	c := HeuristicClassify("What does the handbook say?")
	sol, err := newTestResearch(stub, WithRetriever(retriever), WithSearcher(searcher)).Solve(context.Background(), "What does the handbook say?", &c)
	if err != nil {
		t.Fatal(err)
	}
	got := sol.Sources()
	want := []string{"https://news.example.com/a", "https://docs.example.com/handbook", "https://kb.example.com/oncall"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sources = %v, want %v", got, want)
	}
	if sol.(*ResearchSolution).SourcesUsed != 3 {
		t.Fatalf("expected sources_used 3, got %d", sol.(*ResearchSolution).SourcesUsed)
	}
}

func TestResearchLookupsRunConcurrentlyWithDeadline(t *testing.T) {
	stub := &scriptedLLM{research: "FINAL ANSWER: partial"}
	var cancelled atomic.Bool
	searcher := search.SearcherFunc(func(ctx context.Context, q string) (string, error) {
		<-ctx.Done()
		cancelled.Store(true)
		return "", ctx.Err()
	})
	retriever := retrieval.RetrieverFunc(func(ctx context.Context, q string) (string, error) {
		return "local notes", nil
	})
	c := HeuristicClassify("Tell me about Go")

	start := time.Now()
	sol, err := newTestResearch(stub,
		WithSearcher(searcher),
		WithRetriever(retriever),
		WithLookupTimeout(30*time.Millisecond),
	).Solve(context.Background(), "Tell me about Go", &c)
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("stalled lookup was not bounded: %v", elapsed)
	}
	if !cancelled.Load() {
		t.Fatal("stalled lookup should observe cancellation")
	}
	if sol.(*ResearchSolution).ResearchQuality != QualityHigh {
		t.Fatal("the healthy provider should still contribute")
	}
}

func TestResearchSynthesisFailure(t *testing.T) {
	stub := &scriptedLLM{researchErr: errStub}
	c := HeuristicClassify("Who is Ada Lovelace?")
	_, err := newTestResearch(stub).Solve(context.Background(), "Who is Ada Lovelace?", &c)
	if !errors.Is(err, rerrors.ErrGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
}

func TestResearchPanickingProvider(t *testing.T) {
	stub := &scriptedLLM{research: "FINAL ANSWER: fine"}
	searcher := search.SearcherFunc(func(ctx context.Context, q string) (string, error) {
		panic("provider bug")
	})
	c := HeuristicClassify("Who is Ada Lovelace?")
	sol, err := newTestResearch(stub, WithSearcher(searcher)).Solve(context.Background(), "Who is Ada Lovelace?", &c)
	if err != nil {
		t.Fatalf("panicking provider must not abort: %v", err)
	}
	if sol.(*ResearchSolution).ResearchQuality != QualityLimited {
		t.Fatal("expected limited quality")
	}
}
