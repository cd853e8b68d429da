package tools

import (
	"context"
	"strings"
	"testing"
)

func runAnalysis(t *testing.T, args map[string]any) AnalysisResult {
	t.Helper()
	out, err := NewAnalyzeRoutesTool().Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	res, ok := out.(AnalysisResult)
	if !ok {
		t.Fatalf("unexpected result type %T", out)
	}
	return res
}

func TestAnalyzeRanksRoutesByWeightedSuccess(t *testing.T) {
	res := runAnalysis(t, map[string]any{
		"player_name": "Travis Kelce",
		"position":    "TE",
	})

	if !res.Success {
		t.Fatalf("expected success, got message %q", res.Message)
	}
	if res.AnalysisType != "routes" {
		t.Errorf("analysis_type = %q, want routes", res.AnalysisType)
	}
	if len(res.Results) != analyzeDefaultLimit {
		t.Fatalf("got %d results, want default %d", len(res.Results), analyzeDefaultLimit)
	}
	// Ranking is success_rate x volume descending.
	for i := 1; i < len(res.Results); i++ {
		if res.Results[i].score() > res.Results[i-1].score() {
			t.Errorf("results out of order at %d: %s before %s",
				i, res.Results[i-1].Name, res.Results[i].Name)
		}
	}
	if res.Results[0].Name != "Slant" {
		t.Errorf("top route = %q, want Slant", res.Results[0].Name)
	}
	if res.Note == "" {
		t.Error("result must carry the simulated-data note")
	}
}

func TestAnalyzeQuarterbackGetsPlayConcepts(t *testing.T) {
	res := runAnalysis(t, map[string]any{
		"player_name": "Patrick Mahomes",
		"position":    "quarterback",
		"limit":       2.0,
	})

	if !res.Success {
		t.Fatalf("expected success, got message %q", res.Message)
	}
	if res.AnalysisType != "plays" {
		t.Errorf("analysis_type = %q, want plays", res.AnalysisType)
	}
	if res.Position != "QB" {
		t.Errorf("position = %q, want folded QB", res.Position)
	}
	if len(res.Results) != 2 {
		t.Errorf("got %d results, want limit 2", len(res.Results))
	}
}

func TestAnalyzeRejectsUnsupportedPositionByName(t *testing.T) {
	res := runAnalysis(t, map[string]any{
		"player_name": "Chris Jones",
		"position":    "defensive tackle",
	})

	if res.Success {
		t.Fatal("unsupported position must fail")
	}
	if res.Error != ErrBadArgument {
		t.Errorf("error code = %q, want %q", res.Error, ErrBadArgument)
	}
	if !strings.Contains(res.Message, "defensive tackle") {
		t.Errorf("rejection must name the offending position, got %q", res.Message)
	}
}

func TestAnalyzeLimitIsCapped(t *testing.T) {
	res := runAnalysis(t, map[string]any{
		"player_name": "Justin Jefferson",
		"position":    "WR",
		"limit":       50.0,
	})
	if len(res.Results) > analyzeMaxLimit {
		t.Errorf("got %d results, cap is %d", len(res.Results), analyzeMaxLimit)
	}
}
