package main

import (
	"context"
	"testing"
)

func TestRunScenarioSettlesEmptyGrid(t *testing.T) {
	res := runScenario(8, 8, scenario{density: 0, seed: 1}, 10)
	if !res.settled() || res.period != 1 || res.settledAt != 0 || res.final != 0 {
		t.Fatalf("empty grid should settle immediately, got %+v", res)
	}
}

func TestRunScenarioFullGridDiesOut(t *testing.T) {
	// A full grid keeps only its corners, which then die.
	res := runScenario(6, 6, scenario{density: 1, seed: 1}, 10)
	if res.initial != 36 || res.final != 0 || !res.settled() {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.settledAt != 2 {
		t.Fatalf("expected extinction at generation 2, got %d", res.settledAt)
	}
}

func TestRunScenarioRespectsBudget(t *testing.T) {
	res := runScenario(32, 32, scenario{density: 0.35, seed: 7}, 1)
	if res.settledAt > 1 {
		t.Fatalf("settle index beyond budget: %+v", res)
	}
}

func TestSweepCollectsEveryScenario(t *testing.T) {
	var sets []scenario
	for i := 0; i < 20; i++ {
		sets = append(sets, scenario{density: 0.3, seed: int64(i)})
	}
	all, err := sweep(context.Background(), sets, 3, func(s scenario) scenarioResult {
		return scenarioResult{scenario: s, final: int(s.seed)}
	})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(all) != len(sets) {
		t.Fatalf("expected %d results, got %d", len(sets), len(all))
	}
	seen := map[int64]bool{}
	for _, r := range all {
		seen[r.seed] = true
	}
	if len(seen) != len(sets) {
		t.Fatalf("expected distinct seeds, got %d", len(seen))
	}
}

func TestSummarize(t *testing.T) {
	all := []scenarioResult{
		{scenario: scenario{density: 0.2}, final: 0, settledAt: 4, period: 1},
		{scenario: scenario{density: 0.2}, final: 6, settledAt: 10, period: 2},
		{scenario: scenario{density: 0.1}, final: 3},
	}
	got := summarize(all)
	if len(got) != 2 || got[0].density != 0.1 || got[1].density != 0.2 {
		t.Fatalf("unexpected summaries %+v", got)
	}
	d := got[1]
	if d.runs != 2 || d.settled != 2 || d.extinct != 1 || d.meanLife != 7 || d.meanPop != 3 {
		t.Fatalf("unexpected summary %+v", d)
	}
	if got[0].settled != 0 || got[0].meanLife != 0 {
		t.Fatalf("unsettled runs must not count toward settle time: %+v", got[0])
	}
}
