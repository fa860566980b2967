package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"
	"time"

	"lifestream/internal/seeds"
	"lifestream/pkg/core"
	"lifestream/pkg/life"

	"golang.org/x/sync/errgroup"
)

type scenario struct {
	density float64
	seed    int64
}

func (s scenario) String() string {
	return fmt.Sprintf("density=%.2f seed=%d", s.density, s.seed)
}

type scenarioResult struct {
	scenario
	initial   int
	final     int
	peak      int
	settledAt int
	period    int
}

func (r scenarioResult) settled() bool { return r.period > 0 }

func main() {
	rows := flag.Int("rows", 64, "grid rows")
	cols := flag.Int("cols", 64, "grid columns")
	steps := flag.Int("steps", 1000, "generations to simulate per scenario")
	perDensity := flag.Int("seeds", 16, "random seeds per density")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 10, "longest-lived scenarios to print")
	flag.Parse()

	densities := []float64{0.10, 0.20, 0.30, 0.35, 0.40, 0.50, 0.60}
	var sets []scenario
	for _, d := range densities {
		for i := 0; i < *perDensity; i++ {
			sets = append(sets, scenario{density: d, seed: int64(i + 1)})
		}
	}

	fmt.Printf("Sweeping %d scenarios on %dx%d (%d workers, %d steps)\n", len(sets), *rows, *cols, *workers, *steps)

	start := time.Now()
	all, err := sweep(context.Background(), sets, *workers, func(s scenario) scenarioResult {
		return runScenario(*rows, *cols, s, *steps)
	})
	if err != nil {
		log.Fatalf("sweep: %v", err)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].settled() != all[j].settled() {
			return !all[i].settled()
		}
		return all[i].settledAt > all[j].settledAt
	})

	fmt.Printf("Completed in %s\n\n", time.Since(start).Round(time.Millisecond))
	for _, s := range summarize(all) {
		fmt.Println(s)
	}
	fmt.Println()
	fmt.Println("Longest-lived scenarios:")
	for i, res := range all {
		if i >= *top {
			break
		}
		fmt.Println(" ", res)
	}
}

func (r scenarioResult) String() string {
	state := fmt.Sprintf("settled at %d (period %d)", r.settledAt, r.period)
	if !r.settled() {
		state = "still active"
	}
	return fmt.Sprintf("%s  pop %d -> %d (peak %d)  %s", r.scenario, r.initial, r.final, r.peak, state)
}

// sweep runs fn over every scenario on a bounded pool of workers.
func sweep(ctx context.Context, sets []scenario, workers int, fn func(scenario) scenarioResult) ([]scenarioResult, error) {
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan scenario)
	results := make(chan scenarioResult)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for _, s := range sets {
			select {
			case jobs <- s:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	work, wctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		work.Go(func() error {
			for s := range jobs {
				select {
				case results <- fn(s):
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		return work.Wait()
	})

	all := make([]scenarioResult, 0, len(sets))
	for res := range results {
		all = append(all, res)
	}
	return all, g.Wait()
}

// runScenario advances a random seed until it repeats one of the last two
// generations or the step budget runs out.
func runScenario(rows, cols int, s scenario, steps int) scenarioResult {
	live := seeds.Random(rows, cols, seeds.RandomConfig{Seed: s.seed, Density: s.density})
	cur := core.Seed(rows, cols, live).Set()
	res := scenarioResult{scenario: s, initial: cur.Population(), peak: cur.Population()}

	var prev *core.Set
	for gen := 1; gen <= steps; gen++ {
		next := life.Next(cur)
		pop := next.Population()
		res.peak = max(res.peak, pop)
		res.final = pop
		switch {
		case life.Stable(cur, next):
			res.settledAt, res.period = gen-1, 1
			return res
		case prev != nil && life.Stable(prev, next):
			res.settledAt, res.period = gen-2, 2
			return res
		}
		prev, cur = cur, next
	}
	return res
}

type densitySummary struct {
	density  float64
	runs     int
	settled  int
	extinct  int
	meanLife float64
	meanPop  float64
}

func (d densitySummary) String() string {
	return fmt.Sprintf("density %.2f: %d/%d settled, %d extinct, mean settle %.1f, mean final pop %.1f",
		d.density, d.settled, d.runs, d.extinct, d.meanLife, d.meanPop)
}

func summarize(all []scenarioResult) []densitySummary {
	by := map[float64]*densitySummary{}
	for _, r := range all {
		d, ok := by[r.density]
		if !ok {
			d = &densitySummary{density: r.density}
			by[r.density] = d
		}
		d.runs++
		d.meanPop += float64(r.final)
		if r.settled() {
			d.settled++
			d.meanLife += float64(r.settledAt)
		}
		if r.final == 0 {
			d.extinct++
		}
	}
	out := make([]densitySummary, 0, len(by))
	for _, d := range by {
		if d.settled > 0 {
			d.meanLife /= float64(d.settled)
		}
		d.meanPop /= float64(d.runs)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].density < out[j].density })
	return out
}
