package seeds

import (
	"slices"
	"testing"

	"lifestream/pkg/core"
	"lifestream/pkg/life"
)

func TestRegistryNames(t *testing.T) {
	names := Names()
	for _, want := range []string{"beacon", "blinker", "block", "glider", "glider-gun", "r-pentomino", "random"} {
		if !slices.Contains(names, want) {
			t.Fatalf("pattern %q not registered (have %v)", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatal("unknown pattern should not be found")
	}
}

func TestPatternsStayInBounds(t *testing.T) {
	for name, f := range All() {
		for _, dims := range [][2]int{{40, 60}, {5, 5}, {1, 1}} {
			rows, cols := dims[0], dims[1]
			for _, c := range f(rows, cols, nil) {
				if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
					t.Fatalf("%s on %dx%d produced out-of-bounds cell %v", name, rows, cols, c)
				}
			}
		}
	}
}

func TestPlaceCentersShape(t *testing.T) {
	got := Place(shapes["block"], 6, 6)
	want := []core.Coord{{Row: 2, Col: 2}, {Row: 2, Col: 3}, {Row: 3, Col: 2}, {Row: 3, Col: 3}}
	if !slices.Equal(got, want) {
		t.Fatalf("block placed at %v, want %v", got, want)
	}
}

func TestBlockAndBeaconBehave(t *testing.T) {
	f, _ := Lookup("block")
	block := core.Seed(8, 8, f(8, 8, nil)).Set()
	if !life.Stable(block, life.Next(block)) {
		t.Fatal("block should be a still life")
	}

	f, _ = Lookup("beacon")
	beacon := core.Seed(8, 8, f(8, 8, nil)).Set()
	if life.Stable(beacon, life.Next(beacon)) {
		t.Fatal("beacon should oscillate")
	}
	if !beacon.Equal(life.Run(beacon, 2)) {
		t.Fatal("beacon should have period 2")
	}
}

func TestRandomDeterministic(t *testing.T) {
	cfg := map[string]string{"seed": "9", "density": "0.5"}
	a := Random(20, 20, RandomFromMap(cfg))
	b := Random(20, 20, RandomFromMap(cfg))
	if !slices.Equal(a, b) {
		t.Fatal("same seed must produce the same pattern")
	}
	other := Random(20, 20, RandomFromMap(map[string]string{"seed": "10", "density": "0.5"}))
	if slices.Equal(a, other) {
		t.Fatal("different seeds should produce different patterns")
	}

	counted := Random(20, 20, RandomFromMap(map[string]string{"count": "37"}))
	if len(counted) != 37 {
		t.Fatalf("expected 37 cells, got %d", len(counted))
	}
}

func TestRandomFromMapRejectsBadValues(t *testing.T) {
	c := RandomFromMap(map[string]string{"density": "1.5", "count": "-2", "seed": "x"})
	if c != DefaultRandomConfig() {
		t.Fatalf("invalid values must keep defaults, got %+v", c)
	}
}
