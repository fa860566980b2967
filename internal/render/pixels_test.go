package render

import (
	"image/color"
	"slices"
	"testing"

	"lifestream/pkg/core"
)

func TestFillBinaryRGBA(t *testing.T) {
	s := core.Seed(1, 3, []core.Coord{{Row: 0, Col: 1}}).Set()
	buf := make([]byte, 4*s.Len())
	fillBinaryRGBA(buf, s, color.White, color.Black)

	want := []byte{
		0, 0, 0, 255,
		255, 255, 255, 255,
		0, 0, 0, 255,
	}
	if !slices.Equal(buf, want) {
		t.Fatalf("pixels = %v, want %v", buf, want)
	}
}

func TestClassify(t *testing.T) {
	prev := core.Seed(1, 4, []core.Coord{{Row: 0, Col: 1}, {Row: 0, Col: 2}}).Set()
	cur := core.Seed(1, 4, []core.Coord{{Row: 0, Col: 2}, {Row: 0, Col: 3}}).Set()

	got := Classify(nil, prev, cur)
	want := []uint8{ClassDead, ClassDied, ClassAlive, ClassBorn}
	if !slices.Equal(got, want) {
		t.Fatalf("classes = %v, want %v", got, want)
	}

	plain := Classify(got, nil, cur)
	if !slices.Equal(plain, []uint8{ClassDead, ClassDead, ClassAlive, ClassAlive}) {
		t.Fatalf("without prev expected plain classes, got %v", plain)
	}
}

func TestFillPaletteClampsAndClears(t *testing.T) {
	buf := make([]byte, 8)
	palette := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8}}
	fillPaletteRGBA(buf, []uint8{0, 9}, palette)
	if !slices.Equal(buf, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("unexpected pixels %v", buf)
	}

	fillPaletteRGBA(buf, []uint8{0, 1}, nil)
	if !slices.Equal(buf, make([]byte, 8)) {
		t.Fatalf("empty palette should clear, got %v", buf)
	}
}
