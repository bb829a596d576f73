package backend

import "testing"

func TestGridSetString(t *testing.T) {
	g := NewGrid(6, 2)

	n := g.SetString(1, 0, "ab", false)

	if n != 2 {
		t.Errorf("SetString returned %d, want 2", n)
	}
	if got := g.Row(0); got != " ab" {
		t.Errorf("Row(0) = %q, want %q", got, " ab")
	}
}

func TestGridCombiningCluster(t *testing.T) {
	g := NewGrid(6, 1)

	n := g.SetString(0, 0, "e\u0301x", false)

	if n != 2 {
		t.Errorf("SetString returned %d, want 2", n)
	}
	if c := g.Cell(0, 0); c.Text != "e\u0301" {
		t.Errorf("Cell(0,0) = %q, want combined cluster", c.Text)
	}
	if c := g.Cell(1, 0); c.Text != "x" {
		t.Errorf("Cell(1,0) = %q, want %q", c.Text, "x")
	}
}

func TestGridWideCellDroppedAtEdge(t *testing.T) {
	g := NewGrid(3, 1)

	n := g.SetString(2, 0, "\u4e2d", false)

	if n != 2 {
		t.Errorf("SetString returned %d, want 2", n)
	}
	if got := g.Row(0); got != "" {
		t.Errorf("Row(0) = %q, want empty", got)
	}
}

func TestGridResizePreservesContent(t *testing.T) {
	g := NewGrid(4, 2)
	g.SetString(0, 0, "abcd", false)
	g.SetString(0, 1, "efgh", false)

	g.Resize(2, 3)

	w, h := g.Size()
	if w != 2 || h != 3 {
		t.Fatalf("Size = (%d, %d), want (2, 3)", w, h)
	}
	if got := g.Row(0); got != "ab" {
		t.Errorf("Row(0) = %q, want %q", got, "ab")
	}
	if got := g.Row(1); got != "ef" {
		t.Errorf("Row(1) = %q, want %q", got, "ef")
	}
	if got := g.Row(2); got != "" {
		t.Errorf("Row(2) = %q, want empty", got)
	}
}

func TestGridOutOfRange(t *testing.T) {
	g := NewGrid(2, 2)

	g.SetString(0, 5, "x", false)
	g.ClearRow(-1)

	if c := g.Cell(9, 9); c != blank {
		t.Errorf("Cell out of range = %+v, want blank", c)
	}
	if got := g.Row(7); got != "" {
		t.Errorf("Row out of range = %q", got)
	}
}
