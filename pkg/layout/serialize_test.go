package layout

import "testing"

func TestSerialize_RoundTripsParsedInput(t *testing.T) {
	bodies := []string{
		"80x24,0,0,5",
		"80x24,0,0",
		"80x24,0,0{40x24,0,0,5,39x24,41,0,6}",
		"80x24,0,0[80x12,0,0,1,80x11,0,13,2]",
		"238x54,0,0{119x54,0,0,1,118x54,120,0[118x27,120,0,2,118x26,120,28,3]}",
	}
	for _, body := range bodies {
		n, err := Parse(body)
		if err != nil {
			t.Fatalf("parse %q: %v", body, err)
		}
		if got := Serialize(n); got != body {
			t.Fatalf("round trip mismatch:\n in: %s\nout: %s", body, got)
		}
	}
}

func TestSerialize_ParseOfSerializeIsStructurallyEqual(t *testing.T) {
	body := "238x54,0,0{119x54,0,0,1,118x54,120,0[118x27,120,0,2,118x26,120,28,3]}"
	first, err := Parse(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := Parse(Serialize(first))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("reparsed tree differs from original")
	}
}

func TestSerialize_AfterEqualizeStillParses(t *testing.T) {
	body := "100x40,0,0{49x40,0,0,7,50x40,50,0,9}"
	n, err := Parse(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Equalize(n, 121, 40, 0, 0)

	out := Serialize(n)
	if out == body {
		t.Fatalf("expected geometry to change after rebalance with a wider window")
	}
	reparsed, err := Parse(out)
	if err != nil {
		t.Fatalf("serialized output does not reparse: %v", err)
	}
	if !n.Equal(reparsed) {
		t.Fatalf("reparsed tree differs from equalized tree")
	}
}

func TestSerialize_LeafWithoutIDEmitsNoTail(t *testing.T) {
	n := &Node{Kind: Leaf, Width: 80, Height: 24}
	if got := Serialize(n); got != "80x24,0,0" {
		t.Fatalf("unexpected encoding: %q", got)
	}
}
