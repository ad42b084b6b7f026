package finish

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/chloroExtractorTeam/graph-parser/internal/graph"
	"github.com/chloroExtractorTeam/graph-parser/internal/store"
)

func Test_stitch(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want string
	}{
		{
			"three base overlap",
			"ACGTAAGG",
			"AGGTTT",
			"ACGTAAGGTTT",
		},
		{
			"no overlap",
			"AAAA",
			"CCCC",
			"",
		},
		{
			"longest overlap wins over shorter",
			"CAA",
			"AACAA",
			"CAACAA",
		},
		{
			"full containment of the shorter prefix",
			"AA",
			"AAAA",
			"AAAA",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stitch(tt.a, tt.b); got != tt.want {
				t.Errorf("stitch(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// bruteStitch scans overlap lengths from the longest down and merges
// on the first match. reference for the property check below
func bruteStitch(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}

	for k := max; k >= 1; k-- {
		if strings.HasSuffix(a, b[:k]) {
			return a + b[k:]
		}
	}
	return ""
}

func Test_stitch_bruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	bases := []byte("ACGT")

	random := func(n int) string {
		s := make([]byte, n)
		for i := range s {
			s[i] = bases[rng.Intn(len(bases))]
		}
		return string(s)
	}

	for i := 0; i < 500; i++ {
		a := random(1 + rng.Intn(20))
		b := random(1 + rng.Intn(20))

		// plant an overlap half the time
		if rng.Intn(2) == 0 {
			k := 1 + rng.Intn(len(a))
			b = a[len(a)-k:] + b
		}

		if got, want := stitch(a, b), bruteStitch(a, b); got != want {
			t.Fatalf("stitch(%s, %s) = %q, brute force says %q", a, b, got, want)
		}
	}
}

func Test_circularize(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{
			"maximal self-overlap trimmed",
			"ABCXYZABC",
			"XYZABC",
		},
		{
			"no self-overlap leaves the sequence alone",
			"ACGTTGCC",
			"ACGTTGCC",
		},
		{
			"homopolymer trims half",
			"AAAA",
			"AA",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := circularize(tt.seq); got != tt.want {
				t.Errorf("circularize(%s) = %s, want %s", tt.seq, got, tt.want)
			}
		})
	}
}

func Test_irSequence(t *testing.T) {
	// degree dominates: the hub vertex's sequence is the IR
	hub := graph.New()
	hub.AddEdge(graph.Node{Seq: 0}, graph.Node{Seq: 1})
	hub.AddEdge(graph.Node{Seq: 2}, graph.Node{Seq: 1})
	hub.AddEdge(graph.Node{Seq: 1}, graph.Node{Seq: 2})
	if got := irSequence(hub); got != 1 {
		t.Errorf("irSequence = %d, want the highest degree vertex's sequence 1", got)
	}

	// equal degrees fall back to descending serialized ids
	tie := graph.New()
	tie.AddEdge(graph.Node{Seq: 3}, graph.Node{Seq: 5})
	tie.AddEdge(graph.Node{Seq: 5}, graph.Node{Seq: 3})
	if got := irSequence(tie); got != 5 {
		t.Errorf("irSequence = %d, want 5 (serialized \"5\" > \"3\")", got)
	}

	// the reverse marker sorts a node above its forward twin
	rev := graph.New()
	rev.AddEdge(graph.Node{Seq: 4, Rev: true}, graph.Node{Seq: 4})
	rev.AddEdge(graph.Node{Seq: 4}, graph.Node{Seq: 4, Rev: true})
	if got := irSequence(rev); got != 4 {
		t.Errorf("irSequence = %d, want 4", got)
	}
}

// the tie-break must be stable across runs and insertion orders
func Test_irSequence_deterministic(t *testing.T) {
	build := func(flip bool) *graph.Graph {
		g := graph.New()
		a, b := graph.Node{Seq: 8}, graph.Node{Seq: 6, Rev: true}
		if flip {
			a, b = b, a
		}
		g.AddEdge(a, b)
		g.AddEdge(b, a)
		return g
	}

	first := irSequence(build(false))
	second := irSequence(build(true))
	if first != second {
		t.Fatalf("tie-break depends on insertion order: %d vs %d", first, second)
	}

	// "8" > "6'" by the serialized ordering
	if first != 8 {
		t.Errorf("irSequence = %d, want 8", first)
	}
}

func Test_assignRegions(t *testing.T) {
	s, _, err := store.Parse(strings.NewReader(
		">short\nACGT\n>ir\nAAAA\n>longer\nACGTACGTAC\n"))
	if err != nil {
		t.Fatal(err)
	}

	lsc, ssc, err := assignRegions(s, []int{0, 1, 2}, 1)
	if err != nil {
		t.Fatalf("failed to assign regions: %v", err)
	}
	if lsc != 2 || ssc != 0 {
		t.Errorf("lsc, ssc = %d, %d, want 2, 0", lsc, ssc)
	}

	// anything but two leftover sequences is a reconstruction failure
	if _, _, err := assignRegions(s, []int{0, 1}, 1); err == nil {
		t.Error("expected an error with a single non-IR sequence")
	}
	if _, _, err := assignRegions(s, []int{0, 1, 2}, 5); err == nil {
		t.Error("expected an error with three non-IR sequences")
	}
}
