package finish

import (
	"fmt"
	"sort"

	"github.com/chloroExtractorTeam/graph-parser/internal/graph"
	"github.com/chloroExtractorTeam/graph-parser/internal/store"
)

// strandPair is one LSC/IR orientation combination to attempt.
// the four combinations are tried in a fixed priority order
type strandPair struct {
	lscRev bool
	irRev  bool
}

// orientations is the fixed attempt order for the LSC-IR junction
var orientations = []strandPair{
	{lscRev: false, irRev: false},
	{lscRev: false, irRev: true},
	{lscRev: true, irRev: false},
	{lscRev: true, irRev: true},
}

// reconstruct stitches the candidate's three regions into one circular
// chloroplast sequence: LSC, IR, SSC, then the IR again on the strand
// that closed the LSC junction. The first orientation whose whole
// stitch chain succeeds wins; if none does, the caller falls back to
// the partial rescue
func (f *Finisher) reconstruct(s *store.Store, c candidate) (string, error) {
	ir := irSequence(c.sub)
	stderr.Printf("sequence %d selected as the inverted repeat", ir)

	lsc, ssc, err := assignRegions(s, c.ids, ir)
	if err != nil {
		return "", err
	}
	stderr.Printf("sequence %d is the LSC, %d the SSC", lsc, ssc)

	sscSeq, err := s.Bases(ssc, false)
	if err != nil {
		return "", err
	}

	for _, p := range orientations {
		lscSeq, err := s.Bases(lsc, p.lscRev)
		if err != nil {
			return "", err
		}
		irSeq, err := s.Bases(ir, p.irRev)
		if err != nil {
			return "", err
		}

		asm := stitch(lscSeq, irSeq)
		if asm == "" {
			continue
		}
		if asm = stitch(asm, sscSeq); asm == "" {
			continue
		}
		// close the loop with the IR on the strand fixed above
		if asm = stitch(asm, irSeq); asm == "" {
			continue
		}

		return circularize(asm), nil
	}

	return "", fmt.Errorf("no strand combination of LSC and IR produced an overlap assembly")
}

// irSequence picks the inverted repeat: the subgraph vertex with the
// highest total degree, ties broken by descending serialized id so
// that a reverse-marked node outranks its forward twin. The winner's
// underlying sequence id is the IR
func irSequence(sub *graph.Graph) int {
	nodes := sub.Nodes()
	sort.Slice(nodes, func(i, j int) bool {
		di, dj := sub.Degree(nodes[i]), sub.Degree(nodes[j])
		if di != dj {
			return di > dj
		}
		return nodes[i].String() > nodes[j].String()
	})

	return nodes[0].Seq
}

// assignRegions labels the two non-IR sequences: the shorter is the
// small single-copy region, the longer the large one. Any other count
// of leftover sequences fails the reconstruction
func assignRegions(s *store.Store, ids []int, ir int) (lsc, ssc int, err error) {
	var rest []int
	for _, id := range ids {
		if id != ir {
			rest = append(rest, id)
		}
	}
	if len(rest) != 2 {
		return 0, 0, fmt.Errorf("%d sequences besides the inverted repeat, want 2", len(rest))
	}

	lsc, ssc = rest[0], rest[1]
	lscSeq, err := s.Seq(lsc)
	if err != nil {
		return 0, 0, err
	}
	sscSeq, err := s.Seq(ssc)
	if err != nil {
		return 0, 0, err
	}

	if len(lscSeq.Bases) < len(sscSeq.Bases) {
		lsc, ssc = ssc, lsc
	}
	return lsc, ssc, nil
}

// stitch merges b onto a over their longest suffix-prefix overlap:
// the largest k where a's last k bases equal b's first k. Returns ""
// when no overlap of any length exists. Finding the longest overlap,
// not the first, is what keeps junctions unambiguous
func stitch(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}

	best := 0
	for k := 1; k <= max; k++ {
		if a[len(a)-k:] == b[:k] {
			best = k
		}
	}

	if best == 0 {
		return ""
	}
	return a + b[best:]
}

// circularize trims the duplicated closure off a circular assembly:
// the largest prefix (up to half the sequence) that also ends the
// sequence is removed from the start. No self-overlap leaves the
// sequence unmodified
func circularize(seq string) string {
	best := 0
	for i := 1; i <= len(seq)/2; i++ {
		if seq[:i] == seq[len(seq)-i:] {
			best = i
		}
	}

	if best > 0 {
		stderr.Printf("trimmed a %d base self-overlap at the circular boundary", best)
	}
	return seq[best:]
}
