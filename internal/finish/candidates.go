package finish

import (
	"sort"

	"github.com/chloroExtractorTeam/graph-parser/internal/graph"
	"github.com/chloroExtractorTeam/graph-parser/internal/store"
	"golang.org/x/exp/maps"
)

// candidate is a weakly connected component that survived every
// screen and may be a chloroplast genome
type candidate struct {
	// sub is the component's induced subgraph
	sub *graph.Graph

	// ids are the distinct strand-stripped sequence ids, ascending
	ids []int
}

// candidates screens the graph's weakly connected components by node
// count, summed sequence length and cyclicity. Failing components are
// dropped, the reason only logged
func (f *Finisher) candidates(s *store.Store, g *graph.Graph) (cands []candidate) {
	bounds := f.conf.Filters

	for _, comp := range g.Components() {
		if len(comp) < bounds.MinNodes || len(comp) > bounds.MaxNodes {
			stderr.Printf("dropped component with %d nodes, outside [%d, %d]",
				len(comp), bounds.MinNodes, bounds.MaxNodes)
			continue
		}

		sub := g.Induced(comp)
		ids := sequenceIDs(comp)

		// each underlying sequence counts once, strand ignored
		total := 0
		for _, id := range ids {
			if seq, err := s.Seq(id); err == nil {
				total += len(seq.Bases)
			}
		}
		if total < bounds.MinSeqLen || total > bounds.MaxSeqLen {
			stderr.Printf("dropped component with %d total bases, outside [%d, %d]",
				total, bounds.MinSeqLen, bounds.MaxSeqLen)
			continue
		}

		// a genome's contig graph has to close a loop
		if !sub.Cyclic() {
			stderr.Printf("dropped acyclic component over sequences %v", ids)
			continue
		}

		cands = append(cands, candidate{sub: sub, ids: ids})
	}

	return cands
}

// sequenceIDs strips strands off a component's nodes and returns the
// distinct underlying sequence ids, ascending
func sequenceIDs(nodes []graph.Node) []int {
	set := make(map[int]bool)
	for _, n := range nodes {
		set[n.Seq] = true
	}

	ids := maps.Keys(set)
	sort.Ints(ids)
	return ids
}
