package finish

import (
	"github.com/bebop/poly/io/fasta"
	"github.com/chloroExtractorTeam/graph-parser/internal/blast"
	"github.com/chloroExtractorTeam/graph-parser/internal/store"
)

// rescue is the fallback when no unique component reconstructs: every
// stored sequence inside the relaxed length bounds is screened against
// the reference db in one batch, and each contig with a hit is emitted
// as an independent partial record
func (f *Finisher) rescue(s *store.Store) ([]fasta.Fasta, error) {
	bounds := f.conf.Filters
	min := bounds.MinSeqLen / bounds.RescueDivisor

	var pool []blast.Record
	for _, seq := range s.Sequences() {
		if len(seq.Bases) < min || len(seq.Bases) > bounds.MaxSeqLen {
			continue
		}
		pool = append(pool, blast.Record{Name: seq.Name, Seq: seq.Bases})
	}

	stderr.Printf("rescue: screening %d of %d sequences within [%d, %d]",
		len(pool), s.Count(), min, bounds.MaxSeqLen)
	if len(pool) == 0 {
		return nil, nil
	}

	hits, err := f.aligner.Screen(pool, f.db)
	if err != nil {
		return nil, err
	}

	var records []fasta.Fasta
	for _, name := range hits {
		id, ok := s.ID(name)
		if !ok {
			// a hit we can't map back is skipped, not fatal
			stderr.Printf("rescue: hit %s maps to no known sequence, skipped", name)
			continue
		}

		seq, err := s.Seq(id)
		if err != nil {
			return nil, err
		}
		records = append(records, fasta.Fasta{
			Name:     partialPrefix + seq.Name,
			Sequence: seq.Bases,
		})
	}

	stderr.Printf("rescue: %d partial records", len(records))
	return records, nil
}
