// Package finish turns a draft chloroplast assembly into a single
// circular consensus sequence: it screens weakly connected pieces of
// the contig connectivity graph, validates them against a reference
// CDS database and stitches the surviving component's regions into
// the quadripartite LSC-IR-SSC-IR layout. When no unique candidate
// reconstructs, it falls back to reporting partial homologous contigs.
package finish

import (
	"fmt"
	"log"
	"os"

	"github.com/bebop/poly/io/fasta"
	"github.com/chloroExtractorTeam/graph-parser/config"
	"github.com/chloroExtractorTeam/graph-parser/internal/blast"
	"github.com/chloroExtractorTeam/graph-parser/internal/graph"
	"github.com/chloroExtractorTeam/graph-parser/internal/store"
	"github.com/spf13/cobra"
)

// stderr is for logging to Stderr (without an annoying timestamp)
var stderr = log.New(os.Stderr, "", 0)

// genomeHeader names the reconstructed record in the output file
const genomeHeader = "chloroplast_genome"

// partialPrefix tags rescue records with their input contig's name
const partialPrefix = "partial_chloroplast_"

// Finisher runs the whole pipeline against one contig file
type Finisher struct {
	conf    *config.Config
	aligner blast.Aligner

	// reference db of chloroplast coding sequences
	db string
}

// NewFinisher creates a Finisher around a homology collaborator
func NewFinisher(conf *config.Config, aligner blast.Aligner, db string) *Finisher {
	return &Finisher{conf: conf, aligner: aligner, db: db}
}

// RunCmd is the entry for the root cobra command
func RunCmd(cmd *cobra.Command, args []string) {
	in, err := cmd.Flags().GetString("infile")
	if err != nil || in == "" {
		stderr.Fatal("failed without an input file argument")
	}

	out, err := cmd.Flags().GetString("outfile")
	if err != nil || out == "" {
		stderr.Fatal("failed without an output file argument")
	}

	conf := config.New()

	db, err := cmd.Flags().GetString("blastdb")
	if err != nil || db == "" {
		db = conf.Blast.DB // bundled reference CDS db
	}

	f := NewFinisher(conf, blast.New(conf), db)
	if err := f.Finish(in, out); err != nil {
		stderr.Fatalf("%v", err)
	}
}

// Finish reads the contig file at in and writes the finished genome,
// partial records or an empty file to out
func (f *Finisher) Finish(in, out string) error {
	s, hints, err := store.Read(in)
	if err != nil {
		return err
	}
	stderr.Printf("%d sequences and %d connectivity hints in %s", s.Count(), len(hints), in)

	g, err := graph.Build(s, hints)
	if err != nil {
		return err
	}
	stderr.Printf("connectivity graph with %d nodes and %d edges", g.Order(), g.Size())

	records, err := f.assemble(s, g)
	if err != nil {
		return err
	}

	if err := write(out, records); err != nil {
		return err
	}

	if len(records) == 0 {
		stderr.Println("no chloroplast sequence found, wrote an empty output file")
	}
	return nil
}

// assemble screens graph components and either reconstructs the one
// validated candidate or collects partial rescue records
func (f *Finisher) assemble(s *store.Store, g *graph.Graph) ([]fasta.Fasta, error) {
	var validated []candidate
	for _, c := range f.candidates(s, g) {
		ok, err := f.validate(s, c)
		if err != nil {
			return nil, err
		}

		if !ok {
			// no homology evidence, excluded without further processing
			stderr.Printf("component over sequences %v has no reference hit", c.ids)
			continue
		}
		validated = append(validated, c)
	}

	if len(validated) == 1 {
		seq, err := f.reconstruct(s, validated[0])
		if err == nil {
			return []fasta.Fasta{{Name: genomeHeader, Sequence: seq}}, nil
		}
		stderr.Printf("reconstruction failed: %v", err)
	} else {
		stderr.Printf("%d validated components, need exactly one for reconstruction", len(validated))
	}

	return f.rescue(s)
}

// validate submits a candidate's member sequences for homology
// evidence against the reference db
func (f *Finisher) validate(s *store.Store, c candidate) (bool, error) {
	var records []blast.Record
	for _, id := range c.ids {
		seq, err := s.Seq(id)
		if err != nil {
			return false, err
		}
		records = append(records, blast.Record{Name: seq.Name, Seq: seq.Bases})
	}

	return f.aligner.Validate(records, f.db)
}

// write dumps the records as the FASTA output file. zero records
// write an empty file: a valid "no chloroplast found" outcome
func write(path string, records []fasta.Fasta) error {
	if len(records) == 0 {
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return fmt.Errorf("failed to write output file %s: %v", path, err)
		}
		return nil
	}

	if err := fasta.Write(records, path); err != nil {
		return fmt.Errorf("failed to write output file %s: %v", path, err)
	}
	return nil
}
