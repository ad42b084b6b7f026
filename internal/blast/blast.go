// Package blast runs blastn against a reference database of
// chloroplast coding sequences to judge whether candidate contigs
// carry any recognizable homology.
package blast

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/bebop/poly/io/fasta"
	"github.com/chloroExtractorTeam/graph-parser/config"
)

var stderr = log.New(os.Stderr, "", 0)

// Record is one labeled query sequence for a homology search
type Record struct {
	// Name labels the query; hits are reported against it
	Name string

	// Seq is the query's bases
	Seq string
}

// Aligner is the homology search collaborator. A stub can stand in
// for blastn in tests
type Aligner interface {
	// Validate reports whether any query in the batch has at least
	// one hit in the db at the configured e-value
	Validate(records []Record, db string) (bool, error)

	// Screen returns the distinct query names that received at least
	// one hit in the db, in first-hit order
	Screen(records []Record, db string) ([]string, error)
}

// Blastn shells out to the blastn binary, one process per call
type Blastn struct {
	// path to the blastn executable
	exe string

	// scratch directory for query/output files
	dir string

	// e-value cutoff passed to blastn
	evalue float64
}

// New returns a Blastn using the configured executable and scratch dir
func New(conf *config.Config) *Blastn {
	return &Blastn{
		exe:    conf.Blast.Blastn,
		dir:    conf.Blast.Dir,
		evalue: conf.Blast.EValue,
	}
}

// hit is one parsed line of blastn's tabular output
type hit struct {
	query   string
	subject string
	evalue  float64
}

// blastExec is the scratch state of a single blastn invocation
type blastExec struct {
	// the path to the database we're blasting against
	db string

	// the path to the query FASTA file
	in string

	// the path for the tabular blastn output
	out string

	// path to the blastn executable
	exe string

	// e-value cutoff
	evalue float64
}

// Validate runs one blastn process over the batch and reports whether
// any query found homology at all
func (b *Blastn) Validate(records []Record, db string) (bool, error) {
	hits, err := b.search(records, db)
	if err != nil {
		return false, err
	}
	return len(hits) > 0, nil
}

// Screen runs one blastn process over the batch and returns the
// distinct query names with at least one hit
func (b *Blastn) Screen(records []Record, db string) ([]string, error) {
	hits, err := b.search(records, db)
	if err != nil {
		return nil, err
	}
	return distinctQueries(hits), nil
}

// distinctQueries collapses hits to their query names, first-hit order
func distinctQueries(hits []hit) (names []string) {
	seen := make(map[string]bool)
	for _, h := range hits {
		if !seen[h.query] {
			seen[h.query] = true
			names = append(names, h.query)
		}
	}
	return
}

// search writes the queries, runs blastn and parses its output.
// scratch files are removed whatever the outcome
func (b *Blastn) search(records []Record, db string) ([]hit, error) {
	if _, err := os.Stat(db); os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to find a BLAST database at %s", db)
	}

	e, err := b.newExec(db)
	if err != nil {
		return nil, err
	}
	defer e.cleanup()

	if err := e.create(dedupe(records)); err != nil {
		return nil, fmt.Errorf("failed at creating BLAST input file at %s: %v", e.in, err)
	}

	if err := e.run(); err != nil {
		return nil, fmt.Errorf("failed executing BLAST: %v", err)
	}

	hits, err := e.parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse BLAST output: %v", err)
	}
	return hits, nil
}

// newExec reserves unique scratch paths for one blastn call
func (b *Blastn) newExec(db string) (*blastExec, error) {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create a BLAST scratch dir: %v", err)
	}

	in, err := os.CreateTemp(b.dir, "query.*.fa")
	if err != nil {
		return nil, fmt.Errorf("failed to create a BLAST input file: %v", err)
	}
	in.Close()

	return &blastExec{
		db:     db,
		in:     in.Name(),
		out:    in.Name() + ".output",
		exe:    b.exe,
		evalue: b.evalue,
	}, nil
}

// dedupe drops repeated query names, keeping the first occurrence
func dedupe(records []Record) (unique []Record) {
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.Name] {
			seen[r.Name] = true
			unique = append(unique, r)
		}
	}
	return
}

// create writes the query records as the blastn input file
func (e *blastExec) create(records []Record) error {
	fastas := make([]fasta.Fasta, len(records))
	for i, r := range records {
		fastas[i] = fasta.Fasta{Name: r.Name, Sequence: r.Seq}
	}
	return fasta.Write(fastas, e.in)
}

// run calls the external blastn binary on the query file
func (e *blastExec) run() error {
	threads := runtime.NumCPU() - 1
	if threads < 1 {
		threads = 1
	}

	// https://www.ncbi.nlm.nih.gov/books/NBK279682/
	blastCmd := exec.Command(
		e.exe,
		"-task", "blastn",
		"-db", e.db,
		"-query", e.in,
		"-out", e.out,
		"-outfmt", "6 qseqid sseqid evalue",
		"-evalue", strconv.FormatFloat(e.evalue, 'e', -1, 64),
		"-max_target_seqs", "1",
		"-num_threads", strconv.Itoa(threads),
	)

	// execute BLAST and wait on it to finish
	if output, err := blastCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to execute blastn against %s: %v: %s", e.db, err, string(output))
	}
	return nil
}

// parse reads the tabular output into hits at or under the cutoff
func (e *blastExec) parse() (hits []hit, err error) {
	file, err := os.ReadFile(e.out)
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(file), "\n") {
		// comment lines start with a #
		if strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < 3 {
			continue
		}

		ev, err := strconv.ParseFloat(cols[2], 64)
		if err != nil || ev > e.evalue {
			continue
		}

		hits = append(hits, hit{
			query:   cols[0],
			subject: cols[1],
			evalue:  ev,
		})
	}
	return hits, nil
}

// cleanup removes the call's scratch files. removal failure is logged
// but never fails the run
func (e *blastExec) cleanup() {
	for _, f := range []string{e.in, e.out} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			stderr.Printf("warning: failed to remove %s: %v", f, err)
		}
	}
}
