// Package store parses the annotated contig file into sequences and
// the connectivity hints recorded on their header lines.
package store

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bebop/poly/transform"
)

// reverseMarker suffixes a name to mean "this end is the
// reverse complement strand", as in assembly graph exports
const reverseMarker = "'"

// Sequence is a single contig as read from the input file
type Sequence struct {
	// ID is assigned in first-seen order during parsing
	ID int

	// Name from the header line, unique, reverse marker stripped
	Name string

	// Bases of the contig as stored (forward read)
	Bases string
}

// Target is one entry of a header's connectivity list
type Target struct {
	// Name of the connected contig
	Name string

	// Rev if the entry carried the reverse marker
	Rev bool
}

// Hint is the connectivity annotation of one header line: directed
// connections from the header's contig to each listed target
type Hint struct {
	// From is the header's contig name, reverse marker stripped
	From string

	// FromRev if the header name carried the reverse marker
	FromRev bool

	// To are the connected contigs, in listed order
	To []Target
}

// Store indexes parsed sequences by id and name
type Store struct {
	seqs []*Sequence
	ids  map[string]int
}

// Read parses the contig file at path
func Read(path string) (*Store, []Hint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open contig file: %v", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads the annotated contig format: a ">" header opens a new
// sequence, its body lines (until the next header) are joined as the
// sequence's bases. The header's remainder is "name[:t1,t2,...]" with
// an optional trailing ";". A name seen a second time as a header does
// not reopen the sequence: its body is discarded but its hint is kept.
func Parse(r io.Reader) (*Store, []Hint, error) {
	dat, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read contig file: %v", err)
	}

	s := &Store{ids: make(map[string]int)}
	var hints []Hint

	// bases are accumulated per sequence and joined once
	var bodies []*strings.Builder
	current := -1 // open sequence id, -1 while in a duplicate's body

	for _, line := range strings.Split(string(dat), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, ">") {
			if current >= 0 {
				bodies[current].WriteString(line)
			}
			continue
		}

		name, hint := parseHeader(line)
		if _, seen := s.ids[name]; seen {
			// duplicate-header guard: drop the body, keep the hint
			current = -1
		} else {
			current = len(s.seqs)
			s.ids[name] = current
			s.seqs = append(s.seqs, &Sequence{ID: current, Name: name})
			bodies = append(bodies, &strings.Builder{})
		}

		if hint != nil {
			hints = append(hints, *hint)
		}
	}

	for i, seq := range s.seqs {
		seq.Bases = bodies[i].String()
	}

	return s, hints, nil
}

// parseHeader splits a header line into the contig name and, if the
// line carries a connectivity list, its Hint
func parseHeader(line string) (string, *Hint) {
	rest := strings.TrimPrefix(line, ">")
	rest = strings.TrimRight(rest, ";")

	name := rest
	var targets string
	hasTargets := false
	if i := strings.Index(rest, ":"); i >= 0 {
		name, targets = rest[:i], rest[i+1:]
		hasTargets = true
	}

	fromRev := strings.HasSuffix(name, reverseMarker)
	name = strings.TrimSuffix(name, reverseMarker)

	if !hasTargets {
		return name, nil
	}

	hint := &Hint{From: name, FromRev: fromRev}
	for _, t := range strings.Split(targets, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		rev := strings.HasSuffix(t, reverseMarker)
		hint.To = append(hint.To, Target{
			Name: strings.TrimSuffix(t, reverseMarker),
			Rev:  rev,
		})
	}

	return name, hint
}

// Count is the number of parsed sequences
func (s *Store) Count() int {
	return len(s.seqs)
}

// Sequences lists every parsed sequence in id order
func (s *Store) Sequences() []*Sequence {
	return s.seqs
}

// ID maps a contig name to its sequence id
func (s *Store) ID(name string) (int, bool) {
	id, ok := s.ids[name]
	return id, ok
}

// Seq returns the sequence with the passed id
func (s *Store) Seq(id int) (*Sequence, error) {
	if id < 0 || id >= len(s.seqs) {
		return nil, fmt.Errorf("no sequence with id %d", id)
	}
	return s.seqs[id], nil
}

// Bases returns a sequence's bases on the requested strand: as stored
// for the forward strand, reverse complemented for the reverse strand.
// The stored sequence is never mutated
func (s *Store) Bases(id int, rev bool) (string, error) {
	seq, err := s.Seq(id)
	if err != nil {
		return "", err
	}

	if rev {
		return transform.ReverseComplement(seq.Bases), nil
	}
	return seq.Bases, nil
}
