// Package cmd is for command line interactions with the graph-parser application
package cmd

import (
	"log"
	"os"

	"github.com/chloroExtractorTeam/graph-parser/internal/finish"
	"github.com/spf13/cobra"
)

var stderr = log.New(os.Stderr, "", 0)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "graph-parser",
	Short: `Finish a draft chloroplast assembly into one circular genome.
Contigs and their connectivity come from the annotated input file`,
	Long: `graph-parser reads assembled contigs whose headers describe how they
connect end to end, finds the connected, cyclic set of contigs that looks like
a chloroplast genome (LSC, inverted repeat, SSC) and stitches it into a single
circular sequence. If no unique candidate exists, contigs with homology to
known chloroplast coding sequences are written as partial records instead.`,
	Version: "0.4.0",
	Run:     finish.RunCmd,
}

// Execute runs the root command. It only needs to happen once.
// This is called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		stderr.Fatalf("%v", err)
	}
}

// set flags
func init() {
	rootCmd.Flags().StringP("infile", "i", "", "input contig file with connectivity annotations (required)")
	rootCmd.Flags().StringP("outfile", "o", "", "output FASTA file (required)")
	rootCmd.Flags().StringP("blastdb", "b", "", "BLAST db of reference chloroplast CDS (default: bundled db)")

	rootCmd.MarkFlagRequired("infile")
	rootCmd.MarkFlagRequired("outfile")
}
