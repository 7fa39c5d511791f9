package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gooseboi/mindstormer/diagram"
)

var parseCmd = &cobra.Command{
	Use:   "parse <program.ev3p>",
	Short: "Parse a single program file",
	Long:  "Parse one block-diagram XML program file (already extracted from its archive) and print the resulting document.",
	Args:  cobra.ExactArgs(1),
	RunE:  parseProgram,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parseProgram(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading program file: %w", err)
	}

	doc, err := diagram.Build(args[0], src)
	if err != nil {
		if kind := diagram.KindOf(err); kind != "" && viper.GetBool("debug") {
			fmt.Fprintf(os.Stderr, "failure kind: %s\n", kind)
		}
		return fmt.Errorf("parsing program: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Parsed %s: %d blocks, %d wires\n", doc.Name, len(doc.Blocks), len(doc.Wires))
	printDocument(doc)
	return nil
}
