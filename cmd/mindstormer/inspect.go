package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gooseboi/mindstormer/diagram"
	"github.com/gooseboi/mindstormer/project"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <project.ev3>",
	Short: "Inspect an EV3 project archive",
	Long:  "Load a project archive, parse every program file, and print the project metadata and program graph summary.",
	Args:  cobra.ExactArgs(1),
	RunE:  inspectProject,
}

func init() {
	inspectCmd.Flags().Bool("dump", false, "Dump every block and wire of every program file")

	rootCmd.AddCommand(inspectCmd)
}

func inspectProject(cmd *cobra.Command, args []string) error {
	verbose := viper.GetBool("verbose")
	dump, _ := cmd.Flags().GetBool("dump")

	p, err := project.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Title: %s\n", p.Title)
	fmt.Fprintf(os.Stderr, "Description: %s\n", p.Description)
	fmt.Fprintf(os.Stderr, "Year: %d\n", p.Year)
	if verbose {
		fmt.Fprintf(os.Stderr, "Thumbnail: %d bytes\n", len(p.Thumbnail))
		fmt.Fprintf(os.Stderr, "Activity assets: %d bytes\n", len(p.ActivityAssets))
	}

	fmt.Fprintf(os.Stderr, "Programs: %d\n", len(p.Files))
	for _, doc := range p.Files {
		fmt.Fprintf(os.Stderr, "  - %s (%d blocks, %d wires)\n", doc.Name, len(doc.Blocks), len(doc.Wires))
		if dump {
			printDocument(doc)
		}
	}
	return nil
}

func printDocument(doc *diagram.Document) {
	fmt.Fprintf(os.Stderr, "    Version: %s (%s)\n", doc.Version.Number, doc.Version.Namespace)

	blockIDs := lo.Keys(doc.Blocks)
	sort.Strings(blockIDs)
	for _, id := range blockIDs {
		b := doc.Blocks[id]
		switch b.Kind {
		case diagram.BlockStart:
			fmt.Fprintf(os.Stderr, "    [%s] start (%dx%d) out=%s\n",
				b.ID, b.Bounds.Width, b.Bounds.Height, b.SequenceOut.WireID)
		case diagram.BlockMotorMove:
			fmt.Fprintf(os.Stderr, "    [%s] motor move ports=%c%c steering=%d speed=%d in=%s out=%s\n",
				b.ID, b.Ports[0], b.Ports[1], b.Steering, b.Speed,
				b.SequenceIn.WireID, b.SequenceOut.WireID)
		}
	}

	wireIDs := lo.Keys(doc.Wires)
	sort.Strings(wireIDs)
	for _, id := range wireIDs {
		w := doc.Wires[id]
		fmt.Fprintf(os.Stderr, "    [%s] wire %s -> %s\n", w.ID, w.Output, w.Input)
	}
}
