// Command ecolift maps a raw byte file into a Project and lifts one
// basic block from it, printing the resulting IR.
//
// No real disassembly backend ships in this module (the backend is an
// external collaborator resolved by architecture tag); this CLI always
// lifts through backend/fake's toy instruction set, which is enough to
// exercise the whole pipeline end to end.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/backend/fake"
	"github.com/binlift/ecolift/ir"
	"github.com/binlift/ecolift/project"
	"github.com/binlift/ecolift/region"
)

var log = logrus.WithField("component", "cmd/ecolift")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "ecolift",
		Short: "Map a byte blob into a project and lift it to IR",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")

	root.AddCommand(newLiftCmd())
	return root
}

func newLiftCmd() *cobra.Command {
	var (
		file string
		base string
		at   string
		bits uint32
	)

	cmd := &cobra.Command{
		Use:   "lift",
		Short: "Map a file at --base and lift a block starting at --at",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLift(file, base, at, bits)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the raw bytes to map (required)")
	cmd.Flags().StringVar(&base, "base", "0x0", "address the file is mapped at (decimal, or 0x/0o/0b-prefixed)")
	cmd.Flags().StringVar(&at, "at", "", "address to lift from, same syntax as --base (defaults to --base)")
	cmd.Flags().Uint32Var(&bits, "bits", 32, "address width in bits")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runLift(file, base, at string, bits uint32) error {
	if at == "" {
		at = base
	}

	baseAddr, err := addr.Parse(base, bits)
	if err != nil {
		return fmt.Errorf("--base: %w", err)
	}
	atAddr, err := addr.Parse(at, bits)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	p := project.New("ecolift", fake.New())
	p.AddRegionMappingWith("main", baseAddr, region.LittleEndian, data)
	log.WithField("bytes", len(data)).WithField("base", baseAddr.String()).Debug("region mapped")

	ids, err := p.AddBlk(context.Background(), atAddr)
	if err != nil {
		return fmt.Errorf("lifting at %s: %w", atAddr, err)
	}
	if len(ids) == 0 {
		log.WithField("address", atAddr.String()).Warn("lift produced no blocks")
		return nil
	}

	for _, id := range ids {
		blk, ok := p.Blk(id)
		if !ok {
			continue
		}
		fmt.Printf("; %s\n%s\n", id, ir.Print(blk))
	}
	return nil
}
