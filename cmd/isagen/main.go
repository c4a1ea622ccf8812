package main

import (
	"fmt"
	"os"

	"github.com/oisee/isa-layout/pkg/isa"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "isagen <input.json>",
		Short: "Search for the densest fixed-width ISA bit layout for a declarative description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(args[0], verbose)
		},
	}
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print intermediate candidate layouts during search")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generate(inputPath string, verbose bool) error {
	log, closeLog, err := isa.NewLogger("isagen.cmd", verbose)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	desc, err := isa.ReadDescription(inputPath, log)
	if err != nil {
		log.WithError(err).Error("failed to load input")
		return err
	}

	outPath := isa.OutputPath(inputPath)
	fmt.Printf("ISA Layout Generator\n")
	fmt.Printf("  Word length: %d bits\n", desc.Length)
	fmt.Printf("  Fields: %d, Formats: %d\n", len(desc.Fields), len(desc.Formats))
	fmt.Println()

	opts := isa.Options{
		Verbose: verbose,
		OnImprovement: func(layout *isa.Layout) {
			if werr := writeOutput(outPath, layout); werr != nil {
				log.WithError(werr).Warn("failed to write intermediate best layout")
			}
		},
	}

	layout, err := isa.Run(desc, opts, log)
	if err != nil {
		log.WithError(err).Error("search failed")
		return err
	}

	if err := writeOutput(outPath, layout); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Println(isa.RenderText(layout.Formats, layout.Length))
	fmt.Printf("BEST ISA FOUND: %d/%d bits used across %d format(s)\n",
		layout.UsedBits, layout.Length*len(layout.Formats), len(layout.Formats))
	fmt.Printf("Written to %s\n", outPath)
	return nil
}

func writeOutput(path string, layout *isa.Layout) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return isa.WriteJSON(f, isa.BuildOutput(layout))
}
