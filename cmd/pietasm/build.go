package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orezstudent/piet/internal/asm"
	"github.com/orezstudent/piet/internal/cliutil"
	"github.com/orezstudent/piet/internal/gen"
)

func newBuildCmd() *cobra.Command {
	var codelSize, width int
	var outPath string

	cmd := &cobra.Command{
		Use:   "build <file.pasm>",
		Short: "Assemble a source file into a PNG program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			out := outPath
			if out == "" {
				out = defaultPNGPath(src)
			}

			f, err := os.Open(src)
			if err != nil {
				return err
			}
			defer f.Close()

			prog, err := asm.Assemble(f)
			if err != nil {
				return fmt.Errorf("assemble %s: %w", src, err)
			}

			log := cliutil.NewLogger(verbose)
			g, err := gen.Generate(prog, width, log)
			if err != nil {
				return fmt.Errorf("generate image for %s: %w", src, err)
			}

			outFile, err := os.Create(out)
			if err != nil {
				return err
			}
			defer outFile.Close()

			if err := g.Encode(outFile, codelSize); err != nil {
				return fmt.Errorf("encode %s: %w", out, err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&codelSize, "codel-size", 1, "pixels per codel in the output image")
	cmd.Flags().IntVar(&width, "width", 0, "codel width of the generated image (0 = generator default)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output PNG path (default <file>.png)")
	return cmd
}

func defaultPNGPath(src string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + ".png"
}
