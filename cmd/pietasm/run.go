package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orezstudent/piet/internal/asm"
	"github.com/orezstudent/piet/internal/cliutil"
	"github.com/orezstudent/piet/internal/gen"
	"github.com/orezstudent/piet/internal/vm"
)

func newRunCmd() *cobra.Command {
	var width, maxSteps int

	cmd := &cobra.Command{
		Use:   "run <file.pasm>",
		Short: "Assemble and execute a source file without writing an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
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

			machine := vm.New(g, vm.Options{
				Stdin:    os.Stdin,
				Stdout:   os.Stdout,
				MaxSteps: maxSteps,
				Log:      log,
			})
			return machine.Run()
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "codel width of the intermediate image (0 = generator default)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "abort after this many VM steps (0 = unbounded)")
	cmd.Flags().Int("codel-size", 1, "unused; accepted for symmetry with build")
	return cmd
}
