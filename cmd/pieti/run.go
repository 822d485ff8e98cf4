package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orezstudent/piet/internal/cliutil"
	"github.com/orezstudent/piet/internal/grid"
	"github.com/orezstudent/piet/internal/vm"
)

func newRunCmd() *cobra.Command {
	var codelSize, maxSteps int

	cmd := &cobra.Command{
		Use:   "run <file.png>",
		Short: "Load a program image and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			f, err := os.Open(src)
			if err != nil {
				return err
			}
			defer f.Close()

			g, err := grid.Decode(f, codelSize)
			if err != nil {
				return fmt.Errorf("decode %s: %w", src, err)
			}

			log := cliutil.NewLogger(verbose)
			machine := vm.New(g, vm.Options{
				Stdin:    os.Stdin,
				Stdout:   os.Stdout,
				MaxSteps: maxSteps,
				Log:      log,
			})
			return machine.Run()
		},
	}
	cmd.Flags().IntVar(&codelSize, "codel-size", 1, "pixels per codel in the input image")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "abort after this many VM steps (0 = unbounded)")
	return cmd
}
