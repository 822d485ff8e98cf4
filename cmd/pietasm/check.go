package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orezstudent/piet/internal/asm"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.pasm>",
		Short: "Run the assembler pipeline and report diagnostics without generating an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			f, err := os.Open(src)
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := asm.Assemble(f); err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", src)
			return nil
		},
	}
	return cmd
}
