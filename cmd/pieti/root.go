package main

import "github.com/spf13/cobra"

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pieti",
		Short:        "Execute Piet program images",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable development logging")
	root.AddCommand(newRunCmd())
	return root
}
