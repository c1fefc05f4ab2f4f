package main

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "campmap",
		Short:         "Campsite map editor session host",
		Long:          "campmap hosts a campsite map editing session and exposes its event bus, command history, and health over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}
