// Package cli wires the ngxpreview commands.
package cli

import "github.com/spf13/cobra"

// NewRootCmd builds the ngxpreview command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ngxpreview",
		Short:         "Preview server for an nginx-style config subset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newVersionCmd())
	return root
}
