package cli

import (
	"github.com/spf13/cobra"

	internalcli "github.com/SmitUplenchwar2687/easytime/internal/cli"
)

// NewRootCmd creates the public easytime root command for embedding.
func NewRootCmd() *cobra.Command {
	return internalcli.NewRootCmd()
}
