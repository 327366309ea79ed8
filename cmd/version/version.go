package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calderanet/caldera-cli/internal/runtime"
)

// Default placeholder value
var Version = "development"

func New(runtimeContext *runtime.Context) *cobra.Command {
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the caldera version",
		Long:  "This command prints the current version of the caldera CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("caldera", Version)
			return nil
		},
	}

	return versionCmd
}
