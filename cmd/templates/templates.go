package templates

import (
	"github.com/spf13/cobra"

	"github.com/calderanet/caldera-cli/cmd/templates/list"
	"github.com/calderanet/caldera-cli/internal/runtime"
)

func New(runtimeContext *runtime.Context) *cobra.Command {
	var templatesCmd = &cobra.Command{
		Use:   "templates",
		Short: "Inspect the available templates",
	}

	templatesCmd.AddCommand(
		list.New(runtimeContext),
	)

	return templatesCmd
}
