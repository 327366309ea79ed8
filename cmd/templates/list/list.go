package list

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/calderanet/caldera-cli/cmd/create"
	"github.com/calderanet/caldera-cli/internal/config"
	"github.com/calderanet/caldera-cli/internal/runtime"
	"github.com/calderanet/caldera-cli/internal/templates"
	"github.com/calderanet/caldera-cli/internal/ui"
)

func New(runtimeContext *runtime.Context) *cobra.Command {
	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the templates available for create and add",
		Long: `List every template discovered in the configured template repositories.

Both repositories are synchronized before their catalogs are collected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := newHandler(runtimeContext)
			return handler.Execute(cmd.Context())
		},
	}

	return listCmd
}

type handler struct {
	log      *zerolog.Logger
	cfg      *config.Config
	baseDir  string
}

func newHandler(ctx *runtime.Context) *handler {
	return &handler{
		log:      ctx.Logger,
		cfg:      ctx.Config,
		baseDir:  ctx.BaseDir,
	}
}

func (h *handler) Execute(ctx context.Context) error {
	var projectCatalog, wasmCatalog []templates.Template

	// The two repositories are independent mirrors, refresh them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		catalog, err := create.SyncAndCollect(gctx, h.log, h.baseDir, h.cfg.ProjectTemplateRepository)
		if err != nil {
			return err
		}
		projectCatalog = catalog
		return nil
	})
	g.Go(func() error {
		catalog, err := create.SyncAndCollect(gctx, h.log, h.baseDir, h.cfg.WasmTemplateRepository)
		if err != nil {
			return err
		}
		wasmCatalog = catalog
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	ui.Title("Project templates")
	if len(projectCatalog) == 0 {
		ui.Dim("No project templates found")
	} else {
		ui.RenderTemplateTable(os.Stdout, projectCatalog)
	}

	fmt.Println()
	ui.Title("Contract templates")
	if len(wasmCatalog) == 0 {
		ui.Dim("No contract templates found")
	} else {
		ui.RenderTemplateTable(os.Stdout, wasmCatalog)
	}

	return nil
}
