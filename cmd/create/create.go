package create

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calderanet/caldera-cli/internal/buildtool"
	"github.com/calderanet/caldera-cli/internal/config"
	"github.com/calderanet/caldera-cli/internal/constants"
	"github.com/calderanet/caldera-cli/internal/generator"
	"github.com/calderanet/caldera-cli/internal/gitrepo"
	"github.com/calderanet/caldera-cli/internal/runtime"
	"github.com/calderanet/caldera-cli/internal/templates"
	"github.com/calderanet/caldera-cli/internal/ui"
	"github.com/calderanet/caldera-cli/internal/validation"
)

type Inputs struct {
	ProjectName string `validate:"omitempty,project_name" cli:"project-name"`
	TemplateID  string `validate:"omitempty,template_id" cli:"template"`
	TargetDir   string `validate:"omitempty" cli:"target-dir"`
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	var createCmd = &cobra.Command{
		Use:   "create [project-name]",
		Short: "Create a new smart contract project",
		Long: `Create a new smart contract project from a project template.

The project template repository is synchronized first, then the chosen
template is instantiated into a new directory named after the project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := newHandler(runtimeContext)

			inputs, err := handler.ResolveInputs(runtimeContext.Viper, args)
			if err != nil {
				return err
			}
			if err := handler.ValidateInputs(inputs); err != nil {
				return err
			}
			return handler.Execute(cmd.Context(), inputs)
		},
	}

	createCmd.Flags().StringP("template", "t", "", "ID of the project template to use")
	createCmd.Flags().StringP("target-dir", "o", ".", "Directory the project is created under")

	return createCmd
}

type handler struct {
	log       *zerolog.Logger
	cfg       *config.Config
	baseDir   string
	validated bool
}

func newHandler(ctx *runtime.Context) *handler {
	return &handler{
		log:      ctx.Logger,
		cfg:      ctx.Config,
		baseDir:  ctx.BaseDir,
	}
}

func (h *handler) ResolveInputs(v *viper.Viper, args []string) (Inputs, error) {
	inputs := Inputs{
		TemplateID: v.GetString("template"),
		TargetDir:  v.GetString("target-dir"),
	}
	if len(args) > 0 {
		inputs.ProjectName = args[0]
	}
	return inputs, nil
}

func (h *handler) ValidateInputs(inputs Inputs) error {
	validator, err := validation.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to create validator: %w", err)
	}

	if err := validator.Struct(inputs); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	h.validated = true
	return nil
}

func (h *handler) Execute(ctx context.Context, inputs Inputs) error {
	if !h.validated {
		return fmt.Errorf("handler inputs not validated")
	}

	projectName := inputs.ProjectName
	if projectName == "" {
		answer, err := ui.Input("Project name?", "my-contract")
		if err != nil {
			return err
		}
		projectName = strings.TrimSpace(answer)
		if err := validation.IsValidProjectName(projectName); err != nil {
			return err
		}
	}

	catalog, err := SyncAndCollect(ctx, h.log, h.baseDir, h.cfg.ProjectTemplateRepository)
	if err != nil {
		return err
	}
	if len(catalog) == 0 {
		return fmt.Errorf("the project template repository contains no usable templates")
	}

	tmpl, err := PickTemplate(catalog, inputs.TemplateID)
	if err != nil {
		return err
	}

	gen := generator.New(h.log, map[string]string{
		"project_name": projectName,
	})
	dest, err := gen.Generate(tmpl, inputs.TargetDir, projectName)
	if err != nil {
		return err
	}

	if err := gitrepo.New(h.log, dest).Init(ctx); err != nil {
		return err
	}

	if seedList, ok := tmpl.ExtraValue("init_wasm_templates"); ok {
		if err := h.seedContracts(ctx, dest, seedList); err != nil {
			return err
		}
	}

	ui.Success(fmt.Sprintf("Project %s created at %s", projectName, dest))
	ui.Dim("Next steps:")
	ui.Code(fmt.Sprintf("  cd %s", filepath.Base(dest)))
	ui.Code("  caldera add")
	return nil
}

// seedContracts pre-generates the WASM templates a project template asks for
// through its init_wasm_templates extra key (comma-separated template ids).
func (h *handler) seedContracts(ctx context.Context, projectDir, list string) error {
	catalog, err := SyncAndCollect(ctx, h.log, h.baseDir, h.cfg.WasmTemplateRepository)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(projectDir, "Cargo.toml")
	for _, id := range strings.Split(list, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		tmpl, ok := templates.FindByID(catalog, id)
		if !ok {
			ui.Warning(fmt.Sprintf("WASM template %q not found, skipping", id))
			continue
		}

		gen := generator.New(h.log, map[string]string{
			"project_name":  id,
			"contract_name": id,
		})
		if _, err := gen.Generate(tmpl, filepath.Join(projectDir, constants.DefaultTemplatesSubDir), id); err != nil {
			return err
		}

		// Not every project template is a Cargo workspace.
		if _, err := os.Stat(manifestPath); err == nil {
			member := path.Join(constants.DefaultTemplatesSubDir, id)
			if err := buildtool.AddWorkspaceMember(manifestPath, member); err != nil {
				return err
			}
		}
	}
	return nil
}

// SyncAndCollect refreshes a template repository mirror and gathers the
// templates published under its configured folder.
func SyncAndCollect(ctx context.Context, log *zerolog.Logger, baseDir string, repo config.TemplateRepository) ([]templates.Template, error) {
	sync := gitrepo.NewSynchronizer(log, baseDir)
	if _, err := sync.Sync(ctx, repo); err != nil {
		return nil, fmt.Errorf("failed to synchronize %s: %w", repo.URL, err)
	}

	mirror, err := sync.MirrorPath(repo)
	if err != nil {
		return nil, err
	}

	collector := templates.NewCollector(log, filepath.Join(mirror, repo.Folder))
	catalog, err := collector.Collect()
	if err != nil {
		return nil, err
	}
	if skipped := collector.Skipped(); skipped > 0 {
		ui.Warning(fmt.Sprintf("Skipped %d template(s) with invalid descriptors", skipped))
	}
	return catalog, nil
}

// PickTemplate resolves the template either from an explicit id or by
// prompting the user to choose one.
func PickTemplate(catalog []templates.Template, id string) (templates.Template, error) {
	if id != "" {
		tmpl, ok := templates.FindByID(catalog, id)
		if !ok {
			return templates.Template{}, fmt.Errorf("template %q not found, available: %s", id, strings.Join(templates.IDs(catalog), ", "))
		}
		return tmpl, nil
	}
	return ui.SelectTemplate("Which template would you like to use?", catalog)
}
