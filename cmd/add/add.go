package add

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

	"github.com/calderanet/caldera-cli/cmd/create"
	"github.com/calderanet/caldera-cli/internal/buildtool"
	"github.com/calderanet/caldera-cli/internal/config"
	"github.com/calderanet/caldera-cli/internal/constants"
	"github.com/calderanet/caldera-cli/internal/generator"
	"github.com/calderanet/caldera-cli/internal/runtime"
	"github.com/calderanet/caldera-cli/internal/ui"
	"github.com/calderanet/caldera-cli/internal/validation"
)

type Inputs struct {
	ContractName string `validate:"omitempty,project_name" cli:"contract-name"`
	TemplateID   string `validate:"omitempty,template_id" cli:"template"`
	ProjectDir   string `validate:"omitempty" cli:"project-dir"`
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	var addCmd = &cobra.Command{
		Use:   "add [contract-name]",
		Short: "Add a smart contract to an existing project",
		Long: `Add a new smart contract to an existing project from a WASM template.

The WASM template repository is synchronized first, then the chosen template
is instantiated under the project's templates directory.`,
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

	addCmd.Flags().StringP("template", "t", "", "ID of the WASM template to use")
	addCmd.Flags().StringP("project-dir", "p", "", "Path to the project root (default: discovered from the working directory)")

	return addCmd
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
		ProjectDir: v.GetString("project-dir"),
	}
	if len(args) > 0 {
		inputs.ContractName = args[0]
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

	projectRoot, err := resolveProjectRoot(inputs.ProjectDir)
	if err != nil {
		return err
	}

	contractName := inputs.ContractName
	if contractName == "" {
		answer, err := ui.Input("Contract name?", "my-contract")
		if err != nil {
			return err
		}
		contractName = strings.TrimSpace(answer)
		if err := validation.IsValidProjectName(contractName); err != nil {
			return err
		}
	}

	catalog, err := create.SyncAndCollect(ctx, h.log, h.baseDir, h.cfg.WasmTemplateRepository)
	if err != nil {
		return err
	}
	if len(catalog) == 0 {
		return fmt.Errorf("the WASM template repository contains no usable templates")
	}

	tmpl, err := create.PickTemplate(catalog, inputs.TemplateID)
	if err != nil {
		return err
	}

	// Templates can publish their preferred target subdirectory.
	targetSubDir := constants.DefaultTemplatesSubDir
	if sub, ok := tmpl.ExtraValue("templates_dir"); ok {
		targetSubDir = sub
	}

	gen := generator.New(h.log, map[string]string{
		"project_name":  contractName,
		"contract_name": contractName,
	})
	dest, err := gen.Generate(tmpl, filepath.Join(projectRoot, targetSubDir), contractName)
	if err != nil {
		return err
	}

	// The new crate only builds as part of the workspace once it is listed
	// in the root manifest.
	member := path.Join(filepath.ToSlash(targetSubDir), contractName)
	if err := buildtool.AddWorkspaceMember(filepath.Join(projectRoot, "Cargo.toml"), member); err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("Contract %s added at %s", contractName, dest))
	return nil
}

// resolveProjectRoot finds the enclosing project directory by walking up
// from the starting point until a Cargo workspace manifest is found.
func resolveProjectRoot(start string) (string, error) {
	dir := start
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("unable to get working directory: %w", err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid project directory %q: %w", dir, err)
	}

	for current := abs; ; {
		if _, err := os.Stat(filepath.Join(current, "Cargo.toml")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no project found in %s or any parent directory, run 'caldera create' first", abs)
		}
		current = parent
	}
}
