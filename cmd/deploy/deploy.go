package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/strcase"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calderanet/caldera-cli/internal/buildtool"
	"github.com/calderanet/caldera-cli/internal/constants"
	"github.com/calderanet/caldera-cli/internal/runtime"
	"github.com/calderanet/caldera-cli/internal/ui"
	"github.com/calderanet/caldera-cli/internal/validation"
	"github.com/calderanet/caldera-cli/internal/walletd"
)

const walletURLEnvVar = "CALDERA_WALLET_URL"

type Inputs struct {
	ContractDir string `validate:"omitempty" cli:"contract-dir"`
	BinaryPath  string `validate:"omitempty" cli:"binary"`
	Account     string `validate:"omitempty" cli:"account"`
	WalletURL   string `validate:"omitempty,url" cli:"wallet-url"`
	FeePerGram  uint64 `validate:"omitempty,min=1" cli:"fee-per-gram"`
	EnvFile     string `validate:"omitempty" cli:"env-file"`
	Yes         bool   `cli:"yes"`
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	var deployCmd = &cobra.Command{
		Use:   "deploy [contract-dir]",
		Short: "Build and deploy a smart contract template",
		Long: `Build a smart contract to WASM and register it through the wallet daemon.

The registration fee is estimated and checked against the wallet balance
before anything is published.`,
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

	deployCmd.Flags().String("binary", "", "Path to an already built WASM binary (skips the build step)")
	deployCmd.Flags().StringP("account", "a", "", "Wallet account to pay the registration fee from")
	deployCmd.Flags().StringP("wallet-url", "u", "", fmt.Sprintf("Wallet daemon JSON-RPC endpoint (default %s)", constants.DefaultWalletDaemonURL))
	deployCmd.Flags().Uint64P("fee-per-gram", "f", constants.DefaultFeePerGram, "Fee per gram offered for the registration transaction")
	deployCmd.Flags().StringP("env-file", "e", constants.DefaultEnvFileName, fmt.Sprintf("Path to %s file which contains sensitive info", constants.DefaultEnvFileName))
	deployCmd.Flags().BoolP("yes", "y", false, "Deploy without asking for confirmation")

	return deployCmd
}

type handler struct {
	log       *zerolog.Logger
	validated bool
}

func newHandler(ctx *runtime.Context) *handler {
	return &handler{
		log: ctx.Logger,
	}
}

func (h *handler) ResolveInputs(v *viper.Viper, args []string) (Inputs, error) {
	inputs := Inputs{
		ContractDir: ".",
		BinaryPath:  v.GetString("binary"),
		Account:     v.GetString("account"),
		WalletURL:   v.GetString("wallet-url"),
		FeePerGram:  v.GetUint64("fee-per-gram"),
		EnvFile:     v.GetString("env-file"),
		Yes:         v.GetBool("yes"),
	}
	if len(args) > 0 {
		inputs.ContractDir = args[0]
	}

	// Sensitive settings like the wallet endpoint may come from the env file.
	if err := godotenv.Load(inputs.EnvFile); err != nil && !os.IsNotExist(err) {
		return Inputs{}, fmt.Errorf("failed to load %s: %w", inputs.EnvFile, err)
	}
	if inputs.WalletURL == "" {
		inputs.WalletURL = os.Getenv(walletURLEnvVar)
	}
	if inputs.WalletURL == "" {
		inputs.WalletURL = constants.DefaultWalletDaemonURL
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

	binaryPath := inputs.BinaryPath
	if binaryPath == "" {
		built, err := h.buildContract(ctx, inputs.ContractDir)
		if err != nil {
			return err
		}
		binaryPath = built
	}

	client := walletd.NewClient(h.log, inputs.WalletURL)
	if err := client.Authenticate(ctx); err != nil {
		return fmt.Errorf("wallet daemon authentication failed: %w", err)
	}

	deployer := walletd.NewDeployer(h.log, client)
	binary, err := deployer.LoadBinary(binaryPath)
	if err != nil {
		return err
	}

	fee, err := deployer.RegistrationFee(ctx, binary, inputs.FeePerGram)
	if err != nil {
		return fmt.Errorf("fee estimation failed: %w", err)
	}

	if !inputs.Yes {
		ok, err := ui.Confirm(
			fmt.Sprintf("Deploying this template costs %d (fee per gram: %d)", fee, inputs.FeePerGram),
			"Continue with the deployment?",
		)
		if err != nil {
			return err
		}
		if !ok {
			ui.Warning("Deployment cancelled")
			return nil
		}
	}

	address, err := deployer.Deploy(ctx, binary, inputs.Account, inputs.FeePerGram)
	if err != nil {
		return err
	}

	ui.Success("Template deployed")
	ui.Bold(fmt.Sprintf("Template address: %s", address))
	return nil
}

func (h *handler) buildContract(ctx context.Context, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid contract directory %q: %w", dir, err)
	}
	if _, err := os.Stat(filepath.Join(abs, "Cargo.toml")); err != nil {
		return "", fmt.Errorf("%s does not look like a contract directory (no Cargo.toml)", abs)
	}

	builder := buildtool.NewBuilder(h.log)
	if err := builder.EnsureToolchain(); err != nil {
		return "", err
	}

	ui.Dim(fmt.Sprintf("Building %s", abs))
	// Cargo names the artifact after the crate, with dashes folded to
	// underscores.
	return builder.Build(ctx, abs, strcase.ToSnake(filepath.Base(abs)))
}
