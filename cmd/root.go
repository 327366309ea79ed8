package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calderanet/caldera-cli/cmd/add"
	"github.com/calderanet/caldera-cli/cmd/create"
	"github.com/calderanet/caldera-cli/cmd/deploy"
	"github.com/calderanet/caldera-cli/cmd/templates"
	"github.com/calderanet/caldera-cli/cmd/version"
	"github.com/calderanet/caldera-cli/internal/config"
	"github.com/calderanet/caldera-cli/internal/constants"
	"github.com/calderanet/caldera-cli/internal/logger"
	calruntime "github.com/calderanet/caldera-cli/internal/runtime"
	"github.com/calderanet/caldera-cli/internal/update"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCommand()

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootLogger := logger.NewConsoleLogger()
	rootViper := viper.New()
	runtimeContext := calruntime.NewContext(rootLogger, rootViper)

	// By defining a RunE we force PersistentPreRunE to execute even when
	// 'caldera' or 'caldera templates' is called with no subcommand.
	helpRunE := func(cmd *cobra.Command, args []string) error {
		if err := cmd.Help(); err != nil {
			return fmt.Errorf("fail to show help: %w", err)
		}
		return nil
	}

	rootCmd := &cobra.Command{
		Use:               "caldera",
		Short:             "Caldera smart contract CLI",
		Long:              `A command line tool for creating, building and deploying Caldera smart contract template projects.`,
		DisableAutoGenTag: true,
		RunE:              helpRunE,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := runtimeContext.Viper

			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if v.GetBool("verbose") {
				verboseLogger := runtimeContext.Logger.Level(zerolog.DebugLevel)
				runtimeContext.Logger = &verboseLogger
			}

			if !isLoadConfig(cmd) {
				return nil
			}

			if err := runtimeContext.AttachConfig(v.GetString("base-dir")); err != nil {
				return err
			}

			for _, override := range v.GetStringSlice("config-override") {
				key, value, err := config.ParseOverride(override)
				if err != nil {
					return err
				}
				if err := runtimeContext.Config.Override(key, value); err != nil {
					return err
				}
				runtimeContext.Logger.Debug().
					Str("key", key).
					Str("value", value).
					Msg("Configuration value overridden")
			}

			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			switch cmd.Name() {
			case "help", "bash", "zsh", "fish", "powershell":
				return
			}
			update.CheckForUpdates(version.Version, runtimeContext.Logger)
		},
	}

	rootCmd.PersistentFlags().StringP(
		"base-dir",
		"b",
		"",
		fmt.Sprintf("Path to the CLI data directory (default ~/%s)", constants.DefaultDataFolderName),
	)

	rootCmd.PersistentFlags().StringArrayP(
		"config-override",
		"c",
		nil,
		"Override a configuration value for this run (key=value, repeatable)",
	)

	rootCmd.PersistentFlags().BoolP(
		"verbose",
		"v",
		false,
		"Run command in VERBOSE mode",
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	createCmd := create.New(runtimeContext)
	addCmd := add.New(runtimeContext)
	deployCmd := deploy.New(runtimeContext)
	templatesCmd := templates.New(runtimeContext)
	versionCmd := version.New(runtimeContext)

	templatesCmd.RunE = helpRunE

	rootCmd.AddCommand(
		createCmd,
		addCmd,
		deployCmd,
		templatesCmd,
		versionCmd,
	)

	return rootCmd
}

func isLoadConfig(cmd *cobra.Command) bool {
	// Commands that never touch the data directory or the config file.
	var excludedCommands = map[string]struct{}{
		"caldera":    {},
		"templates":  {},
		"version":    {},
		"help":       {},
		"bash":       {},
		"fish":       {},
		"powershell": {},
		"zsh":        {},
	}

	_, exists := excludedCommands[cmd.Name()]
	return !exists
}
