package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/calderanet/caldera-cli/internal/config"
	"github.com/calderanet/caldera-cli/internal/constants"
)

// Context carries the shared dependencies of every subcommand: the logger,
// the flag store and the resolved CLI configuration.
type Context struct {
	Logger  *zerolog.Logger
	Viper   *viper.Viper
	Config  *config.Config
	BaseDir string
}

func NewContext(logger *zerolog.Logger, viper *viper.Viper) *Context {
	return &Context{
		Logger: logger,
		Viper:  viper,
	}
}

// AttachConfig resolves the CLI data directory and loads the configuration
// file inside it, creating both with defaults on first run.
func (ctx *Context) AttachConfig(baseDir string) error {
	resolved, err := resolveBaseDir(baseDir)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrInit(filepath.Join(resolved, constants.DefaultConfigFileName))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx.BaseDir = resolved
	ctx.Config = cfg
	return nil
}

func resolveBaseDir(baseDir string) (string, error) {
	if baseDir != "" {
		abs, err := filepath.Abs(baseDir)
		if err != nil {
			return "", fmt.Errorf("invalid base directory %q: %w", baseDir, err)
		}
		return abs, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine home directory: %w", err)
	}
	return filepath.Join(home, constants.DefaultDataFolderName), nil
}
