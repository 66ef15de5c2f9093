package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"doctrans/config"
	"doctrans/internal/logger"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string

	// appFs is the filesystem commands read from.
	appFs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "doctrans",
	Short: "Translate Python docstrings between reST, Google and numpydoc",
	Long: `doctrans parses Python docstrings written in reST (Sphinx), Google or
numpydoc style into one intermediate representation, and renders that
representation back out in any of the three styles.

Example usage:
  doctrans parse func.txt            # Print the IR of a docstring as JSON
  doctrans convert --to google -     # Rewrite a docstring read from stdin
  doctrans sniff func.txt            # Report which style a docstring uses
  doctrans scan ./src                # Parse every docstring in a source tree`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if err := logger.Initialize(cfg.Logging.Level, cfg.Logging.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Logger.Debugw("config loaded", logger.FieldPath, rootDir, "style", cfg.Parse.Style)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./doctrans.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "project directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
