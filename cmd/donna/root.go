package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/donna/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "donna.log"

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	backend    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "donna",
		Short: "Donna - a local-first assistant with specialist agents",
		Long: `Donna routes each request to a specialist agent (@coder or @sysadmin)
that works through tools on your machine. Reading is automatic; anything
destructive needs your confirmation first.

Run without arguments to start the interactive chat.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), a, chatOptions{})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", os.Getenv("DONNA_CONFIG"), "config file (default ~/.donna/config.yaml)")
	flags.StringVar(&a.backend, "backend", "", "model backend: ollama, groq or gemini")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newChatCmd(a),
		newRunCmd(a),
		newFeedbackCmd(a),
		newInfoCmd(a),
	)
	return rootCmd
}

// init loads the configuration and builds the logger.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.backend != "" {
		cfg.Backend = a.backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	logger, err := buildLogger(cfg.DataDir, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// buildLogger writes JSON logs to <dataDir>/donna.log, falling back to
// stderr when the directory cannot be created.
func buildLogger(dataDir string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o755); err == nil {
			path := filepath.Join(dataDir, logFileName)
			zc.OutputPaths = []string{path}
			zc.ErrorOutputPaths = []string{path}
		}
	}
	return zc.Build()
}
