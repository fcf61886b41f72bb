package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/gutterblame/internal/annotator"
	"github.com/zjrosen/gutterblame/internal/config"
	"github.com/zjrosen/gutterblame/internal/git"
	"github.com/zjrosen/gutterblame/internal/log"
	"github.com/zjrosen/gutterblame/internal/render"
	"github.com/zjrosen/gutterblame/internal/tracing"
)

func init() {
	// Query the terminal background once, before any output, so adaptive
	// gutter colors resolve consistently.
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	cfgPath   string
	cfgErr    error

	logCleanup func()
	provider   *tracing.Provider
)

var rootCmd = &cobra.Command{
	Use:   "gutterblame",
	Short: "Per-line git blame annotations that follow your edits",
	Long: `gutterblame prints a file with a blame gutter showing the commit date and
author of every line. Edits replayed against the file shift annotations with
the lines they belong to, and edited lines lose their attribution until the
file is blamed again.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .gutterblame/config.yaml, then ~/.config/gutterblame/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also enabled by "+log.EnvDebug+")")
	rootCmd.PersistentFlags().String("format", "",
		"blame output format: porcelain or incremental")
	rootCmd.PersistentFlags().Int("max-width", 0,
		"gutter column cap in display columns")

	// Bind flags to viper
	_ = viper.BindPFlag("blame.format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("label.max_width", rootCmd.PersistentFlags().Lookup("max-width"))
}

func initConfig() {
	cfg, cfgPath, cfgErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig resolves and reads the config file into v.
//
// Lookup order:
//  1. explicit path (--config)
//  2. .gutterblame/config.yaml (current directory)
//  3. ~/.config/gutterblame/config.yaml (user config)
//
// When none exists a default is written to the project path. The returned
// path is where `config set` writes.
func loadConfig(v *viper.Viper, explicit string) (config.Config, string, error) {
	config.SetDefaults(v)

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(config.ProjectConfigPath):
		v.SetConfigFile(config.ProjectConfigPath)
	default:
		if dir := config.UserConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		// No config file found anywhere; create the default and carry on
		// with defaults if that fails too.
		if writeErr := config.WriteDefaultConfig(config.ProjectConfigPath); writeErr == nil {
			v.SetConfigFile(config.ProjectConfigPath)
			_ = v.ReadInConfig()
		}
	}

	path := v.ConfigFileUsed()
	if path == "" {
		path = config.ProjectConfigPath
	}

	c, err := config.Load(v)
	if err != nil {
		return config.Config{}, path, err
	}
	return c, path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func setup(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return fmt.Errorf("invalid configuration: %w", cfgErr)
	}

	if log.Enabled(debugFlag) {
		level, _ := log.ParseLevel(cfg.Log.Level)
		cleanup, err := log.Init(cfg.Log.File, level)
		if err != nil {
			return err
		}
		logCleanup = cleanup
		log.Info(log.CatConfig, "Config loaded", "path", cfgPath, "command", cmd.Name())
	}

	p, err := tracing.NewProvider(cmd.Context(), cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	provider = p
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "Tracing shutdown failed", err)
		}
		cancel()
		provider = nil
	}
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

// newAnnotator builds an annotator running git from the directory that holds
// file. It returns the path to blame relative to that directory.
func newAnnotator(file string) (*annotator.Annotator, string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", file, err)
	}

	opts, err := annotator.OptionsFromConfig(cfg, tracer())
	if err != nil {
		return nil, "", err
	}
	executor := git.NewRealExecutor(filepath.Dir(abs))
	return annotator.New(executor, opts), filepath.Base(abs), nil
}

// tracer returns the active tracer, or nil before setup has run.
func tracer() trace.Tracer {
	if provider == nil {
		return nil
	}
	return provider.Tracer()
}

// newRenderer builds a gutter renderer for cmd's output.
func newRenderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout())
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
