package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/gutterblame/internal/config"
)

var (
	configInitForce bool
	configInitUser  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the gutterblame config file",
	// Runs without the root setup so an invalid file can still be edited.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Write the default config file with every option and its default value.

By default the file is written to .gutterblame/config.yaml in the current
directory. Use --user for ~/.config/gutterblame/config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one option in the config file",
	Long: `Set one option in the config file in use, keeping comments and the order
of other entries. The value is validated before the file is written.

Examples:
  gutterblame config set label.max_width 30
  gutterblame config set color.mode plain
  gutterblame config set tracing.enabled true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every config key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.Keys(), "\n"))
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitUser, "user", false, "write the user config instead of the project config")

	configCmd.AddCommand(configInitCmd, configSetCmd, configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := config.ProjectConfigPath
	if configInitUser {
		dir := config.UserConfigDir()
		if dir == "" {
			return fmt.Errorf("cannot locate home directory")
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if fileExists(path) && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := strings.ToLower(args[0]), args[1]
	if err := validateValue(cfgPath, key, value); err != nil {
		return err
	}
	if err := config.SaveValue(cfgPath, key, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgPath)
	return nil
}

// validateValue loads path with key overridden and validates the result.
func validateValue(path, key, value string) error {
	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigFile(path)
	if fileExists(path) {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	v.Set(key, value)
	if _, err := config.Load(v); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
