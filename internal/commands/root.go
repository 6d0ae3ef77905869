// Package commands implements the CLI commands for sheetstack.
package commands

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sheetstack/internal/config"
	"sheetstack/internal/logger"
	"sheetstack/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "sheetstack",
	Short: "Compile a folder of billing spreadsheets into one CSV",
	Long: `Sheetstack ingests exported billing spreadsheets from a ready folder,
cleans away title and report-metadata rows, unions the sheets into a single
flat dataset tagged with source filenames, writes one combined CSV, and
archives the consumed inputs.

Running without a subcommand opens the interactive terminal UI.

Examples:
  # Interactive run against the default folders
  sheetstack

  # Headless run with a fixed output name
  sheetstack run --output monthly_report

  # Custom folder layout
  sheetstack run --ready exports/inbox --done exports/archive --output-dir reports`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		p := tea.NewProgram(ui.NewModel(cfg), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.sheetstack.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("json-logs", false, "emit logs as JSON")
	rootCmd.PersistentFlags().String("ready", "", "folder of spreadsheets to process")
	rootCmd.PersistentFlags().String("done", "", "archive folder for processed spreadsheets")
	rootCmd.PersistentFlags().String("output-dir", "", "folder for the combined CSV")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output filename (default: timestamped)")
	rootCmd.PersistentFlags().Float64("threshold", 0, "minimum fraction of non-empty cells for general cleaning")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	_ = viper.BindPFlag("ready_dir", rootCmd.PersistentFlags().Lookup("ready"))
	_ = viper.BindPFlag("done_dir", rootCmd.PersistentFlags().Lookup("done"))
	_ = viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("output_name", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("sparsity_threshold", rootCmd.PersistentFlags().Lookup("threshold"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".sheetstack")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SHEETSTACK")
	viper.AutomaticEnv()

	// Config file is optional
	_ = viper.ReadInConfig()
}

// setup initializes logging and resolves the configuration. Shared by the
// TUI and headless paths.
func setup() (config.Config, error) {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("json_logs"),
	})
	return config.Load(viper.GetViper())
}

// SetVersion wires build metadata into the root command.
func SetVersion(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"sheetstack " + version + "\ncommit: " + commit + "\nbuilt: " + date + "\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
