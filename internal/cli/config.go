package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"econ-data-pipeline/internal/config"
)

var configOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration to a YAML file",
	RunE:  runConfigGenerate,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration",
	RunE:  runConfigValidate,
}

func init() {
	configGenerateCmd.Flags().StringVarP(&configOutput, "output", "o", "pipeline.yaml", "Output file path")
	configCmd.AddCommand(configGenerateCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGenerate(cmd *cobra.Command, _ []string) error {
	if err := config.SaveConfig(config.DefaultConfig(), configOutput); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", configOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	years := cfg.Years.Range(time.Now())
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %d countries, %d indicators, years %d-%d\n",
		len(cfg.Countries), len(cfg.Indicators), years.Min, years.Max)
	return nil
}
