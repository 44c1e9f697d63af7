package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/foxzi/lexdraft/internal/app"
	"github.com/foxzi/lexdraft/internal/config"
)

var (
	cfgFile   string
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(buildVersion())); err != nil {
		os.Exit(1)
	}
}

// buildVersion returns the version with commit and build time when known
func buildVersion() string {
	if commit == "unknown" && buildTime == "unknown" {
		return version
	}
	short := commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, short, buildTime)
}

var rootCmd = &cobra.Command{
	Use:   "lexdraft",
	Short: "lexdraft - legal document assistant",
	Long: `lexdraft analyzes legal PDFs, answers questions about them and
generates formatted response drafts as Word documents.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Values already in the environment win over .env
		_ = godotenv.Load()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")

	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(serveCmd, configCmd)
}

// loadConfig reads the config file, or returns defaults when none is given
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(cmd.Context(), cfg, buildVersion())
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return application.Run(cmd.Context())
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("config file is required (use -c flag)")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration is valid\n")
	fmt.Fprintf(out, "  Hostname: %s\n", cfg.Server.Hostname)
	fmt.Fprintf(out, "  API: %s (tls: %v)\n", cfg.API.ListenAddr, cfg.HasTLS())
	fmt.Fprintf(out, "  LLM: %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  Drafts: %s (%s)\n", cfg.Drafts.Dir, cfg.Drafts.Backend)
	fmt.Fprintf(out, "  Sessions: %s\n", cfg.Session.Backend)
	if cfg.Templates.File != "" {
		fmt.Fprintf(out, "  Templates: %s (watch: %v)\n", cfg.Templates.File, cfg.Templates.Watch)
	}
	if cfg.RateLimit.Enabled {
		fmt.Fprintf(out, "  Rate limit: %s\n", describeLimits(cfg.RateLimit))
	}
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Metrics: %s%s\n", cfg.Metrics.ListenAddr, cfg.Metrics.Path)
	}

	return nil
}

func describeLimits(rl config.RateLimitConfig) string {
	var parts []string
	for _, l := range []struct {
		name string
		v    *config.LimitValues
	}{
		{"global", rl.Global},
		{"ip", rl.PerIP},
		{"session", rl.PerSession},
	} {
		if l.v != nil {
			parts = append(parts, fmt.Sprintf("%s %d/h %d/d", l.name, l.v.RequestsPerHour, l.v.RequestsPerDay))
		}
	}
	if len(parts) == 0 {
		return "no limits set"
	}
	return strings.Join(parts, ", ")
}
