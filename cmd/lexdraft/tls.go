package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/foxzi/lexdraft/internal/config"
	lexTLS "github.com/foxzi/lexdraft/internal/tls"
)

var tlsCmd = &cobra.Command{
	Use:   "tls",
	Short: "TLS certificate commands",
}

var tlsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show TLS certificate status",
	RunE:  runTLSStatus,
}

func init() {
	tlsCmd.AddCommand(tlsStatusCmd)
	rootCmd.AddCommand(tlsCmd)
}

func runTLSStatus(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("config file is required (use -c flag)")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	tlsCfg := cfg.API.TLS

	if tlsCfg.ACME.Enabled {
		fmt.Fprintln(out, "TLS via ACME (Let's Encrypt):")
		fmt.Fprintf(out, "  Email: %s\n", tlsCfg.ACME.Email)
		fmt.Fprintf(out, "  Domains: %s\n", strings.Join(tlsCfg.ACME.Domains, ", "))
		fmt.Fprintf(out, "  Cache: %s\n", tlsCfg.ACME.CacheDir)
		return nil
	}

	if tlsCfg.CertFile == "" {
		fmt.Fprintln(out, "TLS is not configured")
		return nil
	}

	info, err := lexTLS.GetCertificateInfo(tlsCfg.CertFile)
	if err != nil {
		return fmt.Errorf("failed to read certificate: %w", err)
	}

	status := "OK"
	switch {
	case info.Expired():
		status = "EXPIRED"
	case info.DaysLeft < 14:
		status = "EXPIRING SOON"
	}

	fmt.Fprintln(out, "TLS Certificate (manual):")
	fmt.Fprintf(out, "  File: %s\n", tlsCfg.CertFile)
	fmt.Fprintf(out, "  Subject: %s\n", info.Subject)
	fmt.Fprintf(out, "  Issuer: %s\n", info.Issuer)
	if len(info.DNSNames) > 0 {
		fmt.Fprintf(out, "  DNS names: %s\n", strings.Join(info.DNSNames, ", "))
	}
	fmt.Fprintf(out, "  Valid from: %s\n", info.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(out, "  Valid until: %s\n", info.NotAfter.Format(time.RFC3339))
	fmt.Fprintf(out, "  Days left: %d\n", info.DaysLeft)
	fmt.Fprintf(out, "  Status: %s\n", status)
	return nil
}
