package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/checker"
	"github.com/leozw/domain-intel/internal/config"
	"github.com/leozw/domain-intel/internal/core"
	"github.com/leozw/domain-intel/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	pipeline *checker.Pipeline
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string

	root := &cobra.Command{
		Use:          "lookup",
		Short:        "Run domain intelligence lookups from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			a.logger, err = logging.New(cfg.Log.Level, "console")
			if err != nil {
				return err
			}

			a.pipeline, err = checker.NewPipeline(cfg, a.logger, nil)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.pipeline != nil {
				return a.pipeline.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(a.analyzeCmd(), a.whoisCmd(), a.dnsCmd())
	return root
}

func (a *app) analyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <domain...>",
		Short: "Run the full analysis for one or more domains",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			failed := 0
			for _, domain := range args {
				analysis, err := a.pipeline.Analyzer.Analyze(ctx, domain)
				if err != nil {
					return fmt.Errorf("%s: %w", domain, err)
				}
				if !analysis.Success {
					failed++
				}

				if asJSON {
					if err := writeJSON(out, analysis); err != nil {
						return err
					}
					continue
				}
				printAnalysis(out, analysis)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d analyses failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func (a *app) whoisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whois <domain>",
		Short: "Resolve the WHOIS record of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := checker.NormalizeDomain(args[0])
			if domain == "" {
				return checker.ErrInvalidDomain
			}

			rec, err := a.pipeline.Whois.Resolve(cmd.Context(), domain)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func (a *app) dnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dns <domain>",
		Short: "Collect the DNS records of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := checker.NormalizeDomain(args[0])
			if domain == "" {
				return checker.ErrInvalidDomain
			}

			return writeJSON(cmd.OutOrStdout(), a.pipeline.DNS.Collect(cmd.Context(), domain))
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAnalysis(w io.Writer, a *core.DomainAnalysis) {
	fmt.Fprintf(w, "%s (%dms)\n", a.Domain, a.ProcessingTime)
	if !a.Success {
		fmt.Fprintf(w, "  error: %s\n\n", a.Error)
		return
	}

	s := a.Summary
	fmt.Fprintf(w, "  registrar:      %s (%s)\n", s.Registrar, s.RegistrarCategory)
	fmt.Fprintf(w, "  registrant:     %s\n", s.RegistrantCountry)
	fmt.Fprintf(w, "  created:        %s\n", s.CreationDate)
	fmt.Fprintf(w, "  expires:        %s\n", s.ExpirationDate)
	if s.PrivacyService != nil {
		fmt.Fprintf(w, "  privacy:        %s\n", *s.PrivacyService)
	}
	if s.PrivacyDomain != nil {
		fmt.Fprintf(w, "  privacy domain: %s\n", *s.PrivacyDomain)
	}
	if s.PrimaryIP != nil {
		fmt.Fprintf(w, "  primary ip:     %s\n", *s.PrimaryIP)
	}
	if len(s.NameServers) > 0 {
		fmt.Fprintf(w, "  name servers:   %s\n", strings.Join(s.NameServers, ", "))
	}
	fmt.Fprintf(w, "  flags:          %s\n", strings.Join(s.QuickAssessment.Flags, ", "))
	fmt.Fprintf(w, "  priority:       %s\n", s.QuickAssessment.Priority)
	fmt.Fprintf(w, "  recommendation: %s\n\n", s.QuickAssessment.Recommendation)
}
