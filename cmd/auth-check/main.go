package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"quezon.gov.ph/portal/internal/config"
	"quezon.gov.ph/portal/internal/smoke"
	"quezon.gov.ph/portal/pkg/baas"
)

var errChecksFailed = errors.New("one or more checks failed")

func main() {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "auth-check [email] [password]",
		Short: "Sign in, inspect the session and roles, then sign out",
		Long: "Runs the sign-in flow against the hosted auth service. Credentials come from\n" +
			"the arguments, or SMOKE_EMAIL and SMOKE_PASSWORD when omitted. Role checks\n" +
			"need BAAS_SERVICE_ROLE_KEY and are skipped without it.",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password := os.Getenv("SMOKE_EMAIL"), os.Getenv("SMOKE_PASSWORD")
			if len(args) > 0 {
				email = args[0]
			}
			if len(args) > 1 {
				password = args[1]
			}

			cfg, err := config.LoadBaaS()
			if err != nil {
				return err
			}
			client, err := baas.New(cfg.URL, cfg.AnonKey, baas.WithServiceKey(cfg.ServiceRoleKey))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report := smoke.AuthCheck(ctx, client, email, password)
			if err := report.Print(cmd.OutOrStdout()); err != nil {
				return err
			}
			if report.Failed() {
				return errChecksFailed
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for all checks")

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			log.Printf("auth-check: %v", err)
		}
		os.Exit(1)
	}
}
