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
		Use:           "system-check",
		Short:         "Check backend configuration, auth health and table reachability",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadBaaS()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client, err := baas.New(cfg.URL, cfg.AnonKey, baas.WithServiceKey(cfg.ServiceRoleKey))
			if err != nil {
				log.Printf("cannot build backend client: %v", err)
				client = nil
			}

			report := smoke.SystemCheck(ctx, smoke.Env{
				URL:        cfg.URL,
				AnonKey:    cfg.AnonKey,
				ServiceKey: cfg.ServiceRoleKey,
			}, client)
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
			log.Printf("system-check: %v", err)
		}
		os.Exit(1)
	}
}
