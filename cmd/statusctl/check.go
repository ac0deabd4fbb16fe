package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/avatarctic/status-service/configs"
	"github.com/avatarctic/status-service/internal/app"
	"github.com/avatarctic/status-service/internal/core/domain/health"
	"github.com/avatarctic/status-service/internal/core/ports"
)

type checkOptions struct {
	jsonOutput bool
	strict     bool
}

func checkCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one status report and exit non-zero when the service is unhealthy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeCheck(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "also fail when the service is degraded")
	return cmd
}

func executeCheck(cmd *cobra.Command, opts *checkOptions) error {
	cfg, err := configs.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// keep stdout for the report
	logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())

	application, err := app.New(cfg, nil, logger)
	if err != nil {
		return fmt.Errorf("assembling status service: %w", err)
	}
	defer application.Close()

	return runCheck(cmd.Context(), cmd.OutOrStdout(), application.StatusService, opts)
}

func runCheck(ctx context.Context, out io.Writer, svc ports.StatusService, opts *checkOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	status := svc.Report(ctx)

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		writeTable(out, status)
	}

	switch {
	case status.Overall == health.StatusUnhealthy:
		return fmt.Errorf("service is %s", status.Overall)
	case opts.strict && status.Overall == health.StatusDegraded:
		return fmt.Errorf("service is %s", status.Overall)
	}
	return nil
}

func writeTable(out io.Writer, status *health.ServiceStatus) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBE\tREQUIRED\tHEALTHY\tLATENCY\tDETAIL")
	for _, r := range status.Results {
		fmt.Fprintf(w, "%s\t%t\t%t\t%s\t%s\n",
			r.Name,
			r.Required,
			r.Healthy,
			r.Latency.Round(time.Millisecond),
			r.Detail,
		)
	}
	w.Flush()
	fmt.Fprintf(out, "\nOVERALL: %s\n", status.Overall)
}
