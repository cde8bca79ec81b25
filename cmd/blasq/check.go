package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blasq/internal/logger"
	"github.com/samcharles93/blasq/internal/selfcheck"
	"github.com/samcharles93/blasq/pkg/blas"
)

func checkCmd() *cli.Command {
	var (
		size         int
		seed         int64
		precisions   string
		asJSON       bool
		failuresOnly bool
	)

	return &cli.Command{
		Name:  "check",
		Usage: "Verify every operation against the native layout in all precisions",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "size",
				Usage:       "row count of the test matrices",
				Value:       selfcheck.DefaultSize,
				Destination: &size,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "random seed",
				Value:       1,
				Destination: &seed,
			},
			&cli.StringFlag{
				Name:        "precisions",
				Aliases:     []string{"p"},
				Usage:       "comma separated precisions to check (s, d, c, z)",
				Destination: &precisions,
			},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "failures", Usage: "only list failed scenarios", Destination: &failuresOnly},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			set, err := kernelSet()
			if err != nil {
				return err
			}
			domains, err := parseDomains(precisions)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if size < 1 {
				return cli.Exit("error: --size must be positive", 1)
			}

			log.Info("running self check", "kernels", set.Name, "size", size, "seed", seed)
			report, err := selfcheck.Run(ctx, selfcheck.Options{
				Kernels: set,
				Size:    size,
				Seed:    uint64(seed),
				Domains: domains,
				Logger:  log,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: self check: %v", err), 1)
			}

			if asJSON {
				data, err := report.JSON()
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(os.Stdout, string(data)); err != nil {
					return err
				}
			} else if err := report.WriteText(os.Stdout, failuresOnly); err != nil {
				return err
			}
			if !report.OK() {
				return cli.Exit(fmt.Sprintf("self check failed: %d of %d scenarios", report.Failed, len(report.Results)), 1)
			}
			return nil
		},
	}
}

func parseDomains(s string) ([]blas.Domain, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []blas.Domain
	for _, part := range strings.Split(s, ",") {
		d, err := blas.ParseDomain(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
