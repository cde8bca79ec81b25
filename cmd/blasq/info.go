package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/internal/version"
)

type infoOutput struct {
	Version    version.Info    `json:"version"`
	Kernels    string          `json:"kernels"`
	KernelSets []string        `json:"kernel_sets"`
	Layout     string          `json:"native_layout"`
	IntMax     int64           `json:"int_max"`
	ForkSize   int             `json:"default_fork_size"`
	GOMAXPROCS int             `json:"gomaxprocs"`
	Devices    []stream.Device `json:"devices"`
}

func infoCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "info",
		Usage: "Show kernel sets, devices and CPU features",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			set, err := kernelSet()
			if err != nil {
				return err
			}
			out := infoOutput{
				Version:    version.Resolve(),
				Kernels:    set.Name,
				KernelSets: kernel.Available(),
				Layout:     set.Layout.String(),
				IntMax:     set.IntMax,
				ForkSize:   stream.DefaultForkSize,
				GOMAXPROCS: runtime.GOMAXPROCS(0),
				Devices:    stream.Devices(),
			}
			if asJSON {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(os.Stdout, string(data))
				return err
			}

			fmt.Printf("blasq %s\n", out.Version)
			fmt.Printf("Kernels:   %s (available: %s)\n", out.Kernels, strings.Join(out.KernelSets, ", "))
			fmt.Printf("Layout:    %s\n", out.Layout)
			fmt.Printf("Int max:   %d\n", out.IntMax)
			fmt.Printf("Fork size: %d (default)\n", out.ForkSize)
			fmt.Printf("GOMAXPROCS: %d\n", out.GOMAXPROCS)
			fmt.Println()
			fmt.Printf("Devices (%d):\n", len(out.Devices))
			for _, d := range out.Devices {
				fmt.Printf("  %s\n", d)
				if features := d.FeatureList(); len(features) > 0 {
					fmt.Printf("    features: %s\n", strings.Join(features, " "))
				}
			}
			return nil
		},
	}
}
