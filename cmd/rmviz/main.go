// Command rmviz turns resource-monitor telemetry exports into PNG charts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iafilius/ResourceMonitorViz/src/charts"
	"github.com/iafilius/ResourceMonitorViz/src/config"
	"github.com/iafilius/ResourceMonitorViz/src/pipeline"
	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	experiments bool
	logLevel    string
	logFile     string
	dataDir     string
	metricsFile string
	noHints     bool
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "rmviz <input> [output_dir] | rmviz --experiments [output_dir]",
		Short: "Render resource-monitor telemetry as PNG charts",
		Long: `rmviz reads a monitoring export (.json) or an experiment export (.csv, or the
namespace-isolation .json) and writes one PNG per chart into the output directory.

Examples:
  rmviz output/monitor_output.json
  rmviz output/experiment3_cpu_throttling.csv /tmp/graphs
  rmviz --experiments
  RMVIZ_CHART_WIDTH=1400 rmviz --experiments output/graphs`,
		Version:       version,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if o.experiments {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd, o, args)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&o.experiments, "experiments", false, "visualize every known experiment export under the data directory")
	f.StringVar(&o.configPath, "config", "", "YAML config file")
	f.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&o.logFile, "log-file", "", "also log to this file (rotated)")
	f.StringVar(&o.dataDir, "data-dir", "", "where batch mode looks for experiment exports")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write run counters here in textfile-collector format")
	f.BoolVar(&o.noHints, "no-hints", false, "omit the hint footer under charts")
	return cmd
}

// resolveConfig loads file and environment settings, then lets flags and the output
// argument override them.
func resolveConfig(cmd *cobra.Command, o options, args []string) (*config.Config, error) {
	cfg, err := config.Load(o.configPath, nil)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.metricsFile != "" {
		cfg.MetricsFile = o.metricsFile
	}
	if cmd.Flags().Changed("no-hints") {
		cfg.Chart.NoHints = o.noHints
	}
	if out := outputArg(o, args); out != "" {
		cfg.OutputDir = out
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func outputArg(o options, args []string) string {
	switch {
	case o.experiments && len(args) == 1:
		return args[0]
	case !o.experiments && len(args) == 2:
		return args[1]
	}
	return ""
}

func run(cmd *cobra.Command, o options, args []string) error {
	cfg, err := resolveConfig(cmd, o, args)
	if err != nil {
		return err
	}
	telemetry.SetLogLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		telemetry.SetLogFile(cfg.LogFile)
	}
	defer telemetry.SyncLogger()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return &telemetry.IOError{Path: cfg.OutputDir, Err: err}
	}
	r := &charts.PNGRenderer{
		Dir:    cfg.OutputDir,
		Width:  cfg.Chart.Width,
		Height: cfg.Chart.Height,
		Hints:  !cfg.Chart.NoHints,
	}
	p := pipeline.New(r, nil, pipeline.Options{DataDir: cfg.DataDir, MemoryLimitMB: cfg.MemoryLimitMB})

	if o.experiments {
		res := p.RunAll()
		fmt.Fprintln(cmd.OutOrStdout(), pipeline.SummaryTable(res.Reports))
		if res.Succeeded == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No experiment exports found; "+pipeline.Guidance)
		}
	} else {
		rep, err := p.RunFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d chart(s) written to %s\n", len(rep.Charts), cfg.OutputDir)
	}
	return writeMetrics(p, cfg.MetricsFile)
}

func writeMetrics(p *pipeline.Pipeline, path string) error {
	if path == "" {
		return nil
	}
	if err := p.Metrics().WriteFile(path); err != nil {
		return &telemetry.IOError{Path: path, Err: err}
	}
	telemetry.Debugf("metrics written to %s", path)
	return nil
}
