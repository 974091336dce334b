package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/affrel/analysis"
	"github.com/katalvlaran/affrel/config"
	"github.com/katalvlaran/affrel/loader"
	"github.com/katalvlaran/affrel/logging"
)

const (
	flagConfig          = "config"
	flagWidth           = "width"
	flagEntry           = "entry"
	flagTraceMatrices   = "trace-matrices"
	flagTraceGenerators = "trace-generators"
	flagOutput          = "output"
)

func analyzeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze PROGRAM.yaml",
		Short: "Compute generator sets for every reachable node of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			return runAnalyze(cmd, v, cfg, args[0])
		},
	}

	flags := cmd.Flags()
	flags.String(flagConfig, "", "TOML configuration file")
	flags.Int(flagWidth, config.Default().Width, "word size w (arithmetic modulo 2^w)")
	flags.String(flagEntry, config.Default().Entry, "procedure to analyze")
	flags.Bool(flagTraceMatrices, false, "log every transition matrix")
	flags.Bool(flagTraceGenerators, false, "log every generator set change")
	flags.StringP(flagOutput, "o", "text", "output format: text or yaml")
	bindFlags(v, "", flags, flagConfig, flagWidth, flagEntry, flagTraceMatrices, flagTraceGenerators, flagOutput)

	return cmd
}

// bindFlags binds each named flag of fs to the viper key prefix+name.
func bindFlags(v *viper.Viper, prefix string, fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := v.BindPFlag(prefix+name, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// resolveConfig layers defaults, the optional config file, then flags and
// environment variables that were explicitly set.
func resolveConfig(v *viper.Viper) (config.Config, error) {
	cfg := config.Default()
	if path := v.GetString(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if v.IsSet(flagWidth) {
		cfg.Width = v.GetInt(flagWidth)
	}
	if v.IsSet(flagEntry) {
		cfg.Entry = v.GetString(flagEntry)
	}
	if v.IsSet(flagTraceMatrices) {
		cfg.Trace.Matrices = v.GetBool(flagTraceMatrices)
	}
	if v.IsSet(flagTraceGenerators) {
		cfg.Trace.Generators = v.GetBool(flagTraceGenerators)
	}
	return cfg, cfg.Validate()
}

func runAnalyze(cmd *cobra.Command, v *viper.Viper, cfg config.Config, path string) error {
	format := v.GetString(flagOutput)
	if format != "text" && format != "yaml" {
		return errors.Errorf("unknown output format %q", format)
	}

	logger, err := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	prog, err := loader.Load(path)
	if err != nil {
		return err
	}
	a, err := analysis.New(cfg.Width, prog.NumVars(),
		analysis.WithEntry(cfg.Entry),
		analysis.WithObserver(analysis.NewLogObserver(logger, cfg.Trace.Matrices, cfg.Trace.Generators)),
	)
	if err != nil {
		return err
	}
	res, err := a.Run(prog)
	if err != nil {
		return errors.WithMessage(err, path)
	}
	logger.Debug("analysis finished",
		zap.String("program", path),
		zap.Int("edges", res.Stats.Edges),
		zap.Int("pops", res.Stats.Pops),
		zap.Int("accepted", res.Stats.Accepted),
	)

	rep := newReport(a.Ring(), prog, res)
	if format == "yaml" {
		return rep.writeYAML(cmd.OutOrStdout())
	}
	return rep.writeText(cmd.OutOrStdout())
}
