// Command affrel infers affine relations over Z/2^w for programs stored as
// YAML control-flow graphs, and exposes the matrix normal form used to
// cross-check the reduction algebra.
//
//	affrel analyze prog.yaml --width 8 --trace-generators
//	affrel normalize --width 8 --matrix "1,4,2;0,6,7;0,0,3"
//
// Every flag can also be set through an AFFREL_* environment variable, for
// example AFFREL_WIDTH=16 or AFFREL_TRACE_MATRICES=true. Flags of normalize
// carry the command name: AFFREL_NORMALIZE_WIDTH.
package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of environment variables mirroring flags.
const envPrefix = "AFFREL"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "affrel",
		Short:         "Affine relation analysis modulo 2^w",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(analyzeCmd(v))
	root.AddCommand(normalizeCmd(v))
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
