package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/affrel/config"
	"github.com/katalvlaran/affrel/normalform"
	"github.com/katalvlaran/affrel/ring"
)

const flagMatrix = "matrix"

func normalizeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the diagonal normal form T·A·S = D of a square matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := ring.New(v.GetInt("normalize." + flagWidth))
			if err != nil {
				return err
			}
			a, err := parseMatrix(r, v.GetString("normalize."+flagMatrix))
			if err != nil {
				return err
			}
			f, err := normalform.Normalize(r, a)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%sranks: %v\n", f, f.Ranks())
			return err
		},
	}

	flags := cmd.Flags()
	flags.Int(flagWidth, config.Default().Width, "word size w (arithmetic modulo 2^w)")
	flags.String(flagMatrix, "", `rows separated by ";", entries by ",", e.g. "1,2;3,4"`)
	_ = cmd.MarkFlagRequired(flagMatrix)
	bindFlags(v, "normalize.", flags, flagWidth, flagMatrix)

	return cmd
}

// parseMatrix reads "a,b;c,d" into a ring matrix. Entries may be negative.
func parseMatrix(r *ring.Ring, s string) (*ring.Matrix, error) {
	var rows [][]int64
	for i, line := range strings.Split(s, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var row []int64
		for j, field := range strings.Split(line, ",") {
			x, err := strconv.ParseInt(strings.TrimSpace(field), 0, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "matrix entry (%d,%d)", i, j)
			}
			row = append(row, x)
		}
		rows = append(rows, row)
	}
	m, err := r.FromRows(rows)
	if err != nil {
		return nil, errors.WithMessagef(err, "matrix %q", s)
	}
	return m, nil
}
