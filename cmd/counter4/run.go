// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/db47h/counter4/bench"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run test scenarios",
	Long: `Run resets the design and runs the named scenarios, or all built-in ` +
		`scenarios if none is given. Each scenario runs on a fresh design. ` +
		`Built-in scenarios: count, count_clr, clear_toggle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ss := bench.Scenarios()
		if len(args) > 0 {
			ss = ss[:0]
			for _, n := range args {
				s, err := bench.Lookup(n)
				if err != nil {
					return err
				}
				ss = append(ss, s)
			}
		}
		bc, done, err := benchConfig()
		if err != nil {
			return err
		}
		defer done()
		ctx, cancel := signalContext(cmd)
		defer cancel()

		rs, err := bench.RunAll(ctx, bc, ss...)
		failed := 0
		w := cmd.OutOrStdout()
		for _, r := range rs {
			if r.Passed() {
				fmt.Fprintf(w, "PASS %-14s %3d edges %v\n", r.Scenario, r.Edges, r.Elapsed)
				continue
			}
			failed++
			fmt.Fprintf(w, "FAIL %-14s %v\n", r.Scenario, r.Err)
		}
		if err != nil {
			return err
		}
		if failed > 0 {
			return errors.Errorf("%d of %d scenarios failed", failed, len(rs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
