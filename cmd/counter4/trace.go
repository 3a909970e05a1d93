// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/db47h/counter4/bench"
	"github.com/db47h/counter4/counter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	traceControl uint8
	traceData    uint8
	traceEdges   int
	traceWidth   int
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the output sequence for a control word",
	Long: `Trace resets the design, drives a fixed control word and prints the ` +
		`counter value after each edge.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if traceEdges < 0 {
			return errors.Errorf("invalid edge count %d", traceEdges)
		}
		bc, done, err := benchConfig()
		if err != nil {
			return err
		}
		defer done()
		if cmd.Flags().Changed("width") {
			bc.ControlWidth = traceWidth
		}
		b, err := bench.New(bc)
		if err != nil {
			return err
		}
		defer b.Close()

		ctl := counter.Decode(traceControl)
		b.Reset(0)
		b.SetControl(ctl)
		b.SetLoadData(traceData)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 1, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "edge\tcycle\ttime\tui_in\tuio_out\t\n")
		for i := 0; i < traceEdges; i++ {
			b.ClockCycles(1)
			s := b.Sample()
			fmt.Fprintf(w, "%d\t%d\t%v\t%#02x\t%d\t\n", s.Edge, s.Cycle, s.Time, s.Control, s.Output&counter.Mask)
		}
		return w.Flush()
	},
}

func init() {
	f := traceCmd.Flags()
	f.Uint8VarP(&traceControl, "control", "c", counter.Counting.Encode(), "control word {CLR, EP, CP, LP} (bits 3..0)")
	f.Uint8VarP(&traceData, "data", "d", 0, "load data on uio_in")
	f.IntVarP(&traceEdges, "edges", "n", 16, "number of edges after reset")
	f.IntVar(&traceWidth, "width", counter.Width, "control word width")
	rootCmd.AddCommand(traceCmd)
}
