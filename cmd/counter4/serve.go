// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/db47h/counter4/bench"
	"github.com/db47h/counter4/monitor"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the monitor API",
	Long: `Serve resets the design and exposes it through an HTTP API until ` +
		`interrupted. See package monitor for the endpoints.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		bc, done, err := benchConfig()
		if err != nil {
			return err
		}
		defer done()
		b, err := bench.New(bc)
		if err != nil {
			return err
		}
		defer b.Close()
		b.Reset(0)

		l, url, err := monitor.Listen(serveAddr)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Monitoring counter with %s/api/state\n", url)
		if serveOpen {
			if err = browser.OpenURL(url + "/api/state"); err != nil {
				log.Error(err, "open browser")
			}
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()
		return monitor.New(b, log).Serve(ctx, l)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:0", "listen address")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the state endpoint in a browser")
	rootCmd.AddCommand(serveCmd)
}
