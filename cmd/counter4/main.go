// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command counter4 runs the 4-bit counter testbench.
//
//	counter4 run [scenario...]    run the built-in scenarios
//	counter4 trace                print the output sequence for a control word
//	counter4 serve                serve the monitor API
//
// Settings are read from .env files and COUNTER4_* environment variables and
// can be overridden with flags.
//
package main

import "github.com/tebeka/atexit"

func main() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
