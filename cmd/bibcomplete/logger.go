// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// newLogger builds the console logger from the -v/-s counts.
// Verbosity starts at warn; each -v steps toward trace and each -s
// toward silence, with -s winning ties.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	verbose, _ := cmd.Flags().GetCount("verbose")
	silent, _ := cmd.Flags().GetCount("silent")

	level := logLevel(verbose, silent)
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func logLevel(verbose, silent int) zerolog.Level {
	if silent > 0 {
		if silent > 1 {
			return zerolog.Disabled
		}
		return zerolog.ErrorLevel
	}
	switch verbose {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
