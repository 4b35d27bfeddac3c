// Package main provides the CLI entry point for hotspot.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Galaxeaaa/HotSpot/cmd/hotspot/commands"
)

var rootCmd = &cobra.Command{
	Use:   "hotspot",
	Short: "Composite losses and weight schedules for implicit-surface training",
	Long: `hotspot inspects and exercises the implicit-surface loss library.

It provides:
  - schedule: tabulate a piecewise annealing schedule over an iteration budget
  - sanity: fit a parametric field to an analytic 2-D shape with the
    composite loss, rendering distance-field frames as it goes
  - concat: stitch rendered PNG frames into an MP4 video`,
}

func main() {
	rootCmd.AddCommand(commands.ScheduleCmd, commands.SanityCmd, commands.ConcatCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
