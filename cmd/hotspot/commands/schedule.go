// Package commands provides CLI command implementations.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Galaxeaaa/HotSpot/schedules"
)

var (
	scheduleKernel  string
	scheduleParams  []float64
	scheduleIters   int
	scheduleSamples int
)

// ScheduleCmd tabulates a piecewise schedule over an iteration budget.
var ScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Tabulate an annealing schedule",
	Long: `Build a piecewise schedule from a flat (start, [fraction, value]*, end)
parameter list and print its value at evenly spaced iterations.

For example:

  hotspot schedule --kernel linear --params 100,0.5,100,0.75,0,0 --iters 10000

holds 100 for the first half of training, decays to 0 by three quarters, and
stays there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schedules.New(scheduleKernel, scheduleParams...)
		if err != nil {
			return err
		}

		fmt.Printf("kernel %s, control points:\n", s.TypeString())
		for _, cp := range s.Points() {
			fmt.Printf("  %8g at %.4f\n", cp.Val, cp.Frac)
		}

		fmt.Println()
		for i := 0; i <= scheduleSamples; i++ {
			iter := i * scheduleIters / scheduleSamples
			v, err := s.At(iter, scheduleIters)
			if err != nil {
				return err
			}

			fmt.Printf("%8d  %g\n", iter, v)
		}

		return nil
	},
}

func init() {
	ScheduleCmd.Flags().StringVar(&scheduleKernel, "kernel", "linear", "kernel: linear, quintic, step, none")
	ScheduleCmd.Flags().Float64SliceVar(&scheduleParams, "params", []float64{1, 0}, "flat (start, [fraction, value]*, end) list")
	ScheduleCmd.Flags().IntVar(&scheduleIters, "iters", 10000, "total iterations")
	ScheduleCmd.Flags().IntVar(&scheduleSamples, "samples", 20, "number of rows to print")
}
