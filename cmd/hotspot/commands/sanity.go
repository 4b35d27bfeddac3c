package commands

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	hs "github.com/Galaxeaaa/HotSpot"
	"github.com/Galaxeaaa/HotSpot/history"
	_ "github.com/Galaxeaaa/HotSpot/losses"
	"github.com/Galaxeaaa/HotSpot/schedules"
	"github.com/Galaxeaaa/HotSpot/utils"
)

var (
	sanityShape  string
	sanityIters  int
	sanityPoints int
	sanityFrames int
	sanityVis    string
	sanityDB     string
	sanitySeed   int64
)

// SanityCmd fits a parametric circle field to an analytic 2-D shape by
// descending the composite loss with finite-difference gradients, the same
// way the full training stack would drive a network.
var SanityCmd = &cobra.Command{
	Use:   "sanity",
	Short: "Fit a parametric field to a 2-D shape",
	Long: `Fit a parametric circle field (center and radius) to an analytic 2-D
shape by gradient descent on the composite loss, with the heat weight and
heat lambda annealed over the run. Optionally renders distance-field frames
(sdf_*.png) and records the per-term history to sqlite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := shapeByName(sanityShape)
		if err != nil {
			return err
		}

		loss, err := hs.NewLoss(hs.LossConfig{
			Type:    hs.IGRHeat,
			Weights: hs.Weights{Boundary: 1e2, Eikonal: 5e1, Heat: 1e2},
		})
		if err != nil {
			return err
		}

		// hold the heat weight, then decay it over the last quarter; sharpen
		// lambda smoothly from 10 to 100
		heatSched, err := schedules.New("linear", 100, 0.75, 100, 0)
		if err != nil {
			return err
		}
		lambdaSched, err := schedules.New("quintic", 10, 100)
		if err != nil {
			return err
		}
		if _, err := loss.Bind(hs.ParamHeat, heatSched); err != nil {
			return err
		}
		if _, err := loss.Bind(hs.ParamHeatLambda, lambdaSched); err != nil {
			return err
		}

		var sink hs.HistorySink
		if sanityDB != "" {
			store, err := history.Open(sanityDB)
			if err != nil {
				return err
			}
			defer store.Close()
			sink = store
		}

		run, err := hs.NewRun(loss, sanityIters, sink)
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(sanitySeed))
		mnfld, err := hs.SurfaceSamples(target, sanityPoints, -1.2, 1.2, rng)
		if err != nil {
			return err
		}

		// center x, center y, radius
		params := []float64{0.2, -0.1, 0.3}
		lr := 2e-3

		frameEvery := 0
		if sanityFrames > 0 {
			frameEvery = sanityIters / sanityFrames
			if frameEvery == 0 {
				frameEvery = 1
			}
			if err := os.MkdirAll(sanityVis, 0700); err != nil {
				return errors.Wrapf(err, "Failed to create vis directory %q", sanityVis)
			}
		}

		frame := 0
		for iter := 0; iter < sanityIters; iter++ {
			nonmnfld := hs.UniformSamples(sanityPoints, 2, -1.2, 1.2, rng)

			res, err := run.Step(iter, circleBatch(params, mnfld, nonmnfld))
			if err != nil {
				return errors.Wrapf(err, "Step %d failed\n", iter)
			}

			// black-box parameter gradient of the already-annealed loss
			grad := make([]float64, len(params))
			const h = 1e-3
			for j := range params {
				params[j] += h
				hi := evalTotal(loss, params, mnfld, nonmnfld)
				params[j] -= 2 * h
				lo := evalTotal(loss, params, mnfld, nonmnfld)
				params[j] += h

				grad[j] = (hi - lo) / (2 * h)
			}
			for j := range params {
				params[j] -= lr * grad[j]
			}

			if frameEvery > 0 && iter%frameEvery == 0 {
				path := filepath.Join(sanityVis, fmt.Sprintf("sdf_%06d.png", frame))
				if err := renderField(circleField(params), path); err != nil {
					return err
				}
				frame++
			}

			if iter%500 == 0 {
				log.Printf("iter %6d: loss %.6f (boundary %.4f, eikonal %.4f, heat %.4f), lambda %.1f",
					iter, res.Total, res.Boundary, res.Eikonal, res.Heat, loss.HeatLambda())
			}
		}

		log.Printf("run %s done: center (%.4f, %.4f), radius %.4f", run.ID(), params[0], params[1], params[2])
		return nil
	},
}

func init() {
	SanityCmd.Flags().StringVar(&sanityShape, "shape", "circle", "target shape: circle, L, snowflake")
	SanityCmd.Flags().IntVar(&sanityIters, "iters", 5000, "training iterations")
	SanityCmd.Flags().IntVar(&sanityPoints, "points", 256, "samples per batch, on and off surface")
	SanityCmd.Flags().IntVar(&sanityFrames, "frames", 0, "number of distance-field frames to render (0 disables)")
	SanityCmd.Flags().StringVar(&sanityVis, "vis", "vis", "directory for rendered frames")
	SanityCmd.Flags().StringVar(&sanityDB, "db", "", "sqlite path for per-term history (empty disables)")
	SanityCmd.Flags().Int64Var(&sanitySeed, "seed", 1, "sampling seed")
}

func shapeByName(name string) (hs.Field, error) {
	switch name {
	case "circle":
		return hs.Circle2D(0.6), nil
	case "L":
		return hs.LShape2D(), nil
	case "snowflake":
		return hs.Snowflake2D(), nil
	}

	return nil, errors.Errorf("No shape %q (have circle, L, snowflake)", name)
}

func circleField(params []float64) hs.Field {
	return hs.Translate2D(hs.Circle2D(params[2]), params[0], params[1])
}

func circleBatch(params []float64, mnfld, nonmnfld [][]float64) hs.Batch {
	f := circleField(params)
	fd, _ := hs.NewFiniteDiff(f, 1e-3)

	mnfldPreds := make([]float64, len(mnfld))
	for i, p := range mnfld {
		mnfldPreds[i] = f.Eval(p)
	}

	nonmnfldPreds := make([]float64, len(nonmnfld))
	for i, p := range nonmnfld {
		nonmnfldPreds[i] = f.Eval(p)
	}

	return hs.Batch{
		MnfldPoints:    mnfld,
		MnfldPreds:     mnfldPreds,
		NonmnfldPoints: nonmnfld,
		NonmnfldPreds:  nonmnfldPreds,
		Diff:           fd,
	}
}

func evalTotal(loss *hs.Loss, params []float64, mnfld, nonmnfld [][]float64) float64 {
	res, err := loss.Evaluate(circleBatch(params, mnfld, nonmnfld))
	if err != nil {
		return math.Inf(1)
	}

	return res.Total
}

// renderField writes a 256x256 distance-field slice over [-1.2, 1.2]^2:
// negative distances in blue, positive in red, darkening near the surface.
func renderField(f hs.Field, path string) error {
	const side = 256
	g := utils.NewGrid([]int{side, side}, []float64{-1.2, -1.2}, []float64{1.2, 1.2})

	vals := make([]float64, g.Size())
	utils.MultiThread(0, g.Size(), func(i int) {
		vals[i] = f.Eval(g.Point(i))
	}, 64)

	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for i := 0; i < g.Size(); i++ {
		cell := g.Cell(i)
		d := vals[i]

		m := math.Exp(-4 * math.Abs(d))
		shade := uint8(255 * (1 - m))
		var c color.RGBA
		if d < 0 {
			c = color.RGBA{shade, shade, 255, 255}
		} else {
			c = color.RGBA{255, shade, shade, 255}
		}

		// image rows grow downward; flip y so the field reads upright
		img.SetRGBA(cell[0], side-1-cell[1], c)
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create frame %q", path)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return errors.Wrapf(err, "Failed to encode frame %q", path)
	}

	return nil
}
