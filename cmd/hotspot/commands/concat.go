package commands

import (
	"image/png"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	concatDir     string
	concatPattern string
	concatOut     string
	concatFPS     int
)

// ConcatCmd stitches a rendered PNG sequence into an MP4 by streaming the
// frames to ffmpeg.
var ConcatCmd = &cobra.Command{
	Use:   "concat",
	Short: "Concatenate PNG frames into an MP4 video",
	Long: `Find all frames matching the pattern in a directory, in name order, and
concatenate them into a video. Requires ffmpeg on PATH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := filepath.Glob(filepath.Join(concatDir, concatPattern))
		if err != nil {
			return errors.Wrapf(err, "Bad pattern %q", concatPattern)
		} else if len(files) == 0 {
			return errors.Errorf("No files matching %q in %q", concatPattern, concatDir)
		}

		sort.Strings(files)

		// decode the first frame up front so a bad sequence fails before ffmpeg
		// starts writing output
		first, err := os.Open(files[0])
		if err != nil {
			return errors.Wrapf(err, "Failed to open %q", files[0])
		}
		cfg, err := png.DecodeConfig(first)
		first.Close()
		if err != nil {
			return errors.Wrapf(err, "%q is not a PNG", files[0])
		}

		ffmpeg, err := exec.LookPath("ffmpeg")
		if err != nil {
			return errors.Errorf("ffmpeg not found on PATH; install it to write videos")
		}

		enc := exec.Command(ffmpeg, "-y",
			"-f", "image2pipe", "-vcodec", "png",
			"-r", strconv.Itoa(concatFPS), "-i", "-",
			"-an", "-vcodec", "libx264", "-pix_fmt", "yuv420p",
			concatOut)
		enc.Stderr = os.Stderr

		stdin, err := enc.StdinPipe()
		if err != nil {
			return errors.Wrapf(err, "Failed to open ffmpeg stdin")
		}

		if err := enc.Start(); err != nil {
			return errors.Wrapf(err, "Failed to start ffmpeg")
		}

		log.Printf("encoding %d frames (%dx%d) at %d fps", len(files), cfg.Width, cfg.Height, concatFPS)

		for _, file := range files {
			f, err := os.Open(file)
			if err != nil {
				stdin.Close()
				enc.Wait()
				return errors.Wrapf(err, "Failed to open frame %q", file)
			}

			_, err = io.Copy(stdin, f)
			f.Close()
			if err != nil {
				stdin.Close()
				enc.Wait()
				return errors.Wrapf(err, "Failed to stream frame %q", file)
			}
		}

		if err := stdin.Close(); err != nil {
			return errors.Wrapf(err, "Failed to close ffmpeg stdin")
		}
		if err := enc.Wait(); err != nil {
			return errors.Wrapf(err, "ffmpeg failed")
		}

		log.Printf("Video created: %s", concatOut)
		return nil
	},
}

func init() {
	ConcatCmd.Flags().StringVar(&concatDir, "dir", "vis", "directory holding the frames")
	ConcatCmd.Flags().StringVar(&concatPattern, "pattern", "sdf_*.png", "frame filename pattern")
	ConcatCmd.Flags().StringVar(&concatOut, "out", "out.mp4", "output video path")
	ConcatCmd.Flags().IntVar(&concatFPS, "fps", 6, "frames per second")
}
