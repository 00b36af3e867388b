package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/game"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func simulateCmd(opts *options) *cobra.Command {
	var (
		frames   int
		dt       time.Duration
		duration time.Duration
		top      int
	)

	c := &cobra.Command{
		Use:   "simulate",
		Short: "Run the voxel plugin without a window and report system timings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dt <= 0 {
				return errors.New("--dt must be positive")
			}
			a := game.NewHeadlessApp(opts.settings)
			defer a.Close()

			if duration > 0 {
				ctx, cancel := context.WithTimeout(cmd.Context(), duration)
				defer cancel()
				if err := a.Run(ctx, dt); err != nil {
					return err
				}
			} else {
				a.RunFrames(frames, dt)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary("Simulation finished", simulationRows(a, top)))
			return nil
		},
	}
	c.Flags().IntVarP(&frames, "frames", "n", 60, "number of fixed frames to run")
	c.Flags().DurationVar(&dt, "dt", 16*time.Millisecond, "frame length")
	c.Flags().DurationVar(&duration, "duration", 0, "run in real time for this long instead of a fixed frame count")
	c.Flags().IntVar(&top, "top", 5, "number of slowest systems to list")
	return c
}

func simulationRows(a *app.App, top int) []row {
	rows := []row{
		{"frames", fmt.Sprint(a.Time().Frame)},
		{"simulated", a.Time().Elapsed.String()},
	}
	if terrain := app.GetResource[game.Terrain](&a.World); terrain != nil {
		rows = append(rows,
			row{"chunks", fmt.Sprint(terrain.Map.Len())},
			row{"entities", fmt.Sprint(len(terrain.Entities))},
		)
		hits, misses := terrain.Cache.Stats()
		rows = append(rows, row{"mesh cache", fmt.Sprintf("%d hits, %d misses", hits, misses)})
	}
	if d := app.GetResource[game.Diagnostics](&a.World); d != nil {
		rows = append(rows, row{"fps", d.Text})
	}
	timings := a.Timings()
	sort.SliceStable(timings, func(i, j int) bool { return timings[i].TotalDuration > timings[j].TotalDuration })
	if top > len(timings) {
		top = len(timings)
	}
	for _, t := range timings[:max(top, 0)] {
		rows = append(rows, row{t.Name, formatTiming(t)})
	}
	return rows
}

func formatTiming(t util.TimerState) string {
	return fmt.Sprintf("avg %.2fms, max %.2fms (%d runs)", t.AverageDuration(), t.MaxDuration, t.ExecutionCount)
}
