package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/engine/worldgen"
	"github.com/memmaker/voxelengine/settings"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// world is a generated or loaded chunk map together with the generator that fits it.
type world struct {
	Map       *voxel.ChunkMap
	Generator worldgen.Generator
	Solid     int
	Elapsed   time.Duration
}

// buildWorld generates the configured world size. A zero seed is resolved to a random one first.
func buildWorld(ctx context.Context, s settings.Settings) (*world, error) {
	chunkMap := voxel.NewChunkMap(s.ChunkSeed())
	opts := s.GeneratorOptions()
	opts.Seed = chunkMap.Seed()
	gen, err := worldgen.NewGenerator(s.World.Generator, opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	solid, err := worldgen.ParallelGenerateTerrain(ctx, chunkMap, gen, s.WorldSize(), s.Stream.Workers)
	if err != nil {
		return nil, err
	}
	return &world{Map: chunkMap, Generator: gen, Solid: solid, Elapsed: time.Since(start)}, nil
}

// loadWorld reads a map written by generate. The generator is rebuilt from the stored seed.
func loadWorld(path string, s settings.Settings) (*world, error) {
	var (
		chunkMap *voxel.ChunkMap
		err      error
	)
	if isNBT(path) {
		var f *os.File
		if f, err = os.Open(path); err != nil {
			return nil, errors.Wrap(err, "open map file")
		}
		defer f.Close()
		chunkMap, err = voxel.DecodeNBT(f)
	} else {
		chunkMap, err = voxel.LoadFromFile(path)
	}
	if err != nil {
		return nil, err
	}
	opts := s.GeneratorOptions()
	opts.Seed = chunkMap.Seed()
	gen, err := worldgen.NewGenerator(s.World.Generator, opts)
	if err != nil {
		return nil, err
	}
	return &world{Map: chunkMap, Generator: gen, Solid: chunkMap.SolidVoxelCount()}, nil
}

func isNBT(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".nbt")
}

// saveWorld writes the NBT format for .nbt files and the binary chunk format otherwise.
func saveWorld(path string, m *voxel.ChunkMap) error {
	if !isNBT(path) {
		return m.SaveToFile(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create map file")
	}
	if err := m.EncodeNBT(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close map file")
}

func generateCmd(opts *options) *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate the configured world and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := buildWorld(cmd.Context(), opts.settings)
			if err != nil {
				return err
			}
			rows := []row{
				{"seed", fmt.Sprint(w.Map.Seed())},
				{"generator", w.Generator.Name()},
				{"chunks", fmt.Sprint(w.Map.Len())},
				{"solid voxels", fmt.Sprint(w.Solid)},
				{"time", w.Elapsed.Round(time.Millisecond).String()},
			}
			if out != "" {
				if err := saveWorld(out, w.Map); err != nil {
					return err
				}
				util.LogIOInfo(fmt.Sprintf("saved map to %s", out))
				rows = append(rows, row{"saved to", out})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary("World generated", rows))
			return nil
		},
	}
	c.Flags().StringVarP(&out, "out", "o", "", "write the map to this file (.nbt for NBT, binary otherwise)")
	return c
}
