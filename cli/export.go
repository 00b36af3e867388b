package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/memmaker/voxelengine/engine/export"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func exportCmd(opts *options) *cobra.Command {
	var in string

	c := &cobra.Command{
		Use:   "export",
		Short: "Export a world as terrain text, glTF binary or heightmap image",
	}
	c.PersistentFlags().StringVarP(&in, "in", "i", "", "read the world from a map file instead of generating it")

	source := func(ctx context.Context) (*world, error) {
		if in != "" {
			return loadWorld(in, opts.settings)
		}
		return buildWorld(ctx, opts.settings)
	}

	c.AddCommand(&cobra.Command{
		Use:   "terrain <out.txt>",
		Short: "Write one x,y,z,solid line per voxel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := source(cmd.Context())
			if err != nil {
				return err
			}
			worldMap := voxel.NewWorldMap()
			worldMap.CollectVoxels(w.Map)
			if err := export.WriteTerrainMapFile(args[0], worldMap); err != nil {
				return err
			}
			util.LogIOInfo(fmt.Sprintf("wrote %d voxels to %s", worldMap.Len(), args[0]))
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary("Terrain map exported", []row{
				{"voxels", fmt.Sprint(worldMap.Len())},
				{"solid", fmt.Sprint(w.Solid)},
				{"file", args[0]},
			}))
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "glb <out.glb>",
		Short: "Mesh every chunk and write a binary glTF scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := source(cmd.Context())
			if err != nil {
				return err
			}
			mesher, err := voxel.NewMesher(opts.settings.Render.Mesher)
			if err != nil {
				return err
			}
			nodes, err := export.SaveGLB(args[0], w.Map, mesher)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary("glTF exported", []row{
				{"mesher", mesher.Name()},
				{"chunks", fmt.Sprint(w.Map.Len())},
				{"nodes", fmt.Sprint(nodes)},
				{"file", args[0]},
			}))
			return nil
		},
	})

	c.AddCommand(heightmapCmd(source))
	return c
}

func heightmapCmd(source func(context.Context) (*world, error)) *cobra.Command {
	var (
		x0, z0       int32
		width, depth int
		scale        int
	)
	c := &cobra.Command{
		Use:   "heightmap <out.png>",
		Short: "Render the generator's column heights as a grayscale PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || depth <= 0 || scale <= 0 {
				return errors.New("width, depth and scale must be positive")
			}
			w, err := source(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return errors.Wrap(err, "create heightmap file")
			}
			if err := export.WriteHeightmapPNG(f, w.Generator, x0, z0, width, depth, scale); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, "close heightmap file")
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary("Heightmap exported", []row{
				{"generator", w.Generator.Name()},
				{"area", fmt.Sprintf("%dx%d at (%d,%d)", width, depth, x0, z0)},
				{"size", fmt.Sprintf("%dx%d px", width*scale, depth*scale)},
				{"file", args[0]},
			}))
			return nil
		},
	}
	c.Flags().Int32Var(&x0, "x", 0, "first world x column")
	c.Flags().Int32Var(&z0, "z", 0, "first world z column")
	c.Flags().IntVar(&width, "width", int(voxel.CHUNK_SIZE)*4, "columns along x")
	c.Flags().IntVar(&depth, "depth", int(voxel.CHUNK_SIZE)*4, "columns along z")
	c.Flags().IntVar(&scale, "scale", 2, "pixels per column")
	return c
}
