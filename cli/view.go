package cli

import (
	"github.com/faiface/mainthread"
	"github.com/memmaker/voxelengine/client"
	"github.com/memmaker/voxelengine/game"
	"github.com/spf13/cobra"
)

func viewCmd(opts *options) *cobra.Command {
	var fullTitle string

	c := &cobra.Command{
		Use:   "view",
		Short: "Open a window and fly through the world (WASD, Space, Shift, T, F3, Esc)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := opts.settings
			a := game.NewHeadlessApp(s)
			defer a.Close()

			var err error
			mainthread.Call(func() {
				var viewer *client.Viewer
				viewer, err = client.NewViewer(a, fullTitle, s.Render.Width, s.Render.Height, s.Render.VSync)
				if err != nil {
					return
				}
				viewer.Run()
			})
			return err
		},
	}
	c.Flags().StringVar(&fullTitle, "title", "Voxel Engine", "window title")
	return c
}
