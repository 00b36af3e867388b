package game

import (
	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/mlange-42/arche/ecs"
)

func (s *systems) toggleWireframe(w *ecs.World) {
	if !app.GetResource[app.Input](w).JustPressed(app.KeyT) {
		return
	}
	wireframe := app.GetResource[Wireframe](w)
	wireframe.Enabled = !wireframe.Enabled
	if wireframe.Enabled {
		util.LogSystemInfo("Wireframe enabled")
	} else {
		util.LogSystemInfo("Wireframe disabled")
	}
}

func updateFPS(w *ecs.World) {
	diagnostics := app.GetResource[Diagnostics](w)
	diagnostics.FPS.AddFrame(app.GetResource[app.Time](w).Delta)
	value, ok := diagnostics.FPS.Value()
	diagnostics.Text = "FPS: " + util.FormatFPS(value, ok)
	diagnostics.Color = util.FPSColor(value, ok)
}

func exitOnEscape(w *ecs.World) {
	if app.GetResource[app.Input](w).JustPressed(app.KeyEscape) {
		exit := app.GetResource[app.AppExit](w)
		exit.Requested = true
		exit.Reason = "escape pressed"
	}
}
