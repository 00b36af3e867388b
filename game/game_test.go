package game

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/settings"
)

func testSettings() settings.Settings {
	s := settings.DefaultSettings()
	s.World.Seed = 1
	s.World.Generator = "flat"
	s.World.FlatLevel = 8
	s.World.SizeX, s.World.SizeY, s.World.SizeZ = 2, 1, 2
	s.Stream.Workers = 2
	return s
}

func vecNear(a, b mgl32.Vec3, tolerance float32) bool {
	return a.Sub(b).Len() < tolerance
}

func flyCamera(t *testing.T, a *app.App) *FlyCamera {
	t.Helper()
	fly := app.NewComponent[FlyCamera](&a.World)
	cams := fly.Entities()
	if len(cams) != 1 {
		t.Fatalf("expected one fly camera, got %d", len(cams))
	}
	return fly.Get(cams[0])
}

func TestStartupSpawnsMeshedChunks(t *testing.T) {
	a := NewHeadlessApp(testSettings())
	defer a.Close()
	a.Update(0)

	terrain := app.GetResource[Terrain](&a.World)
	if terrain.Map.Len() != 4 || len(terrain.Entities) != 4 {
		t.Fatalf("map has %d chunks, %d entities", terrain.Map.Len(), len(terrain.Entities))
	}
	needsMesh := app.NewComponent[NeedsMesh](&a.World)
	chunkMesh := app.NewComponent[ChunkMesh](&a.World)
	chunkPos := app.NewComponent[ChunkPosition](&a.World)
	for pos, e := range terrain.Entities {
		if needsMesh.Has(e) {
			t.Errorf("chunk %v still needs a mesh", pos)
		}
		m := chunkMesh.Get(e)
		if m == nil || m.Mesh.IsEmpty() || m.Version != 1 {
			t.Errorf("chunk %v has mesh %+v", pos, m)
		}
		if c, _ := terrain.Map.Chunk(pos); m != nil && m.Mesh.Origin != c.Origin() {
			t.Errorf("chunk %v mesh origin %v", pos, m.Mesh.Origin)
		}
		if chunkPos.Get(e).Int3 != pos {
			t.Errorf("entity position %v, expected %v", chunkPos.Get(e).Int3, pos)
		}
	}

	lights := app.NewComponent[PointLight](&a.World).Entities()
	if len(lights) != 1 {
		t.Fatalf("expected one light, got %d", len(lights))
	}
	light := app.NewComponent[PointLight](&a.World).Get(lights[0])
	if light.Intensity != 1500 || light.Range != 100 {
		t.Errorf("light %+v", light)
	}
	lightPos := app.NewComponent[Transform](&a.World).Get(lights[0]).Translation
	if lightPos != (mgl32.Vec3{4, 8, 4}) {
		t.Errorf("light at %v", lightPos)
	}
}

func TestCameraMovement(t *testing.T) {
	a := NewHeadlessApp(testSettings())
	defer a.Close()
	a.Update(0)
	fly := flyCamera(t, a)
	if !vecNear(fly.Front, mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Fatalf("front after first frame %v", fly.Front)
	}

	a.Input().Press(app.KeyW)
	a.Update(0)
	expected := mgl32.Vec3{3, 10, 9.5}
	if !vecNear(fly.Position, expected, 1e-4) {
		t.Errorf("position %v, expected %v", fly.Position, expected)
	}
	a.Input().Release(app.KeyW)

	a.Input().AddMouseMotion(50, 0)
	a.Update(0)
	if fly.Yaw != -80 {
		t.Errorf("yaw %v", fly.Yaw)
	}

	transforms := app.NewComponent[Transform](&a.World)
	cam := app.NewComponent[FlyCamera](&a.World).Entities()[0]
	transform := transforms.Get(cam)
	if transform.Translation != fly.Position {
		t.Errorf("transform %v does not follow camera %v", transform.Translation, fly.Position)
	}
	if !vecNear(transform.Forward(), fly.Front, 1e-3) {
		t.Errorf("transform forward %v, camera front %v", transform.Forward(), fly.Front)
	}
}

func TestBreakAndPlaceBlocks(t *testing.T) {
	a := NewHeadlessApp(testSettings())
	defer a.Close()
	a.Update(0)

	fly := flyCamera(t, a)
	fly.Position = mgl32.Vec3{5.5, 12.5, 5.5}
	fly.Pitch = -89

	terrain := app.GetResource[Terrain](&a.World)
	editor := app.GetResource[BlockEditor](&a.World)
	if terrain.Map.GlobalBlock(5, 7, 5) != voxel.Grass {
		t.Fatal("expected grass on top of the flat terrain")
	}

	a.Input().PressMouse(app.MouseLeft)
	a.Update(0)
	a.Input().ReleaseMouse(app.MouseLeft)
	if terrain.Map.GlobalBlock(5, 7, 5) != voxel.Air {
		t.Fatal("left click should break the targeted block")
	}
	if editor.LastHit.Side != voxel.YP || editor.Edits != 1 {
		t.Errorf("hit %+v, edits %d", editor.LastHit, editor.Edits)
	}
	e := terrain.Entities[voxel.Int3{}]
	if m := app.NewComponent[ChunkMesh](&a.World).Get(e); m == nil || m.Version != 2 {
		t.Errorf("edited chunk not remeshed: %+v", m)
	}

	a.Input().PressMouse(app.MouseRight)
	a.Update(0)
	if terrain.Map.GlobalBlock(5, 7, 5) != voxel.Dirt {
		t.Error("right click should place dirt in front of the hit block")
	}
	if editor.Edits != 2 {
		t.Errorf("edits %d", editor.Edits)
	}
}

func TestPlaceBlockFromSettings(t *testing.T) {
	s := testSettings()
	s.Camera.PlaceBlock = "Snow"
	a := NewHeadlessApp(s)
	defer a.Close()
	if place := app.GetResource[BlockEditor](&a.World).Place; place != voxel.Snow {
		t.Errorf("editor places %v", place)
	}
}

func TestWireframeToggle(t *testing.T) {
	a := NewHeadlessApp(testSettings())
	defer a.Close()
	wireframe := app.GetResource[Wireframe](&a.World)

	a.Input().Press(app.KeyT)
	a.Update(0)
	if !wireframe.Enabled {
		t.Fatal("T should enable the wireframe")
	}
	a.Update(0)
	if !wireframe.Enabled {
		t.Fatal("holding T must not toggle again")
	}
	a.Input().Release(app.KeyT)
	a.Input().Press(app.KeyT)
	a.Update(0)
	if wireframe.Enabled {
		t.Error("second press should disable the wireframe")
	}
}

func TestDiagnosticsText(t *testing.T) {
	a := NewHeadlessApp(testSettings())
	defer a.Close()
	diagnostics := app.GetResource[Diagnostics](&a.World)

	a.Update(0)
	if diagnostics.Text != "FPS: N/A" || diagnostics.Color != [4]float32{1, 1, 1, 1} {
		t.Errorf("diagnostics %q %v", diagnostics.Text, diagnostics.Color)
	}
	a.Update(10 * time.Millisecond)
	if diagnostics.Text != "FPS:  100" {
		t.Errorf("text %q", diagnostics.Text)
	}
}

func TestEscapeExits(t *testing.T) {
	a := NewHeadlessApp(testSettings())
	defer a.Close()
	if !a.Update(0) {
		t.Fatal("app stopped without input")
	}
	a.Input().Press(app.KeyEscape)
	if a.Update(0) {
		t.Error("escape should stop the app")
	}
}

func TestStreamingFollowsCamera(t *testing.T) {
	s := testSettings()
	s.World.SizeX, s.World.SizeZ = 0, 0
	s.Stream.Enabled = true
	s.Stream.LoadRadius = 1
	s.Stream.UnloadRadius = 2
	s.Stream.MaxPerFrame = 0
	a := NewHeadlessApp(s)
	defer a.Close()

	terrain := app.GetResource[Terrain](&a.World)
	state := app.GetResource[StreamState](&a.World)
	waitFor := func(cond func() bool) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for !cond() {
			if time.Now().After(deadline) {
				t.Fatalf("timed out: %d chunks loaded, %d pending", terrain.Map.Len(), state.Streamer.Pending())
			}
			a.Update(time.Millisecond)
			time.Sleep(time.Millisecond)
		}
	}

	waitFor(func() bool { return terrain.Map.Len() == 5 })
	for _, pos := range []voxel.Int3{{}, {X: 1}, {X: -1}, {Z: 1}, {Z: -1}} {
		if _, ok := terrain.Entities[pos]; !ok {
			t.Errorf("chunk %v not spawned", pos)
		}
	}

	fly := flyCamera(t, a)
	fly.Position = mgl32.Vec3{1000, 10, 1000}
	far := voxel.Int3{X: 31, Z: 31}
	waitFor(func() bool { return terrain.Map.ChunkExists(far) && state.Streamer.Pending() == 0 })
	if _, ok := terrain.Entities[voxel.Int3{}]; ok {
		t.Error("chunk at the origin should be unloaded")
	}
	if state.Unloaded < 5 || state.Center != far {
		t.Errorf("unloaded %d, center %v", state.Unloaded, state.Center)
	}
}

func TestStreamingCancelsDistantRequests(t *testing.T) {
	s := testSettings()
	s.World.SizeX, s.World.SizeZ = 0, 0
	s.Stream.Enabled = true
	s.Stream.LoadRadius = 1
	s.Stream.UnloadRadius = 2
	a := NewHeadlessApp(s)
	defer a.Close()
	a.Startup()

	state := app.GetResource[StreamState](&a.World)
	stale := voxel.Int3{X: 10}
	if !state.Streamer.Request(stale) {
		t.Fatal("request refused")
	}
	a.Update(time.Millisecond)
	if state.Streamer.IsPending(stale) || state.Cancelled != 1 {
		t.Errorf("request outside the load radius survived, cancelled %d", state.Cancelled)
	}
	if !state.Streamer.IsPending(voxel.Int3{}) && !app.GetResource[Terrain](&a.World).Map.ChunkExists(voxel.Int3{}) {
		t.Error("chunk under the camera was not requested")
	}
}

func TestTransformLookTo(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{})
	for _, dir := range []mgl32.Vec3{{1, 0, 0}, {0, 0, -1}, {0, 0, 1}, mgl32.Vec3{-0.3, -1, -1}.Normalize()} {
		tr.LookTo(dir, mgl32.Vec3{0, 1, 0})
		if !vecNear(tr.Forward(), dir, 1e-3) {
			t.Errorf("LookTo(%v) forward %v", dir, tr.Forward())
		}
	}
}

func TestCollectDrawListCullsChunks(t *testing.T) {
	a := NewHeadlessApp(testSettings())
	defer a.Close()
	if _, _, ok := CollectDrawList(&a.World); ok {
		t.Fatal("camera should not exist before startup")
	}
	a.Update(0)

	view, items, ok := CollectDrawList(&a.World)
	if !ok {
		t.Fatal("no camera")
	}
	visible := make(map[voxel.Int3]bool)
	for _, item := range items {
		visible[item.Pos] = true
		if item.Version != 1 || item.Mesh.IsEmpty() {
			t.Errorf("item %v version %d", item.Pos, item.Version)
		}
		want := mgl32.Vec4{float32(item.Pos.X * voxel.CHUNK_SIZE), 0, float32(item.Pos.Z * voxel.CHUNK_SIZE), 1}
		if got := item.Model.Col(3); got != want {
			t.Errorf("model translation of %v is %v, expected %v", item.Pos, got, want)
		}
	}
	if !visible[voxel.Int3{}] {
		t.Error("chunk in front of the camera was culled")
	}
	if visible[voxel.Int3{X: 1, Z: 1}] {
		t.Error("chunk behind and right of the camera was drawn")
	}
	if view.LightPosition != (mgl32.Vec3{4, 8, 4}) || view.LightRange != 100 {
		t.Errorf("light %v range %v", view.LightPosition, view.LightRange)
	}
	if view.Wireframe {
		t.Error("wireframe should start disabled")
	}
}
