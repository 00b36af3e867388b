package game

import (
	"fmt"

	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/stream"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/engine/worldgen"
	"github.com/memmaker/voxelengine/settings"
	"github.com/mlange-42/arche/ecs"
)

// VoxelPlugin generates the terrain, keeps chunk meshes current and drives the fly camera.
type VoxelPlugin struct {
	Settings settings.Settings
}

func (VoxelPlugin) Name() string { return "voxel" }

func (p VoxelPlugin) Build(a *app.App) {
	s := p.Settings
	chunkMap := voxel.NewChunkMap(s.ChunkSeed())
	opts := s.GeneratorOptions()
	opts.Seed = chunkMap.Seed()
	gen, err := worldgen.NewGenerator(s.World.Generator, opts)
	if err != nil {
		util.LogSystemError(fmt.Sprintf("%v, falling back to heightmap", err))
		gen = worldgen.NewHeightmapGenerator(opts.Seed, opts.Frequency)
	}
	mesher, err := voxel.NewMesher(s.Render.Mesher)
	if err != nil {
		util.LogSystemError(fmt.Sprintf("%v, falling back to greedy meshing", err))
		mesher = voxel.GreedyMesher{}
	}
	util.LogSystemInfo(fmt.Sprintf("seed %d, generator %s, mesher %s", chunkMap.Seed(), gen.Name(), mesher.Name()))

	terrain := &Terrain{
		Map:       chunkMap,
		Generator: gen,
		Mesher:    mesher,
		Cache:     stream.NewMeshCache(s.Render.MeshCacheSize),
		Entities:  make(map[voxel.Int3]ecs.Entity),
	}
	app.InsertResource(a, terrain)
	app.InsertResource(a, &Wireframe{Enabled: s.Render.Wireframe})
	app.InsertResource(a, &Diagnostics{Text: "FPS: N/A", Color: util.FPSColor(0, false)})
	place, err := s.PlaceBlock()
	if err != nil {
		util.LogSystemError(fmt.Sprintf("%v, placing dirt", err))
		place = voxel.Dirt
	}
	app.InsertResource(a, &BlockEditor{Place: place, Reach: s.Camera.Reach})
	if s.Stream.Enabled {
		streamer := stream.NewStreamer(gen, s.Stream.Workers, s.Stream.Queue)
		a.AddCleanup(streamer.Close)
		app.InsertResource(a, &StreamState{
			Streamer:     streamer,
			LoadRadius:   s.Stream.LoadRadius,
			UnloadRadius: s.Stream.UnloadRadius,
			Layers:       s.World.SizeY,
			MaxPerFrame:  s.Stream.MaxPerFrame,
		})
	}

	sys := newSystems(&a.World, s)
	a.AddSystem(app.Startup, "setup_camera", sys.setupCamera)
	a.AddSystem(app.Startup, "setup_terrain", sys.setupTerrain)

	a.AddSystem(app.Update, "process_keyboard", sys.processKeyboard)
	a.AddSystem(app.Update, "process_mouse", sys.processMouse)
	a.AddSystem(app.Update, "update_camera", sys.updateCamera)
	a.AddSystem(app.Update, "edit_blocks", sys.editBlocks)
	if s.Stream.Enabled {
		a.AddSystem(app.Update, "stream_chunks", sys.streamChunks)
	}
	a.AddSystem(app.Update, "toggle_wireframe", sys.toggleWireframe)
	a.AddSystem(app.Update, "exit_on_escape", exitOnEscape)

	a.AddSystem(app.PostUpdate, "remesh_chunks", sys.remeshChunks)
	a.AddSystem(app.PostUpdate, "update_fps", updateFPS)
	util.LogSystemDebug(fmt.Sprintf("update systems: %v", a.Systems(app.Update)))
}

// NewHeadlessApp builds an app with the voxel plugin and no window.
func NewHeadlessApp(s settings.Settings) *app.App {
	a := app.NewApp()
	a.AddPlugins(VoxelPlugin{Settings: s})
	return a
}

// systems holds the component handles shared by the voxel systems.
type systems struct {
	settings  settings.Settings
	chunkPos  app.Component[ChunkPosition]
	chunkData app.Component[ChunkData]
	chunkMesh app.Component[ChunkMesh]
	needsMesh app.Component[NeedsMesh]
	transform app.Component[Transform]
	camera    app.Component[Camera3D]
	fly       app.Component[FlyCamera]
	light     app.Component[PointLight]
}

func newSystems(w *ecs.World, s settings.Settings) *systems {
	return &systems{
		settings:  s,
		chunkPos:  app.NewComponent[ChunkPosition](w),
		chunkData: app.NewComponent[ChunkData](w),
		chunkMesh: app.NewComponent[ChunkMesh](w),
		needsMesh: app.NewComponent[NeedsMesh](w),
		transform: app.NewComponent[Transform](w),
		camera:    app.NewComponent[Camera3D](w),
		fly:       app.NewComponent[FlyCamera](w),
		light:     app.NewComponent[PointLight](w),
	}
}
