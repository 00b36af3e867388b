package settings

import (
	"os"

	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/engine/worldgen"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings contains everything that can be configured for the engine and its tools.
type Settings struct {
	World       World
	Camera      Camera
	Render      Render
	Stream      Stream
	Log         Log
	Diagnostics Diagnostics
}

type World struct {
	// Seed of the terrain noise. Zero picks a random seed on every start.
	Seed      int64
	Generator string
	Frequency float64
	FlatLevel int32
	// Size is the number of chunks generated at startup along each axis.
	SizeX, SizeY, SizeZ int32
}

type Camera struct {
	Sensitivity float32
	Speed       float32
	FOV         float32
	Reach       float32
	// PlaceBlock is the block type placed with the right mouse button.
	PlaceBlock string
}

type Render struct {
	Mesher        string
	Wireframe     bool
	Width, Height int
	VSync         bool
	MeshCacheSize int
}

// Stream controls loading chunks around the camera after startup.
type Stream struct {
	Enabled      bool
	Workers      int
	Queue        int
	LoadRadius   int32
	UnloadRadius float32
	MaxPerFrame  int
}

type Log struct {
	Level      string
	Categories []string
}

type Diagnostics struct {
	// StatsviewAddr enables the runtime stats viewer when non-empty.
	StatsviewAddr string
	SentryDSN     string
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.World.Seed = 0
	s.World.Generator = "heightmap"
	s.World.Frequency = worldgen.DefaultFrequency
	s.World.FlatLevel = 8
	s.World.SizeX, s.World.SizeY, s.World.SizeZ = 3, 1, 3

	s.Camera.Sensitivity = 0.2
	s.Camera.Speed = 0.5
	s.Camera.FOV = 45
	s.Camera.Reach = 8
	s.Camera.PlaceBlock = "dirt"

	s.Render.Mesher = voxel.MeshGreedy
	s.Render.Width, s.Render.Height = 1280, 720
	s.Render.VSync = true
	s.Render.MeshCacheSize = 256

	s.Stream.Enabled = false
	s.Stream.Workers = 0
	s.Stream.Queue = 16
	s.Stream.LoadRadius = 4
	s.Stream.UnloadRadius = 6
	s.Stream.MaxPerFrame = 4

	s.Log.Level = "info"
	s.Log.Categories = []string{"all"}
	return s
}

// ChunkSeed returns the seed to hand to NewChunkMap.
func (s Settings) ChunkSeed() uint64 {
	return uint64(s.World.Seed)
}

func (s Settings) WorldSize() voxel.Int3 {
	return voxel.Int3{X: s.World.SizeX, Y: s.World.SizeY, Z: s.World.SizeZ}
}

func (s Settings) GeneratorOptions() worldgen.Options {
	return worldgen.Options{Seed: s.ChunkSeed(), Frequency: s.World.Frequency, FlatLevel: s.World.FlatLevel}
}

// PlaceBlock parses Camera.PlaceBlock. Air cannot be placed.
func (s Settings) PlaceBlock() (voxel.BlockType, error) {
	block, err := voxel.ParseBlockType(s.Camera.PlaceBlock)
	if err != nil {
		return voxel.Air, errors.Wrap(ErrInvalidSettings, err.Error())
	}
	if !block.IsSolid() {
		return voxel.Air, errors.Wrapf(ErrInvalidSettings, "cannot place %v", block)
	}
	return block, nil
}

// Validate checks ranges and names and reports the first problem found.
func (s Settings) Validate() error {
	switch {
	case s.World.SizeX < 0 || s.World.SizeY < 0 || s.World.SizeZ < 0:
		return errors.Wrap(ErrInvalidSettings, "world size must not be negative")
	case s.World.Frequency <= 0:
		return errors.Wrap(ErrInvalidSettings, "noise frequency must be positive")
	case s.Camera.Sensitivity <= 0 || s.Camera.Speed <= 0:
		return errors.Wrap(ErrInvalidSettings, "camera sensitivity and speed must be positive")
	case s.Camera.FOV <= 0 || s.Camera.FOV >= 180:
		return errors.Wrapf(ErrInvalidSettings, "field of view %v out of range", s.Camera.FOV)
	case s.Render.Width <= 0 || s.Render.Height <= 0:
		return errors.Wrap(ErrInvalidSettings, "window size must be positive")
	case s.Stream.LoadRadius < 0 || s.Stream.UnloadRadius < float32(s.Stream.LoadRadius):
		return errors.Wrap(ErrInvalidSettings, "unload radius must not be smaller than the load radius")
	}
	if _, err := worldgen.NewGenerator(s.World.Generator, s.GeneratorOptions()); err != nil {
		return errors.Wrap(ErrInvalidSettings, err.Error())
	}
	if _, err := voxel.NewMesher(s.Render.Mesher); err != nil {
		return errors.Wrap(ErrInvalidSettings, err.Error())
	}
	if _, err := s.PlaceBlock(); err != nil {
		return err
	}
	return nil
}

// SaveDefault creates the default settings file. It fails when the file already exists.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("settings file %s already exists", path)
	}
	return Save(path, DefaultSettings())
}

func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed encoding settings")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed writing settings file")
	}
	return nil
}

// Load reads the settings file at path, creating it with the defaults when it
// does not exist. Keys missing from the file keep their default values.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveDefault(path); err != nil {
			return Settings{}, err
		}
		return DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "error reading settings")
	}
	s := DefaultSettings()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(err, "error decoding settings")
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
