package client

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/memmaker/voxelengine/engine/app"
	"github.com/memmaker/voxelengine/engine/glhf"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/engine/voxel"
	"github.com/memmaker/voxelengine/game"
	"github.com/pkg/errors"
)

var (
	//go:embed shader/chunk.vert
	chunkVertexShaderSource string

	//go:embed shader/chunk.frag
	chunkFragmentShaderSource string
)

const (
	ShaderProjectionViewMatrix = iota
	ShaderModelMatrix
	ShaderLightPosition
	ShaderLightColor
	ShaderLightRange
)

type chunkBuffer struct {
	va      *glhf.VertexArray
	packed  *voxel.PackedBuffer
	mesh    *voxel.Mesh
	version uint64
}

// Viewer renders the chunk meshes of an app in a window and feeds window input into it.
// All methods must run on the main thread.
type Viewer struct {
	*util.GlApplication
	app            *app.App
	title          string
	chunkShader    *glhf.Shader
	buffers        map[voxel.Int3]*chunkBuffer
	lastMousePosX  float64
	lastMousePosY  float64
	mouseCaptured  bool
	firstMouse     bool
	wireframeShown bool
	drawnChunks    int
}

func NewViewer(a *app.App, title string, width, height int, vsync bool) (*Viewer, error) {
	window, terminateFunc, err := util.InitOpenGL(title, width, height, vsync)
	if err != nil {
		return nil, err
	}
	glApp := &util.GlApplication{
		WindowWidth:  width,
		WindowHeight: height,
		Window:       window,
	}
	v := &Viewer{
		GlApplication: glApp,
		app:           a,
		title:         title,
		buffers:       make(map[voxel.Int3]*chunkBuffer),
	}
	v.chunkShader, err = loadChunkShader()
	if err != nil {
		terminateFunc()
		return nil, err
	}
	v.TerminateFunc = func() {
		v.releaseBuffers()
		terminateFunc()
	}
	v.UpdateFunc = v.Update
	v.DrawFunc = v.Draw
	v.TitleFunc = v.Title
	v.KeyHandler = v.handleKeyEvents
	v.MousePosHandler = v.handleMousePosEvents
	v.MouseButtonHandler = v.handleMouseButtonEvents
	v.InstallCallbacks()
	v.setMouseCaptured(true)
	return v, nil
}

func loadChunkShader() (*glhf.Shader, error) {
	var (
		vertexFormat = glhf.AttrFormat{
			{Name: "compressedValue", Type: glhf.UInt},
		}
		uniformFormat = glhf.AttrFormat{
			glhf.Attr{Name: "projectionView", Type: glhf.Mat4},
			glhf.Attr{Name: "model", Type: glhf.Mat4},
			glhf.Attr{Name: "light_position", Type: glhf.Vec3},
			glhf.Attr{Name: "light_color", Type: glhf.Vec3},
			glhf.Attr{Name: "light_range", Type: glhf.Float},
		}
	)
	shader, err := glhf.NewShader(vertexFormat, uniformFormat, chunkVertexShaderSource, chunkFragmentShaderSource)
	if err != nil {
		return nil, errors.Wrap(err, "chunk shader")
	}
	return shader, nil
}

// Update advances the app by one frame. It returns false once the app requested an exit.
func (v *Viewer) Update(elapsed float64) bool {
	return v.app.Update(util.Elapsed(elapsed))
}

func (v *Viewer) Title() string {
	text := "FPS: N/A"
	if d := app.GetResource[game.Diagnostics](&v.app.World); d != nil {
		text = d.Text
	}
	return fmt.Sprintf("%s | %s | chunks: %d/%d", v.title, text, v.drawnChunks, len(v.buffers))
}

func (v *Viewer) Draw(elapsed float64) {
	view, items, ok := game.CollectDrawList(&v.app.World)
	if !ok {
		return
	}
	v.applyWireframe(view.Wireframe)

	v.chunkShader.Begin()
	v.chunkShader.SetUniformAttr(ShaderProjectionViewMatrix, view.ViewProjection)
	v.chunkShader.SetUniformAttr(ShaderLightPosition, view.LightPosition)
	v.chunkShader.SetUniformAttr(ShaderLightColor, view.LightColor)
	v.chunkShader.SetUniformAttr(ShaderLightRange, view.LightRange)

	v.drawnChunks = 0
	for _, item := range items {
		buffer := v.upload(item)
		if buffer == nil {
			continue
		}
		v.chunkShader.SetUniformAttr(ShaderModelMatrix, item.Model)
		buffer.va.Begin()
		buffer.va.Draw()
		buffer.va.End()
		v.drawnChunks++
	}
	v.chunkShader.End()

	v.releaseUnloaded()
	if err := util.CheckForGLError(); err != nil {
		util.LogGlError(err.Error())
	}
}

func (v *Viewer) applyWireframe(enabled bool) {
	if enabled == v.wireframeShown {
		return
	}
	v.wireframeShown = enabled
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		gl.Enable(gl.CULL_FACE)
	}
}

// upload returns the GPU buffer of a chunk, re-uploading when its mesh version changed.
func (v *Viewer) upload(item game.DrawItem) *chunkBuffer {
	buffer, ok := v.buffers[item.Pos]
	if ok && buffer.version == item.Version && buffer.mesh == item.Mesh {
		return buffer
	}
	if !ok {
		va, err := glhf.NewVertexArray(v.chunkShader)
		if err != nil {
			util.LogGlError(err.Error())
			return nil
		}
		buffer = &chunkBuffer{va: va, packed: voxel.NewPackedBuffer(voxel.Indexed)}
		v.buffers[item.Pos] = buffer
	}
	packed := buffer.packed
	if err := packed.PackMesh(item.Mesh); err != nil {
		util.LogGlWarning(fmt.Sprintf("skipping chunk %v: %v", item.Pos, err))
		return nil
	}
	buffer.va.Begin()
	buffer.va.SetData(packed.VertexData(), packed.Indices())
	buffer.va.End()
	buffer.version = item.Version
	buffer.mesh = item.Mesh
	util.LogGlDebug(fmt.Sprintf("uploaded chunk %v: %d triangles", item.Pos, packed.TriangleCount()))
	return buffer
}

// releaseUnloaded frees the buffers of chunks that no longer have an entity.
func (v *Viewer) releaseUnloaded() {
	terrain := app.GetResource[game.Terrain](&v.app.World)
	if terrain == nil {
		return
	}
	for pos, buffer := range v.buffers {
		if _, loaded := terrain.Entities[pos]; loaded {
			continue
		}
		buffer.va.Delete()
		delete(v.buffers, pos)
	}
}

func (v *Viewer) releaseBuffers() {
	for pos, buffer := range v.buffers {
		buffer.va.Delete()
		delete(v.buffers, pos)
	}
}
