package util

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/memmaker/voxelengine/engine/glhf"
	"github.com/pkg/errors"
)

// GlApplication drives a glfw window: it forwards input callbacks to the handlers and runs
// UpdateFunc and DrawFunc once per frame until the window closes or UpdateFunc returns false.
type GlApplication struct {
	Window             *glfw.Window
	TerminateFunc      func()
	UpdateFunc         func(elapsed float64) bool
	DrawFunc           func(elapsed float64)
	TitleFunc          func() string
	KeyHandler         func(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey)
	MousePosHandler    func(xpos float64, ypos float64)
	MouseButtonHandler func(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey)
	ScrollHandler      func(xoff float64, yoff float64)
	WindowWidth        int
	WindowHeight       int
	ticks              uint64
}

func (a *GlApplication) KeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if a.KeyHandler != nil {
		a.KeyHandler(key, scancode, action, mods)
	}
}

func (a *GlApplication) MousePosCallback(w *glfw.Window, xpos float64, ypos float64) {
	if a.MousePosHandler != nil {
		a.MousePosHandler(xpos, ypos)
	}
}

func (a *GlApplication) ScrollCallback(w *glfw.Window, xoff float64, yoff float64) {
	if a.ScrollHandler != nil {
		a.ScrollHandler(xoff, yoff)
	}
}

func (a *GlApplication) MouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if a.MouseButtonHandler != nil {
		a.MouseButtonHandler(button, action, mods)
	}
}

// FramebufferSizeCallback keeps the viewport and the stored window size in sync.
func (a *GlApplication) FramebufferSizeCallback(w *glfw.Window, width int, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	a.WindowWidth = width
	a.WindowHeight = height
}

// InstallCallbacks routes the window's glfw callbacks to this application.
func (a *GlApplication) InstallCallbacks() {
	a.Window.SetKeyCallback(a.KeyCallback)
	a.Window.SetCursorPosCallback(a.MousePosCallback)
	a.Window.SetMouseButtonCallback(a.MouseButtonCallback)
	a.Window.SetScrollCallback(a.ScrollCallback)
	a.Window.SetFramebufferSizeCallback(a.FramebufferSizeCallback)
}

func (a *GlApplication) Run() {
	if a.TerminateFunc != nil {
		defer a.TerminateFunc()
	}
	previousTime := glfw.GetTime()
	for !a.Window.ShouldClose() {
		gl.ClearColor(0.53, 0.81, 0.92, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		now := glfw.GetTime()
		elapsed := now - previousTime
		previousTime = now

		if a.UpdateFunc != nil && !a.UpdateFunc(elapsed) {
			a.Window.SetShouldClose(true)
		}
		if a.DrawFunc != nil {
			a.DrawFunc(elapsed)
		}

		if a.TitleFunc != nil && a.ticks%30 == 0 {
			a.Window.SetTitle(a.TitleFunc())
		}

		a.Window.SwapBuffers()
		glfw.PollEvents()
		a.ticks++
	}
}

// Elapsed converts the seconds passed to UpdateFunc into a duration.
func Elapsed(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// InitOpenGL creates a window with a 3.3 core context and loads the GL functions.
// It must be called on the main thread.
func InitOpenGL(title string, width, height int, vsync bool) (*glfw.Window, func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "glfw init")
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, errors.Wrap(err, "create window")
	}
	win.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := glhf.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, err
	}

	LogGlInfo(fmt.Sprintf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION))))

	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.DEPTH_TEST)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return win, glfw.Terminate, nil
}
